package jobs

import (
	"context"
	"fmt"

	"github.com/harborstay/harborstay/internal/bookings"
	"github.com/harborstay/harborstay/internal/guests"
)

// GuestDirectory resolves guest contact details for notifications.
type GuestDirectory interface {
	Get(ctx context.Context, id string) (guests.Guest, error)
}

// BookingNotifier queues guest-facing booking mail.
type BookingNotifier struct {
	client *Client
	guests GuestDirectory
}

// NewBookingNotifier constructs a BookingNotifier.
func NewBookingNotifier(client *Client, directory GuestDirectory) *BookingNotifier {
	return &BookingNotifier{client: client, guests: directory}
}

// BookingConfirmed enqueues a confirmation email. Guests without an email
// address are skipped silently.
func (n *BookingNotifier) BookingConfirmed(ctx context.Context, booking bookings.Booking) error {
	guest, err := n.guests.Get(ctx, booking.GuestID)
	if err != nil {
		return err
	}
	if guest.Email == "" {
		return nil
	}
	_, err = n.client.EnqueueSendEmail(ctx, SendEmailPayload{
		To:      guest.Email,
		Subject: fmt.Sprintf("Booking %s confirmed", booking.Reference),
		Body: fmt.Sprintf("Dear %s, your stay from %s to %s is confirmed. Reference: %s.",
			guest.FullName(),
			booking.CheckInDate.Format("2 January 2006"),
			booking.CheckOutDate.Format("2 January 2006"),
			booking.Reference),
	})
	return err
}

var _ bookings.Notifier = (*BookingNotifier)(nil)
