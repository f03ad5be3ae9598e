package bookings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/harborstay/harborstay/internal/shared"
)

type stubRepo struct {
	byID map[string]Booking
}

func newStubRepo() *stubRepo {
	return &stubRepo{byID: map[string]Booking{}}
}

func (r *stubRepo) List(_ context.Context, filter ListFilter) ([]Booking, int, error) {
	var out []Booking
	for _, b := range r.byID {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		out = append(out, b)
	}
	return out, len(out), nil
}

func (r *stubRepo) Get(_ context.Context, id string) (Booking, error) {
	b, ok := r.byID[id]
	if !ok {
		return Booking{}, fmt.Errorf("bookings: booking %q: %w", id, shared.ErrNotFound)
	}
	return b, nil
}

func (r *stubRepo) Insert(_ context.Context, b Booking) error {
	r.byID[b.ID] = b
	return nil
}

func (r *stubRepo) Update(_ context.Context, b Booking) error {
	if _, ok := r.byID[b.ID]; !ok {
		return fmt.Errorf("bookings: booking %q: %w", b.ID, shared.ErrNotFound)
	}
	r.byID[b.ID] = b
	return nil
}

func (r *stubRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("bookings: booking %q: %w", id, shared.ErrNotFound)
	}
	delete(r.byID, id)
	return nil
}

func (r *stubRepo) Overlapping(_ context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (bool, error) {
	for _, b := range r.byID {
		if b.ID == excludeID || b.RoomID != roomID {
			continue
		}
		if b.Status == StatusCancelled || b.Status == StatusNoShow {
			continue
		}
		if b.CheckInDate.Before(checkOut) && b.CheckOutDate.After(checkIn) {
			return true, nil
		}
	}
	return false, nil
}

type notifierSpy struct {
	confirmed []string
}

func (n *notifierSpy) BookingConfirmed(_ context.Context, b Booking) error {
	n.confirmed = append(n.confirmed, b.ID)
	return nil
}

func newTestService(t *testing.T) (*Service, *stubRepo, *notifierSpy) {
	t.Helper()
	repo := newStubRepo()
	notifier := &notifierSpy{}
	svc := NewService(repo, nil, notifier, slog.Default())
	return svc, repo, notifier
}

func stayInput(roomID string, inDay, outDay int) CreateInput {
	return CreateInput{
		RoomID:       roomID,
		GuestID:      "guest-1",
		CheckInDate:  time.Date(2026, 9, inDay, 0, 0, 0, 0, time.UTC),
		CheckOutDate: time.Date(2026, 9, outDay, 0, 0, 0, 0, time.UTC),
		Adults:       2,
		BaseRate:     120,
		TotalAmount:  480,
		Commission:   48,
		TourismFee:   20,
		VAT:          24,
	}
}

func TestCreateBooking(t *testing.T) {
	svc, repo, _ := newTestService(t)

	booking, err := svc.Create(context.Background(), stayInput("room-1", 10, 14))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(booking.Reference, "BK-"))
	require.Equal(t, StatusPending, booking.Status)
	require.Equal(t, PaymentPending, booking.PaymentStatus)
	require.Equal(t, 4, booking.Nights())
	require.InDelta(t, 388, booking.NetToOwner, 0.001)
	require.Len(t, repo.byID, 1)
}

func TestCreateRejectsInvalidStay(t *testing.T) {
	svc, _, _ := newTestService(t)

	input := stayInput("room-1", 14, 10)
	_, err := svc.Create(context.Background(), input)
	require.ErrorIs(t, err, shared.ErrValidation)

	input = stayInput("room-1", 10, 10)
	_, err = svc.Create(context.Background(), input)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateRejectsOverlap(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, stayInput("room-1", 10, 14))
	require.NoError(t, err)

	_, err = svc.Create(ctx, stayInput("room-1", 12, 16))
	require.ErrorIs(t, err, shared.ErrDuplicate)

	// Back to back stays share a boundary day and do not conflict.
	_, err = svc.Create(ctx, stayInput("room-1", 14, 18))
	require.NoError(t, err)

	// Another room is unaffected.
	_, err = svc.Create(ctx, stayInput("room-2", 12, 16))
	require.NoError(t, err)
}

func TestCancelledBookingFreesRoom(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, stayInput("room-1", 10, 14))
	require.NoError(t, err)
	_, err = svc.Transition(ctx, first.ID, StatusCancelled)
	require.NoError(t, err)

	_, err = svc.Create(ctx, stayInput("room-1", 10, 14))
	require.NoError(t, err)
}

func TestStatusTransitions(t *testing.T) {
	svc, _, notifier := newTestService(t)
	ctx := context.Background()

	booking, err := svc.Create(ctx, stayInput("room-1", 10, 14))
	require.NoError(t, err)

	// Pending cannot skip straight to checked in.
	_, err = svc.Transition(ctx, booking.ID, StatusCheckedIn)
	require.ErrorIs(t, err, shared.ErrValidation)

	booking, err = svc.Transition(ctx, booking.ID, StatusConfirmed)
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, booking.Status)
	require.Equal(t, []string{booking.ID}, notifier.confirmed)

	booking, err = svc.Transition(ctx, booking.ID, StatusCheckedIn)
	require.NoError(t, err)
	booking, err = svc.Transition(ctx, booking.ID, StatusCheckedOut)
	require.NoError(t, err)

	// Checked out is terminal.
	_, err = svc.Transition(ctx, booking.ID, StatusCancelled)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCancelRefundsPaidBooking(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	booking, err := svc.Create(ctx, stayInput("room-1", 10, 14))
	require.NoError(t, err)
	_, err = svc.RecordPayment(ctx, booking.ID, 480)
	require.NoError(t, err)

	booking, err = svc.Transition(ctx, booking.ID, StatusCancelled)
	require.NoError(t, err)
	require.Equal(t, PaymentRefunded, booking.PaymentStatus)
}

func TestRecordPayment(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	booking, err := svc.Create(ctx, stayInput("room-1", 10, 14))
	require.NoError(t, err)

	booking, err = svc.RecordPayment(ctx, booking.ID, 200)
	require.NoError(t, err)
	require.Equal(t, PaymentPartial, booking.PaymentStatus)

	booking, err = svc.RecordPayment(ctx, booking.ID, 280)
	require.NoError(t, err)
	require.Equal(t, PaymentPaid, booking.PaymentStatus)

	_, err = svc.RecordPayment(ctx, booking.ID, -5)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateClosedBookingRejected(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	booking, err := svc.Create(ctx, stayInput("room-1", 10, 14))
	require.NoError(t, err)
	_, err = svc.Transition(ctx, booking.ID, StatusCancelled)
	require.NoError(t, err)

	notes := "late arrival"
	_, err = svc.Update(ctx, booking.ID, UpdateInput{Notes: &notes})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateRechecksOverlapOnDateChange(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, stayInput("room-1", 10, 14))
	require.NoError(t, err)
	second, err := svc.Create(ctx, stayInput("room-1", 14, 18))
	require.NoError(t, err)

	newIn := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	_, err = svc.Update(ctx, second.ID, UpdateInput{CheckInDate: &newIn})
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestDeleteBooking(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	booking, err := svc.Create(ctx, stayInput("room-1", 10, 14))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, booking.ID))
	require.Empty(t, repo.byID)

	err = svc.Delete(ctx, booking.ID)
	require.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestDerivePaymentStatus(t *testing.T) {
	require.Equal(t, PaymentPending, DerivePaymentStatus(480, 0))
	require.Equal(t, PaymentPartial, DerivePaymentStatus(480, 100))
	require.Equal(t, PaymentPaid, DerivePaymentStatus(480, 480))
	require.Equal(t, PaymentPaid, DerivePaymentStatus(480, 500))
}
