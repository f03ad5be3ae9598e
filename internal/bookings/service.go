package bookings

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harborstay/harborstay/internal/shared"
)

// Notifier sends guest-facing booking notifications. Implementations
// enqueue mail, they never send inline.
type Notifier interface {
	BookingConfirmed(ctx context.Context, booking Booking) error
}

// CreateInput carries fields for booking creation.
type CreateInput struct {
	RoomID          string
	GuestID         string
	CheckInDate     time.Time
	CheckOutDate    time.Time
	Adults          int
	Children        int
	BaseRate        float64
	TotalAmount     float64
	SecurityDeposit float64
	Commission      float64
	TourismFee      float64
	VAT             float64
	SourceID        string
	AgentID         string
	Notes           string
}

// UpdateInput carries partial fields for booking updates. Status is not
// updatable here, use Transition.
type UpdateInput struct {
	RoomID          *string
	GuestID         *string
	CheckInDate     *time.Time
	CheckOutDate    *time.Time
	Adults          *int
	Children        *int
	BaseRate        *float64
	TotalAmount     *float64
	SecurityDeposit *float64
	Commission      *float64
	TourismFee      *float64
	VAT             *float64
	SourceID        *string
	AgentID         *string
	Notes           *string
}

// Service handles booking business logic.
type Service struct {
	repo     RepositoryPort
	audit    shared.AuditRecorder
	notifier Notifier
	logger   *slog.Logger
}

// NewService builds a Service instance. notifier may be nil.
func NewService(repo RepositoryPort, audit shared.AuditRecorder, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, notifier: notifier, logger: logger}
}

// List returns bookings matching the filter plus the unpaged total.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Booking, int, error) {
	return s.repo.List(ctx, filter)
}

// Get fetches a booking by id.
func (s *Service) Get(ctx context.Context, id string) (Booking, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new booking. The room must be free for the whole
// stay, a conflicting booking rejects the request.
func (s *Service) Create(ctx context.Context, input CreateInput) (Booking, error) {
	if input.RoomID == "" || input.GuestID == "" {
		return Booking{}, fmt.Errorf("bookings: room and guest are required: %w", shared.ErrValidation)
	}
	if err := validateStay(input.CheckInDate, input.CheckOutDate); err != nil {
		return Booking{}, err
	}
	if input.Adults < 1 {
		return Booking{}, fmt.Errorf("bookings: at least one adult is required: %w", shared.ErrValidation)
	}

	taken, err := s.repo.Overlapping(ctx, input.RoomID, input.CheckInDate, input.CheckOutDate, "")
	if err != nil {
		return Booking{}, err
	}
	if taken {
		return Booking{}, fmt.Errorf("bookings: room is already booked for those dates: %w", shared.ErrDuplicate)
	}

	now := time.Now().UTC()
	booking := Booking{
		ID:              uuid.NewString(),
		Reference:       newReference(),
		RoomID:          input.RoomID,
		GuestID:         input.GuestID,
		CheckInDate:     input.CheckInDate,
		CheckOutDate:    input.CheckOutDate,
		Adults:          input.Adults,
		Children:        input.Children,
		BaseRate:        input.BaseRate,
		TotalAmount:     input.TotalAmount,
		SecurityDeposit: input.SecurityDeposit,
		Commission:      input.Commission,
		TourismFee:      input.TourismFee,
		VAT:             input.VAT,
		NetToOwner:      netToOwner(input.TotalAmount, input.Commission, input.TourismFee, input.VAT),
		Status:          StatusPending,
		PaymentStatus:   PaymentPending,
		SourceID:        input.SourceID,
		AgentID:         input.AgentID,
		Notes:           input.Notes,
		CreatedBy:       shared.UserIDFromContext(ctx),
		UpdatedBy:       shared.UserIDFromContext(ctx),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Insert(ctx, booking); err != nil {
		return Booking{}, err
	}
	s.recordAudit(ctx, "booking.created", booking.ID, map[string]any{"reference": booking.Reference})
	return booking, nil
}

// Update applies a partial booking update. Changing room or dates
// re-runs the overlap check.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (Booking, error) {
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	if booking.Status == StatusCancelled || booking.Status == StatusCheckedOut {
		return Booking{}, fmt.Errorf("bookings: booking %s is closed: %w", booking.Reference, shared.ErrValidation)
	}

	datesChanged := false
	if input.RoomID != nil {
		booking.RoomID = *input.RoomID
		datesChanged = true
	}
	if input.GuestID != nil {
		booking.GuestID = *input.GuestID
	}
	if input.CheckInDate != nil {
		booking.CheckInDate = *input.CheckInDate
		datesChanged = true
	}
	if input.CheckOutDate != nil {
		booking.CheckOutDate = *input.CheckOutDate
		datesChanged = true
	}
	if input.Adults != nil {
		booking.Adults = *input.Adults
	}
	if input.Children != nil {
		booking.Children = *input.Children
	}
	if input.BaseRate != nil {
		booking.BaseRate = *input.BaseRate
	}
	if input.TotalAmount != nil {
		booking.TotalAmount = *input.TotalAmount
	}
	if input.SecurityDeposit != nil {
		booking.SecurityDeposit = *input.SecurityDeposit
	}
	if input.Commission != nil {
		booking.Commission = *input.Commission
	}
	if input.TourismFee != nil {
		booking.TourismFee = *input.TourismFee
	}
	if input.VAT != nil {
		booking.VAT = *input.VAT
	}
	if input.SourceID != nil {
		booking.SourceID = *input.SourceID
	}
	if input.AgentID != nil {
		booking.AgentID = *input.AgentID
	}
	if input.Notes != nil {
		booking.Notes = *input.Notes
	}

	if err := validateStay(booking.CheckInDate, booking.CheckOutDate); err != nil {
		return Booking{}, err
	}
	if datesChanged {
		taken, err := s.repo.Overlapping(ctx, booking.RoomID, booking.CheckInDate, booking.CheckOutDate, booking.ID)
		if err != nil {
			return Booking{}, err
		}
		if taken {
			return Booking{}, fmt.Errorf("bookings: room is already booked for those dates: %w", shared.ErrDuplicate)
		}
	}

	booking.NetToOwner = netToOwner(booking.TotalAmount, booking.Commission, booking.TourismFee, booking.VAT)
	booking.PaymentStatus = derivedOrRefunded(booking)
	booking.UpdatedBy = shared.UserIDFromContext(ctx)
	booking.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, booking); err != nil {
		return Booking{}, err
	}
	s.recordAudit(ctx, "booking.updated", booking.ID, map[string]any{"reference": booking.Reference})
	return booking, nil
}

// Transition moves a booking to the given status. Disallowed moves
// return a validation error naming both states.
func (s *Service) Transition(ctx context.Context, id string, to Status) (Booking, error) {
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	if !CanTransition(booking.Status, to) {
		return Booking{}, fmt.Errorf("bookings: cannot move booking %s from %s to %s: %w",
			booking.Reference, booking.Status, to, shared.ErrValidation)
	}
	booking.Status = to
	if to == StatusCancelled && booking.AmountPaid > 0 {
		booking.PaymentStatus = PaymentRefunded
	}
	booking.UpdatedBy = shared.UserIDFromContext(ctx)
	booking.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, booking); err != nil {
		return Booking{}, err
	}
	s.recordAudit(ctx, "booking.status_changed", booking.ID, map[string]any{
		"reference": booking.Reference,
		"status":    string(to),
	})
	if to == StatusConfirmed && s.notifier != nil {
		if err := s.notifier.BookingConfirmed(ctx, booking); err != nil && s.logger != nil {
			s.logger.Warn("enqueue booking confirmation",
				slog.String("booking_id", booking.ID), slog.Any("error", err))
		}
	}
	return booking, nil
}

// RecordPayment adds a payment amount and re-derives the payment status.
func (s *Service) RecordPayment(ctx context.Context, id string, amount float64) (Booking, error) {
	if amount <= 0 {
		return Booking{}, fmt.Errorf("bookings: payment amount must be positive: %w", shared.ErrValidation)
	}
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	if booking.Status == StatusCancelled {
		return Booking{}, fmt.Errorf("bookings: booking %s is cancelled: %w", booking.Reference, shared.ErrValidation)
	}
	booking.AmountPaid += amount
	booking.PaymentStatus = DerivePaymentStatus(booking.TotalAmount, booking.AmountPaid)
	booking.UpdatedBy = shared.UserIDFromContext(ctx)
	booking.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, booking); err != nil {
		return Booking{}, err
	}
	s.recordAudit(ctx, "booking.payment_recorded", booking.ID, map[string]any{
		"reference": booking.Reference,
		"amount":    amount,
	})
	return booking, nil
}

// Delete removes a booking.
func (s *Service) Delete(ctx context.Context, id string) error {
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, "booking.deleted", id, map[string]any{"reference": booking.Reference})
	return nil
}

func validateStay(checkIn, checkOut time.Time) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return fmt.Errorf("bookings: check-in and check-out dates are required: %w", shared.ErrValidation)
	}
	if !checkOut.After(checkIn) {
		return fmt.Errorf("bookings: check-out must be after check-in: %w", shared.ErrValidation)
	}
	return nil
}

func netToOwner(total, commission, tourismFee, vat float64) float64 {
	net := total - commission - tourismFee - vat
	if net < 0 {
		return 0
	}
	return net
}

func derivedOrRefunded(b Booking) PaymentStatus {
	if b.PaymentStatus == PaymentRefunded {
		return PaymentRefunded
	}
	return DerivePaymentStatus(b.TotalAmount, b.AmountPaid)
}

func newReference() string {
	return "BK-" + strings.ToUpper(uuid.NewString()[:8])
}

func (s *Service) recordAudit(ctx context.Context, action, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	entry := shared.AuditEntry{
		ActorID:  shared.UserIDFromContext(ctx),
		Action:   action,
		Entity:   "booking",
		EntityID: entityID,
		Meta:     meta,
	}
	if err := s.audit.Record(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("record booking audit event", slog.String("action", action), slog.Any("error", err))
	}
}
