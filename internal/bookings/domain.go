package bookings

import "time"

// Status is the booking lifecycle state.
type Status string

// Booking lifecycle states.
const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

// PaymentStatus reflects how much of the booking total has been paid.
type PaymentStatus string

// Payment states, derived from amount paid against the total.
const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// transitions lists the allowed next states per state. Terminal states
// have no entries.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCheckedIn, StatusCancelled, StatusNoShow},
	StatusCheckedIn: {StatusCheckedOut},
}

// CanTransition reports whether moving from one status to another is allowed.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Booking represents a reservation with its financial breakdown.
type Booking struct {
	ID              string        `json:"id"`
	Reference       string        `json:"reference"`
	RoomID          string        `json:"room_id"`
	GuestID         string        `json:"guest_id"`
	CheckInDate     time.Time     `json:"check_in_date"`
	CheckOutDate    time.Time     `json:"check_out_date"`
	Adults          int           `json:"adults"`
	Children        int           `json:"children"`
	BaseRate        float64       `json:"base_rate"`
	TotalAmount     float64       `json:"total_amount"`
	SecurityDeposit float64       `json:"security_deposit"`
	Commission      float64       `json:"commission"`
	TourismFee      float64       `json:"tourism_fee"`
	VAT             float64       `json:"vat"`
	NetToOwner      float64       `json:"net_to_owner"`
	Status          Status        `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	AmountPaid      float64       `json:"amount_paid"`
	SourceID        string        `json:"source_id,omitempty"`
	AgentID         string        `json:"agent_id,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	CreatedBy       string        `json:"created_by,omitempty"`
	UpdatedBy       string        `json:"updated_by,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Nights returns the stay length in nights.
func (b Booking) Nights() int {
	return int(b.CheckOutDate.Sub(b.CheckInDate).Hours() / 24)
}

// DerivePaymentStatus computes the payment state from amounts. Refunds are
// set explicitly on cancellation, never derived.
func DerivePaymentStatus(total, paid float64) PaymentStatus {
	switch {
	case paid <= 0:
		return PaymentPending
	case paid < total:
		return PaymentPartial
	default:
		return PaymentPaid
	}
}

// ListFilter narrows booking listings.
type ListFilter struct {
	Status   Status
	RoomID   string
	GuestID  string
	FromDate time.Time
	ToDate   time.Time
	Page     int
	PerPage  int
}
