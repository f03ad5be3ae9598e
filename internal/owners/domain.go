package owners

import "time"

// Owner is a property owner with rooms managed on their behalf.
type Owner struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id,omitempty"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	CommissionPct float64   `json:"commission_pct"`
	BankAccount   string    `json:"bank_account,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StatementLine is one booking's contribution to a monthly statement.
type StatementLine struct {
	BookingID    string    `json:"booking_id"`
	Reference    string    `json:"reference"`
	RoomNumber   string    `json:"room_number"`
	CheckInDate  time.Time `json:"check_in_date"`
	CheckOutDate time.Time `json:"check_out_date"`
	TotalAmount  float64   `json:"total_amount"`
	Commission   float64   `json:"commission"`
	TourismFee   float64   `json:"tourism_fee"`
	VAT          float64   `json:"vat"`
	NetToOwner   float64   `json:"net_to_owner"`
}

// Statement summarises an owner's payout for one calendar month. Only
// checked out bookings count, a stay earns out on departure.
type Statement struct {
	OwnerID         string          `json:"owner_id"`
	Year            int             `json:"year"`
	Month           time.Month      `json:"month"`
	Lines           []StatementLine `json:"lines"`
	GrossRevenue    float64         `json:"gross_revenue"`
	TotalCommission float64         `json:"total_commission"`
	TotalFees       float64         `json:"total_fees"`
	NetPayout       float64         `json:"net_payout"`
}
