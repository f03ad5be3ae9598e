package expenses

import "time"

// Expense is an operating cost booked against a property.
type Expense struct {
	ID          string    `json:"id"`
	PropertyID  string    `json:"property_id"`
	CategoryID  string    `json:"category_id"`
	RoomID      string    `json:"room_id,omitempty"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	IncurredOn  time.Time `json:"incurred_on"`
	Vendor      string    `json:"vendor,omitempty"`
	Receipt     string    `json:"receipt,omitempty"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListFilter narrows expense listings.
type ListFilter struct {
	PropertyID string
	CategoryID string
	From       time.Time
	To         time.Time
}
