package rooms

import "time"

// HousekeepingState mirrors the housekeeping board.
type HousekeepingState string

// Housekeeping states for a room.
const (
	HousekeepingClean      HousekeepingState = "clean"
	HousekeepingDirty      HousekeepingState = "dirty"
	HousekeepingInProgress HousekeepingState = "in_progress"
	HousekeepingInspected  HousekeepingState = "inspected"
)

// Room is a rentable unit within a property.
type Room struct {
	ID           string            `json:"id"`
	PropertyID   string            `json:"property_id"`
	RoomTypeID   string            `json:"room_type_id"`
	OwnerID      string            `json:"owner_id,omitempty"`
	Number       string            `json:"number"`
	Floor        int               `json:"floor"`
	BaseRate     float64           `json:"base_rate"`
	MaxOccupancy int               `json:"max_occupancy"`
	Housekeeping HousekeepingState `json:"housekeeping"`
	IsActive     bool              `json:"is_active"`
	Notes        string            `json:"notes,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// ListFilter narrows room listings.
type ListFilter struct {
	PropertyID string
	OwnerID    string
	ActiveOnly bool
}
