package auth

import "time"

// Account represents a login-capable account: back-office staff (admin or
// agent) or a property owner.
type Account struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	AccountKind  string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
