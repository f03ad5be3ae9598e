package rbac

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/harborstay/harborstay/internal/shared"
)

// Seed ensures the system "Administrator" role and the two starter roles
// exist. It is idempotent: roles already present (by listing) are left
// untouched. System roles can only be born here; the management API
// refuses to create or mutate them.
func Seed(ctx context.Context, roles RoleRepository) error {
	existing, err := roles.List(ctx)
	if err != nil {
		return err
	}
	present := make(map[string]struct{}, len(existing))
	for _, role := range existing {
		present[role.Name] = struct{}{}
	}

	for _, seed := range seedRoles() {
		if _, ok := present[seed.Name]; ok {
			continue
		}
		if err := roles.Insert(ctx, seed); err != nil {
			if errors.Is(err, shared.ErrDuplicate) {
				continue
			}
			return err
		}
	}
	return nil
}

func seedRoles() []Role {
	now := time.Now().UTC()
	return []Role{
		{
			ID:          uuid.NewString(),
			Name:        "Administrator",
			Description: "Full system access",
			Permissions: Matrix{},
			IsSystem:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:          uuid.NewString(),
			Name:        "Manager",
			Description: "Can manage bookings, rooms, and view reports",
			Permissions: Matrix{
				ResourceBookings: {OpView: true, OpCreate: true, OpUpdate: true, OpDelete: false},
				ResourceRooms:    {OpView: true, OpCreate: true, OpUpdate: true, OpDelete: false},
				ResourceReports:  {OpView: true, OpExport: true},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:          uuid.NewString(),
			Name:        "Staff",
			Description: "Limited access to day-to-day operations",
			Permissions: Matrix{
				ResourceBookings: {OpView: true, OpCreate: true, OpUpdate: false, OpDelete: false},
				ResourceRooms:    {OpView: true, OpCreate: false, OpUpdate: false, OpDelete: false},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}
