package rbac

import (
	"fmt"
	"time"

	"github.com/harborstay/harborstay/internal/shared"
)

// Matrix is a sparse resource/operation grant table. Absent entries mean
// the operation is not granted.
type Matrix map[Resource]map[Operation]bool

// NewMatrix validates grants against the catalog and returns a typed
// matrix. Unknown resource or operation keys are rejected outright so a
// stale caller cannot smuggle grants nobody can see in the role editor.
func NewMatrix(grants map[Resource]map[Operation]bool) (Matrix, error) {
	m := make(Matrix, len(grants))
	for resource, ops := range grants {
		if !KnownResource(resource) {
			return nil, fmt.Errorf("rbac: unknown resource %q: %w", resource, shared.ErrValidation)
		}
		for op := range ops {
			if !Applicable(resource, op) {
				return nil, fmt.Errorf("rbac: operation %q not applicable to %q: %w", op, resource, shared.ErrValidation)
			}
		}
		cell := make(map[Operation]bool, len(ops))
		for op, granted := range ops {
			cell[op] = granted
		}
		m[resource] = cell
	}
	return m, nil
}

// Granted reports whether the operation is explicitly granted. Default deny.
func (m Matrix) Granted(resource Resource, op Operation) bool {
	ops, ok := m[resource]
	if !ok {
		return false
	}
	return ops[op]
}

// Clone returns a deep copy of the matrix.
func (m Matrix) Clone() Matrix {
	if m == nil {
		return nil
	}
	out := make(Matrix, len(m))
	for resource, ops := range m {
		cell := make(map[Operation]bool, len(ops))
		for op, granted := range ops {
			cell[op] = granted
		}
		out[resource] = cell
	}
	return out
}

// Role is a named permission grouping. System roles are seeded at
// startup and may not be mutated or deleted through the management API.
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Permissions Matrix    `json:"permissions"`
	IsSystem    bool      `json:"is_system"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Assignment links a user to a role. At most one role per user.
type Assignment struct {
	UserID string `json:"user_id"`
	RoleID string `json:"role_id"`
}
