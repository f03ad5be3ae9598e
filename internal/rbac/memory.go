package rbac

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/harborstay/harborstay/internal/shared"
)

// MemoryRoleRepository is an in-memory RoleRepository preserving insertion
// order. It backs tests and the standalone seed tool.
type MemoryRoleRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]Role
}

// NewMemoryRoleRepository constructs an empty repository.
func NewMemoryRoleRepository() *MemoryRoleRepository {
	return &MemoryRoleRepository{byID: make(map[string]Role)}
}

// Insert stores a new role.
func (r *MemoryRoleRepository) Insert(ctx context.Context, role Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[role.ID]; ok {
		return fmt.Errorf("rbac: role id %q already exists: %w", role.ID, shared.ErrDuplicate)
	}
	for _, existing := range r.byID {
		if strings.EqualFold(existing.Name, role.Name) {
			return fmt.Errorf("rbac: role name %q already exists: %w", role.Name, shared.ErrDuplicate)
		}
	}
	r.byID[role.ID] = cloneRole(role)
	r.order = append(r.order, role.ID)
	return nil
}

// Update replaces a stored non-system role.
func (r *MemoryRoleRepository) Update(ctx context.Context, role Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[role.ID]
	if !ok {
		return fmt.Errorf("rbac: role %q: %w", role.ID, shared.ErrNotFound)
	}
	if existing.IsSystem {
		return fmt.Errorf("rbac: role %q: %w", role.ID, shared.ErrSystemRoleProtected)
	}
	for id, other := range r.byID {
		if id != role.ID && strings.EqualFold(other.Name, role.Name) {
			return fmt.Errorf("rbac: role name %q already exists: %w", role.Name, shared.ErrDuplicate)
		}
	}
	role.IsSystem = existing.IsSystem
	r.byID[role.ID] = cloneRole(role)
	return nil
}

// Delete removes a stored non-system role.
func (r *MemoryRoleRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("rbac: role %q: %w", id, shared.ErrNotFound)
	}
	if existing.IsSystem {
		return fmt.Errorf("rbac: role %q: %w", id, shared.ErrSystemRoleProtected)
	}
	delete(r.byID, id)
	for i, stored := range r.order {
		if stored == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get fetches a role by id.
func (r *MemoryRoleRepository) Get(ctx context.Context, id string) (Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	role, ok := r.byID[id]
	if !ok {
		return Role{}, fmt.Errorf("rbac: role %q: %w", id, shared.ErrNotFound)
	}
	return cloneRole(role), nil
}

// List returns roles in insertion order.
func (r *MemoryRoleRepository) List(ctx context.Context) ([]Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Role, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneRole(r.byID[id]))
	}
	return out, nil
}

// Len reports the number of stored roles.
func (r *MemoryRoleRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func cloneRole(role Role) Role {
	role.Permissions = role.Permissions.Clone()
	return role
}

// MemoryAssignmentRepository is an in-memory AssignmentRepository.
type MemoryAssignmentRepository struct {
	mu     sync.RWMutex
	byUser map[string]string
}

// NewMemoryAssignmentRepository constructs an empty repository.
func NewMemoryAssignmentRepository() *MemoryAssignmentRepository {
	return &MemoryAssignmentRepository{byUser: make(map[string]string)}
}

// Assign sets the user's role, replacing any prior assignment.
func (r *MemoryAssignmentRepository) Assign(ctx context.Context, userID, roleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[userID] = roleID
	return nil
}

// Resolve returns the assigned role id.
func (r *MemoryAssignmentRepository) Resolve(ctx context.Context, userID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	roleID, ok := r.byUser[userID]
	if !ok {
		return "", fmt.Errorf("rbac: no role assigned to user %q: %w", userID, shared.ErrNotFound)
	}
	return roleID, nil
}

// Unassign clears the user's role.
func (r *MemoryAssignmentRepository) Unassign(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byUser, userID)
	return nil
}

// Len reports the number of stored assignments.
func (r *MemoryAssignmentRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}

var (
	_ RoleRepository       = (*MemoryRoleRepository)(nil)
	_ AssignmentRepository = (*MemoryAssignmentRepository)(nil)
)
