package rbac

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harborstay/harborstay/internal/shared"
)

// RoleRepository defines persistence for roles.
type RoleRepository interface {
	Insert(ctx context.Context, role Role) error
	// Update replaces a non-system role. Implementations must refuse to
	// touch rows with is_system set, in the same statement that writes.
	Update(ctx context.Context, role Role) error
	// Delete removes a non-system role under the same constraint.
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (Role, error)
	List(ctx context.Context) ([]Role, error)
}

// AssignmentRepository defines persistence for user-role assignments.
type AssignmentRepository interface {
	// Assign sets the user's role, replacing any prior assignment.
	// Re-assigning the same pair is a no-op.
	Assign(ctx context.Context, userID, roleID string) error
	// Resolve returns the assigned role id, or shared.ErrNotFound.
	Resolve(ctx context.Context, userID string) (string, error)
	Unassign(ctx context.Context, userID string) error
}

// CreateRoleInput carries fields for role creation.
type CreateRoleInput struct {
	Name        string
	Description string
	Permissions Matrix
}

// UpdateRoleInput carries partial fields for role updates. The permission
// matrix is replaced as a whole when present, never merged; per-cell
// toggle semantics live in the caller.
type UpdateRoleInput struct {
	Name        *string
	Description *string
	Permissions *Matrix
}

// Service is the authority over role lifecycle and assignment. It owns
// the system-role invariant and emits audit events for every mutation.
type Service struct {
	roles       RoleRepository
	assignments AssignmentRepository
	audit       shared.AuditRecorder
	logger      *slog.Logger
}

// NewService constructs a Service.
func NewService(roles RoleRepository, assignments AssignmentRepository, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	return &Service{roles: roles, assignments: assignments, audit: audit, logger: logger}
}

// CreateRole adds a new non-system role.
func (s *Service) CreateRole(ctx context.Context, input CreateRoleInput) (Role, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Role{}, fmt.Errorf("rbac: role name is required: %w", shared.ErrValidation)
	}
	permissions, err := NewMatrix(input.Permissions)
	if err != nil {
		return Role{}, err
	}
	now := time.Now().UTC()
	role := Role{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Permissions: permissions,
		IsSystem:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.roles.Insert(ctx, role); err != nil {
		return Role{}, err
	}
	s.recordAudit(ctx, "role.created", role.ID, map[string]any{"name": role.Name})
	return role, nil
}

// UpdateRole applies a partial update to a non-system role. The matrix,
// when supplied, fully replaces the stored one.
func (s *Service) UpdateRole(ctx context.Context, id string, input UpdateRoleInput) (Role, error) {
	role, err := s.roles.Get(ctx, id)
	if err != nil {
		return Role{}, err
	}
	if role.IsSystem {
		return Role{}, fmt.Errorf("rbac: role %q is a system role and cannot be modified: %w", role.Name, shared.ErrSystemRoleProtected)
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return Role{}, fmt.Errorf("rbac: role name is required: %w", shared.ErrValidation)
		}
		role.Name = name
	}
	if input.Description != nil {
		role.Description = strings.TrimSpace(*input.Description)
	}
	if input.Permissions != nil {
		permissions, err := NewMatrix(*input.Permissions)
		if err != nil {
			return Role{}, err
		}
		role.Permissions = permissions
	}
	role.UpdatedAt = time.Now().UTC()
	if err := s.roles.Update(ctx, role); err != nil {
		return Role{}, err
	}
	s.recordAudit(ctx, "role.updated", role.ID, map[string]any{"name": role.Name})
	return role, nil
}

// DeleteRole removes a non-system role. Assignments referencing the role
// are left in place; the evaluator treats them as "no role" from then on.
func (s *Service) DeleteRole(ctx context.Context, id string) error {
	role, err := s.roles.Get(ctx, id)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return fmt.Errorf("rbac: role %q is a system role and cannot be deleted: %w", role.Name, shared.ErrSystemRoleProtected)
	}
	if err := s.roles.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, "role.deleted", id, map[string]any{"name": role.Name})
	return nil
}

// GetRole fetches a role by id.
func (s *Service) GetRole(ctx context.Context, id string) (Role, error) {
	return s.roles.Get(ctx, id)
}

// ListRoles returns all roles in insertion order.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.roles.List(ctx)
}

// AssignRole assigns a role to a user, replacing any prior assignment.
func (s *Service) AssignRole(ctx context.Context, userID, roleID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("rbac: user id is required: %w", shared.ErrValidation)
	}
	if _, err := s.roles.Get(ctx, roleID); err != nil {
		return err
	}
	if err := s.assignments.Assign(ctx, userID, roleID); err != nil {
		return err
	}
	s.recordAudit(ctx, "role.assigned", roleID, map[string]any{"user_id": userID})
	return nil
}

// UnassignRole clears a user's role.
func (s *Service) UnassignRole(ctx context.Context, userID string) error {
	if err := s.assignments.Unassign(ctx, userID); err != nil {
		return err
	}
	s.recordAudit(ctx, "role.unassigned", userID, nil)
	return nil
}

// ResolveRole returns the role id assigned to a user, or shared.ErrNotFound.
func (s *Service) ResolveRole(ctx context.Context, userID string) (string, error) {
	return s.assignments.Resolve(ctx, userID)
}

func (s *Service) recordAudit(ctx context.Context, action, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	entry := shared.AuditEntry{
		ActorID:  shared.UserIDFromContext(ctx),
		Action:   action,
		Entity:   "role",
		EntityID: entityID,
		Meta:     meta,
	}
	if err := s.audit.Record(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("record role audit event", slog.String("action", action), slog.Any("error", err))
	}
}
