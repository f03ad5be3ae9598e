package rbac

import (
	"context"
	"errors"
	"log/slog"

	"github.com/harborstay/harborstay/internal/shared"
)

// RoleReader is the read-side of the role store the evaluator needs.
type RoleReader interface {
	Get(ctx context.Context, id string) (Role, error)
}

// AssignmentResolver resolves a user's role id.
type AssignmentResolver interface {
	Resolve(ctx context.Context, userID string) (string, error)
}

// Evaluator answers "may this user perform this operation on this
// resource". It is a pure read path: no retries, no caching, safe to call
// per request. Users without a role, and assignments whose role has been
// deleted out from under them, are denied everything.
type Evaluator struct {
	roles       RoleReader
	assignments AssignmentResolver
	logger      *slog.Logger
}

// NewEvaluator constructs an Evaluator.
func NewEvaluator(roles RoleReader, assignments AssignmentResolver, logger *slog.Logger) *Evaluator {
	return &Evaluator{roles: roles, assignments: assignments, logger: logger}
}

// Can reports whether the operation on the resource is granted to the user.
func (e *Evaluator) Can(ctx context.Context, userID string, resource Resource, op Operation) (bool, error) {
	role, ok, err := e.resolveRole(ctx, userID)
	if err != nil || !ok {
		return false, err
	}
	return role.Permissions.Granted(resource, op), nil
}

// CanAny reports whether any catalog operation on the resource is granted.
// Used for coarse gating: whether to surface the resource at all.
func (e *Evaluator) CanAny(ctx context.Context, userID string, resource Resource) (bool, error) {
	role, ok, err := e.resolveRole(ctx, userID)
	if err != nil || !ok {
		return false, err
	}
	for _, op := range OperationsFor(resource) {
		if role.Permissions.Granted(resource, op) {
			return true, nil
		}
	}
	return false, nil
}

// AllGranted reports whether every operation the catalog lists for the
// resource is granted. Grants outside the catalog entry are ignored.
func (e *Evaluator) AllGranted(ctx context.Context, userID string, resource Resource) (bool, error) {
	ops := OperationsFor(resource)
	if len(ops) == 0 {
		if e.logger != nil {
			e.logger.Warn("permission check against unknown resource", slog.String("resource", string(resource)))
		}
		return false, nil
	}
	role, ok, err := e.resolveRole(ctx, userID)
	if err != nil || !ok {
		return false, err
	}
	for _, op := range ops {
		if !role.Permissions.Granted(resource, op) {
			return false, nil
		}
	}
	return true, nil
}

// SomeGranted reports whether at least one, but not necessarily every,
// catalog operation is granted. Together with AllGranted it drives the
// tri-state select-all toggle in the role editor.
func (e *Evaluator) SomeGranted(ctx context.Context, userID string, resource Resource) (bool, error) {
	return e.CanAny(ctx, userID, resource)
}

// resolveRole walks assignment then role store. ok is false when the user
// has no usable role; err carries only infrastructure failures.
func (e *Evaluator) resolveRole(ctx context.Context, userID string) (Role, bool, error) {
	if userID == "" {
		return Role{}, false, nil
	}
	roleID, err := e.assignments.Resolve(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Role{}, false, nil
		}
		return Role{}, false, err
	}
	role, err := e.roles.Get(ctx, roleID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// Dangling assignment: the role was deleted. Deny, don't crash.
			if e.logger != nil {
				e.logger.Warn("dangling role assignment",
					slog.String("user_id", userID),
					slog.String("role_id", roleID))
			}
			return Role{}, false, nil
		}
		return Role{}, false, err
	}
	return role, true, nil
}
