package rbac

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestEvaluator(t *testing.T) (*Evaluator, *Service) {
	t.Helper()
	roles := NewMemoryRoleRepository()
	assignments := NewMemoryAssignmentRepository()
	svc := NewService(roles, assignments, nil, slog.Default())
	return NewEvaluator(roles, assignments, slog.Default()), svc
}

func TestCanDefaultDeny(t *testing.T) {
	eval, svc := newTestEvaluator(t)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, CreateRoleInput{
		Name:        "Reception",
		Permissions: Matrix{ResourceBookings: {OpView: true}},
	})
	require.NoError(t, err)
	require.NoError(t, svc.AssignRole(ctx, "u1", role.ID))

	allowed, err := eval.Can(ctx, "u1", ResourceBookings, OpView)
	require.NoError(t, err)
	require.True(t, allowed)

	// Anything not explicitly granted is denied.
	for _, op := range []Operation{OpCreate, OpUpdate, OpDelete} {
		allowed, err := eval.Can(ctx, "u1", ResourceBookings, op)
		require.NoError(t, err)
		require.False(t, allowed, "bookings/%s should be denied", op)
	}
	allowed, err = eval.Can(ctx, "u1", ResourceExpenses, OpView)
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestCanDeniesUserWithoutRole(t *testing.T) {
	eval, _ := newTestEvaluator(t)
	allowed, err := eval.Can(context.Background(), "nobody", ResourceBookings, OpView)
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestExplicitFalseIsDenied(t *testing.T) {
	eval, svc := newTestEvaluator(t)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, CreateRoleInput{
		Name:        "Limited",
		Permissions: Matrix{ResourceBookings: {OpView: true, OpDelete: false}},
	})
	require.NoError(t, err)
	require.NoError(t, svc.AssignRole(ctx, "u1", role.ID))

	allowed, err := eval.Can(ctx, "u1", ResourceBookings, OpDelete)
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestDanglingAssignmentDeniesAll(t *testing.T) {
	eval, svc := newTestEvaluator(t)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, CreateRoleInput{
		Name:        "Manager",
		Permissions: Matrix{ResourceBookings: {OpView: true, OpCreate: true}},
	})
	require.NoError(t, err)
	require.NoError(t, svc.AssignRole(ctx, "u1", role.ID))

	allowed, err := eval.Can(ctx, "u1", ResourceBookings, OpView)
	require.NoError(t, err)
	require.True(t, allowed)

	require.NoError(t, svc.DeleteRole(ctx, role.ID))

	// The assignment now dangles: deny everything, never error.
	for _, spec := range Catalog() {
		for _, op := range spec.Operations {
			allowed, err := eval.Can(ctx, "u1", spec.Resource, op)
			require.NoError(t, err)
			require.False(t, allowed, "%s/%s should be denied after role deletion", spec.Resource, op)
		}
	}
}

func TestAllGrantedAndSomeGranted(t *testing.T) {
	eval, svc := newTestEvaluator(t)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, CreateRoleInput{
		Name: "Ops",
		Permissions: Matrix{
			ResourceBookings: {OpView: true, OpCreate: true, OpUpdate: true, OpDelete: true},
			ResourceRooms:    {OpView: true},
		},
	})
	require.NoError(t, err)
	require.NoError(t, svc.AssignRole(ctx, "u1", role.ID))

	all, err := eval.AllGranted(ctx, "u1", ResourceBookings)
	require.NoError(t, err)
	require.True(t, all)

	all, err = eval.AllGranted(ctx, "u1", ResourceRooms)
	require.NoError(t, err)
	require.False(t, all)

	some, err := eval.SomeGranted(ctx, "u1", ResourceRooms)
	require.NoError(t, err)
	require.True(t, some)

	some, err = eval.SomeGranted(ctx, "u1", ResourceExpenses)
	require.NoError(t, err)
	require.False(t, some)

	// Unknown resources have an empty catalog entry: nothing to grant.
	all, err = eval.AllGranted(ctx, "u1", "minibar")
	require.NoError(t, err)
	require.False(t, all)
}

func TestCanAnyGatesResourceEntryPoint(t *testing.T) {
	eval, svc := newTestEvaluator(t)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, CreateRoleInput{
		Name:        "ReportsOnly",
		Permissions: Matrix{ResourceReports: {OpExport: true}},
	})
	require.NoError(t, err)
	require.NoError(t, svc.AssignRole(ctx, "u1", role.ID))

	any, err := eval.CanAny(ctx, "u1", ResourceReports)
	require.NoError(t, err)
	require.True(t, any)

	any, err = eval.CanAny(ctx, "u1", ResourceBookings)
	require.NoError(t, err)
	require.False(t, any)
}

// Mirrors the seeded product scenario end to end: a Manager role, an
// assignment, per-action checks, system-role protection and the dangling
// deny after the role is removed.
func TestManagerScenario(t *testing.T) {
	roles := NewMemoryRoleRepository()
	assignments := NewMemoryAssignmentRepository()
	svc := NewService(roles, assignments, nil, slog.Default())
	eval := NewEvaluator(roles, assignments, slog.Default())
	ctx := context.Background()

	require.NoError(t, Seed(ctx, roles))

	all, err := svc.ListRoles(ctx)
	require.NoError(t, err)

	var admin, manager Role
	for _, role := range all {
		switch role.Name {
		case "Administrator":
			admin = role
		case "Manager":
			manager = role
		}
	}
	require.True(t, admin.IsSystem)
	require.False(t, manager.IsSystem)

	require.NoError(t, svc.AssignRole(ctx, "u1", manager.ID))

	allowed, err := eval.Can(ctx, "u1", ResourceBookings, OpDelete)
	require.NoError(t, err)
	require.False(t, allowed)

	allowed, err = eval.Can(ctx, "u1", ResourceBookings, OpView)
	require.NoError(t, err)
	require.True(t, allowed)

	any, err := eval.CanAny(ctx, "u1", ResourceReports)
	require.NoError(t, err)
	require.True(t, any)

	err = svc.DeleteRole(ctx, admin.ID)
	require.Error(t, err)

	require.NoError(t, svc.DeleteRole(ctx, manager.ID))

	allowed, err = eval.Can(ctx, "u1", ResourceBookings, OpView)
	require.NoError(t, err)
	require.False(t, allowed)
}
