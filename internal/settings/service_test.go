package settings

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harborstay/harborstay/internal/shared"
)

type stubRepo struct {
	properties map[string]Property
	roomTypes  map[string]RoomType
	sources    map[string]BookingSource
	categories map[string]ExpenseCategory
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		properties: map[string]Property{},
		roomTypes:  map[string]RoomType{},
		sources:    map[string]BookingSource{},
		categories: map[string]ExpenseCategory{},
	}
}

func (r *stubRepo) ListProperties(_ context.Context) ([]Property, error) {
	var out []Property
	for _, p := range r.properties {
		out = append(out, p)
	}
	return out, nil
}

func (r *stubRepo) UpsertProperty(_ context.Context, p Property) error {
	for id, existing := range r.properties {
		if id != p.ID && strings.EqualFold(existing.Name, p.Name) {
			return fmt.Errorf("settings: name %q already exists: %w", p.Name, shared.ErrDuplicate)
		}
	}
	r.properties[p.ID] = p
	return nil
}

func (r *stubRepo) ListRoomTypes(_ context.Context) ([]RoomType, error) {
	var out []RoomType
	for _, rt := range r.roomTypes {
		out = append(out, rt)
	}
	return out, nil
}

func (r *stubRepo) UpsertRoomType(_ context.Context, rt RoomType) error {
	for id, existing := range r.roomTypes {
		if id != rt.ID && strings.EqualFold(existing.Name, rt.Name) {
			return fmt.Errorf("settings: name %q already exists: %w", rt.Name, shared.ErrDuplicate)
		}
	}
	r.roomTypes[rt.ID] = rt
	return nil
}

func (r *stubRepo) ListBookingSources(_ context.Context) ([]BookingSource, error) {
	var out []BookingSource
	for _, bs := range r.sources {
		out = append(out, bs)
	}
	return out, nil
}

func (r *stubRepo) UpsertBookingSource(_ context.Context, bs BookingSource) error {
	r.sources[bs.ID] = bs
	return nil
}

func (r *stubRepo) ListExpenseCategories(_ context.Context) ([]ExpenseCategory, error) {
	var out []ExpenseCategory
	for _, ec := range r.categories {
		out = append(out, ec)
	}
	return out, nil
}

func (r *stubRepo) UpsertExpenseCategory(_ context.Context, ec ExpenseCategory) error {
	r.categories[ec.ID] = ec
	return nil
}

func (r *stubRepo) DeleteExpenseCategory(_ context.Context, id string) error {
	if _, ok := r.categories[id]; !ok {
		return fmt.Errorf("settings: expense category %q: %w", id, shared.ErrNotFound)
	}
	delete(r.categories, id)
	return nil
}

func newTestService(t *testing.T) (*Service, *stubRepo) {
	t.Helper()
	repo := newStubRepo()
	return NewService(repo, nil, slog.Default()), repo
}

func TestSavePropertyCreatesAndUpdates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.SaveProperty(ctx, Property{Name: " Marina Bay ", City: "Dubai"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Marina Bay", created.Name)
	require.False(t, created.CreatedAt.IsZero())

	// A save with the same id updates in place.
	created.City = "Abu Dhabi"
	updated, err := svc.SaveProperty(ctx, created)
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "Abu Dhabi", updated.City)

	_, err = svc.SaveProperty(ctx, Property{Name: "   "})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestSavePropertyDuplicateName(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SaveProperty(ctx, Property{Name: "Marina Bay"})
	require.NoError(t, err)

	_, err = svc.SaveProperty(ctx, Property{Name: "marina bay"})
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestSaveRoomTypeValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	rt, err := svc.SaveRoomType(ctx, RoomType{Name: "Deluxe", Capacity: 2, DefaultRate: 180})
	require.NoError(t, err)
	require.NotEmpty(t, rt.ID)

	_, err = svc.SaveRoomType(ctx, RoomType{Name: "Studio", Capacity: 0})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.SaveRoomType(ctx, RoomType{Name: "", Capacity: 2})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestSaveBookingSourceCommissionBounds(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SaveBookingSource(ctx, BookingSource{Name: "Direct", CommissionPct: 0})
	require.NoError(t, err)

	_, err = svc.SaveBookingSource(ctx, BookingSource{Name: "OTA", CommissionPct: 100})
	require.NoError(t, err)

	_, err = svc.SaveBookingSource(ctx, BookingSource{Name: "Bad", CommissionPct: -1})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.SaveBookingSource(ctx, BookingSource{Name: "Bad", CommissionPct: 101})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestExpenseCategoryLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	ec, err := svc.SaveExpenseCategory(ctx, ExpenseCategory{Name: "Utilities"})
	require.NoError(t, err)
	require.NotEmpty(t, ec.ID)

	require.NoError(t, svc.DeleteExpenseCategory(ctx, ec.ID))
	require.ErrorIs(t, svc.DeleteExpenseCategory(ctx, ec.ID), shared.ErrNotFound)

	categories, err := svc.ExpenseCategories(ctx)
	require.NoError(t, err)
	require.Empty(t, categories)
}
