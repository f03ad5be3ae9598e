package expenses

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/harborstay/harborstay/internal/shared"
)

type stubRepo struct {
	expenses map[string]Expense
}

func newStubRepo() *stubRepo {
	return &stubRepo{expenses: map[string]Expense{}}
}

func (r *stubRepo) List(_ context.Context, filter ListFilter) ([]Expense, error) {
	var out []Expense
	for _, e := range r.expenses {
		if filter.PropertyID != "" && e.PropertyID != filter.PropertyID {
			continue
		}
		if filter.CategoryID != "" && e.CategoryID != filter.CategoryID {
			continue
		}
		if !filter.From.IsZero() && e.IncurredOn.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !e.IncurredOn.Before(filter.To) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *stubRepo) Get(_ context.Context, id string) (Expense, error) {
	e, ok := r.expenses[id]
	if !ok {
		return Expense{}, fmt.Errorf("expenses: expense %q: %w", id, shared.ErrNotFound)
	}
	return e, nil
}

func (r *stubRepo) Insert(_ context.Context, e Expense) error {
	r.expenses[e.ID] = e
	return nil
}

func (r *stubRepo) Update(_ context.Context, e Expense) error {
	if _, ok := r.expenses[e.ID]; !ok {
		return fmt.Errorf("expenses: expense %q: %w", e.ID, shared.ErrNotFound)
	}
	r.expenses[e.ID] = e
	return nil
}

func (r *stubRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.expenses[id]; !ok {
		return fmt.Errorf("expenses: expense %q: %w", id, shared.ErrNotFound)
	}
	delete(r.expenses, id)
	return nil
}

func newTestService(t *testing.T) (*Service, *stubRepo) {
	t.Helper()
	repo := newStubRepo()
	return NewService(repo, nil, slog.Default()), repo
}

func expenseInput() CreateInput {
	return CreateInput{
		PropertyID:  "prop-1",
		CategoryID:  "cat-1",
		Description: "Pool maintenance",
		Amount:      350,
		IncurredOn:  time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC),
		Vendor:      " AquaServ ",
	}
}

func TestCreateExpense(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	expense, err := svc.Create(ctx, expenseInput())
	require.NoError(t, err)
	require.Equal(t, "Pool maintenance", expense.Description)
	require.Equal(t, "AquaServ", expense.Vendor)
	require.InDelta(t, 350, expense.Amount, 0.001)
}

func TestCreateExpenseValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	input := expenseInput()
	input.Description = "  "
	_, err := svc.Create(ctx, input)
	require.ErrorIs(t, err, shared.ErrValidation)

	input = expenseInput()
	input.CategoryID = ""
	_, err = svc.Create(ctx, input)
	require.ErrorIs(t, err, shared.ErrValidation)

	input = expenseInput()
	input.Amount = 0
	_, err = svc.Create(ctx, input)
	require.ErrorIs(t, err, shared.ErrValidation)

	input = expenseInput()
	input.IncurredOn = time.Time{}
	_, err = svc.Create(ctx, input)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateExpense(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	expense, err := svc.Create(ctx, expenseInput())
	require.NoError(t, err)

	amount := 410.50
	updated, err := svc.Update(ctx, expense.ID, UpdateInput{Amount: &amount})
	require.NoError(t, err)
	require.InDelta(t, 410.50, updated.Amount, 0.001)
	require.Equal(t, "Pool maintenance", updated.Description)

	negative := -5.0
	_, err = svc.Update(ctx, expense.ID, UpdateInput{Amount: &negative})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Update(ctx, "missing", UpdateInput{Amount: &amount})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListExpensesByPeriod(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	july := expenseInput()
	_, err := svc.Create(ctx, july)
	require.NoError(t, err)

	august := expenseInput()
	august.IncurredOn = time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)
	_, err = svc.Create(ctx, august)
	require.NoError(t, err)

	found, err := svc.List(ctx, ListFilter{
		From: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, 7, int(found[0].IncurredOn.Month()))
}

func TestDeleteExpense(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	expense, err := svc.Create(ctx, expenseInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, expense.ID))
	require.ErrorIs(t, svc.Delete(ctx, expense.ID), shared.ErrNotFound)
}
