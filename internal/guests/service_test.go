package guests

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
	guests map[string]Guest
}

func newStubRepo() *stubRepo {
	return &stubRepo{guests: map[string]Guest{}}
}

func matches(g Guest, term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(g.FirstName), term) ||
		strings.Contains(strings.ToLower(g.LastName), term) ||
		strings.Contains(strings.ToLower(g.Email), term)
}

func (r *stubRepo) List(_ context.Context, search string) ([]Guest, error) {
	var out []Guest
	for _, g := range r.guests {
		if search == "" || matches(g, search) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *stubRepo) Get(_ context.Context, id string) (Guest, error) {
	g, ok := r.guests[id]
	if !ok {
		return Guest{}, fmt.Errorf("guests: guest %q: %w", id, shared.ErrNotFound)
	}
	return g, nil
}

func (r *stubRepo) Insert(_ context.Context, g Guest) error {
	r.guests[g.ID] = g
	return nil
}

func (r *stubRepo) Update(_ context.Context, g Guest) error {
	if _, ok := r.guests[g.ID]; !ok {
		return fmt.Errorf("guests: guest %q: %w", g.ID, shared.ErrNotFound)
	}
	r.guests[g.ID] = g
	return nil
}

func (r *stubRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.guests[id]; !ok {
		return fmt.Errorf("guests: guest %q: %w", id, shared.ErrNotFound)
	}
	delete(r.guests, id)
	return nil
}

func newTestService(t *testing.T) (*Service, *stubRepo) {
	t.Helper()
	repo := newStubRepo()
	return NewService(repo, nil, slog.Default()), repo
}

func TestCreateGuest(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	guest, err := svc.Create(ctx, CreateInput{
		FirstName: " Anna ",
		LastName:  " Kowalska ",
		Email:     "Anna.K@Example.COM",
	})
	require.NoError(t, err)
	require.Equal(t, "Anna", guest.FirstName)
	require.Equal(t, "anna.k@example.com", guest.Email)
	require.Equal(t, "Anna Kowalska", guest.FullName())

	// A single name is enough.
	_, err = svc.Create(ctx, CreateInput{LastName: "Madonna"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{FirstName: "  ", LastName: ""})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestSearchGuests(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{FirstName: "Anna", LastName: "Kowalska", Email: "anna@example.com"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{FirstName: "Boris", LastName: "Ivanov", Email: "boris@example.com"})
	require.NoError(t, err)

	found, err := svc.List(ctx, "  ANNA  ")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "Anna", found[0].FirstName)

	found, err = svc.List(ctx, "example.com")
	require.NoError(t, err)
	require.Len(t, found, 2)

	found, err = svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, found, 2)
}

func TestUpdateGuestKeepsNameRequired(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	guest, err := svc.Create(ctx, CreateInput{FirstName: "Anna", LastName: "Kowalska"})
	require.NoError(t, err)

	empty := ""
	// Clearing one name is fine while the other remains.
	updated, err := svc.Update(ctx, guest.ID, UpdateInput{FirstName: &empty})
	require.NoError(t, err)
	require.Equal(t, "Kowalska", updated.FullName())

	_, err = svc.Update(ctx, guest.ID, UpdateInput{LastName: &empty})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestDeleteGuest(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	guest, err := svc.Create(ctx, CreateInput{FirstName: "Anna"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, guest.ID))
	require.ErrorIs(t, svc.Delete(ctx, guest.ID), shared.ErrNotFound)
}
