package users

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/harborstay/harborstay/internal/shared"
)

type stubRepo struct {
	users  map[string]User
	hashes map[string]string
}

func newStubRepo() *stubRepo {
	return &stubRepo{users: map[string]User{}, hashes: map[string]string{}}
}

func (r *stubRepo) List(_ context.Context) ([]User, error) {
	var out []User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *stubRepo) Get(_ context.Context, id string) (User, error) {
	u, ok := r.users[id]
	if !ok {
		return User{}, fmt.Errorf("users: user %q: %w", id, shared.ErrNotFound)
	}
	return u, nil
}

func (r *stubRepo) Insert(_ context.Context, user User, passwordHash string) error {
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return fmt.Errorf("users: email %q already registered: %w", user.Email, shared.ErrDuplicate)
		}
	}
	r.users[user.ID] = user
	r.hashes[user.ID] = passwordHash
	return nil
}

func (r *stubRepo) Update(_ context.Context, user User) error {
	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("users: user %q: %w", user.ID, shared.ErrNotFound)
	}
	for id, existing := range r.users {
		if id != user.ID && strings.EqualFold(existing.Email, user.Email) {
			return fmt.Errorf("users: email %q already registered: %w", user.Email, shared.ErrDuplicate)
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *stubRepo) SetPassword(_ context.Context, id, passwordHash string) error {
	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("users: user %q: %w", id, shared.ErrNotFound)
	}
	r.hashes[id] = passwordHash
	return nil
}

func newTestService(t *testing.T) (*Service, *stubRepo) {
	t.Helper()
	repo := newStubRepo()
	return NewService(repo, nil, slog.Default()), repo
}

func TestCreateUser(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateInput{
		Name:        "  Mira Tan  ",
		Email:       "Mira.Tan@Example.COM",
		AccountKind: shared.AccountKindAgent,
		Password:    "hunter2hunter2",
	})
	require.NoError(t, err)
	require.Equal(t, "Mira Tan", user.Name)
	require.Equal(t, "mira.tan@example.com", user.Email)
	require.True(t, user.IsActive)

	hash := repo.hashes[user.ID]
	require.NotEqual(t, "hunter2hunter2", hash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2hunter2")))
}

func TestCreateUserValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Email: "a@b.c", AccountKind: shared.AccountKindAgent, Password: "longenough"})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(ctx, CreateInput{Name: "A", Email: "a@b.c", AccountKind: shared.AccountKindAgent, Password: "short"})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(ctx, CreateInput{Name: "A", Email: "a@b.c", AccountKind: "superuser", Password: "longenough"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	input := CreateInput{Name: "A", Email: "front@desk.example", AccountKind: shared.AccountKindAgent, Password: "longenough"}
	_, err := svc.Create(ctx, input)
	require.NoError(t, err)

	input.Name = "B"
	input.Email = "FRONT@desk.example"
	_, err = svc.Create(ctx, input)
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestUpdateUserPartial(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateInput{Name: "A", Email: "a@b.c", AccountKind: shared.AccountKindAgent, Password: "longenough"})
	require.NoError(t, err)

	name := "Renamed"
	updated, err := svc.Update(ctx, user.ID, UpdateInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	require.Equal(t, "a@b.c", updated.Email)

	empty := "   "
	_, err = svc.Update(ctx, user.ID, UpdateInput{Name: &empty})
	require.ErrorIs(t, err, shared.ErrValidation)

	inactive := false
	updated, err = svc.Update(ctx, user.ID, UpdateInput{IsActive: &inactive})
	require.NoError(t, err)
	require.False(t, updated.IsActive)
}

func TestChangePassword(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, CreateInput{Name: "A", Email: "a@b.c", AccountKind: shared.AccountKindAgent, Password: "longenough"})
	require.NoError(t, err)
	before := repo.hashes[user.ID]

	require.ErrorIs(t, svc.ChangePassword(ctx, user.ID, "short"), shared.ErrValidation)
	require.ErrorIs(t, svc.ChangePassword(ctx, "missing", "longenough2"), shared.ErrNotFound)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "longenough2"))
	require.NotEqual(t, before, repo.hashes[user.ID])
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.hashes[user.ID]), []byte("longenough2")))
}
