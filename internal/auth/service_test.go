package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harborstay/harborstay/internal/shared"
)

type stubRepo struct {
	accounts map[string]*Account
}

func (r *stubRepo) FindByEmail(ctx context.Context, email string) (*Account, error) {
	if account, ok := r.accounts[email]; ok {
		return account, nil
	}
	return nil, shared.ErrNotFound
}

func newStubRepo(t *testing.T) *stubRepo {
	t.Helper()
	staffHash, err := HashPassword("staff-secret-1")
	require.NoError(t, err)
	ownerHash, err := HashPassword("owner-secret-1")
	require.NoError(t, err)
	return &stubRepo{accounts: map[string]*Account{
		"agent@example.com": {
			ID: "u-agent", Email: "agent@example.com", PasswordHash: staffHash,
			AccountKind: shared.AccountKindAgent, IsActive: true,
		},
		"owner@example.com": {
			ID: "u-owner", Email: "owner@example.com", PasswordHash: ownerHash,
			AccountKind: shared.AccountKindOwner, IsActive: true,
		},
		"inactive@example.com": {
			ID: "u-inactive", Email: "inactive@example.com", PasswordHash: staffHash,
			AccountKind: shared.AccountKindAgent, IsActive: false,
		},
	}}
}

func TestAuthenticateStaff(t *testing.T) {
	svc := NewService(newStubRepo(t))
	ctx := context.Background()

	account, err := svc.AuthenticateStaff(ctx, "agent@example.com", "staff-secret-1")
	require.NoError(t, err)
	require.Equal(t, "u-agent", account.ID)

	_, err = svc.AuthenticateStaff(ctx, "agent@example.com", "wrong-password")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.AuthenticateStaff(ctx, "missing@example.com", "staff-secret-1")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.AuthenticateStaff(ctx, "inactive@example.com", "staff-secret-1")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestPortalsRejectWrongKind(t *testing.T) {
	svc := NewService(newStubRepo(t))
	ctx := context.Background()

	_, err := svc.AuthenticateStaff(ctx, "owner@example.com", "owner-secret-1")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.AuthenticateOwner(ctx, "agent@example.com", "staff-secret-1")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	account, err := svc.AuthenticateOwner(ctx, "owner@example.com", "owner-secret-1")
	require.NoError(t, err)
	require.Equal(t, shared.AccountKindOwner, account.AccountKind)
}
