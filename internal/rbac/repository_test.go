package rbac

import (
	"errors"
	"fmt"
	"testing"

	pgxconn "github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/harborstay/harborstay/internal/shared"
)

func TestDuplicateRoleNameMapsUniqueViolation(t *testing.T) {
	driverErr := &pgxconn.PgError{Code: "23505", ConstraintName: "roles_name_key"}

	err := duplicateRoleName(driverErr, "Front Desk")
	require.ErrorIs(t, err, shared.ErrDuplicate)
	require.Contains(t, err.Error(), "Front Desk")

	// Wrapped driver errors still map.
	err = duplicateRoleName(fmt.Errorf("exec: %w", driverErr), "Front Desk")
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestDuplicateRoleNamePassesThroughOtherErrors(t *testing.T) {
	fkErr := &pgxconn.PgError{Code: "23503"}
	require.NotErrorIs(t, duplicateRoleName(fkErr, "Front Desk"), shared.ErrDuplicate)

	plain := errors.New("connection reset")
	require.Equal(t, plain, duplicateRoleName(plain, "Front Desk"))
}
