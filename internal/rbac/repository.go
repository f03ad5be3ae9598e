package rbac

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	pgxconn "github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborstay/harborstay/internal/shared"
)

// PGRoleRepository implements RoleRepository on PostgreSQL. The system-role
// invariant is enforced in the write statements themselves (is_system = FALSE
// in the predicate) so a concurrent client cannot race past it.
type PGRoleRepository struct {
	pool *pgxpool.Pool
}

// NewPGRoleRepository constructs the repository.
func NewPGRoleRepository(pool *pgxpool.Pool) *PGRoleRepository {
	return &PGRoleRepository{pool: pool}
}

// Insert stores a new role.
func (r *PGRoleRepository) Insert(ctx context.Context, role Role) error {
	permissions, err := json.Marshal(role.Permissions)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO roles (id, name, description, permissions, is_system, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		role.ID, role.Name, role.Description, permissions, role.IsSystem, role.CreatedAt, role.UpdatedAt)
	if err != nil {
		return duplicateRoleName(err, role.Name)
	}
	return nil
}

// Update replaces a non-system role.
func (r *PGRoleRepository) Update(ctx context.Context, role Role) error {
	permissions, err := json.Marshal(role.Permissions)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE roles SET name = $2, description = $3, permissions = $4, updated_at = $5
		 WHERE id = $1 AND is_system = FALSE`,
		role.ID, role.Name, role.Description, permissions, role.UpdatedAt)
	if err != nil {
		return duplicateRoleName(err, role.Name)
	}
	if tag.RowsAffected() == 0 {
		return r.writeRefused(ctx, role.ID)
	}
	return nil
}

// duplicateRoleName maps a unique violation on the role name index to
// ErrDuplicate; any other error passes through untouched.
func duplicateRoleName(err error, name string) error {
	var pgErr *pgxconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("rbac: role name %q already exists: %w", name, shared.ErrDuplicate)
	}
	return err
}

// Delete removes a non-system role.
func (r *PGRoleRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1 AND is_system = FALSE`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return r.writeRefused(ctx, id)
	}
	return nil
}

// writeRefused decides which sentinel a zero-row conditional write maps to.
func (r *PGRoleRepository) writeRefused(ctx context.Context, id string) error {
	var isSystem bool
	err := r.pool.QueryRow(ctx, `SELECT is_system FROM roles WHERE id = $1`, id).Scan(&isSystem)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("rbac: role %q: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return err
	}
	if isSystem {
		return fmt.Errorf("rbac: role %q: %w", id, shared.ErrSystemRoleProtected)
	}
	return fmt.Errorf("rbac: role %q: %w", id, shared.ErrNotFound)
}

// Get fetches a role by id.
func (r *PGRoleRepository) Get(ctx context.Context, id string) (Role, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, description, permissions, is_system, created_at, updated_at
		 FROM roles WHERE id = $1`, id)
	role, err := scanRole(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Role{}, fmt.Errorf("rbac: role %q: %w", id, shared.ErrNotFound)
	}
	return role, err
}

// List returns roles in insertion order.
func (r *PGRoleRepository) List(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, permissions, is_system, created_at, updated_at
		 FROM roles ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRole(row rowScanner) (Role, error) {
	var (
		role        Role
		permissions []byte
	)
	if err := row.Scan(&role.ID, &role.Name, &role.Description, &permissions, &role.IsSystem, &role.CreatedAt, &role.UpdatedAt); err != nil {
		return Role{}, err
	}
	if len(permissions) > 0 {
		if err := json.Unmarshal(permissions, &role.Permissions); err != nil {
			return Role{}, err
		}
	}
	return role, nil
}

// PGAssignmentRepository implements AssignmentRepository on PostgreSQL.
type PGAssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewPGAssignmentRepository constructs the repository.
func NewPGAssignmentRepository(pool *pgxpool.Pool) *PGAssignmentRepository {
	return &PGAssignmentRepository{pool: pool}
}

// Assign upserts the user's single role assignment.
func (r *PGAssignmentRepository) Assign(ctx context.Context, userID, roleID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO role_assignments (user_id, role_id) VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET role_id = EXCLUDED.role_id`,
		userID, roleID)
	return err
}

// Resolve returns the assigned role id.
func (r *PGAssignmentRepository) Resolve(ctx context.Context, userID string) (string, error) {
	var roleID string
	err := r.pool.QueryRow(ctx, `SELECT role_id FROM role_assignments WHERE user_id = $1`, userID).Scan(&roleID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("rbac: no role assigned to user %q: %w", userID, shared.ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return roleID, nil
}

// Unassign clears the user's role.
func (r *PGAssignmentRepository) Unassign(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM role_assignments WHERE user_id = $1`, userID)
	return err
}

var (
	_ RoleRepository       = (*PGRoleRepository)(nil)
	_ AssignmentRepository = (*PGAssignmentRepository)(nil)
)
