package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	pgxconn "github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborstay/harborstay/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id string) (User, error)
	Insert(ctx context.Context, user User, passwordHash string) error
	Update(ctx context.Context, user User) error
	SetPassword(ctx context.Context, id, passwordHash string) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all users ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, email, name, account_kind, is_active, last_active_at, created_at, updated_at
		 FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.AccountKind,
			&user.IsActive, &user.LastActiveAt, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Get fetches a user by id.
func (r *Repository) Get(ctx context.Context, id string) (User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, email, name, account_kind, is_active, last_active_at, created_at, updated_at
		 FROM users WHERE id = $1`, id)
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.AccountKind,
		&user.IsActive, &user.LastActiveAt, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, fmt.Errorf("users: user %q: %w", id, shared.ErrNotFound)
	}
	return user, err
}

// Insert stores a new user with their password hash.
func (r *Repository) Insert(ctx context.Context, user User, passwordHash string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, email, name, password_hash, account_kind, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Email, user.Name, passwordHash, user.AccountKind, user.IsActive, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgxconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("users: email %q already registered: %w", user.Email, shared.ErrDuplicate)
		}
		return err
	}
	return nil
}

// Update rewrites mutable profile fields.
func (r *Repository) Update(ctx context.Context, user User) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET email = $2, name = $3, is_active = $4, updated_at = $5 WHERE id = $1`,
		user.ID, user.Email, user.Name, user.IsActive, user.UpdatedAt)
	if err != nil {
		var pgErr *pgxconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("users: email %q already registered: %w", user.Email, shared.ErrDuplicate)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("users: user %q: %w", user.ID, shared.ErrNotFound)
	}
	return nil
}

// SetPassword replaces the stored password hash.
func (r *Repository) SetPassword(ctx context.Context, id, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("users: user %q: %w", id, shared.ErrNotFound)
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
