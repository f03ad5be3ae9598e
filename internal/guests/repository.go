package guests

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborstay/harborstay/internal/shared"
)

// RepositoryPort defines persistence for guests.
type RepositoryPort interface {
	List(ctx context.Context, search string) ([]Guest, error)
	Get(ctx context.Context, id string) (Guest, error)
	Insert(ctx context.Context, guest Guest) error
	Update(ctx context.Context, guest Guest) error
	Delete(ctx context.Context, id string) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const guestColumns = `id, first_name, last_name, email, phone, nationality, id_number, notes, created_at, updated_at`

// List returns guests, optionally filtered by a name or email search term.
func (r *Repository) List(ctx context.Context, search string) ([]Guest, error) {
	query := "SELECT " + guestColumns + " FROM guests"
	args := []any{}
	if search != "" {
		args = append(args, "%"+search+"%")
		query += ` WHERE first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1`
	}
	query += " ORDER BY last_name, first_name, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Guest
	for rows.Next() {
		var g Guest
		if err := rows.Scan(&g.ID, &g.FirstName, &g.LastName, &g.Email, &g.Phone,
			&g.Nationality, &g.IDNumber, &g.Notes, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Get fetches a guest by id.
func (r *Repository) Get(ctx context.Context, id string) (Guest, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+guestColumns+" FROM guests WHERE id = $1", id)
	var g Guest
	err := row.Scan(&g.ID, &g.FirstName, &g.LastName, &g.Email, &g.Phone,
		&g.Nationality, &g.IDNumber, &g.Notes, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Guest{}, fmt.Errorf("guests: guest %q: %w", id, shared.ErrNotFound)
	}
	return g, err
}

// Insert stores a new guest.
func (r *Repository) Insert(ctx context.Context, g Guest) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO guests (`+guestColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		g.ID, g.FirstName, g.LastName, g.Email, g.Phone, g.Nationality,
		g.IDNumber, g.Notes, g.CreatedAt, g.UpdatedAt)
	return err
}

// Update rewrites a guest row.
func (r *Repository) Update(ctx context.Context, g Guest) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE guests SET first_name=$2, last_name=$3, email=$4, phone=$5,
		 nationality=$6, id_number=$7, notes=$8, updated_at=$9
		 WHERE id = $1`,
		g.ID, g.FirstName, g.LastName, g.Email, g.Phone, g.Nationality,
		g.IDNumber, g.Notes, g.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("guests: guest %q: %w", g.ID, shared.ErrNotFound)
	}
	return nil
}

// Delete removes a guest.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM guests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("guests: guest %q: %w", id, shared.ErrNotFound)
	}
	return nil
}

var _ RepositoryPort = (*Repository)(nil)
