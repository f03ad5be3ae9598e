package settings

import (
	"context"
	"errors"
	"fmt"

	pgxconn "github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborstay/harborstay/internal/shared"
)

// RepositoryPort defines persistence for the reference catalogs.
type RepositoryPort interface {
	ListProperties(ctx context.Context) ([]Property, error)
	UpsertProperty(ctx context.Context, p Property) error
	ListRoomTypes(ctx context.Context) ([]RoomType, error)
	UpsertRoomType(ctx context.Context, rt RoomType) error
	ListBookingSources(ctx context.Context) ([]BookingSource, error)
	UpsertBookingSource(ctx context.Context, bs BookingSource) error
	ListExpenseCategories(ctx context.Context) ([]ExpenseCategory, error)
	UpsertExpenseCategory(ctx context.Context, ec ExpenseCategory) error
	DeleteExpenseCategory(ctx context.Context, id string) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListProperties returns all properties ordered by name.
func (r *Repository) ListProperties(ctx context.Context) ([]Property, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, address, city, timezone, is_active, created_at, updated_at
		 FROM properties ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Property
	for rows.Next() {
		var p Property
		if err := rows.Scan(&p.ID, &p.Name, &p.Address, &p.City, &p.Timezone,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpsertProperty inserts or replaces a property by id.
func (r *Repository) UpsertProperty(ctx context.Context, p Property) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO properties (id, name, address, city, timezone, is_active, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name, address = EXCLUDED.address, city = EXCLUDED.city,
		   timezone = EXCLUDED.timezone, is_active = EXCLUDED.is_active, updated_at = EXCLUDED.updated_at`,
		p.ID, p.Name, p.Address, p.City, p.Timezone, p.IsActive, p.CreatedAt, p.UpdatedAt)
	return duplicateName(err, p.Name)
}

// ListRoomTypes returns all room types ordered by name.
func (r *Repository) ListRoomTypes(ctx context.Context) ([]RoomType, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, default_rate, capacity, created_at, updated_at
		 FROM room_types ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RoomType
	for rows.Next() {
		var rt RoomType
		if err := rows.Scan(&rt.ID, &rt.Name, &rt.Description, &rt.DefaultRate,
			&rt.Capacity, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// UpsertRoomType inserts or replaces a room type by id.
func (r *Repository) UpsertRoomType(ctx context.Context, rt RoomType) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO room_types (id, name, description, default_rate, capacity, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name, description = EXCLUDED.description,
		   default_rate = EXCLUDED.default_rate, capacity = EXCLUDED.capacity,
		   updated_at = EXCLUDED.updated_at`,
		rt.ID, rt.Name, rt.Description, rt.DefaultRate, rt.Capacity, rt.CreatedAt, rt.UpdatedAt)
	return duplicateName(err, rt.Name)
}

// ListBookingSources returns all booking sources ordered by name.
func (r *Repository) ListBookingSources(ctx context.Context) ([]BookingSource, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, commission_pct, is_active, created_at, updated_at
		 FROM booking_sources ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BookingSource
	for rows.Next() {
		var bs BookingSource
		if err := rows.Scan(&bs.ID, &bs.Name, &bs.CommissionPct, &bs.IsActive,
			&bs.CreatedAt, &bs.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, bs)
	}
	return out, rows.Err()
}

// UpsertBookingSource inserts or replaces a booking source by id.
func (r *Repository) UpsertBookingSource(ctx context.Context, bs BookingSource) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO booking_sources (id, name, commission_pct, is_active, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name, commission_pct = EXCLUDED.commission_pct,
		   is_active = EXCLUDED.is_active, updated_at = EXCLUDED.updated_at`,
		bs.ID, bs.Name, bs.CommissionPct, bs.IsActive, bs.CreatedAt, bs.UpdatedAt)
	return duplicateName(err, bs.Name)
}

// ListExpenseCategories returns all expense categories ordered by name.
func (r *Repository) ListExpenseCategories(ctx context.Context) ([]ExpenseCategory, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, created_at, updated_at FROM expense_categories ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ExpenseCategory
	for rows.Next() {
		var ec ExpenseCategory
		if err := rows.Scan(&ec.ID, &ec.Name, &ec.CreatedAt, &ec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, ec)
	}
	return out, rows.Err()
}

// UpsertExpenseCategory inserts or replaces an expense category by id.
func (r *Repository) UpsertExpenseCategory(ctx context.Context, ec ExpenseCategory) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO expense_categories (id, name, created_at, updated_at)
		 VALUES ($1,$2,$3,$4)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, updated_at = EXCLUDED.updated_at`,
		ec.ID, ec.Name, ec.CreatedAt, ec.UpdatedAt)
	return duplicateName(err, ec.Name)
}

// DeleteExpenseCategory removes an expense category.
func (r *Repository) DeleteExpenseCategory(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expense_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("settings: expense category %q: %w", id, shared.ErrNotFound)
	}
	return nil
}

func duplicateName(err error, name string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgxconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("settings: name %q already in use: %w", name, shared.ErrDuplicate)
	}
	return err
}

var _ RepositoryPort = (*Repository)(nil)
