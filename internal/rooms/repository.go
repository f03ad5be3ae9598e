package rooms

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	pgxconn "github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborstay/harborstay/internal/shared"
)

// RepositoryPort defines persistence for rooms.
type RepositoryPort interface {
	List(ctx context.Context, filter ListFilter) ([]Room, error)
	Get(ctx context.Context, id string) (Room, error)
	Insert(ctx context.Context, room Room) error
	Update(ctx context.Context, room Room) error
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]Room, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const roomColumns = `id, property_id, room_type_id, owner_id, number, floor, base_rate,
	max_occupancy, housekeeping, is_active, notes, created_at, updated_at`

// List returns rooms matching the filter ordered by number.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Room, error) {
	query := "SELECT " + roomColumns + " FROM rooms WHERE TRUE"
	args := []any{}
	if filter.PropertyID != "" {
		args = append(args, filter.PropertyID)
		query += fmt.Sprintf(" AND property_id = $%d", len(args))
	}
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		query += fmt.Sprintf(" AND owner_id = $%d", len(args))
	}
	if filter.ActiveOnly {
		query += " AND is_active"
	}
	query += " ORDER BY number, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRooms(rows)
}

// ListByOwner returns the rooms attributed to an owner account.
func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]Room, error) {
	return r.List(ctx, ListFilter{OwnerID: ownerID})
}

// Get fetches a room by id.
func (r *Repository) Get(ctx context.Context, id string) (Room, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+roomColumns+" FROM rooms WHERE id = $1", id)
	room, err := scanRoom(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Room{}, fmt.Errorf("rooms: room %q: %w", id, shared.ErrNotFound)
	}
	return room, err
}

// Insert stores a new room. A duplicate number within a property is rejected.
func (r *Repository) Insert(ctx context.Context, room Room) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO rooms (`+roomColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		room.ID, room.PropertyID, room.RoomTypeID, nullable(room.OwnerID), room.Number,
		room.Floor, room.BaseRate, room.MaxOccupancy, string(room.Housekeeping),
		room.IsActive, room.Notes, room.CreatedAt, room.UpdatedAt)
	if err != nil {
		var pgErr *pgxconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("rooms: number %q already exists in property: %w", room.Number, shared.ErrDuplicate)
		}
	}
	return err
}

// Update rewrites a room row.
func (r *Repository) Update(ctx context.Context, room Room) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE rooms SET property_id=$2, room_type_id=$3, owner_id=$4, number=$5, floor=$6,
		 base_rate=$7, max_occupancy=$8, housekeeping=$9, is_active=$10, notes=$11, updated_at=$12
		 WHERE id = $1`,
		room.ID, room.PropertyID, room.RoomTypeID, nullable(room.OwnerID), room.Number,
		room.Floor, room.BaseRate, room.MaxOccupancy, string(room.Housekeeping),
		room.IsActive, room.Notes, room.UpdatedAt)
	if err != nil {
		var pgErr *pgxconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("rooms: number %q already exists in property: %w", room.Number, shared.ErrDuplicate)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("rooms: room %q: %w", room.ID, shared.ErrNotFound)
	}
	return nil
}

// Delete removes a room.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("rooms: room %q: %w", id, shared.ErrNotFound)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func collectRooms(rows pgx.Rows) ([]Room, error) {
	var out []Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	return out, rows.Err()
}

func scanRoom(row pgx.Row) (Room, error) {
	var (
		room         Room
		ownerID      *string
		housekeeping string
	)
	err := row.Scan(&room.ID, &room.PropertyID, &room.RoomTypeID, &ownerID, &room.Number,
		&room.Floor, &room.BaseRate, &room.MaxOccupancy, &housekeeping, &room.IsActive,
		&room.Notes, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return Room{}, err
	}
	if ownerID != nil {
		room.OwnerID = *ownerID
	}
	room.Housekeeping = HousekeepingState(housekeeping)
	return room, nil
}

var _ RepositoryPort = (*Repository)(nil)
