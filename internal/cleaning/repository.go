package cleaning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborstay/harborstay/internal/platform/db"
	"github.com/harborstay/harborstay/internal/shared"
)

// RepositoryPort defines persistence for cleaning tasks.
type RepositoryPort interface {
	ListForDate(ctx context.Context, date time.Time) ([]Task, error)
	Get(ctx context.Context, id string) (Task, error)
	InsertBatch(ctx context.Context, tasks []Task) error
	Update(ctx context.Context, task Task) error
	// CheckoutRooms returns room ids with a checked in booking ending on
	// the given date.
	CheckoutRooms(ctx context.Context, date time.Time) ([]string, error)
	// HasOpenTask reports whether the room already has a pending or
	// in-progress task.
	HasOpenTask(ctx context.Context, roomID string) (bool, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListForDate returns the housekeeping board for one day.
func (r *Repository) ListForDate(ctx context.Context, date time.Time) ([]Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT t.id, t.room_id, rm.number, t.due_date, t.status, t.assignee_id, t.notes, t.created_at, t.updated_at
		 FROM cleaning_tasks t
		 JOIN rooms rm ON rm.id = t.room_id
		 WHERE t.due_date = $1
		 ORDER BY rm.number, t.id`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

// Get fetches a task by id.
func (r *Repository) Get(ctx context.Context, id string) (Task, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT t.id, t.room_id, rm.number, t.due_date, t.status, t.assignee_id, t.notes, t.created_at, t.updated_at
		 FROM cleaning_tasks t
		 JOIN rooms rm ON rm.id = t.room_id
		 WHERE t.id = $1`, id)
	task, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, fmt.Errorf("cleaning: task %q: %w", id, shared.ErrNotFound)
	}
	return task, err
}

// InsertBatch stores new tasks in one transaction, so a generation run
// either lands in full or not at all.
func (r *Repository) InsertBatch(ctx context.Context, tasks []Task) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, t := range tasks {
			_, err := tx.Exec(ctx,
				`INSERT INTO cleaning_tasks (id, room_id, due_date, status, assignee_id, notes, created_at, updated_at)
				 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
				t.ID, t.RoomID, t.DueDate, string(t.Status), nullable(t.AssigneeID), t.Notes, t.CreatedAt, t.UpdatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Update rewrites a task row.
func (r *Repository) Update(ctx context.Context, t Task) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cleaning_tasks SET status=$2, assignee_id=$3, notes=$4, updated_at=$5 WHERE id = $1`,
		t.ID, string(t.Status), nullable(t.AssigneeID), t.Notes, t.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cleaning: task %q: %w", t.ID, shared.ErrNotFound)
	}
	return nil
}

// CheckoutRooms lists rooms whose guests depart on the given date.
func (r *Repository) CheckoutRooms(ctx context.Context, date time.Time) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT room_id FROM bookings
		 WHERE status = 'checked_in' AND check_out_date = $1`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// HasOpenTask reports whether the room already has an unfinished task.
func (r *Repository) HasOpenTask(ctx context.Context, roomID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM cleaning_tasks
			WHERE room_id = $1 AND status IN ('pending', 'in_progress')
		 )`, roomID).Scan(&exists)
	return exists, err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func scanTask(row pgx.Row) (Task, error) {
	var (
		t          Task
		status     string
		assigneeID *string
	)
	err := row.Scan(&t.ID, &t.RoomID, &t.RoomNumber, &t.DueDate, &status,
		&assigneeID, &t.Notes, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return Task{}, err
	}
	t.Status = TaskStatus(status)
	if assigneeID != nil {
		t.AssigneeID = *assigneeID
	}
	return t, nil
}

var _ RepositoryPort = (*Repository)(nil)
