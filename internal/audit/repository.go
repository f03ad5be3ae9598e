package audit

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Event is one recorded action in the timeline.
type Event struct {
	ID       int64          `json:"id"`
	ActorID  string         `json:"actor_id,omitempty"`
	Action   string         `json:"action"`
	Entity   string         `json:"entity"`
	EntityID string         `json:"entity_id,omitempty"`
	Meta     map[string]any `json:"meta,omitempty"`
	At       time.Time      `json:"at"`
}

// Filter narrows the timeline.
type Filter struct {
	ActorID string
	Entity  string
	Action  string
	From    time.Time
	To      time.Time
}

// RepositoryPort defines read access to the audit log.
type RepositoryPort interface {
	// List returns up to limit events older than the cursor, newest
	// first. A zero cursor starts from the top.
	List(ctx context.Context, filter Filter, cursor int64, limit int) ([]Event, error)
}

// Repository provides PostgreSQL backed reads over audit_logs.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns timeline events, newest first, keyset-paged by id.
func (r *Repository) List(ctx context.Context, filter Filter, cursor int64, limit int) ([]Event, error) {
	query := `SELECT id, actor_id, action, entity, entity_id, meta, occurred_at FROM audit_logs WHERE TRUE`
	args := []any{}
	arg := func(v any) int {
		args = append(args, v)
		return len(args)
	}
	if cursor > 0 {
		query += ` AND id < $` + itoa(arg(cursor))
	}
	if filter.ActorID != "" {
		query += ` AND actor_id = $` + itoa(arg(filter.ActorID))
	}
	if filter.Entity != "" {
		query += ` AND entity = $` + itoa(arg(filter.Entity))
	}
	if filter.Action != "" {
		query += ` AND action = $` + itoa(arg(filter.Action))
	}
	if !filter.From.IsZero() {
		query += ` AND occurred_at >= $` + itoa(arg(filter.From))
	}
	if !filter.To.IsZero() {
		query += ` AND occurred_at < $` + itoa(arg(filter.To))
	}
	query += ` ORDER BY id DESC LIMIT $` + itoa(arg(limit))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var events []Event
	for rows.Next() {
		var (
			event   Event
			actorID *string
			rawMeta []byte
		)
		if err := rows.Scan(&event.ID, &actorID, &event.Action, &event.Entity,
			&event.EntityID, &rawMeta, &event.At); err != nil {
			return nil, err
		}
		if actorID != nil {
			event.ActorID = *actorID
		}
		if len(rawMeta) > 0 {
			if err := json.Unmarshal(rawMeta, &event.Meta); err != nil {
				return nil, err
			}
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func itoa(n int) string { return strconv.Itoa(n) }

var _ RepositoryPort = (*Repository)(nil)
