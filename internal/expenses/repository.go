package expenses

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborstay/harborstay/internal/shared"
)

// RepositoryPort defines persistence for expenses.
type RepositoryPort interface {
	List(ctx context.Context, filter ListFilter) ([]Expense, error)
	Get(ctx context.Context, id string) (Expense, error)
	Insert(ctx context.Context, expense Expense) error
	Update(ctx context.Context, expense Expense) error
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

const expenseColumns = `id, property_id, category_id, room_id, description, amount,
	incurred_on, vendor, receipt, created_by, created_at, updated_at`

// List returns expenses matching the filter, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Expense, error) {
	query := "SELECT " + expenseColumns + " FROM expenses WHERE TRUE"
	args := []any{}
	if filter.PropertyID != "" {
		args = append(args, filter.PropertyID)
		query += fmt.Sprintf(" AND property_id = $%d", len(args))
	}
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND incurred_on >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(" AND incurred_on < $%d", len(args))
	}
	query += " ORDER BY incurred_on DESC, id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, expense)
	}
	return out, rows.Err()
}

// Get fetches an expense by id.
func (r *Repository) Get(ctx context.Context, id string) (Expense, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+expenseColumns+" FROM expenses WHERE id = $1", id)
	expense, err := scanExpense(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Expense{}, fmt.Errorf("expenses: expense %q: %w", id, shared.ErrNotFound)
	}
	return expense, err
}

// Insert stores a new expense.
func (r *Repository) Insert(ctx context.Context, e Expense) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO expenses (`+expenseColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		e.ID, e.PropertyID, e.CategoryID, nullable(e.RoomID), e.Description, e.Amount,
		e.IncurredOn, e.Vendor, e.Receipt, nullable(e.CreatedBy), e.CreatedAt, e.UpdatedAt)
	return err
}

// Update rewrites an expense row.
func (r *Repository) Update(ctx context.Context, e Expense) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE expenses SET property_id=$2, category_id=$3, room_id=$4, description=$5,
		 amount=$6, incurred_on=$7, vendor=$8, receipt=$9, updated_at=$10
		 WHERE id = $1`,
		e.ID, e.PropertyID, e.CategoryID, nullable(e.RoomID), e.Description, e.Amount,
		e.IncurredOn, e.Vendor, e.Receipt, e.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("expenses: expense %q: %w", e.ID, shared.ErrNotFound)
	}
	return nil
}

// Delete removes an expense.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("expenses: expense %q: %w", id, shared.ErrNotFound)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func scanExpense(row pgx.Row) (Expense, error) {
	var (
		e                 Expense
		roomID, createdBy *string
	)
	err := row.Scan(&e.ID, &e.PropertyID, &e.CategoryID, &roomID, &e.Description, &e.Amount,
		&e.IncurredOn, &e.Vendor, &e.Receipt, &createdBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return Expense{}, err
	}
	if roomID != nil {
		e.RoomID = *roomID
	}
	if createdBy != nil {
		e.CreatedBy = *createdBy
	}
	return e, nil
}

var _ RepositoryPort = (*Repository)(nil)
