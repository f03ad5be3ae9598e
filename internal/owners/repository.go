package owners

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	pgxconn "github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborstay/harborstay/internal/shared"
)

// RepositoryPort defines persistence for owners.
type RepositoryPort interface {
	List(ctx context.Context) ([]Owner, error)
	Get(ctx context.Context, id string) (Owner, error)
	GetByUser(ctx context.Context, userID string) (Owner, error)
	Insert(ctx context.Context, owner Owner) error
	Update(ctx context.Context, owner Owner) error
	Delete(ctx context.Context, id string) error
	StatementLines(ctx context.Context, ownerID string, from, to time.Time) ([]StatementLine, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const ownerColumns = `id, user_id, name, email, phone, commission_pct, bank_account, notes, created_at, updated_at`

// List returns all owners ordered by name.
func (r *Repository) List(ctx context.Context) ([]Owner, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+ownerColumns+" FROM owners ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Owner
	for rows.Next() {
		owner, err := scanOwner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, owner)
	}
	return out, rows.Err()
}

// Get fetches an owner by id.
func (r *Repository) Get(ctx context.Context, id string) (Owner, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+ownerColumns+" FROM owners WHERE id = $1", id)
	owner, err := scanOwner(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Owner{}, fmt.Errorf("owners: owner %q: %w", id, shared.ErrNotFound)
	}
	return owner, err
}

// GetByUser fetches the owner profile linked to a portal account.
func (r *Repository) GetByUser(ctx context.Context, userID string) (Owner, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+ownerColumns+" FROM owners WHERE user_id = $1", userID)
	owner, err := scanOwner(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Owner{}, fmt.Errorf("owners: no owner profile for user %q: %w", userID, shared.ErrNotFound)
	}
	return owner, err
}

// Insert stores a new owner.
func (r *Repository) Insert(ctx context.Context, o Owner) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO owners (`+ownerColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		o.ID, nullable(o.UserID), o.Name, o.Email, o.Phone, o.CommissionPct,
		o.BankAccount, o.Notes, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		var pgErr *pgxconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("owners: user already linked to an owner: %w", shared.ErrDuplicate)
		}
	}
	return err
}

// Update rewrites an owner row.
func (r *Repository) Update(ctx context.Context, o Owner) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE owners SET user_id=$2, name=$3, email=$4, phone=$5, commission_pct=$6,
		 bank_account=$7, notes=$8, updated_at=$9
		 WHERE id = $1`,
		o.ID, nullable(o.UserID), o.Name, o.Email, o.Phone, o.CommissionPct,
		o.BankAccount, o.Notes, o.UpdatedAt)
	if err != nil {
		var pgErr *pgxconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("owners: user already linked to an owner: %w", shared.ErrDuplicate)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("owners: owner %q: %w", o.ID, shared.ErrNotFound)
	}
	return nil
}

// Delete removes an owner.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM owners WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("owners: owner %q: %w", id, shared.ErrNotFound)
	}
	return nil
}

// StatementLines returns checked out bookings on the owner's rooms with a
// check-out inside [from, to).
func (r *Repository) StatementLines(ctx context.Context, ownerID string, from, to time.Time) ([]StatementLine, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT b.id, b.reference, rm.number, b.check_in_date, b.check_out_date,
		        b.total_amount, b.commission, b.tourism_fee, b.vat, b.net_to_owner
		 FROM bookings b
		 JOIN rooms rm ON rm.id = b.room_id
		 WHERE rm.owner_id = $1
		   AND b.status = 'checked_out'
		   AND b.check_out_date >= $2 AND b.check_out_date < $3
		 ORDER BY b.check_out_date, b.id`,
		ownerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []StatementLine
	for rows.Next() {
		var line StatementLine
		if err := rows.Scan(&line.BookingID, &line.Reference, &line.RoomNumber,
			&line.CheckInDate, &line.CheckOutDate, &line.TotalAmount,
			&line.Commission, &line.TourismFee, &line.VAT, &line.NetToOwner); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func scanOwner(row pgx.Row) (Owner, error) {
	var (
		o      Owner
		userID *string
	)
	err := row.Scan(&o.ID, &userID, &o.Name, &o.Email, &o.Phone, &o.CommissionPct,
		&o.BankAccount, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Owner{}, err
	}
	if userID != nil {
		o.UserID = *userID
	}
	return o, nil
}

var _ RepositoryPort = (*Repository)(nil)
