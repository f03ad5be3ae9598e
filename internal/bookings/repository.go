package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/harborstay/harborstay/internal/shared"
)

// RepositoryPort defines persistence for bookings.
type RepositoryPort interface {
	List(ctx context.Context, filter ListFilter) ([]Booking, int, error)
	Get(ctx context.Context, id string) (Booking, error)
	Insert(ctx context.Context, booking Booking) error
	Update(ctx context.Context, booking Booking) error
	Delete(ctx context.Context, id string) error
	// Overlapping reports whether the room has a blocking booking that
	// intersects [checkIn, checkOut), excluding the given booking id.
	Overlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (bool, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const bookingColumns = `id, reference, room_id, guest_id, check_in_date, check_out_date,
	adults, children, base_rate, total_amount, security_deposit, commission, tourism_fee,
	vat, net_to_owner, status, payment_status, amount_paid, source_id, agent_id, notes,
	created_by, updated_by, created_at, updated_at`

// List returns bookings matching the filter plus the unpaged total.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Booking, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.Status != "" {
		where = append(where, "status = "+arg(string(filter.Status)))
	}
	if filter.RoomID != "" {
		where = append(where, "room_id = "+arg(filter.RoomID))
	}
	if filter.GuestID != "" {
		where = append(where, "guest_id = "+arg(filter.GuestID))
	}
	if !filter.FromDate.IsZero() {
		where = append(where, "check_out_date > "+arg(filter.FromDate))
	}
	if !filter.ToDate.IsZero() {
		where = append(where, "check_in_date < "+arg(filter.ToDate))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM bookings WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	query := fmt.Sprintf("SELECT %s FROM bookings WHERE %s ORDER BY check_in_date DESC, id LIMIT %s OFFSET %s",
		bookingColumns, cond, arg(perPage), arg((page-1)*perPage))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, booking)
	}
	return out, total, rows.Err()
}

// Get fetches a booking by id.
func (r *Repository) Get(ctx context.Context, id string) (Booking, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE id = $1", id)
	booking, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Booking{}, fmt.Errorf("bookings: booking %q: %w", id, shared.ErrNotFound)
	}
	return booking, err
}

// Insert stores a new booking.
func (r *Repository) Insert(ctx context.Context, b Booking) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO bookings (`+bookingColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)`,
		b.ID, b.Reference, b.RoomID, b.GuestID, b.CheckInDate, b.CheckOutDate,
		b.Adults, b.Children, b.BaseRate, b.TotalAmount, b.SecurityDeposit, b.Commission,
		b.TourismFee, b.VAT, b.NetToOwner, string(b.Status), string(b.PaymentStatus), b.AmountPaid,
		nullable(b.SourceID), nullable(b.AgentID), b.Notes, nullable(b.CreatedBy), nullable(b.UpdatedBy),
		b.CreatedAt, b.UpdatedAt)
	return err
}

// Update rewrites a booking row.
func (r *Repository) Update(ctx context.Context, b Booking) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE bookings SET room_id=$2, guest_id=$3, check_in_date=$4, check_out_date=$5,
		 adults=$6, children=$7, base_rate=$8, total_amount=$9, security_deposit=$10,
		 commission=$11, tourism_fee=$12, vat=$13, net_to_owner=$14, status=$15,
		 payment_status=$16, amount_paid=$17, source_id=$18, agent_id=$19, notes=$20,
		 updated_by=$21, updated_at=$22
		 WHERE id = $1`,
		b.ID, b.RoomID, b.GuestID, b.CheckInDate, b.CheckOutDate, b.Adults, b.Children,
		b.BaseRate, b.TotalAmount, b.SecurityDeposit, b.Commission, b.TourismFee, b.VAT,
		b.NetToOwner, string(b.Status), string(b.PaymentStatus), b.AmountPaid,
		nullable(b.SourceID), nullable(b.AgentID), b.Notes, nullable(b.UpdatedBy), b.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bookings: booking %q: %w", b.ID, shared.ErrNotFound)
	}
	return nil
}

// Delete removes a booking.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bookings: booking %q: %w", id, shared.ErrNotFound)
	}
	return nil
}

// Overlapping checks for a conflicting stay in the same room. Cancelled
// and no-show bookings do not block the room.
func (r *Repository) Overlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time, excludeID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE room_id = $1 AND id <> $4
			  AND status NOT IN ('cancelled', 'no_show')
			  AND check_in_date < $3 AND check_out_date > $2
		 )`,
		roomID, checkIn, checkOut, excludeID).Scan(&exists)
	return exists, err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (Booking, error) {
	var (
		b                    Booking
		status, payment      string
		sourceID, agentID    *string
		createdBy, updatedBy *string
	)
	err := row.Scan(&b.ID, &b.Reference, &b.RoomID, &b.GuestID, &b.CheckInDate, &b.CheckOutDate,
		&b.Adults, &b.Children, &b.BaseRate, &b.TotalAmount, &b.SecurityDeposit, &b.Commission,
		&b.TourismFee, &b.VAT, &b.NetToOwner, &status, &payment, &b.AmountPaid,
		&sourceID, &agentID, &b.Notes, &createdBy, &updatedBy, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return Booking{}, err
	}
	b.Status = Status(status)
	b.PaymentStatus = PaymentStatus(payment)
	b.SourceID = deref(sourceID)
	b.AgentID = deref(agentID)
	b.CreatedBy = deref(createdBy)
	b.UpdatedBy = deref(updatedBy)
	return b, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ RepositoryPort = (*Repository)(nil)
