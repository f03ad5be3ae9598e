package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryPort defines the aggregate queries behind the reports.
type RepositoryPort interface {
	Occupancy(ctx context.Context, from, to time.Time) (OccupancySummary, error)
	Revenue(ctx context.Context, from, to time.Time) (RevenueSummary, error)
	Expenses(ctx context.Context, from, to time.Time) (ExpenseSummary, error)
	Dashboard(ctx context.Context, today time.Time) (DashboardSummary, error)
}

// Repository provides PostgreSQL backed aggregates.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Occupancy computes room usage for [from, to).
func (r *Repository) Occupancy(ctx context.Context, from, to time.Time) (OccupancySummary, error) {
	var summary OccupancySummary
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM rooms WHERE is_active`).Scan(&summary.TotalRooms)
	if err != nil {
		return OccupancySummary{}, err
	}
	// Clamp each stay to the period so partial overlaps count their
	// in-period nights only.
	err = r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(
			(LEAST(check_out_date, $2::date) - GREATEST(check_in_date, $1::date))
		 ), 0)
		 FROM bookings
		 WHERE status IN ('confirmed', 'checked_in', 'checked_out')
		   AND check_in_date < $2 AND check_out_date > $1`,
		from, to).Scan(&summary.NightsBooked)
	if err != nil {
		return OccupancySummary{}, err
	}
	periodNights := int(to.Sub(from).Hours() / 24)
	summary.NightsInStock = summary.TotalRooms * periodNights
	if summary.NightsInStock > 0 {
		summary.OccupancyPct = 100 * float64(summary.NightsBooked) / float64(summary.NightsInStock)
	}
	return summary, nil
}

// Revenue aggregates income from stays ending in [from, to).
func (r *Repository) Revenue(ctx context.Context, from, to time.Time) (RevenueSummary, error) {
	var summary RevenueSummary
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_amount), 0), COALESCE(SUM(commission), 0),
		        COALESCE(SUM(tourism_fee + vat), 0), COALESCE(SUM(net_to_owner), 0), COUNT(*)
		 FROM bookings
		 WHERE status = 'checked_out'
		   AND check_out_date >= $1 AND check_out_date < $2`,
		from, to).Scan(&summary.GrossRevenue, &summary.TotalCommission,
		&summary.TotalFees, &summary.NetToOwners, &summary.BookingCount)
	return summary, err
}

// Expenses aggregates operating costs incurred in [from, to).
func (r *Repository) Expenses(ctx context.Context, from, to time.Time) (ExpenseSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ec.name, COALESCE(SUM(e.amount), 0)
		 FROM expenses e
		 JOIN expense_categories ec ON ec.id = e.category_id
		 WHERE e.incurred_on >= $1 AND e.incurred_on < $2
		 GROUP BY ec.name`,
		from, to)
	if err != nil {
		return ExpenseSummary{}, err
	}
	defer rows.Close()
	summary := ExpenseSummary{ByCategory: map[string]float64{}}
	for rows.Next() {
		var name string
		var amount float64
		if err := rows.Scan(&name, &amount); err != nil {
			return ExpenseSummary{}, err
		}
		summary.ByCategory[name] = amount
		summary.Total += amount
	}
	return summary, rows.Err()
}

// Dashboard computes the landing page snapshot for one day.
func (r *Repository) Dashboard(ctx context.Context, today time.Time) (DashboardSummary, error) {
	var summary DashboardSummary
	err := r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM bookings WHERE status = 'confirmed' AND check_in_date = $1),
			(SELECT COUNT(*) FROM bookings WHERE status = 'checked_in' AND check_out_date = $1),
			(SELECT COUNT(DISTINCT room_id) FROM bookings WHERE status = 'checked_in'),
			(SELECT COUNT(*) FROM rooms WHERE is_active),
			(SELECT COUNT(*) FROM cleaning_tasks WHERE status IN ('pending', 'in_progress')),
			(SELECT COALESCE(SUM(total_amount), 0) FROM bookings
			 WHERE status = 'checked_out'
			   AND check_out_date >= date_trunc('month', $1::date)
			   AND check_out_date < date_trunc('month', $1::date) + interval '1 month')`,
		today).Scan(&summary.TodayArrivals, &summary.TodayDepartures, &summary.RoomsOccupied,
		&summary.RoomsTotal, &summary.PendingCleanings, &summary.MonthRevenue)
	return summary, err
}

var _ RepositoryPort = (*Repository)(nil)
