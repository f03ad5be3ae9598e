package reports

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/harborstay/harborstay/internal/shared"
)

type stubRepo struct {
	occupancy OccupancySummary
	revenue   RevenueSummary
	expenses  ExpenseSummary
	calls     int
}

func (r *stubRepo) Occupancy(context.Context, time.Time, time.Time) (OccupancySummary, error) {
	r.calls++
	return r.occupancy, nil
}

func (r *stubRepo) Revenue(context.Context, time.Time, time.Time) (RevenueSummary, error) {
	return r.revenue, nil
}

func (r *stubRepo) Expenses(context.Context, time.Time, time.Time) (ExpenseSummary, error) {
	return r.expenses, nil
}

func (r *stubRepo) Dashboard(context.Context, time.Time) (DashboardSummary, error) {
	return DashboardSummary{RoomsTotal: 10}, nil
}

func newTestService(t *testing.T) (*Service, *stubRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	repo := &stubRepo{
		occupancy: OccupancySummary{TotalRooms: 10, NightsBooked: 180, NightsInStock: 300, OccupancyPct: 60},
		revenue:   RevenueSummary{GrossRevenue: 5000, TotalCommission: 500, TotalFees: 200, NetToOwners: 4300, BookingCount: 12},
		expenses:  ExpenseSummary{Total: 350, ByCategory: map[string]float64{"Maintenance": 200, "Utilities": 150}},
	}
	return NewService(repo, client, time.Minute, slog.Default()), repo, mr
}

func TestMonthlyReport(t *testing.T) {
	svc, _, _ := newTestService(t)

	report, err := svc.Monthly(context.Background(), 2026, time.July)
	require.NoError(t, err)
	require.Equal(t, 2026, report.Year)
	require.Equal(t, time.July, report.Month)
	require.InDelta(t, 60, report.Occupancy.OccupancyPct, 0.001)
	// gross - net to owners - expenses
	require.InDelta(t, 350, report.NetResult, 0.001)
}

func TestMonthlyReportCached(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Monthly(ctx, 2026, time.July)
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)

	_, err = svc.Monthly(ctx, 2026, time.July)
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)

	require.NoError(t, svc.Invalidate(ctx, 2026, time.July))
	_, err = svc.Monthly(ctx, 2026, time.July)
	require.NoError(t, err)
	require.Equal(t, 2, repo.calls)
}

func TestMonthlyReportCacheExpiry(t *testing.T) {
	svc, repo, mr := newTestService(t)
	ctx := context.Background()

	_, err := svc.Monthly(ctx, 2026, time.July)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, err = svc.Monthly(ctx, 2026, time.July)
	require.NoError(t, err)
	require.Equal(t, 2, repo.calls)
}

func TestMonthlyReportInvalidPeriod(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Monthly(context.Background(), 1980, time.July)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestWorksWithoutCache(t *testing.T) {
	repo := &stubRepo{expenses: ExpenseSummary{ByCategory: map[string]float64{}}}
	svc := NewService(repo, nil, time.Minute, slog.Default())

	_, err := svc.Monthly(context.Background(), 2026, time.July)
	require.NoError(t, err)
}

func TestWriteCSV(t *testing.T) {
	svc, _, _ := newTestService(t)
	report, err := svc.Monthly(context.Background(), 2026, time.July)
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, WriteCSV(&sb, report))
	out := sb.String()
	require.Contains(t, out, "section,metric,value")
	require.Contains(t, out, "revenue,gross_revenue,\"5,000.00\"")
	require.Contains(t, out, "expenses,Maintenance,200.00")
	require.Contains(t, out, "summary,net_result,350.00")
}
