package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/harborstay/harborstay/internal/shared"
)

// Service builds reports, caching monthly results in Redis.
type Service struct {
	repo     RepositoryPort
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewService builds a Service instance. cache may be nil, reports are then
// computed on every request.
func NewService(repo RepositoryPort, cache *redis.Client, cacheTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func monthlyCacheKey(year int, month time.Month) string {
	return fmt.Sprintf("report:monthly:%04d-%02d", year, int(month))
}

// Monthly builds the report for one calendar month. The three aggregates
// run concurrently, the assembled report is cached.
func (s *Service) Monthly(ctx context.Context, year int, month time.Month) (MonthlyReport, error) {
	if year < 2000 || month < time.January || month > time.December {
		return MonthlyReport{}, fmt.Errorf("reports: invalid period: %w", shared.ErrValidation)
	}

	key := monthlyCacheKey(year, month)
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			var report MonthlyReport
			if err := json.Unmarshal(raw, &report); err == nil {
				return report, nil
			}
		} else if !errors.Is(err, redis.Nil) && s.logger != nil {
			s.logger.Warn("report cache read failed", slog.String("key", key), slog.Any("error", err))
		}
	}

	report, err := s.compute(ctx, year, month)
	if err != nil {
		return MonthlyReport{}, err
	}

	if s.cache != nil {
		raw, err := json.Marshal(report)
		if err == nil {
			if err := s.cache.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil && s.logger != nil {
				s.logger.Warn("report cache write failed", slog.String("key", key), slog.Any("error", err))
			}
		}
	}
	return report, nil
}

// Warmup precomputes and caches the current and previous month reports.
func (s *Service) Warmup(ctx context.Context) error {
	now := time.Now().UTC()
	periods := []time.Time{now, now.AddDate(0, -1, 0)}
	for _, period := range periods {
		if _, err := s.Monthly(ctx, period.Year(), period.Month()); err != nil {
			return err
		}
	}
	return nil
}

// Invalidate drops the cached report for one month.
func (s *Service) Invalidate(ctx context.Context, year int, month time.Month) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Del(ctx, monthlyCacheKey(year, month)).Err()
}

// Dashboard computes the landing page snapshot. Never cached, the board
// changes all day.
func (s *Service) Dashboard(ctx context.Context) (DashboardSummary, error) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.repo.Dashboard(ctx, today)
}

func (s *Service) compute(ctx context.Context, year int, month time.Month) (MonthlyReport, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var (
		occupancy OccupancySummary
		revenue   RevenueSummary
		expenses  ExpenseSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		occupancy, err = s.repo.Occupancy(gctx, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		revenue, err = s.repo.Revenue(gctx, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.repo.Expenses(gctx, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return MonthlyReport{}, err
	}

	return MonthlyReport{
		Year:        year,
		Month:       month,
		Occupancy:   occupancy,
		Revenue:     revenue,
		Expenses:    expenses,
		NetResult:   revenue.GrossRevenue - revenue.NetToOwners - expenses.Total,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
