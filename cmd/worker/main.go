package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/harborstay/harborstay/internal/app"
	"github.com/harborstay/harborstay/internal/cleaning"
	"github.com/harborstay/harborstay/internal/platform/cache"
	"github.com/harborstay/harborstay/internal/platform/db"
	"github.com/harborstay/harborstay/internal/reports"
	"github.com/harborstay/harborstay/internal/shared"
	"github.com/harborstay/harborstay/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	auditLogger := shared.NewAuditLogger(pool)

	cleaningRepo := cleaning.NewRepository(pool)
	cleaningService := cleaning.NewService(cleaningRepo, auditLogger, logger)

	reportRepo := reports.NewRepository(pool)
	reportService := reports.NewService(reportRepo, redisClient, cfg.ReportCacheTTL, logger)

	cleaningTask, err := jobs.NewCleaningGenerateTask(jobs.CleaningGeneratePayload{})
	if err != nil {
		logger.Error("build cleaning task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeCleaningGenerate, Handler: jobs.NewCleaningGenerateHandler(cleaningService, logger)},
			{Type: jobs.TaskTypeReportsWarmup, Handler: jobs.NewReportsWarmupHandler(reportService, logger)},
		},
		Cron: []jobs.CronRegistration{
			// Build the housekeeping board shortly after midnight.
			{Spec: "10 0 * * *", Task: cleaningTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			// Refresh cached reports each morning before the office opens.
			{Spec: "0 6 * * *", Task: jobs.NewReportsWarmupTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("starting worker")
	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
