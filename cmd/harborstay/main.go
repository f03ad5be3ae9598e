package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/harborstay/harborstay/internal/app"
	"github.com/harborstay/harborstay/internal/audit"
	"github.com/harborstay/harborstay/internal/auth"
	"github.com/harborstay/harborstay/internal/bookings"
	"github.com/harborstay/harborstay/internal/cleaning"
	"github.com/harborstay/harborstay/internal/expenses"
	"github.com/harborstay/harborstay/internal/guests"
	"github.com/harborstay/harborstay/internal/observability"
	"github.com/harborstay/harborstay/internal/owners"
	"github.com/harborstay/harborstay/internal/platform/cache"
	"github.com/harborstay/harborstay/internal/platform/db"
	"github.com/harborstay/harborstay/internal/rbac"
	"github.com/harborstay/harborstay/internal/reports"
	"github.com/harborstay/harborstay/internal/rooms"
	"github.com/harborstay/harborstay/internal/settings"
	"github.com/harborstay/harborstay/internal/shared"
	"github.com/harborstay/harborstay/internal/users"
	"github.com/harborstay/harborstay/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionCookie, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	auditLogger := shared.NewAuditLogger(pool)

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	roleRepo := rbac.NewPGRoleRepository(pool)
	assignmentRepo := rbac.NewPGAssignmentRepository(pool)
	if err := rbac.Seed(ctx, roleRepo); err != nil {
		logger.Error("seed roles", slog.Any("error", err))
		os.Exit(1)
	}
	rbacService := rbac.NewService(roleRepo, assignmentRepo, auditLogger, logger)
	evaluator := rbac.NewEvaluator(roleRepo, assignmentRepo, logger)
	guard := rbac.Middleware{Evaluator: evaluator, Logger: logger}
	rbacHandler := rbac.NewHandler(logger, rbacService, evaluator, guard)

	userRepo := users.NewRepository(pool)
	userService := users.NewService(userRepo, auditLogger, logger)
	userHandler := users.NewHandler(logger, userService, guard)

	guestRepo := guests.NewRepository(pool)
	guestService := guests.NewService(guestRepo, auditLogger, logger)
	guestHandler := guests.NewHandler(logger, guestService, guard)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	notifier := jobs.NewBookingNotifier(jobClient, guestRepo)

	bookingRepo := bookings.NewRepository(pool)
	bookingService := bookings.NewService(bookingRepo, auditLogger, notifier, logger)
	bookingHandler := bookings.NewHandler(logger, bookingService, guard)

	roomRepo := rooms.NewRepository(pool)
	roomService := rooms.NewService(roomRepo, auditLogger, logger)
	roomHandler := rooms.NewHandler(logger, roomService, guard)

	ownerRepo := owners.NewRepository(pool)
	ownerService := owners.NewService(ownerRepo, roomRepo, auditLogger, logger)
	ownerHandler := owners.NewHandler(logger, ownerService, guard)
	ownerPortal := owners.NewPortalHandler(logger, ownerService)

	cleaningRepo := cleaning.NewRepository(pool)
	cleaningService := cleaning.NewService(cleaningRepo, auditLogger, logger)
	cleaningHandler := cleaning.NewHandler(logger, cleaningService, guard)

	expenseRepo := expenses.NewRepository(pool)
	expenseService := expenses.NewService(expenseRepo, auditLogger, logger)
	expenseHandler := expenses.NewHandler(logger, expenseService, guard)

	settingsRepo := settings.NewRepository(pool)
	settingsService := settings.NewService(settingsRepo, auditLogger, logger)
	settingsHandler := settings.NewHandler(logger, settingsService, guard)

	reportRepo := reports.NewRepository(pool)
	reportService := reports.NewService(reportRepo, redisClient, cfg.ReportCacheTTL, logger)
	reportHandler := reports.NewHandler(logger, reportService, guard)

	auditRepo := audit.NewRepository(pool)
	auditService := audit.NewService(auditRepo, logger)
	auditHandler := audit.NewHandler(logger, auditService, guard)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Middleware: app.MiddlewareStack(app.MiddlewareConfig{
			Logger:         logger,
			Config:         cfg,
			SessionManager: sessionManager,
			CSRFManager:    csrfManager,
			Metrics:        metrics,
		}),
		Auth:        authHandler,
		RBAC:        rbacHandler,
		Users:       userHandler,
		Bookings:    bookingHandler,
		Rooms:       roomHandler,
		Guests:      guestHandler,
		Owners:      ownerHandler,
		OwnerPortal: ownerPortal,
		Cleaning:    cleaningHandler,
		Expenses:    expenseHandler,
		Settings:    settingsHandler,
		Reports:     reportHandler,
		Audit:       auditHandler,
		Jobs:        jobHandler,
		Metrics:     metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
