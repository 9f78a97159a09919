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

	"github.com/odyssey-erp/invoice-dashboard/internal/app"
	"github.com/odyssey-erp/invoice-dashboard/internal/auth"
	"github.com/odyssey-erp/invoice-dashboard/internal/invoices"
	"github.com/odyssey-erp/invoice-dashboard/internal/observability"
	"github.com/odyssey-erp/invoice-dashboard/internal/platform/cache"
	"github.com/odyssey-erp/invoice-dashboard/internal/platform/db"
	"github.com/odyssey-erp/invoice-dashboard/internal/shared"
	"github.com/odyssey-erp/invoice-dashboard/internal/todos"
	"github.com/odyssey-erp/invoice-dashboard/internal/view"
	"github.com/odyssey-erp/invoice-dashboard/jobs"
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

	dbpool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: cfg.PGMaxConns})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

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

	sessionManager := shared.NewSessionManager(redisClient, "dashboard_session", cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	pathCache := cache.NewPathCache(redisClient, cfg.CacheTTL)
	pathCache.OnRevalidate(func(ctx context.Context, path string) {
		if err := jobClient.EnqueueWarmup(ctx, path); err != nil {
			logger.Warn("enqueue cache warmup", slog.String("path", path), slog.Any("error", err))
		}
	})

	authService := auth.NewService(auth.NewRepository(dbpool))
	authenticator := auth.NewAuthenticator(logger, sessionManager, csrfManager, map[string]auth.Provider{
		auth.ProviderCredentials: auth.CredentialsProvider(authService),
	})
	authHandler := auth.NewHandler(logger, auth.NewAction(authenticator), authenticator, templates, csrfManager, cfg.LoginRateLimit)

	invoiceRepo := invoices.NewRepository(dbpool)
	invoiceService := invoices.NewService(invoiceRepo, pathCache, metrics, logger)
	invoiceHandler := invoices.NewHandler(logger, invoiceService, invoices.NewLister(invoiceRepo, pathCache), templates, csrfManager)

	todoService := todos.NewService(todos.NewRepository(dbpool), pathCache, pathCache, metrics, logger)
	todoHandler := todos.NewHandler(logger, todoService, templates, csrfManager)

	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		Templates:      templates,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		AuthHandler:    authHandler,
		InvoiceHandler: invoiceHandler,
		TodoHandler:    todoHandler,
		JobHandler:     jobHandler,
		Metrics:        metrics,
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
