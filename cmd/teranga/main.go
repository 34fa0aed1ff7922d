package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teranga-resto/teranga-resto/internal/app"
	"github.com/teranga-resto/teranga-resto/internal/auth"
	"github.com/teranga-resto/teranga-resto/internal/billing/invoices"
	"github.com/teranga-resto/teranga-resto/internal/catalog/products"
	"github.com/teranga-resto/teranga-resto/internal/observability"
	"github.com/teranga-resto/teranga-resto/internal/platform/cache"
	"github.com/teranga-resto/teranga-resto/internal/platform/db"
	"github.com/teranga-resto/teranga-resto/internal/rbac"
	"github.com/teranga-resto/teranga-resto/internal/shared"
	"github.com/teranga-resto/teranga-resto/internal/users"
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	// Sessions live in Redis; the server cannot run without it.
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

	sessionManager := shared.NewSessionManager(redisClient, "teranga_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	metrics := observability.NewMetrics()

	userRepo := users.NewRepository(dbpool)
	userService := users.NewService(userRepo, logger)
	usersHandler := users.NewHandler(logger, userService)

	authService := auth.NewService(userRepo, cfg.AdminEmail)
	authHandler := auth.NewHandler(logger, authService, userRepo, sessionManager, csrfManager)

	invoiceRepo := invoices.NewRepository(dbpool)
	invoiceService := invoices.NewService(invoiceRepo, logger)
	invoiceHandler := invoices.NewHandler(logger, invoiceService)

	productRepo := products.NewRepository(dbpool)
	productService := products.NewService(productRepo, logger)
	productHandler := products.NewHandler(logger, productService)

	rbacMiddleware := rbac.Middleware{Roles: userService, Logger: logger}

	router := app.NewRouter(app.RouterParams{
		Logger: logger,
		Config: cfg,
		Middlewares: app.MiddlewareStack(app.MiddlewareConfig{
			Logger:         logger,
			Config:         cfg,
			SessionManager: sessionManager,
			CSRFManager:    csrfManager,
			Metrics:        metrics,
		}),
		RBAC:           rbacMiddleware,
		Metrics:        metrics,
		AuthHandler:    authHandler,
		InvoiceHandler: invoiceHandler,
		ProductHandler: productHandler,
		UsersHandler:   usersHandler,
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
