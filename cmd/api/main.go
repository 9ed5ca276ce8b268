package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pdflex/pdflex-backend/api/controllers"
	"github.com/pdflex/pdflex-backend/api/routes"
	"github.com/pdflex/pdflex-backend/internal/auth"
	"github.com/pdflex/pdflex-backend/internal/billing"
	"github.com/pdflex/pdflex-backend/internal/documents"
	"github.com/pdflex/pdflex-backend/internal/ledger"
	"github.com/pdflex/pdflex-backend/internal/usage"
	"github.com/pdflex/pdflex-backend/internal/users"
	"github.com/pdflex/pdflex-backend/pkg/config"
	"github.com/pdflex/pdflex-backend/pkg/db"
	"github.com/pdflex/pdflex-backend/pkg/logger"
	"github.com/pdflex/pdflex-backend/pkg/metrics"
	"github.com/pdflex/pdflex-backend/pkg/migrate"
	"github.com/pdflex/pdflex-backend/pkg/pdf"
	"github.com/pdflex/pdflex-backend/pkg/pricing"
	"github.com/pdflex/pdflex-backend/pkg/redis"
	"github.com/pdflex/pdflex-backend/pkg/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	ready := map[string]controllers.Pinger{"db": dbClient, "redis": nil}
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		ready["redis"] = redisClient
	} else {
		logg.Warn(ctx, "redis not configured, auth rate limiting disabled")
	}

	store, err := storage.New(ctx, cfg.Storage, logg)
	if err != nil {
		return err
	}
	ready["storage"] = store

	policy, err := pricing.New(cfg.Pricing)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	conn := dbClient.DB()
	userRepo := users.NewRepository(conn)

	ledgerService, err := ledger.NewService(ledger.NewRepository(conn))
	if err != nil {
		return err
	}
	usageService, err := usage.NewService(usage.ServiceParams{
		Repo:   usage.NewRepository(conn),
		Limit:  policy.FreeMonthlyLimit(),
		Logger: logg,
	})
	if err != nil {
		return err
	}
	billingService, err := billing.NewService(billing.ServiceParams{
		Repo:     billing.NewRepository(conn),
		Profiles: userRepo,
		Ledger:   ledgerService,
		Policy:   policy,
		Metrics:  metrics.NewBillingMetrics(registry),
		Logger:   logg,
	})
	if err != nil {
		return err
	}
	documentService, err := documents.NewService(documents.ServiceParams{
		Repo:           documents.NewRepository(conn),
		Store:          store,
		Tools:          pdf.NewToolkit(cfg.PDF),
		Charger:        billingService,
		Usage:          usageService,
		Profiles:       userRepo,
		Metrics:        metrics.NewDocumentMetrics(registry),
		Logger:         logg,
		MaxUploadBytes: cfg.Upload.MaxBytes(),
	})
	if err != nil {
		return err
	}
	usersService, err := users.NewService(userRepo)
	if err != nil {
		return err
	}
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		return err
	}
	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		UserRepo:       userRepo,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		return err
	}

	deps := routes.Dependencies{
		Auth:      authService,
		Register:  registerService,
		Users:     usersService,
		Documents: documentService,
		Billing:   billingService,
		Usage:     usageService,
		Ready:     ready,
		Gatherer:  registry,
	}
	if redisClient != nil {
		deps.RateLimiter = redisClient
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"storage": cfg.Storage.Driver,
	})
	logg.Info(logCtx, "starting api server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
