package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dejobratic/orderpulse/internal/config"
	"github.com/dejobratic/orderpulse/internal/database"
	"github.com/dejobratic/orderpulse/internal/drip"
	dripmemory "github.com/dejobratic/orderpulse/internal/drip/memory"
	drippostgres "github.com/dejobratic/orderpulse/internal/drip/postgres"
	"github.com/dejobratic/orderpulse/internal/eventbus"
	idemmemory "github.com/dejobratic/orderpulse/internal/idempotency/memory"
	idempostgres "github.com/dejobratic/orderpulse/internal/idempotency/postgres"
	"github.com/dejobratic/orderpulse/internal/notifications"
	"github.com/dejobratic/orderpulse/internal/orders/adapters"
	httpadapter "github.com/dejobratic/orderpulse/internal/orders/adapters/http"
	ordersmemory "github.com/dejobratic/orderpulse/internal/orders/adapters/memory"
	orderspostgres "github.com/dejobratic/orderpulse/internal/orders/adapters/postgres"
	ordersapp "github.com/dejobratic/orderpulse/internal/orders/app"
	"github.com/dejobratic/orderpulse/internal/orders/domain"
	ordersmetrics "github.com/dejobratic/orderpulse/internal/orders/metrics"
	"github.com/dejobratic/orderpulse/internal/orders/ports"
	"github.com/dejobratic/orderpulse/internal/telemetry"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
)

func main() {
	if err := run(); err != nil {
		slog.Error("service exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Service.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTelEndpoint,
		EnableTracing:  cfg.Telemetry.EnableTracing && cfg.Telemetry.OTelEndpoint != "",
		EnableMetrics:  cfg.Telemetry.EnableMetrics && cfg.Telemetry.OTelEndpoint != "",
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Error("telemetry shutdown failed", "error", err)
		}
	}()

	logger := telemetry.NewLogger(parseLogLevel(cfg.Telemetry.LogLevel))
	slog.SetDefault(logger)

	meter := otel.Meter(cfg.Service.Name)

	var (
		pool      *pgxpool.Pool
		repo      ports.OrderRepository
		guard     ports.ProcessedStore
		dripStore drip.Store
	)

	switch cfg.Database.Driver {
	case "memory":
		logger.Info("using in-memory storage")
		repo = ordersmemory.NewRepository()
		guard = idemmemory.NewStore()
		dripStore = dripmemory.NewStore()
	default:
		pool, err = database.NewPool(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("create database pool: %w", err)
		}
		defer pool.Close()

		if cfg.Database.AutoMigrate {
			logger.Info("running database migrations", "path", cfg.Database.MigrationsPath)
			if err := database.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
			logger.Info("migrations completed successfully")
		}

		dbMetrics, err := database.NewMetrics(meter)
		if err != nil {
			return fmt.Errorf("create database metrics: %w", err)
		}

		repo = adapters.NewObservableRepository(orderspostgres.NewRepository(pool), dbMetrics)
		guard = idempostgres.NewStore(pool)
		dripStore = drippostgres.NewStore(pool, drippostgres.WithMetrics(dbMetrics))
	}

	busMetrics, err := eventbus.NewMetrics(meter)
	if err != nil {
		return fmt.Errorf("create event bus metrics: %w", err)
	}
	bus := eventbus.New(logger, eventbus.WithMetrics(busMetrics))

	dripMetrics, err := drip.NewMetrics(meter)
	if err != nil {
		return fmt.Errorf("create drip metrics: %w", err)
	}
	scheduler := drip.NewScheduler(dripStore, notifications.NewNoopMailer(),
		logger,
		drip.WithSendHour(cfg.Drip.SendHour),
		drip.WithMetrics(dripMetrics),
	)

	teardown, err := notifications.Wire(bus, notifications.Deps{
		Mailer:    notifications.NewNoopMailer(),
		CRM:       notifications.NewNoopCRM(),
		Sheet:     notifications.NewNoopSheet(),
		Guard:     guard,
		Scheduler: scheduler,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("wire notification handlers: %w", err)
	}
	defer teardown()

	orderMetrics, err := ordersmetrics.NewMetrics(meter)
	if err != nil {
		return fmt.Errorf("create order metrics: %w", err)
	}

	service := ordersapp.NewService(repo, adapters.NewObservableEventBus(bus), logger, orderMetrics)
	ordersHandler := httpadapter.NewHandler(service, scheduler)

	httpMetrics, err := httpadapter.NewMetrics(meter)
	if err != nil {
		return fmt.Errorf("create http metrics: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if pool != nil {
			if err := database.CheckHealth(r.Context(), pool); err != nil {
				respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
				return
			}
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	ordersHandler.Register(mux)

	handler := httpadapter.WithRecovery(
		httpadapter.WithLogging(
			httpadapter.WithMetrics(mux, httpMetrics),
			logger,
		),
		logger,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go runDripWorker(ctx, logger, scheduler, repo, cfg.Drip.PollInterval)

	go func() {
		logger.Info("http server starting", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownGrace)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	} else {
		logger.Info("http server stopped")
	}

	return nil
}

// runDripWorker polls for due drip emails and sends them until the context is
// canceled.
func runDripWorker(ctx context.Context, logger *slog.Logger, scheduler *drip.Scheduler, repo ports.OrderRepository, interval time.Duration) {
	lookup := func(ctx context.Context, orderID string) (*domain.Order, error) {
		return repo.GetByID(ctx, orderID)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("drip worker starting", "poll_interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			logger.Info("drip worker stopping")
			return
		case <-ticker.C:
			report, err := scheduler.ProcessPending(ctx, lookup)
			if err != nil {
				logger.Error("drip pass failed", "error", err)
				continue
			}
			if report.Due > 0 {
				logger.Info("drip pass completed",
					"due", report.Due,
					"sent", report.Sent,
					"failed", report.Failed,
				)
			}
		}
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
