package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mergington/activities/internal/config"
	"github.com/mergington/activities/internal/handler"
	"github.com/mergington/activities/internal/logger"
	"github.com/mergington/activities/internal/middleware"
	"github.com/mergington/activities/internal/repository"
	"github.com/mergington/activities/internal/seed"
	"github.com/mergington/activities/internal/service"
	"github.com/mergington/activities/internal/telemetry"
	"github.com/mergington/activities/web"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootstrapFatal("failed to load config", err)
	}

	if err := cfg.Validate(); err != nil {
		bootstrapFatal("invalid configuration", err)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		bootstrapFatal("failed to build logger", err)
	}
	defer func() { _ = log.Sync() }()

	// Tracing
	_, shutdownTracing := telemetry.Setup(telemetry.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		SampleRatio: cfg.Tracing.SampleRatio,
	})

	// Seed catalog
	activities, err := seed.Load(cfg.Activities.SeedFile)
	if err != nil {
		log.Fatal("failed to load activity catalog",
			zap.String("seed_file", cfg.Activities.SeedFile),
			zap.Error(err),
		)
	}
	log.Info("loaded activity catalog",
		zap.Int("count", len(activities)),
		zap.Strings("activities", activities.Names()),
		zap.Bool("embedded", cfg.Activities.SeedFile == ""),
	)

	// Initialize repositories and services
	activityRepo := repository.NewActivityRepository(activities)
	eventHub := service.NewEventHub(cfg.Activities.HeartbeatInterval)

	activityService := service.NewActivityService(service.ActivityServiceConfig{
		Repo:            activityRepo,
		Events:          eventHub,
		EnforceCapacity: cfg.Activities.EnforceCapacity,
	})
	if err := activityService.SyncParticipantGauges(context.Background()); err != nil {
		log.Warn("failed to initialise participant gauges", zap.Error(err))
	}

	// Routes
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	mux := handler.NewRouter(handler.RouterConfig{
		Activities:  handler.NewActivityHandler(activityService, log),
		Events:      handler.NewEventsHandler(eventHub, activityService),
		StaticFS:    web.Static(),
		MetricsPath: metricsPath,
	})

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   cfg.RateLimit.Rate,
		Window: cfg.RateLimit.Window,
		Burst:  cfg.RateLimit.Burst,
	})
	defer rateLimiter.Stop()

	idempotencyStore := middleware.NewIdempotencyStore(middleware.IdempotencyConfig{
		TTL:     cfg.Idempotency.TTL,
		Cleanup: cfg.Idempotency.Cleanup,
	})
	defer idempotencyStore.Stop()

	// Apply global middleware. Metrics must wrap the mux directly.
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
		middleware.Idempotency(idempotencyStore),
		middleware.Compress,
		middleware.Metrics,
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     zap.NewStdLog(log),
	}

	go func() {
		log.Info("starting server",
			zap.String("port", cfg.Server.Port),
			zap.String("env", cfg.Server.Env),
			zap.Bool("enforce_capacity", cfg.Activities.EnforceCapacity),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Close event streams first so Shutdown does not wait on them.
	eventHub.Close()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Error("tracer provider shutdown failed", zap.Error(err))
	}

	log.Info("server exited")
}

// bootstrapFatal reports errors raised before the configured logger exists
func bootstrapFatal(msg string, err error) {
	log, _ := zap.NewProduction()
	log.Fatal(msg, zap.Error(err))
}
