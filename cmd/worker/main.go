// Package main provides the entrypoint for the lifelane cache-warming worker.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/lifelane/lifelane/internal/api/middleware"
	"github.com/lifelane/lifelane/internal/api/models"
	"github.com/lifelane/lifelane/internal/api/response"
	"github.com/lifelane/lifelane/internal/config"
	"github.com/lifelane/lifelane/internal/observability"
	"github.com/lifelane/lifelane/internal/provider/resilience"
	"github.com/lifelane/lifelane/internal/telemetry"
	"github.com/lifelane/lifelane/internal/weather"
	"github.com/lifelane/lifelane/internal/weather/openweathermap"
	"github.com/lifelane/lifelane/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "lifelane-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	if err := config.LoadDotEnv(); err != nil {
		log.Fatal().Err(err).Msg("failed to load .env")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	log = log.Level(cfg.LogLevel)

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting lifelane worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.Init(ctx, telemetry.FromConfig(cfg, serviceName, Version))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := observability.NewMetrics(reg)

	owmHTTP := resilience.DefaultClientConfig(openweathermap.ProviderName)
	owmHTTP.Registry = resilience.NewRegistry(nil)
	weatherSvc := weather.NewService(weather.ServiceConfig{
		Provider: openweathermap.NewClient(openweathermap.ClientConfig{
			APIKey:     cfg.OpenWeatherAPIKey,
			BaseURL:    cfg.OpenWeatherBaseURL,
			HTTPClient: resilience.NewClient(owmHTTP),
			Logger:     log,
		}),
		Logger:   log,
		CacheTTL: cfg.WeatherCacheTTL,
	})

	refreshCfg := worker.DefaultRefreshConfig()
	refreshCfg.Concurrency = cfg.RefreshConcurrency
	job := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:  refreshCfg,
		Logger:  log,
		Weather: weatherSvc,
		Metrics: metrics,
	})

	// Worker also exposes health and metrics endpoints for Cloud Run.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, models.Health{
			Status:  models.HealthStatusOK,
			Time:    models.Timestamp(time.Now()),
			Details: job.StatsSnapshot(),
		})
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	done := make(chan error, 1)
	if cfg.PubSubEnabled() {
		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        cfg.PubSubProjectID,
			SubscriptionName: cfg.PubSubSubscription,
			RefreshJob:       job,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer func() {
			if err := handler.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close pubsub client")
			}
		}()
		go func() { done <- handler.Start(ctx) }()
	} else {
		log.Info().Msg("PUBSUB_PROJECT_ID not set - refreshing on a fixed interval")
		go func() { done <- worker.NewScheduler(job, cfg.RefreshInterval, nil, log).Start(ctx) }()
	}

	select {
	case <-ctx.Done():
		<-done
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("worker stopped unexpectedly")
		}
		stop()
	}

	log.Info().Msg("shutting down worker")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
