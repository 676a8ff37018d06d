// Package main provides the entrypoint for the lifelane API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/lifelane/lifelane/internal/api"
	"github.com/lifelane/lifelane/internal/api/handler"
	"github.com/lifelane/lifelane/internal/api/middleware"
	"github.com/lifelane/lifelane/internal/assessment"
	"github.com/lifelane/lifelane/internal/config"
	"github.com/lifelane/lifelane/internal/observability"
	"github.com/lifelane/lifelane/internal/provider/resilience"
	"github.com/lifelane/lifelane/internal/telemetry"
	"github.com/lifelane/lifelane/internal/weather"
	"github.com/lifelane/lifelane/internal/weather/inference"
	"github.com/lifelane/lifelane/internal/weather/openweathermap"
	"github.com/lifelane/lifelane/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "lifelane-api"

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
		Str("env", cfg.Env).
		Msg("starting lifelane API")

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
	if cfg.OTelEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	httpMetrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg)

	// Upstream clients share a registry so /v1/ops/status can report them.
	upstreams := resilience.NewRegistry(nil)

	owmHTTP := resilience.DefaultClientConfig(openweathermap.ProviderName)
	owmHTTP.Registry = upstreams
	if cfg.OpenWeatherAPIKey == "" {
		log.Warn().Msg("OPENWEATHER_API_KEY not set - live assessments will report unknown weather")
	}
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

	var classifier weather.Classifier = weather.ConditionClassifier{}
	classifierName := ""
	if cfg.ClassifierURL != "" {
		clsHTTP := resilience.DefaultClientConfig(inference.ProviderName)
		clsHTTP.Registry = upstreams
		classifier = inference.NewClient(inference.ClientConfig{
			BaseURL:    cfg.ClassifierURL,
			HTTPClient: resilience.NewClient(clsHTTP),
			Logger:     log,
		})
		classifierName = "model at " + cfg.ClassifierURL
		log.Info().Str("url", cfg.ClassifierURL).Msg("weather classifier model configured")
	}

	assessor := assessment.NewService(assessment.Config{
		Weather:         weatherSvc,
		Classifier:      classifier,
		DefaultSpeedKmh: cfg.DefaultSpeedKmh,
		Metrics:         metrics,
		Logger:          log,
	})

	// Keep depot weather warm in this process's cache.
	if cfg.OpenWeatherAPIKey != "" {
		refreshCfg := worker.DefaultRefreshConfig()
		refreshCfg.Concurrency = cfg.RefreshConcurrency
		job := worker.NewRefreshJob(worker.RefreshJobConfig{
			Config:  refreshCfg,
			Logger:  log,
			Weather: weatherSvc,
			Metrics: metrics,
		})
		go func() {
			_ = worker.NewScheduler(job, cfg.RefreshInterval, nil, log).Start(ctx)
		}()
	}

	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		ServiceName: serviceName,
		Metrics:     httpMetrics,
		Assessment:  assessor,
		Ops: handler.OpsConfig{
			Upstreams:  upstreams,
			Cache:      weatherSvc,
			Classifier: classifierName,
		},
		RequireTLS:  cfg.RequireTLS,
		PromHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server stopped")
}
