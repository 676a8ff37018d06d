// Package api provides the HTTP API for lifelane.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/lifelane/lifelane/internal/api/handler"
	"github.com/lifelane/lifelane/internal/api/middleware"
	"github.com/lifelane/lifelane/internal/api/response"
	"github.com/lifelane/lifelane/internal/assessment"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics
	Assessment  *assessment.Service
	Ops         handler.OpsConfig
	RequireTLS  bool

	// PromHandler serves /metrics when set.
	PromHandler http.Handler
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "lifelane-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS(cfg.RequireTLS))
	r.Use(middleware.ContentTypeJSON)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, r, "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w, r, r.Method+" is not supported on "+r.URL.Path)
	})

	opsCfg := cfg.Ops
	if opsCfg.Version == "" {
		opsCfg.Version = cfg.Version
	}
	if opsCfg.BuildTime == "" {
		opsCfg.BuildTime = cfg.BuildTime
	}
	opsHandler := handler.NewOpsHandler(opsCfg)
	weatherHandler := handler.NewWeatherHandler(cfg.Assessment)
	hazardHandler := handler.NewHazardHandler(cfg.Assessment)
	safetyHandler := handler.NewSafetyHandler(cfg.Assessment)
	routeHandler := handler.NewRouteHandler(cfg.Assessment)

	// Live endpoints call the weather provider; evaluations are pure compute.
	liveRateLimit := middleware.RateLimitByIP(middleware.LiveRateLimit)         // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 100 req/min

	if cfg.PromHandler != nil {
		r.Handle("/metrics", cfg.PromHandler)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		r.Group(func(r chi.Router) {
			r.Use(liveRateLimit)
			r.Get("/weather", weatherHandler.GetWeather)
			r.Get("/hazards", hazardHandler.ListHazards)
			r.Get("/safety", safetyHandler.GetSafety)
			r.With(middleware.RequireJSON).Post("/routes:estimate", routeHandler.EstimateRoute)
		})

		r.Group(func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Use(middleware.RequireJSON)
			r.Post("/hazards:evaluate", hazardHandler.EvaluateHazards)
			r.Post("/safety:evaluate", safetyHandler.EvaluateSafety)
			r.Post("/safety:score", safetyHandler.ScoreSafety)
		})
	})

	return r
}
