// Package handler provides HTTP handlers for the lifelane API.
package handler

import (
	"fmt"
	"net/http"

	"github.com/jonboulle/clockwork"

	"github.com/lifelane/lifelane/internal/api/models"
	"github.com/lifelane/lifelane/internal/api/response"
	"github.com/lifelane/lifelane/internal/provider/resilience"
	"github.com/lifelane/lifelane/internal/weather"
)

// UpstreamReporter lists upstream health. *resilience.Registry implements it.
type UpstreamReporter interface {
	AllHealth() []*resilience.UpstreamHealth
}

// CacheReporter exposes weather cache statistics. *weather.Service
// implements it.
type CacheReporter interface {
	CacheStats() weather.CacheStats
}

// OpsConfig holds the dependencies of OpsHandler.
type OpsConfig struct {
	Version    string
	BuildTime  string
	Upstreams  UpstreamReporter
	Cache      CacheReporter
	Classifier string
	Clock      clockwork.Clock
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	cfg   OpsConfig
	clock clockwork.Clock
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsConfig) *OpsHandler {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &OpsHandler{cfg: cfg, clock: clock}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(h.clock.Now()),
		Details: map[string]interface{}{
			"version":   h.cfg.Version,
			"buildTime": h.cfg.BuildTime,
		},
	})
}

// ReadinessCheck handles GET /v1/ops/ready. The service stays ready while
// upstreams are failing because assessments degrade to unknown weather; an
// open circuit is reported as DEGRADED.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Cache == nil {
		response.JSON(w, r, http.StatusServiceUnavailable, models.Health{
			Status:  models.HealthStatusFail,
			Time:    models.Timestamp(h.clock.Now()),
			Details: map[string]interface{}{"weather": "not configured"},
		})
		return
	}

	status := models.HealthStatusOK
	for _, p := range h.providers() {
		if p.Status != models.HealthStatusOK {
			status = models.HealthStatusDegraded
		}
	}
	response.JSON(w, r, http.StatusOK, models.Health{
		Status: status,
		Time:   models.Timestamp(h.clock.Now()),
	})
}

// SystemStatus handles GET /v1/ops/status - provider and subsystem status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	providers := h.providers()
	subsystems := h.subsystems()

	overall := models.HealthStatusOK
	for _, p := range providers {
		if p.Status != models.HealthStatusOK {
			overall = models.HealthStatusDegraded
		}
	}
	for _, s := range subsystems {
		if s.Status == models.HealthStatusFail {
			overall = models.HealthStatusFail
		}
	}

	response.JSON(w, r, http.StatusOK, models.SystemStatus{
		Status:     overall,
		Time:       models.Timestamp(h.clock.Now()),
		Subsystems: subsystems,
		Providers:  providers,
	})
}

func (h *OpsHandler) providers() []models.ProviderStatus {
	out := []models.ProviderStatus{}
	if h.cfg.Upstreams == nil {
		return out
	}
	for _, u := range h.cfg.Upstreams.AllHealth() {
		p := models.ProviderStatus{
			Provider:            u.Name,
			Status:              healthStatus(u.Status()),
			CircuitState:        u.CircuitState.String(),
			Requests:            u.Counts.Requests,
			ConsecutiveFailures: u.Counts.ConsecutiveFailures,
		}
		if u.LastSuccessAt != nil {
			p.LastSuccessAt = models.TimestampPtr(*u.LastSuccessAt)
		}
		if u.LastFailureAt != nil {
			p.LastFailureAt = models.TimestampPtr(*u.LastFailureAt)
		}
		if u.LastError != "" {
			msg := u.LastError
			p.Message = &msg
		}
		out = append(out, p)
	}
	return out
}

func (h *OpsHandler) subsystems() []models.SubsystemStatus {
	var out []models.SubsystemStatus

	cache := models.SubsystemStatus{Name: "weather-cache", Status: models.HealthStatusOK}
	if h.cfg.Cache == nil {
		cache.Status = models.HealthStatusFail
		cache.Detail = strPtr("not configured")
	} else {
		stats := h.cfg.Cache.CacheStats()
		cache.Detail = strPtr(fmt.Sprintf("%d entries (%d fresh) from %s", stats.Entries, stats.FreshEntries, stats.Provider))
	}
	out = append(out, cache)

	classifier := h.cfg.Classifier
	if classifier == "" {
		classifier = "condition codes"
	}
	out = append(out, models.SubsystemStatus{
		Name:   "classifier",
		Status: models.HealthStatusOK,
		Detail: strPtr(classifier),
	})
	return out
}

func healthStatus(s string) models.HealthStatus {
	switch s {
	case resilience.StatusHealthy:
		return models.HealthStatusOK
	case resilience.StatusDegraded:
		return models.HealthStatusDegraded
	default:
		return models.HealthStatusFail
	}
}

func strPtr(s string) *string {
	return &s
}
