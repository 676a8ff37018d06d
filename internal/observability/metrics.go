// Package observability holds the Prometheus metrics for assessments and
// cache warming.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lifelane"

// Metrics holds the Prometheus counters and histograms for the service.
type Metrics struct {
	Assessments        *prometheus.CounterVec   // labels: operation, outcome={ok,error}
	AssessmentDuration *prometheus.HistogramVec // labels: operation
	HazardsDetected    *prometheus.CounterVec   // labels: kind, severity
	SafetyRatings      *prometheus.CounterVec   // labels: rating
	WeatherFetches     *prometheus.CounterVec   // labels: outcome={ok,error}
	Classifications    *prometheus.CounterVec   // labels: category

	RefreshPoints   *prometheus.CounterVec // labels: outcome={ok,error}
	RefreshDuration prometheus.Histogram
}

func newMetrics() *Metrics {
	return &Metrics{
		Assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Assessment operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		AssessmentDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assessment_duration_seconds",
			Help:      "Assessment latency including weather fetch and classification.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"operation"}),
		HazardsDetected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hazards_detected_total",
			Help:      "Hazards emitted by the rule engine by kind and severity.",
		}, []string{"kind", "severity"}),
		SafetyRatings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "safety_ratings_total",
			Help:      "Safety assessments by rating band.",
		}, []string{"rating"}),
		WeatherFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_fetches_total",
			Help:      "Weather lookups by outcome.",
		}, []string{"outcome"}),
		Classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_classifications_total",
			Help:      "Weather category labels assigned to observations.",
		}, []string{"category"}),
		RefreshPoints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_points_total",
			Help:      "Cache-warming fetches by outcome.",
		}, []string{"outcome"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a full cache-warming run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}
}

// NewMetrics creates the metrics and registers them with reg. A nil reg
// uses the default Prometheus registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := newMetrics()
	reg.MustRegister(
		m.Assessments,
		m.AssessmentDuration,
		m.HazardsDetected,
		m.SafetyRatings,
		m.WeatherFetches,
		m.Classifications,
		m.RefreshPoints,
		m.RefreshDuration,
	)
	return m
}

// NewMetricsForTesting creates unregistered metrics so tests can build as
// many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
