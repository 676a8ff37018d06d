// Package assessment combines live weather, the hazard rules, safety scoring
// and route estimation into the operations the API and worker expose.
package assessment

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lifelane/lifelane/internal/hazard"
	"github.com/lifelane/lifelane/internal/observability"
	"github.com/lifelane/lifelane/internal/route"
	"github.com/lifelane/lifelane/internal/safety"
	"github.com/lifelane/lifelane/internal/weather"
)

const tracerName = "github.com/lifelane/lifelane/internal/assessment"

// Operation names used in metrics and span names.
const (
	OpConditions = "conditions"
	OpHazards    = "hazards"
	OpSafety     = "safety"
	OpEvaluate   = "evaluate"
	OpScore      = "score"
	OpRoute      = "route"
)

// WeatherSource returns current observations. *weather.Service implements it.
type WeatherSource interface {
	GetCurrentWeather(ctx context.Context, lat, lon float64) (*weather.Observation, error)
}

// Config holds the collaborators of a Service.
type Config struct {
	Weather WeatherSource

	// Classifier defaults to weather.ConditionClassifier.
	Classifier weather.Classifier

	// Engine defaults to a hazard engine with UUID identifiers and Clock.
	Engine *hazard.Engine

	// DefaultSpeedKmh applies to route requests without a base speed.
	DefaultSpeedKmh float64

	Clock   clockwork.Clock
	Metrics *observability.Metrics
	Logger  zerolog.Logger
}

// Service runs assessments. It is safe for concurrent use.
type Service struct {
	weather      WeatherSource
	classifier   weather.Classifier
	engine       *hazard.Engine
	defaultSpeed float64
	clock        clockwork.Clock
	metrics      *observability.Metrics
	logger       zerolog.Logger
	tracer       trace.Tracer
}

// NewService creates an assessment service.
func NewService(cfg Config) *Service {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	classifier := cfg.Classifier
	if classifier == nil {
		classifier = weather.ConditionClassifier{}
	}
	engine := cfg.Engine
	if engine == nil {
		engine = hazard.NewEngine(hazard.EngineConfig{Clock: clock})
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	speed := cfg.DefaultSpeedKmh
	if speed <= 0 {
		speed = route.DefaultSpeedKmh
	}

	return &Service{
		weather:      cfg.Weather,
		classifier:   classifier,
		engine:       engine,
		defaultSpeed: speed,
		clock:        clock,
		metrics:      metrics,
		logger:       cfg.Logger,
		tracer:       otel.Tracer(tracerName),
	}
}

// Conditions is the classified weather at a point and time.
type Conditions struct {
	Lat         float64
	Lon         float64
	Time        time.Time
	Temporal    hazard.TemporalContext
	Observation *weather.Observation

	// Reading is nil when the weather lookup failed.
	Reading  *weather.Reading
	Category weather.Category
}

// HazardReport is the hazard list and its summary for one point.
type HazardReport struct {
	Conditions
	Hazards []hazard.Hazard
	Summary hazard.Summary
}

// SafetyReport adds the safety verdict to a hazard report.
type SafetyReport struct {
	HazardReport
	Safety safety.Summary
}

// Conditions fetches and classifies current weather. Unlike the assessment
// operations it fails when the weather lookup fails.
func (s *Service) Conditions(ctx context.Context, lat, lon float64) (_ *Conditions, err error) {
	ctx, finish := s.begin(ctx, OpConditions, lat, lon)
	defer func() { finish(err) }()

	if err := weather.ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	obs, err := s.fetch(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	c := s.classify(ctx, lat, lon, obs)
	return &c, nil
}

// Hazards detects hazards at a point using live weather. A failed weather
// lookup degrades to category unknown with no reading.
func (s *Service) Hazards(ctx context.Context, lat, lon float64) (_ *HazardReport, err error) {
	ctx, finish := s.begin(ctx, OpHazards, lat, lon)
	defer func() { finish(err) }()

	if err := weather.ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	r := s.detect(s.live(ctx, lat, lon))
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("hazard.count", r.Summary.Count))
	return r, nil
}

// Safety runs the full pipeline at a point using live weather.
func (s *Service) Safety(ctx context.Context, lat, lon float64) (_ *SafetyReport, err error) {
	ctx, finish := s.begin(ctx, OpSafety, lat, lon)
	defer func() { finish(err) }()

	if err := weather.ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	r := s.score(s.detect(s.live(ctx, lat, lon)))
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("safety.rating", string(r.Safety.Rating)))
	return r, nil
}

// EvaluateInput supplies the weather and time instead of fetching them.
type EvaluateInput struct {
	Lat   float64
	Lon   float64
	Label string

	// Reading may be nil.
	Reading *weather.Reading

	// Time defaults to now.
	Time time.Time
}

// Evaluate runs the full pipeline on caller-supplied conditions.
func (s *Service) Evaluate(ctx context.Context, in EvaluateInput) (_ *SafetyReport, err error) {
	_, finish := s.begin(ctx, OpEvaluate, in.Lat, in.Lon)
	defer func() { finish(err) }()

	t := in.Time
	if t.IsZero() {
		t = s.clock.Now()
	}
	category := weather.ParseCategory(in.Label)
	s.metrics.Classifications.WithLabelValues(string(category)).Inc()

	return s.score(s.detect(Conditions{
		Lat:      in.Lat,
		Lon:      in.Lon,
		Time:     t,
		Temporal: hazard.NewTemporalContext(t),
		Reading:  in.Reading,
		Category: category,
	})), nil
}

// ScoreInput is a direct scoring request.
type ScoreInput struct {
	Label       string
	HazardCount int

	// Highest is nil when there are no hazards or the label is unknown.
	Highest *hazard.Severity
	Reading *weather.Reading
}

// Score applies the safety scorer without running detection.
func (s *Service) Score(ctx context.Context, in ScoreInput) safety.Assessment {
	_, finish := s.begin(ctx, OpScore, 0, 0)
	defer finish(nil)

	a := safety.Score(weather.ParseCategory(in.Label), in.HazardCount, in.Highest, in.Reading)
	s.metrics.SafetyRatings.WithLabelValues(string(a.Rating)).Inc()
	return a
}

// RouteInput describes a route estimate request. Nil Label or HasHazards
// are filled from live conditions at the origin.
type RouteInput struct {
	Origin       route.Waypoint
	Destination  route.Waypoint
	Via          []route.Waypoint
	BaseSpeedKmh float64
	Label        *string
	HasHazards   *bool
}

// RouteReport is a route plan and the conditions it assumed.
type RouteReport struct {
	Plan       route.Plan
	Category   weather.Category
	HasHazards bool
}

// Route estimates distance and travel time.
func (s *Service) Route(ctx context.Context, in RouteInput) (_ *RouteReport, err error) {
	ctx, finish := s.begin(ctx, OpRoute, in.Origin.Lat, in.Origin.Lon)
	defer func() { finish(err) }()

	var category weather.Category
	var hasHazards bool

	if in.Label == nil || in.HasHazards == nil {
		if err := weather.ValidateCoordinates(in.Origin.Lat, in.Origin.Lon); err != nil {
			return nil, err
		}
		report := s.detect(s.live(ctx, in.Origin.Lat, in.Origin.Lon))
		category = report.Category
		hasHazards = len(report.Hazards) > 0
	}
	if in.Label != nil {
		category = weather.ParseCategory(*in.Label)
	}
	if in.HasHazards != nil {
		hasHazards = *in.HasHazards
	}

	speed := in.BaseSpeedKmh
	if speed == 0 {
		speed = s.defaultSpeed
	}

	plan, err := route.Calculate(route.Request{
		Origin:       in.Origin,
		Destination:  in.Destination,
		Via:          in.Via,
		BaseSpeedKmh: speed,
		Category:     category,
		HasHazards:   hasHazards,
	})
	if err != nil {
		return nil, err
	}

	return &RouteReport{Plan: plan, Category: category, HasHazards: hasHazards}, nil
}

// live fetches and classifies weather, degrading to unknown on failure.
func (s *Service) live(ctx context.Context, lat, lon float64) Conditions {
	obs, err := s.fetch(ctx, lat, lon)
	if err != nil {
		s.logger.Warn().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("weather unavailable, assessing with unknown conditions")
		now := s.clock.Now()
		return Conditions{
			Lat:      lat,
			Lon:      lon,
			Time:     now,
			Temporal: hazard.NewTemporalContext(now),
			Category: weather.CategoryUnknown,
		}
	}
	return s.classify(ctx, lat, lon, obs)
}

func (s *Service) fetch(ctx context.Context, lat, lon float64) (*weather.Observation, error) {
	if s.weather == nil {
		s.metrics.WeatherFetches.WithLabelValues("error").Inc()
		return nil, weather.ErrProviderUnavailable
	}
	obs, err := s.weather.GetCurrentWeather(ctx, lat, lon)
	if err != nil {
		s.metrics.WeatherFetches.WithLabelValues("error").Inc()
		return nil, err
	}
	s.metrics.WeatherFetches.WithLabelValues("ok").Inc()
	return obs, nil
}

func (s *Service) classify(ctx context.Context, lat, lon float64, obs *weather.Observation) Conditions {
	reading := obs.Reading()
	label, err := s.classifier.Classify(ctx, obs)
	if err != nil {
		s.logger.Warn().Err(err).Msg("classification failed")
		label = string(weather.CategoryUnknown)
	}
	reading.Label = label
	category := reading.Category()
	s.metrics.Classifications.WithLabelValues(string(category)).Inc()

	now := s.clock.Now()
	return Conditions{
		Lat:         lat,
		Lon:         lon,
		Time:        now,
		Temporal:    hazard.NewTemporalContext(now),
		Observation: obs,
		Reading:     reading,
		Category:    category,
	}
}

func (s *Service) detect(c Conditions) *HazardReport {
	hazards := s.engine.Detect(hazard.Input{
		Lat:      c.Lat,
		Lon:      c.Lon,
		Category: c.Category,
		Reading:  c.Reading,
		Time:     c.Time,
	})
	for _, h := range hazards {
		s.metrics.HazardsDetected.WithLabelValues(string(h.Kind), h.Severity.String()).Inc()
	}
	return &HazardReport{
		Conditions: c,
		Hazards:    hazards,
		Summary:    hazard.Summarize(hazards),
	}
}

func (s *Service) score(r *HazardReport) *SafetyReport {
	sum := safety.Summarize(r.Category, r.Reading, r.Hazards)
	s.metrics.SafetyRatings.WithLabelValues(string(sum.Rating)).Inc()
	return &SafetyReport{HazardReport: *r, Safety: sum}
}

// begin starts a span and returns a func that ends it and records metrics.
func (s *Service) begin(ctx context.Context, op string, lat, lon float64) (context.Context, func(error)) {
	start := s.clock.Now()
	ctx, span := s.tracer.Start(ctx, "assessment."+op, trace.WithAttributes(
		attribute.Float64("geo.lat", lat),
		attribute.Float64("geo.lon", lon),
	))

	return ctx, func(err error) {
		outcome := "ok"
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		s.metrics.Assessments.WithLabelValues(op, outcome).Inc()
		s.metrics.AssessmentDuration.WithLabelValues(op).Observe(s.clock.Since(start).Seconds())
		span.End()
	}
}

// IsInvalidInput reports whether err stems from caller input rather than an
// upstream failure.
func IsInvalidInput(err error) bool {
	return errors.Is(err, weather.ErrInvalidCoordinates) || errors.Is(err, route.ErrTooFewWaypoints)
}
