package assessment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifelane/lifelane/internal/hazard"
	"github.com/lifelane/lifelane/internal/observability"
	"github.com/lifelane/lifelane/internal/route"
	"github.com/lifelane/lifelane/internal/safety"
	"github.com/lifelane/lifelane/internal/weather"
)

type fakeWeather struct {
	obs   *weather.Observation
	err   error
	calls int
}

func (f *fakeWeather) GetCurrentWeather(_ context.Context, lat, lon float64) (*weather.Observation, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	obs := *f.obs
	obs.Lat, obs.Lon = lat, lon
	return &obs, nil
}

type fixedClassifier string

func (c fixedClassifier) Classify(context.Context, *weather.Observation) (string, error) {
	return string(c), nil
}

var (
	wednesdayNoon  = time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	wednesdayNight = time.Date(2024, 3, 13, 20, 0, 0, 0, time.UTC)
)

func newTestService(t *testing.T, src WeatherSource, classifier weather.Classifier, now time.Time) (*Service, *observability.Metrics) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(now)
	metrics := observability.NewMetricsForTesting()
	svc := NewService(Config{
		Weather:    src,
		Classifier: classifier,
		Engine:     hazard.NewEngine(hazard.EngineConfig{IDs: &hazard.SequenceSource{}, Clock: clock}),
		Clock:      clock,
		Metrics:    metrics,
		Logger:     zerolog.Nop(),
	})
	return svc, metrics
}

func TestService_SafetyFogAtNight(t *testing.T) {
	src := &fakeWeather{obs: &weather.Observation{Condition: weather.ConditionFog, Temperature: 8, WindSpeed: 2}}
	svc, metrics := newTestService(t, src, nil, wednesdayNight)

	r, err := svc.Safety(context.Background(), 52.37, 4.89)
	require.NoError(t, err)

	assert.Equal(t, weather.CategoryFoggy, r.Category)
	require.NotNil(t, r.Reading)
	assert.Equal(t, "foggy", r.Reading.Label)

	require.Len(t, r.Hazards, 1)
	assert.Equal(t, hazard.KindFogNight, r.Hazards[0].Kind)
	assert.Equal(t, hazard.SeverityCritical, r.Hazards[0].Severity)

	assert.Equal(t, 15.0, r.Safety.Score)
	assert.Equal(t, safety.RatingCritical, r.Safety.Rating)
	assert.Equal(t, "critical", r.Safety.HighestSeverity)
	assert.Equal(t, "Safety rating: CRITICAL (15.0/100)", r.Safety.Text)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Assessments.WithLabelValues(OpSafety, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HazardsDetected.WithLabelValues("fog_night", "critical")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SafetyRatings.WithLabelValues("critical")))
}

func TestService_WeatherFailureDegradesToUnknown(t *testing.T) {
	src := &fakeWeather{err: weather.ErrProviderUnavailable}
	svc, metrics := newTestService(t, src, nil, wednesdayNoon)

	r, err := svc.Safety(context.Background(), 52.37, 4.89)
	require.NoError(t, err)

	assert.Equal(t, weather.CategoryUnknown, r.Category)
	assert.Nil(t, r.Reading)
	assert.Empty(t, r.Hazards)
	assert.Equal(t, hazard.NoHazardsMessage, r.Summary.Recommendation)
	assert.Nil(t, r.Summary.Highest)

	assert.Equal(t, 85.0, r.Safety.Score)
	assert.Equal(t, safety.RatingExcellent, r.Safety.Rating)
	assert.Equal(t, safety.NoSeverity, r.Safety.HighestSeverity)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WeatherFetches.WithLabelValues("error")))
}

func TestService_InvalidCoordinates(t *testing.T) {
	src := &fakeWeather{obs: &weather.Observation{Condition: weather.ConditionClear}}
	svc, metrics := newTestService(t, src, nil, wednesdayNoon)

	_, err := svc.Hazards(context.Background(), 91, 0)
	require.ErrorIs(t, err, weather.ErrInvalidCoordinates)
	assert.True(t, IsInvalidInput(err))
	assert.Zero(t, src.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Assessments.WithLabelValues(OpHazards, "error")))
}

func TestService_HazardsUsesClassifierLabel(t *testing.T) {
	src := &fakeWeather{obs: &weather.Observation{Condition: weather.ConditionClear, Precipitation: 12, WindSpeed: 15}}
	svc, _ := newTestService(t, src, fixedClassifier("Rainy"), wednesdayNoon)

	r, err := svc.Hazards(context.Background(), 40.71, -74.0)
	require.NoError(t, err)

	assert.Equal(t, weather.CategoryRainy, r.Category)
	kinds := make([]hazard.Kind, len(r.Hazards))
	for i, h := range r.Hazards {
		kinds[i] = h.Kind
	}
	assert.Equal(t, []hazard.Kind{hazard.KindRain, hazard.KindWind, hazard.KindStorm}, kinds)
	ids := make(map[string]bool)
	for _, h := range r.Hazards {
		assert.NotEmpty(t, h.ID)
		ids[h.ID] = true
	}
	assert.Len(t, ids, len(r.Hazards))
	assert.Equal(t, hazard.SeverityCritical, *r.Summary.Highest)
}

func TestService_ConditionsFailsWithoutWeather(t *testing.T) {
	src := &fakeWeather{err: errors.New("boom")}
	svc, _ := newTestService(t, src, nil, wednesdayNoon)

	_, err := svc.Conditions(context.Background(), 10, 10)
	require.Error(t, err)
	assert.False(t, IsInvalidInput(err))
}

func TestService_Conditions(t *testing.T) {
	src := &fakeWeather{obs: &weather.Observation{Condition: weather.ConditionClouds, CloudCover: 20, Temperature: 15}}
	svc, _ := newTestService(t, src, nil, wednesdayNoon)

	c, err := svc.Conditions(context.Background(), 10, 10)
	require.NoError(t, err)
	assert.Equal(t, weather.CategoryPartlyCloudy, c.Category)
	assert.Equal(t, wednesdayNoon, c.Time)
	assert.Equal(t, 12, c.Temporal.Hour)
	assert.Equal(t, 18.0, c.Reading.TempMaxC)
}

func TestService_Evaluate(t *testing.T) {
	svc, _ := newTestService(t, nil, nil, wednesdayNoon)

	saturdayNight := time.Date(2024, 3, 16, 21, 0, 0, 0, time.UTC)
	r, err := svc.Evaluate(context.Background(), EvaluateInput{
		Lat:     1,
		Lon:     2,
		Label:   "sunny",
		Reading: &weather.Reading{WindKmh: 10},
		Time:    saturdayNight,
	})
	require.NoError(t, err)

	require.Len(t, r.Hazards, 2)
	assert.Equal(t, hazard.KindNight, r.Hazards[0].Kind)
	assert.Equal(t, hazard.KindWeekendNight, r.Hazards[1].Kind)
	// 100 - 15 (medium) - 2 (second hazard)
	assert.Equal(t, 83.0, r.Safety.Score)
	assert.Equal(t, "medium", r.Safety.HighestSeverity)
}

func TestService_EvaluateDefaultsToNow(t *testing.T) {
	svc, _ := newTestService(t, nil, nil, wednesdayNight)

	r, err := svc.Evaluate(context.Background(), EvaluateInput{Label: "cloudy"})
	require.NoError(t, err)
	assert.Equal(t, wednesdayNight, r.Time)
	require.Len(t, r.Hazards, 1)
	assert.Equal(t, hazard.KindNight, r.Hazards[0].Kind)
}

func TestService_Score(t *testing.T) {
	svc, _ := newTestService(t, nil, nil, wednesdayNoon)

	a := svc.Score(context.Background(), ScoreInput{
		Label:       "snowy",
		HazardCount: 3,
		Highest:     hazard.SeverityCritical.Ptr(),
		Reading:     &weather.Reading{WindKmh: 60, PrecipitationMM: 15},
	})
	// 100 - 45 - 10 - 5 - 50 - 4 clamps to 0
	assert.Equal(t, 0.0, a.Score)
	assert.Equal(t, safety.RatingCritical, a.Rating)
	assert.Equal(t, 4.0, a.Penalties.MultipleHazards)
}

func TestService_RouteExplicitConditions(t *testing.T) {
	src := &fakeWeather{obs: &weather.Observation{Condition: weather.ConditionClear}}
	svc, _ := newTestService(t, src, nil, wednesdayNoon)

	label := "rainy"
	noHazards := false
	r, err := svc.Route(context.Background(), RouteInput{
		Origin:      route.Waypoint{Lat: 0, Lon: 0},
		Destination: route.Waypoint{Lat: 0, Lon: 1},
		Label:       &label,
		HasHazards:  &noHazards,
	})
	require.NoError(t, err)

	assert.Zero(t, src.calls)
	assert.Equal(t, weather.CategoryRainy, r.Category)
	assert.InDelta(t, 111.19, r.Plan.Distance.TotalKm, 0.01)
	assert.Equal(t, route.DefaultSpeedKmh, r.Plan.Time.BaseSpeedKmh)
	assert.InDelta(t, 0.8, r.Plan.Time.Multiplier, 1e-9)
	assert.Equal(t, "20% slower due to conditions", r.Plan.Time.SpeedAdjustment())
}

func TestService_RouteLiveConditions(t *testing.T) {
	src := &fakeWeather{obs: &weather.Observation{Condition: weather.ConditionSnow}}
	svc, _ := newTestService(t, src, nil, wednesdayNoon)

	r, err := svc.Route(context.Background(), RouteInput{
		Origin:       route.Waypoint{Lat: 10, Lon: 10},
		Destination:  route.Waypoint{Lat: 10.5, Lon: 10.5},
		BaseSpeedKmh: 80,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, src.calls)
	assert.Equal(t, weather.CategorySnowy, r.Category)
	assert.True(t, r.HasHazards)
	assert.InDelta(t, 0.45, r.Plan.Time.Multiplier, 1e-9)
	assert.Equal(t, 80.0, r.Plan.Time.BaseSpeedKmh)
}

func TestService_RouteInvalidOrigin(t *testing.T) {
	svc, _ := newTestService(t, &fakeWeather{}, nil, wednesdayNoon)

	_, err := svc.Route(context.Background(), RouteInput{
		Origin:      route.Waypoint{Lat: 100},
		Destination: route.Waypoint{},
	})
	require.Error(t, err)
	assert.True(t, IsInvalidInput(err))
}
