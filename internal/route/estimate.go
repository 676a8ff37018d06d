package route

import (
	"fmt"

	"github.com/lifelane/lifelane/internal/weather"
	"github.com/lifelane/lifelane/pkg/polyline"
)

// DefaultSpeedKmh is used when no base speed is given.
const DefaultSpeedKmh = 50.0

// hazardSlowdown is applied on top of the weather multiplier.
const hazardSlowdown = 0.9

var weatherMultipliers = map[weather.Category]float64{
	weather.CategoryRainy:   0.8,
	weather.CategoryDrizzly: 0.8,
	weather.CategoryFoggy:   0.6,
	weather.CategorySnowy:   0.5,
}

// SpeedMultiplier returns the fraction of base speed achievable under the
// conditions. Factors compose multiplicatively.
func SpeedMultiplier(category weather.Category, hasHazards bool) float64 {
	m := 1.0
	if w, ok := weatherMultipliers[category]; ok {
		m = w
	}
	if hasHazards {
		m *= hazardSlowdown
	}
	return m
}

// TimeEstimate is a travel-time estimate. Times are unrounded.
type TimeEstimate struct {
	DistanceKm        float64
	BaseSpeedKmh      float64
	Multiplier        float64
	EffectiveSpeedKmh float64
	BaseHours         float64
	AdjustedHours     float64
}

// BaseMinutes is the travel time without conditions.
func (t TimeEstimate) BaseMinutes() float64 { return t.BaseHours * 60 }

// AdjustedMinutes is the travel time under conditions.
func (t TimeEstimate) AdjustedMinutes() float64 { return t.AdjustedHours * 60 }

// DelayMinutes is adjusted minus base time.
func (t TimeEstimate) DelayMinutes() float64 { return t.AdjustedMinutes() - t.BaseMinutes() }

// SpeedAdjustment describes the slowdown, e.g. "46% slower due to conditions".
func (t TimeEstimate) SpeedAdjustment() string {
	return fmt.Sprintf("%.0f%% slower due to conditions", (1-t.Multiplier)*100)
}

// EstimateTime estimates travel time over distanceKm. A zero base speed means
// DefaultSpeedKmh.
func EstimateTime(distanceKm, baseSpeedKmh float64, category weather.Category, hasHazards bool) TimeEstimate {
	if baseSpeedKmh == 0 {
		baseSpeedKmh = DefaultSpeedKmh
	}
	m := SpeedMultiplier(category, hasHazards)
	effective := baseSpeedKmh * m

	return TimeEstimate{
		DistanceKm:        distanceKm,
		BaseSpeedKmh:      baseSpeedKmh,
		Multiplier:        m,
		EffectiveSpeedKmh: effective,
		BaseHours:         distanceKm / baseSpeedKmh,
		AdjustedHours:     distanceKm / effective,
	}
}

// Request describes a route from origin to destination through optional
// intermediate stops.
type Request struct {
	Origin       Waypoint
	Destination  Waypoint
	Via          []Waypoint
	BaseSpeedKmh float64
	Category     weather.Category
	HasHazards   bool
}

// Waypoints returns origin, via points and destination in travel order.
func (r Request) Waypoints() []Waypoint {
	out := make([]Waypoint, 0, len(r.Via)+2)
	out = append(out, r.Origin)
	out = append(out, r.Via...)
	return append(out, r.Destination)
}

// Plan is a complete route estimate.
type Plan struct {
	Origin      Waypoint
	Destination Waypoint
	Via         []Waypoint
	Distance    DistanceResult
	Time        TimeEstimate

	// Polyline is the straight-line path in encoded polyline format.
	Polyline string
}

// Calculate computes distance, time and the encoded path for req.
func Calculate(req Request) (Plan, error) {
	points := req.Waypoints()
	dist, err := Distance(points)
	if err != nil {
		return Plan{}, err
	}

	path := make([]polyline.Point, len(points))
	for i, p := range points {
		path[i] = polyline.Point{Lat: p.Lat, Lon: p.Lon}
	}

	return Plan{
		Origin:      req.Origin,
		Destination: req.Destination,
		Via:         req.Via,
		Distance:    dist,
		Time:        EstimateTime(dist.TotalKm, req.BaseSpeedKmh, req.Category, req.HasHazards),
		Polyline:    polyline.Encode(path),
	}, nil
}
