// Package hazard detects travel hazards for an emergency vehicle from a weather
// reading, a location and a point in time.
//
// Detection is a pure function of its inputs plus an identifier source: the
// rule battery proposes operations, and a fold applies them in order to build
// the final hazard list.
package hazard

import "time"

// Category groups hazards by what they affect.
type Category string

const (
	CategoryWeather    Category = "weather"
	CategoryVisibility Category = "visibility"
	CategoryTraffic    Category = "traffic"
)

// Kind identifies the rule family that produced a hazard. Merge rules match on
// Category and Kind instead of description text.
type Kind string

const (
	KindRain         Kind = "rain"
	KindFog          Kind = "fog"
	KindSnow         Kind = "snow"
	KindWind         Kind = "wind"
	KindNight        Kind = "night"
	KindRushHour     Kind = "rush_hour"
	KindFogNight     Kind = "fog_night"
	KindWeekendNight Kind = "weekend_night"
	KindStorm        Kind = "storm"
)

// SourceRuleBased tags hazards produced by the rule engine.
const SourceRuleBased = "rule_based"

// Location is a WGS84 coordinate.
type Location struct {
	Lat float64
	Lon float64
}

// Hazard is a single detected risk condition.
type Hazard struct {
	ID       string
	Category Category
	Kind     Kind
	Severity Severity
	Location Location

	// Description may be extended by merge rules.
	Description string

	// DistanceKm and EstimatedDelayMin are zero unless a rule sets them.
	DistanceKm        float64
	EstimatedDelayMin int

	Source     string
	Confidence float64
	CreatedAt  time.Time
	ExpiresAt  *time.Time

	Recommendations []string
}

// HasSeverity reports whether any hazard has severity s.
func HasSeverity(hazards []Hazard, s Severity) bool {
	for i := range hazards {
		if hazards[i].Severity == s {
			return true
		}
	}
	return false
}
