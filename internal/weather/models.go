// Package weather provides weather observations, the category vocabulary used
// by hazard detection, and a caching service in front of weather providers.
package weather

import (
	"errors"
	"time"
)

// Weather errors.
var (
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
	ErrUnauthorized        = errors.New("weather provider rejected api key")
	ErrRateLimited         = errors.New("weather provider rate limit exceeded")
)

// Reading is the subset of an observation the safety rules consume.
// Absent values are zero.
type Reading struct {
	PrecipitationMM float64 // mm in the last hour
	WindKmh         float64
	TempMaxC        float64
	TempMinC        float64
	Label           string // classifier output, free text
}

// Category returns the parsed classifier label.
func (r *Reading) Category() Category {
	if r == nil {
		return CategoryUnknown
	}
	return ParseCategory(r.Label)
}

// TempAvg returns the midpoint of the temperature range.
func (r *Reading) TempAvg() float64 {
	return (r.TempMaxC + r.TempMinC) / 2
}

// TempRange returns max minus min temperature.
func (r *Reading) TempRange() float64 {
	return r.TempMaxC - r.TempMinC
}

// Observation represents weather data at a specific point and time.
type Observation struct {
	Lat float64
	Lon float64

	// Temperature in Celsius
	Temperature float64

	// Humidity percentage (0-100)
	Humidity float64

	// Pressure in hPa
	Pressure float64

	// WindSpeed in m/s, as reported by providers
	WindSpeed float64
	WindGust  float64

	// Precipitation in mm over the last hour
	Precipitation float64

	Condition   Condition
	Description string

	// CloudCover percentage (0-100)
	CloudCover float64

	// Visibility in meters
	Visibility float64

	ObservedAt time.Time
	FetchedAt  time.Time
}

// Condition is the provider's coarse weather condition.
type Condition string

const (
	ConditionClear        Condition = "CLEAR"
	ConditionClouds       Condition = "CLOUDS"
	ConditionRain         Condition = "RAIN"
	ConditionDrizzle      Condition = "DRIZZLE"
	ConditionThunderstorm Condition = "THUNDERSTORM"
	ConditionSnow         Condition = "SNOW"
	ConditionMist         Condition = "MIST"
	ConditionFog          Condition = "FOG"
	ConditionHaze         Condition = "HAZE"
	ConditionUnknown      Condition = "UNKNOWN"
)

// tempSpread approximates daily max/min from a point temperature; current
// weather endpoints report only the instantaneous value.
const tempSpread = 3.0

// WindKmh converts the provider wind speed to km/h.
func (o *Observation) WindKmh() float64 {
	return o.WindSpeed * 3.6
}

// Reading converts the observation into the rule-engine input.
// The label is left empty; classification happens separately.
func (o *Observation) Reading() *Reading {
	return &Reading{
		PrecipitationMM: o.Precipitation,
		WindKmh:         o.WindKmh(),
		TempMaxC:        o.Temperature + tempSpread,
		TempMinC:        o.Temperature - tempSpread,
	}
}
