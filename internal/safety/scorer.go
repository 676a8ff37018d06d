// Package safety turns weather and hazard findings into a 0-100 safety score,
// a rating band and driver advisories.
package safety

import (
	"math"

	"github.com/lifelane/lifelane/internal/hazard"
	"github.com/lifelane/lifelane/internal/weather"
)

// Rating is a score band.
type Rating string

const (
	RatingExcellent Rating = "excellent"
	RatingGood      Rating = "good"
	RatingModerate  Rating = "moderate"
	RatingPoor      Rating = "poor"
	RatingCritical  Rating = "critical"
)

// Penalties is the breakdown of points deducted from 100.
type Penalties struct {
	// Weather is the category table penalty only; wind and precipitation
	// extras are deducted from the score but not reported here.
	Weather         float64
	Hazard          float64
	MultipleHazards float64
}

// Assessment is a scored safety verdict.
type Assessment struct {
	Score     float64 // [0,100], rounded to 0.1
	Rating    Rating
	Color     string
	Penalties Penalties
}

const (
	unknownWeatherPenalty = 15.0
	windExtraPenalty      = 10.0
	precipExtraPenalty    = 5.0
	windExtraThreshold    = 50.0
	precipExtraThreshold  = 10.0
	maxMultiHazardPenalty = 10.0
)

var weatherPenalties = map[weather.Category]float64{
	weather.CategorySunny:        0,
	weather.CategoryPartlyCloudy: 5,
	weather.CategoryCloudy:       10,
	weather.CategoryDrizzly:      20,
	weather.CategoryRainy:        25,
	weather.CategoryFoggy:        35,
	weather.CategorySnowy:        45,
}

var severityPenalties = map[hazard.Severity]float64{
	hazard.SeverityLow:      5,
	hazard.SeverityMedium:   15,
	hazard.SeverityHigh:     30,
	hazard.SeverityCritical: 50,
}

type band struct {
	min    float64
	rating Rating
	color  string
}

// bands are checked top-down; each includes its lower bound.
var bands = []band{
	{80, RatingExcellent, "green"},
	{60, RatingGood, "blue"},
	{40, RatingModerate, "yellow"},
	{20, RatingPoor, "orange"},
}

// WeatherPenalty returns the table penalty for a category; unknown is 15.
func WeatherPenalty(c weather.Category) float64 {
	if p, ok := weatherPenalties[c]; ok {
		return p
	}
	return unknownWeatherPenalty
}

// SeverityPenalty returns the penalty for the highest severity; nil is 0.
// An unrecognised severity also scores 0 rather than falling back to low.
func SeverityPenalty(s *hazard.Severity) float64 {
	if s == nil {
		return 0
	}
	return severityPenalties[*s]
}

// MultipleHazardsPenalty is 2 points per hazard beyond the first, capped at 10.
func MultipleHazardsPenalty(hazardCount int) float64 {
	if hazardCount <= 1 {
		return 0
	}
	return math.Min(maxMultiHazardPenalty, float64(hazardCount-1)*2)
}

// Score computes the assessment. A nil reading skips the wind and
// precipitation extras. Inputs are not validated.
func Score(category weather.Category, hazardCount int, highest *hazard.Severity, reading *weather.Reading) Assessment {
	p := Penalties{
		Weather:         WeatherPenalty(category),
		Hazard:          SeverityPenalty(highest),
		MultipleHazards: MultipleHazardsPenalty(hazardCount),
	}

	score := 100.0 - p.Weather
	if reading != nil {
		if reading.WindKmh > windExtraThreshold {
			score -= windExtraPenalty
		}
		if reading.PrecipitationMM > precipExtraThreshold {
			score -= precipExtraPenalty
		}
	}
	score -= p.Hazard
	score -= p.MultipleHazards
	score = math.Max(0, math.Min(100, score))

	rating, color := RatingFor(score)
	return Assessment{
		Score:     math.Round(score*10) / 10,
		Rating:    rating,
		Color:     color,
		Penalties: p,
	}
}

// RatingFor maps a score to its band and color.
func RatingFor(score float64) (Rating, string) {
	for _, b := range bands {
		if score >= b.min {
			return b.rating, b.color
		}
	}
	return RatingCritical, "red"
}
