package safety

import (
	"github.com/lifelane/lifelane/internal/hazard"
	"github.com/lifelane/lifelane/internal/weather"
)

var weatherAdvice = map[weather.Category][]string{
	weather.CategoryRainy: {
		"Reduce speed and increase following distance due to wet conditions",
		"Use headlights for better visibility",
	},
	weather.CategoryDrizzly: {
		"Reduce speed and increase following distance due to wet conditions",
		"Use headlights for better visibility",
	},
	weather.CategoryFoggy: {
		"Use fog lights and reduce speed significantly",
		"Avoid sudden maneuvers and maintain safe distance",
	},
	weather.CategorySnowy: {
		"Extreme caution required - icy conditions possible",
		"Consider delaying travel if possible",
	},
}

// manyHazards is the count above which the alternate-route note is added.
const manyHazards = 3

// Recommend returns advisories in a fixed order: weather, hazard severity,
// score band, hazard count. Lines are not de-duplicated across groups.
func Recommend(category weather.Category, hazards []hazard.Hazard, score float64) []string {
	recs := make([]string, 0, 8)
	recs = append(recs, weatherAdvice[category]...)

	hasCritical := hazard.HasSeverity(hazards, hazard.SeverityCritical)
	if hasCritical {
		recs = append(recs,
			"CRITICAL: Multiple critical hazards detected - consider alternate route",
			"Exercise extreme caution and reduce speed")
	}
	if !hasCritical && hazard.HasSeverity(hazards, hazard.SeverityHigh) {
		recs = append(recs, "High severity hazards present - drive with extra caution")
	}

	switch {
	case score < 40:
		recs = append(recs,
			"Safety conditions are poor - consider delaying travel",
			"If driving is necessary, use extreme caution and reduce speed")
	case score < 60:
		recs = append(recs,
			"Moderate safety conditions - drive carefully",
			"Stay alert and maintain safe following distance")
	case score >= 80:
		recs = append(recs, "Good driving conditions - maintain normal safe driving practices")
	}

	if len(hazards) > manyHazards {
		recs = append(recs, "Multiple hazards detected - consider using alternate route if available")
	}

	return recs
}
