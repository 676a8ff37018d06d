package safety

import (
	"fmt"
	"strings"

	"github.com/lifelane/lifelane/internal/hazard"
	"github.com/lifelane/lifelane/internal/weather"
)

// NoSeverity is reported as the highest severity when there are no hazards.
const NoSeverity = "none"

// Summary is the full safety verdict for one location and time.
type Summary struct {
	Assessment
	Category        weather.Category
	HazardCount     int
	HighestSeverity string
	Recommendations []string
	Text            string
}

// Summarize scores the hazards and composes advisories and the headline text.
func Summarize(category weather.Category, reading *weather.Reading, hazards []hazard.Hazard) Summary {
	hs := hazard.Summarize(hazards)
	a := Score(category, hs.Count, hs.Highest, reading)

	highest := NoSeverity
	if hs.Highest != nil {
		highest = hs.Highest.String()
	}

	return Summary{
		Assessment:      a,
		Category:        category,
		HazardCount:     hs.Count,
		HighestSeverity: highest,
		Recommendations: Recommend(category, hazards, a.Score),
		Text:            fmt.Sprintf("Safety rating: %s (%.1f/100)", strings.ToUpper(string(a.Rating)), a.Score),
	}
}
