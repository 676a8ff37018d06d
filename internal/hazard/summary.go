package hazard

// NoHazardsMessage is the recommendation for an empty hazard list.
const NoHazardsMessage = "No hazards detected. Safe driving conditions."

var severityRecommendations = map[Severity]string{
	SeverityLow:      "Minor hazards detected. Drive with normal caution.",
	SeverityMedium:   "Moderate hazards detected. Exercise increased caution.",
	SeverityHigh:     "Significant hazards detected. Drive carefully and consider alternate routes if possible.",
	SeverityCritical: "Critical hazards detected. Consider delaying travel or using alternate routes. Extreme caution required.",
}

// Summary condenses a hazard list.
type Summary struct {
	Count int

	// Highest is nil for an empty list.
	Highest *Severity

	Recommendation string
}

// Summarize returns the count, highest severity and the matching
// recommendation. Ties keep the first hazard in list order.
func Summarize(hazards []Hazard) Summary {
	if len(hazards) == 0 {
		return Summary{Recommendation: NoHazardsMessage}
	}

	highest := hazards[0].Severity
	for _, h := range hazards[1:] {
		if h.Severity.Rank() > highest.Rank() {
			highest = h.Severity
		}
	}

	return Summary{
		Count:          len(hazards),
		Highest:        highest.Ptr(),
		Recommendation: RecommendationFor(highest),
	}
}

// RecommendationFor returns the summary line for a severity.
func RecommendationFor(s Severity) string {
	if rec, ok := severityRecommendations[s]; ok {
		return rec
	}
	return "Drive with caution."
}
