package models

// Penalties is the breakdown of points deducted from 100.
type Penalties struct {
	Weather         float64 `json:"weather"`
	Hazard          float64 `json:"hazard"`
	MultipleHazards float64 `json:"multipleHazards"`
}

// SafetyScore is a scored verdict.
type SafetyScore struct {
	Score     float64   `json:"score"`
	Rating    string    `json:"rating"`
	Color     string    `json:"color"`
	Penalties Penalties `json:"penalties"`
}

// Safety is the full safety verdict for a location.
type Safety struct {
	SafetyScore
	Category        string   `json:"category"`
	HazardCount     int      `json:"hazardCount"`
	HighestSeverity string   `json:"highestSeverity"`
	Recommendations []string `json:"recommendations"`
	SummaryText     string   `json:"summaryText"`
}

// SafetyResponse is the response for GET /v1/safety.
type SafetyResponse struct {
	Location  Point           `json:"location"`
	Safety    Safety          `json:"safety"`
	Reading   *WeatherReading `json:"reading"`
	Hazards   []Hazard        `json:"hazards"`
	Summary   HazardSummary   `json:"summary"`
	Timestamp Timestamp       `json:"timestamp"`
}

// ScoreRequest is the request body for POST /v1/safety:score. Unknown
// severity labels score as no hazard penalty.
type ScoreRequest struct {
	WeatherLabel    string        `json:"weatherLabel"`
	HazardCount     int           `json:"hazardCount"`
	HighestSeverity *string       `json:"highestSeverity,omitempty"`
	Weather         *WeatherInput `json:"weather,omitempty"`
}
