package models

// Hazard is one detected driving hazard.
type Hazard struct {
	ID                string     `json:"id"`
	Category          string     `json:"category"`
	Kind              string     `json:"kind"`
	Severity          string     `json:"severity"`
	Location          Point      `json:"location"`
	Description       string     `json:"description"`
	DistanceKm        float64    `json:"distanceKm"`
	EstimatedDelayMin int        `json:"estimatedDelayMinutes,omitempty"`
	Source            string     `json:"source"`
	Confidence        float64    `json:"confidence"`
	CreatedAt         Timestamp  `json:"createdAt"`
	ExpiresAt         *Timestamp `json:"expiresAt,omitempty"`
	Recommendations   []string   `json:"recommendations"`
}

// HazardSummary condenses a hazard list. HighestSeverity is null when the
// list is empty.
type HazardSummary struct {
	Count           int     `json:"count"`
	HighestSeverity *string `json:"highestSeverity"`
	Recommendation  string  `json:"recommendation"`
}

// HazardsResponse is the response for GET /v1/hazards and
// POST /v1/hazards:evaluate.
type HazardsResponse struct {
	Location  Point           `json:"location"`
	Category  string          `json:"category"`
	Reading   *WeatherReading `json:"reading"`
	Hazards   []Hazard        `json:"hazards"`
	Summary   HazardSummary   `json:"summary"`
	Timestamp Timestamp       `json:"timestamp"`
}

// EvaluateRequest is the request body for POST /v1/hazards:evaluate.
// Time defaults to now; Weather may be omitted.
type EvaluateRequest struct {
	Lat          *float64      `json:"lat"`
	Lon          *float64      `json:"lon"`
	WeatherLabel string        `json:"weatherLabel"`
	Weather      *WeatherInput `json:"weather,omitempty"`
	Time         *Timestamp    `json:"time,omitempty"`
}
