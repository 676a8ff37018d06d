package models

// RouteEstimateRequest is the request body for POST /v1/routes:estimate.
// When WeatherLabel or HasHazards is omitted it is derived from live
// conditions at the origin.
type RouteEstimateRequest struct {
	Origin       *Point   `json:"origin"`
	Destination  *Point   `json:"destination"`
	Via          []Point  `json:"via,omitempty"`
	BaseSpeedKmh *float64 `json:"baseSpeedKmh,omitempty"`
	WeatherLabel *string  `json:"weatherLabel,omitempty"`
	HasHazards   *bool    `json:"hasHazards,omitempty"`
}

// RouteSegment is one leg between consecutive waypoints.
type RouteSegment struct {
	From          Point   `json:"from"`
	To            Point   `json:"to"`
	DistanceKm    float64 `json:"distanceKm"`
	DistanceMiles float64 `json:"distanceMiles"`
}

// RouteDistance is the great-circle distance breakdown.
type RouteDistance struct {
	TotalKm       float64        `json:"totalKm"`
	TotalMiles    float64        `json:"totalMiles"`
	WaypointCount int            `json:"waypointCount"`
	Segments      []RouteSegment `json:"segments"`
}

// RouteTime is the travel-time estimate.
type RouteTime struct {
	EstimatedMinutes float64 `json:"estimatedMinutes"`
	EstimatedHours   float64 `json:"estimatedHours"`
	BaseMinutes      float64 `json:"baseMinutes"`
	DelayMinutes     float64 `json:"delayMinutes"`
	BaseSpeedKmh     float64 `json:"baseSpeedKmh"`
	AverageSpeedKmh  float64 `json:"averageSpeedKmh"`
	SpeedMultiplier  float64 `json:"speedMultiplier"`
	SpeedAdjustment  string  `json:"speedAdjustment"`
}

// RouteEstimateResponse is the response for POST /v1/routes:estimate.
type RouteEstimateResponse struct {
	Origin      Point         `json:"origin"`
	Destination Point         `json:"destination"`
	Via         []Point       `json:"via"`
	Category    string        `json:"category"`
	HasHazards  bool          `json:"hasHazards"`
	Distance    RouteDistance `json:"distance"`
	Time        RouteTime     `json:"time"`
	Polyline    string        `json:"polyline"`
}
