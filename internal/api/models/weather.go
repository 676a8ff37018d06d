package models

// WeatherReading is the rule-engine view of current weather.
type WeatherReading struct {
	PrecipitationMM float64 `json:"precipitationMm"`
	WindKmh         float64 `json:"windKmh"`
	TempMaxC        float64 `json:"tempMaxC"`
	TempMinC        float64 `json:"tempMinC"`
}

// WeatherObservation is the raw provider observation.
type WeatherObservation struct {
	TemperatureC    float64    `json:"temperatureC"`
	Humidity        float64    `json:"humidity"`
	PressureHPa     float64    `json:"pressureHpa"`
	WindSpeedMS     float64    `json:"windSpeedMs"`
	WindGustMS      float64    `json:"windGustMs,omitempty"`
	PrecipitationMM float64    `json:"precipitationMm"`
	CloudCover      float64    `json:"cloudCover"`
	VisibilityM     float64    `json:"visibilityM"`
	Condition       string     `json:"condition"`
	Description     string     `json:"description,omitempty"`
	ObservedAt      *Timestamp `json:"observedAt,omitempty"`
	FetchedAt       *Timestamp `json:"fetchedAt,omitempty"`
}

// Temporal is the calendar context used by the time-of-day rules.
type Temporal struct {
	Year      int  `json:"year"`
	Month     int  `json:"month"`
	Day       int  `json:"day"`
	Hour      int  `json:"hour"`
	DayOfYear int  `json:"dayOfYear"`
	DayOfWeek int  `json:"dayOfWeek"`
	IsWeekend bool `json:"isWeekend"`
	IsNight   bool `json:"isNight"`
	RushHour  bool `json:"isRushHour"`
}

// WeatherResponse is the response for GET /v1/weather.
type WeatherResponse struct {
	Location    Point              `json:"location"`
	Category    string             `json:"category"`
	Label       string             `json:"label"`
	Reading     WeatherReading     `json:"reading"`
	Observation WeatherObservation `json:"observation"`
	Temporal    Temporal           `json:"temporal"`
	Timestamp   Timestamp          `json:"timestamp"`
}

// WeatherInput is caller-supplied weather for evaluation and scoring.
type WeatherInput struct {
	PrecipitationMM float64 `json:"precipitationMm"`
	WindKmh         float64 `json:"windKmh"`
	TempMaxC        float64 `json:"tempMaxC"`
	TempMinC        float64 `json:"tempMinC"`
}
