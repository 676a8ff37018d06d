// Package inference classifies observations by calling an external weather
// model over HTTP.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/lifelane/lifelane/internal/provider/resilience"
	"github.com/lifelane/lifelane/internal/weather"
)

// ProviderName identifies the classifier upstream in the resilience registry.
const ProviderName = "classifier"

// ErrPrediction is returned when the model answers without a usable label.
var ErrPrediction = errors.New("classifier returned no prediction")

// Features is the model input vector. Field order and names match the
// model's training columns.
type Features struct {
	Precipitation float64 `json:"precipitation"`
	TempMax       float64 `json:"temp_max"`
	TempMin       float64 `json:"temp_min"`
	Wind          float64 `json:"wind"`
	Month         int     `json:"month"`
	Year          int     `json:"year"`
	Day           int     `json:"day"`
	DayOfYear     int     `json:"day_of_year"`
	DayOfWeek     int     `json:"day_of_week"`
	IsWeekend     int     `json:"is_weekend"`
	TempAvg       float64 `json:"temp_avg"`
	TempRange     float64 `json:"temp_range"`
}

// NewFeatures builds the feature vector for a reading taken at t.
// Day of week counts from Monday = 0.
func NewFeatures(r *weather.Reading, t time.Time) Features {
	if r == nil {
		r = &weather.Reading{}
	}
	dow := (int(t.Weekday()) + 6) % 7
	weekend := 0
	if dow >= 5 {
		weekend = 1
	}
	return Features{
		Precipitation: r.PrecipitationMM,
		TempMax:       r.TempMaxC,
		TempMin:       r.TempMinC,
		Wind:          r.WindKmh,
		Month:         int(t.Month()),
		Year:          t.Year(),
		Day:           t.Day(),
		DayOfYear:     t.YearDay(),
		DayOfWeek:     dow,
		IsWeekend:     weekend,
		TempAvg:       r.TempAvg(),
		TempRange:     r.TempRange(),
	}
}

type predictResponse struct {
	Success       bool               `json:"success"`
	Prediction    string             `json:"prediction"`
	Probabilities map[string]float64 `json:"probabilities,omitempty"`
	Error         string             `json:"error,omitempty"`
}

// ClientConfig holds configuration for the classifier client.
type ClientConfig struct {
	// BaseURL of the model server; requests go to BaseURL + "/predict".
	BaseURL string

	// HTTPClient defaults to a resilient client named ProviderName.
	HTTPClient *resilience.Client

	// Fallback labels observations when the model is unreachable.
	// Defaults to weather.ConditionClassifier.
	Fallback weather.Classifier

	Clock  clockwork.Clock
	Logger zerolog.Logger
}

// Client implements weather.Classifier against a remote model.
type Client struct {
	baseURL    string
	httpClient *resilience.Client
	fallback   weather.Classifier
	clock      clockwork.Clock
	logger     zerolog.Logger
}

// NewClient creates a classifier client.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}
	fallback := cfg.Fallback
	if fallback == nil {
		fallback = weather.ConditionClassifier{}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		fallback:   fallback,
		clock:      clock,
		logger:     cfg.Logger,
	}
}

// Classify returns the model's label, or the fallback's when the model fails.
func (c *Client) Classify(ctx context.Context, obs *weather.Observation) (string, error) {
	if obs == nil {
		return c.fallback.Classify(ctx, obs)
	}

	label, err := c.Predict(ctx, NewFeatures(obs.Reading(), c.clock.Now()))
	if err != nil {
		c.logger.Warn().Err(err).Msg("classifier unavailable, using condition fallback")
		return c.fallback.Classify(ctx, obs)
	}
	return label, nil
}

// Predict posts the feature vector and returns the raw label.
func (c *Client) Predict(ctx context.Context, f Features) (string, error) {
	body, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("encoding features: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || !out.Success || out.Prediction == "" {
		if out.Error != "" {
			return "", fmt.Errorf("%w: %s", ErrPrediction, out.Error)
		}
		return "", fmt.Errorf("%w: status %d", ErrPrediction, resp.StatusCode)
	}

	return out.Prediction, nil
}
