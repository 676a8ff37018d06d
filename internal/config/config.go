// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds settings shared by the API server and the worker.
type Config struct {
	Port            string
	Env             string
	LogLevel        zerolog.Level
	ShutdownTimeout time.Duration
	RequireTLS      bool

	OTelEnabled  bool
	OTLPEndpoint string

	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	WeatherCacheTTL    time.Duration

	// ClassifierURL is empty when no model server is deployed; weather is
	// then labelled from provider condition codes.
	ClassifierURL string

	DefaultSpeedKmh float64

	PubSubProjectID    string
	PubSubSubscription string
	RefreshInterval    time.Duration
	RefreshConcurrency int
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding the real environment. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	var errs []error
	parse := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	level, err := zerolog.ParseLevel(envOrDefault("LOG_LEVEL", "info"))
	parse(err)

	cfg := &Config{
		Port:               envOrDefault("APP_PORT", "8080"),
		Env:                envOrDefault("APP_ENV", "development"),
		LogLevel:           level,
		OTLPEndpoint:       envOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL: os.Getenv("OPENWEATHER_BASE_URL"),
		ClassifierURL:      os.Getenv("CLASSIFIER_URL"),
		PubSubProjectID:    os.Getenv("PUBSUB_PROJECT_ID"),
		PubSubSubscription: envOrDefault("PUBSUB_SUBSCRIPTION", "lifelane-worker-jobs"),
	}

	cfg.ShutdownTimeout, err = durationEnv("SHUTDOWN_TIMEOUT", 30*time.Second)
	parse(err)
	cfg.WeatherCacheTTL, err = durationEnv("WEATHER_CACHE_TTL", 10*time.Minute)
	parse(err)
	cfg.RefreshInterval, err = durationEnv("REFRESH_INTERVAL", 15*time.Minute)
	parse(err)
	cfg.RequireTLS, err = boolEnv("REQUIRE_TLS", false)
	parse(err)
	cfg.OTelEnabled, err = boolEnv("OTEL_ENABLED", false)
	parse(err)
	cfg.RefreshConcurrency, err = intEnv("REFRESH_CONCURRENCY", 3)
	parse(err)
	cfg.DefaultSpeedKmh, err = floatEnv("DEFAULT_SPEED_KMH", 50)
	parse(err)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the services cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Port == "":
		return errors.New("APP_PORT is required")
	case c.ShutdownTimeout <= 0:
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	case c.WeatherCacheTTL <= 0:
		return errors.New("WEATHER_CACHE_TTL must be positive")
	case c.RefreshInterval <= 0:
		return errors.New("REFRESH_INTERVAL must be positive")
	case c.RefreshConcurrency < 1:
		return errors.New("REFRESH_CONCURRENCY must be at least 1")
	case c.DefaultSpeedKmh <= 0:
		return errors.New("DEFAULT_SPEED_KMH must be positive")
	case c.IsProduction() && c.OpenWeatherAPIKey == "":
		return errors.New("OPENWEATHER_API_KEY is required in production")
	}
	return nil
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// PubSubEnabled reports whether the worker should consume Pub/Sub jobs.
func (c *Config) PubSubEnabled() bool {
	return c.PubSubProjectID != ""
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func floatEnv(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
