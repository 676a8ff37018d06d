package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/lifelane/lifelane/internal/observability"
	"github.com/lifelane/lifelane/internal/weather"
)

// WeatherFetcher fetches current weather. *weather.Service implements it and
// caches what it fetches.
type WeatherFetcher interface {
	GetCurrentWeather(ctx context.Context, lat, lon float64) (*weather.Observation, error)
}

// RefreshJob fetches weather for every configured depot so that live
// assessments are served from cache.
type RefreshJob struct {
	config  RefreshConfig
	logger  zerolog.Logger
	weather WeatherFetcher
	clock   clockwork.Clock
	metrics *observability.Metrics

	stats *RefreshStats
}

// RefreshStats tracks refresh job statistics.
type RefreshStats struct {
	mu sync.RWMutex

	Runs                int64
	SuccessfulPoints    int64
	FailedPoints        int64
	LastRefreshAt       time.Time
	LastRefreshDuration time.Duration
	TotalDuration       time.Duration
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Config  RefreshConfig
	Logger  zerolog.Logger
	Weather WeatherFetcher
	Clock   clockwork.Clock
	Metrics *observability.Metrics
}

// NewRefreshJob creates a new refresh job processor.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	config := cfg.Config
	if len(config.Targets) == 0 {
		config.Targets = DefaultRefreshTargets()
	}
	if config.Concurrency < 1 {
		config.Concurrency = 3
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}

	return &RefreshJob{
		config:  config,
		logger:  cfg.Logger,
		weather: cfg.Weather,
		clock:   clock,
		metrics: metrics,
		stats:   &RefreshStats{},
	}
}

// RefreshResult contains the result of a refresh run.
type RefreshResult struct {
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	TotalPoints int
	Successful  int
	Failed      int
	Errors      []RefreshError
}

// RefreshError records a failed point.
type RefreshError struct {
	Point Point
	Error string
}

// Run refreshes all configured points with bounded concurrency. Points not
// started before ctx is cancelled are recorded as failed with ctx's error.
func (j *RefreshJob) Run(ctx context.Context) *RefreshResult {
	return j.run(ctx, j.config.AllPoints())
}

// CheckHealth fetches the first configured point to verify provider
// connectivity.
func (j *RefreshJob) CheckHealth(ctx context.Context) error {
	p, ok := j.config.FirstPoint()
	if !ok {
		return fmt.Errorf("no refresh points configured")
	}
	result := j.run(ctx, []Point{p})
	if len(result.Errors) > 0 {
		return fmt.Errorf("health check failed: %s", result.Errors[0].Error)
	}
	if result.Failed > 0 {
		return fmt.Errorf("health check failed: %w", ctx.Err())
	}
	return nil
}

func (j *RefreshJob) run(ctx context.Context, points []Point) *RefreshResult {
	startTime := j.clock.Now()
	result := &RefreshResult{
		StartTime:   startTime,
		TotalPoints: len(points),
	}

	j.logger.Info().
		Int("total_points", result.TotalPoints).
		Int("concurrency", j.config.Concurrency).
		Msg("starting weather refresh")

	pointsChan := make(chan Point, len(points))
	resultsChan := make(chan pointResult, len(points))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.refreshWorker(ctx, pointsChan, resultsChan)
		}()
	}

	for _, p := range points {
		pointsChan <- p
	}
	close(pointsChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for pr := range resultsChan {
		if pr.err == nil {
			result.Successful++
			j.metrics.RefreshPoints.WithLabelValues("ok").Inc()
			continue
		}
		result.Failed++
		j.metrics.RefreshPoints.WithLabelValues("error").Inc()
		result.Errors = append(result.Errors, RefreshError{Point: pr.point, Error: pr.err.Error()})
	}

	result.EndTime = j.clock.Now()
	result.Duration = result.EndTime.Sub(startTime)
	j.metrics.RefreshDuration.Observe(result.Duration.Seconds())
	j.updateStats(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("weather refresh completed")

	return result
}

type pointResult struct {
	point Point
	err   error
}

func (j *RefreshJob) refreshWorker(ctx context.Context, points <-chan Point, results chan<- pointResult) {
	for point := range points {
		if err := ctx.Err(); err != nil {
			results <- pointResult{point: point, err: err}
			continue
		}
		results <- pointResult{point: point, err: j.refreshPoint(ctx, point)}
	}
}

func (j *RefreshJob) refreshPoint(ctx context.Context, point Point) error {
	if j.weather == nil {
		return fmt.Errorf("weather source not configured")
	}

	pointCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	if _, err := j.weather.GetCurrentWeather(pointCtx, point.Lat, point.Lon); err != nil {
		j.logger.Warn().
			Err(err).
			Float64("lat", point.Lat).
			Float64("lon", point.Lon).
			Msg("weather refresh failed")
		return err
	}
	return nil
}

func (j *RefreshJob) updateStats(result *RefreshResult) {
	j.stats.mu.Lock()
	defer j.stats.mu.Unlock()

	j.stats.Runs++
	j.stats.SuccessfulPoints += int64(result.Successful)
	j.stats.FailedPoints += int64(result.Failed)
	j.stats.LastRefreshAt = result.EndTime
	j.stats.LastRefreshDuration = result.Duration
	j.stats.TotalDuration += result.Duration
}

// GetStats returns a copy of the current statistics.
func (j *RefreshJob) GetStats() RefreshStats {
	j.stats.mu.RLock()
	defer j.stats.mu.RUnlock()

	return RefreshStats{
		Runs:                j.stats.Runs,
		SuccessfulPoints:    j.stats.SuccessfulPoints,
		FailedPoints:        j.stats.FailedPoints,
		LastRefreshAt:       j.stats.LastRefreshAt,
		LastRefreshDuration: j.stats.LastRefreshDuration,
		TotalDuration:       j.stats.TotalDuration,
	}
}

// StatsSnapshot returns the current statistics as a map for logging.
func (j *RefreshJob) StatsSnapshot() map[string]interface{} {
	s := j.GetStats()
	return map[string]interface{}{
		"runs":                  s.Runs,
		"successful_points":     s.SuccessfulPoints,
		"failed_points":         s.FailedPoints,
		"last_refresh_at":       s.LastRefreshAt,
		"last_refresh_duration": s.LastRefreshDuration.String(),
		"total_duration":        s.TotalDuration.String(),
	}
}
