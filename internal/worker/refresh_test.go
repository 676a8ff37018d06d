package worker_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifelane/lifelane/internal/observability"
	"github.com/lifelane/lifelane/internal/weather"
	"github.com/lifelane/lifelane/internal/worker"
)

type fakeFetcher struct {
	mu      sync.Mutex
	failLat map[float64]bool
	calls   []worker.Point
	delay   time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (f *fakeFetcher) GetCurrentWeather(_ context.Context, lat, lon float64) (*weather.Observation, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		prev := f.maxInFlight.Load()
		if n <= prev || f.maxInFlight.CompareAndSwap(prev, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, worker.Point{Lat: lat, Lon: lon})
	if f.failLat[lat] {
		return nil, weather.ErrProviderUnavailable
	}
	return &weather.Observation{Lat: lat, Lon: lon, Condition: weather.ConditionClear}, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testPoints(n int) []worker.Point {
	points := make([]worker.Point, n)
	for i := range points {
		points[i] = worker.Point{Lat: 52.0 + float64(i)*0.1, Lon: 4.0 + float64(i)*0.1}
	}
	return points
}

func newTestJob(fetcher worker.WeatherFetcher, cfg worker.RefreshConfig, metrics *observability.Metrics) *worker.RefreshJob {
	return worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:  cfg,
		Logger:  zerolog.Nop(),
		Weather: fetcher,
		Metrics: metrics,
	})
}

func TestDefaultRefreshConfig(t *testing.T) {
	cfg := worker.DefaultRefreshConfig()

	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.NotEmpty(t, cfg.Targets)
	assert.Greater(t, cfg.TotalPoints(), 10)
}

func TestRefreshConfig_AllPointsByPriority(t *testing.T) {
	cfg := worker.RefreshConfig{
		Targets: []worker.RefreshTarget{
			{Name: "Low", Priority: 3, Points: []worker.Point{{Lat: 3, Lon: 3}}},
			{Name: "High", Priority: 1, Points: []worker.Point{{Lat: 1, Lon: 1}, {Lat: 1.5, Lon: 1.5}}},
			{Name: "Mid", Priority: 2, Points: []worker.Point{{Lat: 2, Lon: 2}}},
		},
	}

	points := cfg.AllPoints()
	require.Len(t, points, 4)
	assert.Equal(t, []float64{1, 1.5, 2, 3}, []float64{points[0].Lat, points[1].Lat, points[2].Lat, points[3].Lat})
	assert.Equal(t, 4, cfg.TotalPoints())
	assert.Equal(t, "Low", cfg.Targets[0].Name, "targets are not reordered in place")

	first, ok := cfg.FirstPoint()
	require.True(t, ok)
	assert.Equal(t, 3.0, first.Lat)
}

func TestRefreshJob_Run(t *testing.T) {
	points := testPoints(5)
	fetcher := &fakeFetcher{failLat: map[float64]bool{points[2].Lat: true}}
	metrics := observability.NewMetricsForTesting()
	job := newTestJob(fetcher, worker.RefreshConfig{
		Targets:     []worker.RefreshTarget{{Name: "Test", Points: points}},
		Concurrency: 2,
		Timeout:     time.Second,
	}, metrics)

	result := job.Run(context.Background())

	assert.Equal(t, 5, result.TotalPoints)
	assert.Equal(t, 4, result.Successful)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, points[2], result.Errors[0].Point)
	assert.Equal(t, weather.ErrProviderUnavailable.Error(), result.Errors[0].Error)
	assert.Equal(t, 5, fetcher.callCount())

	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.RefreshPoints.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RefreshPoints.WithLabelValues("error")))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.RefreshDuration))
}

func TestRefreshJob_Run_BoundedConcurrency(t *testing.T) {
	fetcher := &fakeFetcher{delay: 5 * time.Millisecond}
	job := newTestJob(fetcher, worker.RefreshConfig{
		Targets:     []worker.RefreshTarget{{Name: "Test", Points: testPoints(12)}},
		Concurrency: 3,
		Timeout:     time.Second,
	}, nil)

	result := job.Run(context.Background())

	assert.Equal(t, 12, result.Successful)
	assert.LessOrEqual(t, fetcher.maxInFlight.Load(), int32(3))
}

func TestRefreshJob_Run_ContextCancelled(t *testing.T) {
	fetcher := &fakeFetcher{}
	metrics := observability.NewMetricsForTesting()
	job := newTestJob(fetcher, worker.RefreshConfig{
		Targets:     []worker.RefreshTarget{{Name: "Test", Points: testPoints(20)}},
		Concurrency: 1,
		Timeout:     100 * time.Millisecond,
	}, metrics)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := job.Run(ctx)

	assert.Equal(t, 20, result.TotalPoints)
	assert.Equal(t, 0, result.Successful)
	assert.Equal(t, 20, result.Failed)
	require.Len(t, result.Errors, 20)
	for _, e := range result.Errors {
		assert.Equal(t, context.Canceled.Error(), e.Error)
	}
	assert.Zero(t, fetcher.callCount())
	assert.Equal(t, 20.0, testutil.ToFloat64(metrics.RefreshPoints.WithLabelValues("error")))
}

func TestRefreshJob_CheckHealth_ContextCancelled(t *testing.T) {
	fetcher := &fakeFetcher{}
	job := newTestJob(fetcher, worker.RefreshConfig{
		Targets: []worker.RefreshTarget{{Name: "Test", Points: testPoints(1)}},
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var err error
	require.NotPanics(t, func() { err = job.CheckHealth(ctx) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "health check failed")
	assert.Contains(t, err.Error(), context.Canceled.Error())
	assert.Zero(t, fetcher.callCount())
}

func TestDispatcher_HealthCheckAfterShutdown(t *testing.T) {
	job := newTestJob(&fakeFetcher{}, worker.RefreshConfig{
		Targets: []worker.RefreshTarget{{Name: "Test", Points: testPoints(2)}},
	}, nil)
	d := worker.NewDispatcher(job, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobType, err := d.Dispatch(ctx, []byte(`{"job_type":"health_check"}`))
	assert.Equal(t, worker.JobHealthCheck, jobType)
	require.Error(t, err)
}

func TestRefreshJob_Run_NoWeatherSource(t *testing.T) {
	job := newTestJob(nil, worker.RefreshConfig{
		Targets: []worker.RefreshTarget{{Name: "Test", Points: testPoints(1)}},
	}, nil)

	result := job.Run(context.Background())

	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "weather source not configured", result.Errors[0].Error)
}

func TestRefreshJob_Stats(t *testing.T) {
	job := newTestJob(&fakeFetcher{}, worker.RefreshConfig{
		Targets: []worker.RefreshTarget{{Name: "Test", Points: testPoints(2)}},
	}, nil)

	assert.Zero(t, job.GetStats().Runs)

	job.Run(context.Background())
	job.Run(context.Background())

	stats := job.GetStats()
	assert.Equal(t, int64(2), stats.Runs)
	assert.Equal(t, int64(4), stats.SuccessfulPoints)
	assert.NotZero(t, stats.LastRefreshAt)

	snapshot := job.StatsSnapshot()
	assert.Contains(t, snapshot, "runs")
	assert.Contains(t, snapshot, "failed_points")
	assert.Contains(t, snapshot, "last_refresh_duration")
}

func TestRefreshJob_CheckHealth(t *testing.T) {
	points := testPoints(3)

	t.Run("healthy", func(t *testing.T) {
		fetcher := &fakeFetcher{}
		job := newTestJob(fetcher, worker.RefreshConfig{
			Targets: []worker.RefreshTarget{{Name: "Test", Points: points}},
		}, nil)

		require.NoError(t, job.CheckHealth(context.Background()))
		assert.Equal(t, 1, fetcher.callCount())
	})

	t.Run("provider down", func(t *testing.T) {
		fetcher := &fakeFetcher{failLat: map[float64]bool{points[0].Lat: true}}
		job := newTestJob(fetcher, worker.RefreshConfig{
			Targets: []worker.RefreshTarget{{Name: "Test", Points: points}},
		}, nil)

		err := job.CheckHealth(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "health check failed")
	})
}

func TestDispatcher_Dispatch(t *testing.T) {
	points := testPoints(4)

	tests := []struct {
		name    string
		data    string
		failing int
		jobType string
		wantErr error
		errText string
		calls   int
	}{
		{name: "provider refresh", data: `{"job_type":"provider_refresh"}`, jobType: worker.JobProviderRefresh, calls: 4},
		{name: "refresh tolerates minority failures", data: `{"job_type":"provider_refresh"}`, failing: 2, jobType: worker.JobProviderRefresh, calls: 4},
		{name: "refresh fails on majority failures", data: `{"job_type":"provider_refresh"}`, failing: 3, jobType: worker.JobProviderRefresh, errText: "too many refresh failures: 3/4", calls: 4},
		{name: "health check", data: `{"job_type":"health_check"}`, jobType: worker.JobHealthCheck, calls: 1},
		{name: "unknown job", data: `{"job_type":"reindex"}`, jobType: "reindex", wantErr: worker.ErrUnknownJob},
		{name: "invalid json", data: `not json`, errText: "parsing message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fail := map[float64]bool{}
			for i := 0; i < tt.failing; i++ {
				fail[points[i].Lat] = true
			}
			fetcher := &fakeFetcher{failLat: fail}
			job := newTestJob(fetcher, worker.RefreshConfig{
				Targets:     []worker.RefreshTarget{{Name: "Test", Points: points}},
				Concurrency: 2,
			}, nil)
			d := worker.NewDispatcher(job, zerolog.Nop())

			jobType, err := d.Dispatch(context.Background(), []byte(tt.data))

			assert.Equal(t, tt.jobType, jobType)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errText)
			default:
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.calls, fetcher.callCount())
		})
	}
}

func TestScheduler_RunsOnEachTick(t *testing.T) {
	fetcher := &fakeFetcher{}
	job := newTestJob(fetcher, worker.RefreshConfig{
		Targets: []worker.RefreshTarget{{Name: "Test", Points: testPoints(2)}},
	}, nil)
	clock := clockwork.NewFakeClock()
	sched := worker.NewScheduler(job, time.Minute, clock, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Start(ctx) }()

	require.Eventually(t, func() bool { return fetcher.callCount() == 2 }, time.Second, 5*time.Millisecond)

	blockCtx, blockCancel := context.WithTimeout(context.Background(), time.Second)
	defer blockCancel()
	require.NoError(t, clock.BlockUntilContext(blockCtx, 1))

	clock.Advance(time.Minute)
	require.Eventually(t, func() bool { return fetcher.callCount() == 4 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
