package worker

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Scheduler runs a RefreshJob immediately and then once per interval.
type Scheduler struct {
	job      *RefreshJob
	interval time.Duration
	clock    clockwork.Clock
	logger   zerolog.Logger
}

// NewScheduler creates a Scheduler. A nil clock uses the real clock.
func NewScheduler(job *RefreshJob, interval time.Duration, clock clockwork.Clock, logger zerolog.Logger) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{job: job, interval: interval, clock: clock, logger: logger}
}

// Start blocks until ctx is cancelled. It always returns ctx.Err().
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("starting refresh scheduler")

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	s.job.Run(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			s.job.Run(ctx)
		}
	}
}
