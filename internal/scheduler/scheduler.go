// Package scheduler runs scrape windows on a cron schedule so the operator
// can collect data in recurring bursts instead of one indefinite run.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is one scheduled scrape window. The context carries the window
// deadline; the job must stop when it expires.
type Job func(ctx context.Context) error

// Scheduler manages periodic scrape windows.
type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger
}

// New creates a scheduler.
func New(logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
	}
}

// AddWindow schedules a job with a cron spec ("0 */2 * * *") and bounds each
// invocation to the given window length.
func (s *Scheduler) AddWindow(spec string, window time.Duration, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), window)
		defer cancel()

		s.logger.Info().Str("schedule", spec).Msg("starting scheduled scrape window")
		start := time.Now()

		if err := job(ctx); err != nil {
			s.logger.Error().Err(err).Msg("scheduled scrape window failed")
			return
		}
		s.logger.Info().Dur("elapsed", time.Since(start)).Msg("scheduled scrape window completed")
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", spec, err)
	}
	return nil
}

// Start begins running scheduled windows.
func (s *Scheduler) Start() {
	s.logger.Info().Msg("scheduler started")
	s.cron.Start()
}

// Stop halts scheduling; the returned context is done once any in-flight
// window has finished.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info().Msg("scheduler stopping")
	return s.cron.Stop()
}
