// Package scheduler triggers ingestion runs on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/fadilmartias/job-atlas/internal/logger"
	"github.com/fadilmartias/job-atlas/internal/usecase"
	"github.com/phuslu/log"
	"github.com/robfig/cron/v3"
)

const runTimeout = 30 * time.Minute

// Runner is the part of the ingestion usecase the scheduler needs.
type Runner interface {
	Run(ctx context.Context) (*usecase.IngestionRun, error)
}

type Scheduler struct {
	runner Runner
	cron   *cron.Cron
	logger *log.Logger
}

func New(runner Runner, l *log.Logger) *Scheduler {
	return &Scheduler{
		runner: runner,
		cron:   cron.New(),
		logger: logger.WithComponent(l, "scheduler"),
	}
}

// Start registers schedule (standard five-field cron syntax or a descriptor such as "@hourly")
// and starts the cron loop.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.runOnce); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info().Str("schedule", schedule).Msg("ingestion scheduler started")
	return nil
}

// Stop stops scheduling and waits for a running ingestion to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn().Msg("scheduler stopped before the running ingestion finished")
	}
	s.logger.Info().Msg("ingestion scheduler stopped")
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	s.logger.Info().Msg("scheduled ingestion starting")
	run, err := s.runner.Run(ctx)
	if errors.Is(err, usecase.ErrRunInProgress) {
		s.logger.Warn().Msg("previous ingestion still running, skipping this tick")
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("scheduled ingestion failed")
		return
	}

	var inserted, updated, failed int
	for _, r := range run.Results {
		inserted += r.JobsInserted
		updated += r.JobsUpdated
		if !r.Success {
			failed++
		}
	}
	s.logger.Info().
		Int("inserted", inserted).
		Int("updated", updated).
		Int("failed_sources", failed).
		Dur("duration", run.Duration).
		Msg("scheduled ingestion completed")
}
