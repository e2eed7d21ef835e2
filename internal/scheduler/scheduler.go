// Package scheduler runs the server's periodic maintenance jobs.
package scheduler

import (
	"codeforces-tracker/internal/config"
	"codeforces-tracker/internal/constants"
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

type Sweeper interface {
	SweepOverdue(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron     gocron.Scheduler
	sweeper  Sweeper
	interval time.Duration
	logger   zerolog.Logger
}

func New(cfg *config.Config, sweeper Sweeper, logger zerolog.Logger) (*Scheduler, error) {
	logger = logger.With().Str("component", "scheduler").Logger()

	cron, err := gocron.NewScheduler(gocron.WithLogger(cronLogger{logger}))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		cron:     cron,
		sweeper:  sweeper,
		interval: cfg.GoalSweepInterval,
		logger:   logger,
	}, nil
}

// Start registers the jobs and runs the goal sweep once right away, since a
// duration job only fires after its first interval.
func (s *Scheduler) Start() error {
	job, err := s.cron.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.sweepGoals),
		gocron.WithName("goal-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule goal sweep: %w", err)
	}

	s.cron.Start()
	s.logger.Info().Dur("interval", s.interval).Msg("scheduler started")

	if err := job.RunNow(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to run initial goal sweep")
	}
	return nil
}

func (s *Scheduler) Stop() error {
	if err := s.cron.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}
	s.logger.Info().Msg("scheduler stopped")
	return nil
}

func (s *Scheduler) sweepGoals() {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer cancel()

	// errors are logged by the sweeper
	_, _ = s.sweeper.SweepOverdue(ctx)
}

type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Debug(msg string, args ...any) { l.logger.Debug().Fields(args).Msg(msg) }
func (l cronLogger) Info(msg string, args ...any)  { l.logger.Info().Fields(args).Msg(msg) }
func (l cronLogger) Warn(msg string, args ...any)  { l.logger.Warn().Fields(args).Msg(msg) }
func (l cronLogger) Error(msg string, args ...any) { l.logger.Error().Fields(args).Msg(msg) }
