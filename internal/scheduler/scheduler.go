// Package scheduler runs the weekly fixture sync on a cron timer in the
// league's time zone.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/club-fixtures/internal/domain/syncrun"
	"github.com/riskibarqy/club-fixtures/internal/platform/logging"
	"github.com/riskibarqy/club-fixtures/internal/usecase"
	"github.com/robfig/cron/v3"
)

// Runner is the sync entry point the timer calls.
type Runner interface {
	Run(ctx context.Context, req usecase.SyncRequest) (usecase.SyncSummary, error)
}

type Config struct {
	Weekday  time.Weekday
	Hour     int
	Location *time.Location
}

type Scheduler struct {
	cron    *cron.Cron
	runner  Runner
	cfg     Config
	logger  *logging.Logger
	entryID cron.EntryID
}

func New(runner Runner, cfg Config, logger *logging.Logger) (*Scheduler, error) {
	if runner == nil {
		return nil, fmt.Errorf("scheduler runner is required")
	}
	if cfg.Hour < 0 || cfg.Hour > 23 {
		return nil, fmt.Errorf("schedule hour must be between 0 and 23, got %d", cfg.Hour)
	}
	if cfg.Weekday < time.Sunday || cfg.Weekday > time.Saturday {
		return nil, fmt.Errorf("schedule weekday %d is out of range", cfg.Weekday)
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("scheduler")

	adapter := cronLogger{logger: logger}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithLogger(adapter),
			cron.WithChain(cron.Recover(adapter), cron.SkipIfStillRunning(adapter)),
		),
		runner: runner,
		cfg:    cfg,
		logger: logger,
	}

	entryID, err := s.cron.AddFunc(Spec(cfg.Weekday, cfg.Hour), s.runOnce)
	if err != nil {
		return nil, fmt.Errorf("register weekly sync: %w", err)
	}
	s.entryID = entryID
	return s, nil
}

// Spec is the cron expression for a weekly run at hour:00.
func Spec(weekday time.Weekday, hour int) string {
	return fmt.Sprintf("0 %d * * %d", hour, int(weekday))
}

// Next is the first scheduled run after now.
func (s *Scheduler) Next(now time.Time) time.Time {
	return s.cron.Entry(s.entryID).Schedule.Next(now)
}

// Start runs the timer until ctx is cancelled, then waits for a running
// sync to finish.
func (s *Scheduler) Start(ctx context.Context) error {
	s.cron.Start()
	s.logger.InfoContext(ctx, "weekly sync scheduled",
		"weekday", s.cfg.Weekday.String(),
		"hour", s.cfg.Hour,
		"time_zone", s.cfg.Location.String(),
		"next_run", s.Next(time.Now()).Format(time.RFC3339),
	)

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
	return nil
}

// runOnce has no deadline of its own: a sync always runs to completion and
// is bounded by the feed and results client timeouts.
func (s *Scheduler) runOnce() {
	ctx := context.Background()

	summary, err := s.runner.Run(ctx, usecase.SyncRequest{
		Kind:    syncrun.KindFixtures,
		Trigger: syncrun.TriggerSchedule,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled sync failed", "run_id", summary.RunID, "error", err)
		return
	}
	s.logger.InfoContext(ctx, "scheduled sync finished", "run_id", summary.RunID, "shared", summary.Shared)
}

type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
