package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/matcert/internal/config"
)

// Sweeper expires idle sessions.
type Sweeper interface {
	SweepIdle(ttl time.Duration) int
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	cfg     config.SessionConfig
	logger  *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.SessionConfig, sweeper Sweeper, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:    cron.New(),
		sweeper: sweeper,
		cfg:     cfg,
		logger:  logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("sweep_schedule", s.cfg.SweepSchedule))

	if _, err := s.cron.AddFunc(s.cfg.SweepSchedule, s.sweepSessions); err != nil {
		return fmt.Errorf("schedule session sweep %q: %w", s.cfg.SweepSchedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sweepSessions() {
	removed := s.sweeper.SweepIdle(s.cfg.TTL)
	s.logger.Debug("session sweep finished", zap.Int("removed", removed))
}
