package workflow

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/manamurah/flotilla-watch/internal/common"
)

// Runner is the unit the scheduler drives; satisfied by *Workflow.
type Runner interface {
	Run(ctx context.Context) (*CycleResult, error)
}

// Scheduler triggers workflow cycles on a cron spec and tracks consecutive
// failures. The counter is explicit scheduler state: cycle logic stays a
// pure function of its inputs, and a restart starts the count fresh.
type Scheduler struct {
	runner         Runner
	cron           *cron.Cron
	logger         *common.Logger
	alertThreshold int

	mu                  sync.Mutex
	consecutiveFailures int
}

// NewScheduler creates a scheduler evaluating spec in the given zone.
// Cycles never overlap: the cron entry runs RunOnce synchronously and the
// hourly cadence far exceeds a cycle's duration.
func NewScheduler(runner Runner, spec string, zone common.DisplayZone, alertThreshold int, logger *common.Logger) (*Scheduler, error) {
	if alertThreshold < 1 {
		alertThreshold = 3
	}

	s := &Scheduler{
		runner:         runner,
		cron:           cron.New(cron.WithLocation(zone.Location())),
		logger:         logger,
		alertThreshold: alertThreshold,
	}

	if _, err := s.cron.AddFunc(spec, func() {
		s.RunOnce(context.Background())
	}); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins scheduling. It returns immediately; cycles run on the cron
// goroutine.
func (s *Scheduler) Start() {
	s.logger.Info().Msg("scheduler started, waiting for next trigger")
	s.cron.Start()
}

// Stop stops scheduling between cycles and waits for an in-flight cycle to
// finish naturally.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("scheduler stopped")
}

// RunOnce executes one cycle and updates the failure counter. A failed
// cycle is logged, never propagated: the next trigger still fires. At the
// alert threshold an operator-alert log is emitted.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.logger.Info().Msg("scheduled cycle triggered")

	result, err := s.runner.Run(ctx)
	if err != nil {
		s.mu.Lock()
		s.consecutiveFailures++
		failures := s.consecutiveFailures
		s.mu.Unlock()

		s.logger.Error().
			Int("consecutive_failures", failures).
			Str("error", err.Error()).
			Msg("scheduled cycle failed")

		if failures >= s.alertThreshold {
			s.logger.Error().
				Int("consecutive_failures", failures).
				Msg("ALERT: repeated cycle failures, manual intervention may be required")
		}
		return
	}

	s.mu.Lock()
	s.consecutiveFailures = 0
	s.mu.Unlock()

	s.logger.Info().
		Int("vessels", result.Vessels).
		Msg("scheduled cycle completed, email sent")
}

// ConsecutiveFailures reports the current failure streak.
func (s *Scheduler) ConsecutiveFailures() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consecutiveFailures
}
