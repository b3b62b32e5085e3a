package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/manamurah/flotilla-watch/internal/common"
)

type fakeRunner struct {
	errs  []error
	calls int
}

func (f *fakeRunner) Run(ctx context.Context) (*CycleResult, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &CycleResult{Vessels: 1}, nil
}

func newTestScheduler(t *testing.T, runner Runner, threshold int) *Scheduler {
	t.Helper()
	s, err := NewScheduler(runner, "0 * * * *", common.NewDisplayZone("Asia/Kuala_Lumpur"), threshold, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	return s
}

func TestNewScheduler_RejectsBadSpec(t *testing.T) {
	_, err := NewScheduler(&fakeRunner{}, "not a cron spec", common.NewDisplayZone("UTC"), 3, common.NewSilentLogger())
	if err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}

func TestRunOnce_FailureStreakAndReset(t *testing.T) {
	boom := errors.New("cycle failed")
	runner := &fakeRunner{errs: []error{boom, boom, nil, boom}}
	s := newTestScheduler(t, runner, 3)

	ctx := context.Background()

	s.RunOnce(ctx)
	if got := s.ConsecutiveFailures(); got != 1 {
		t.Errorf("after first failure: %d, want 1", got)
	}

	s.RunOnce(ctx)
	if got := s.ConsecutiveFailures(); got != 2 {
		t.Errorf("after second failure: %d, want 2", got)
	}

	s.RunOnce(ctx)
	if got := s.ConsecutiveFailures(); got != 0 {
		t.Errorf("after success: %d, want 0 (streak resets)", got)
	}

	s.RunOnce(ctx)
	if got := s.ConsecutiveFailures(); got != 1 {
		t.Errorf("after new failure: %d, want 1 (fresh streak)", got)
	}

	if runner.calls != 4 {
		t.Errorf("runner calls = %d, want 4", runner.calls)
	}
}

func TestRunOnce_FailureNeverPanicsOrPropagates(t *testing.T) {
	runner := &fakeRunner{errs: []error{errors.New("a"), errors.New("b"), errors.New("c"), errors.New("d")}}
	s := newTestScheduler(t, runner, 3)

	// Past the alert threshold the scheduler keeps triggering cycles.
	for i := 0; i < 4; i++ {
		s.RunOnce(context.Background())
	}
	if got := s.ConsecutiveFailures(); got != 4 {
		t.Errorf("ConsecutiveFailures = %d, want 4", got)
	}
}

func TestNewScheduler_ThresholdFloor(t *testing.T) {
	runner := &fakeRunner{errs: []error{errors.New("x")}}
	s := newTestScheduler(t, runner, 0)

	if s.alertThreshold != 3 {
		t.Errorf("alertThreshold = %d, want default 3", s.alertThreshold)
	}
}
