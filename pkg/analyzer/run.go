package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rg0now/next-migration-survey/pkg/models"
	"github.com/rg0now/next-migration-survey/pkg/source"
)

// ErrInvalidTransition is returned when a run moves out of order.
var ErrInvalidTransition = errors.New("invalid run state transition")

// Run records the lifecycle of one analysis:
// idle -> running -> succeeded | failed. It is owned by the caller.
type Run struct {
	state    string
	result   *models.SystemAnalysis
	err      error
	started  time.Time
	finished time.Time
	now      func() time.Time
}

// NewRun creates an idle run.
func NewRun() *Run {
	return &Run{state: models.RunIdle, now: time.Now}
}

// State returns the current state.
func (r *Run) State() string {
	return r.state
}

// Result returns the outcome of a finished run.
func (r *Run) Result() (*models.SystemAnalysis, error) {
	return r.result, r.err
}

// Duration returns how long the run took, or has taken so far.
func (r *Run) Duration() time.Duration {
	switch r.state {
	case models.RunIdle:
		return 0
	case models.RunRunning:
		return r.now().Sub(r.started)
	default:
		return r.finished.Sub(r.started)
	}
}

// Start moves an idle run to running.
func (r *Run) Start() error {
	if err := r.transition(models.RunIdle, models.RunRunning); err != nil {
		return err
	}
	r.started = r.now()
	return nil
}

// Succeed moves a running run to succeeded with its result.
func (r *Run) Succeed(result *models.SystemAnalysis) error {
	if err := r.transition(models.RunRunning, models.RunSucceeded); err != nil {
		return err
	}
	r.result = result
	r.finished = r.now()
	return nil
}

// Fail moves a running run to failed with its error.
func (r *Run) Fail(err error) error {
	if terr := r.transition(models.RunRunning, models.RunFailed); terr != nil {
		return terr
	}
	r.err = err
	r.finished = r.now()
	return nil
}

func (r *Run) transition(from, to string) error {
	if r.state != from {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.state, to)
	}
	r.state = to
	return nil
}

// Execute drives run through one analysis and returns the analysis error,
// if any.
func (a *Analyzer) Execute(ctx context.Context, run *Run, handles []source.Handle, manifest *models.Manifest) error {
	if err := run.Start(); err != nil {
		return err
	}
	result, err := a.Analyze(ctx, handles, manifest)
	if err != nil {
		_ = run.Fail(err)
		return err
	}
	return run.Succeed(result)
}
