package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/utils/clock"
)

// Engine tracks completed work against a fixed total and decides when the
// display needs to be refreshed.
//
// Lifecycle:
//  1. Create with NewEngine and a Display
//  2. The first Start, Tick, Refresh or Complete captures the start time
//  3. Tick accumulates work and refreshes the display when a refresh is due
//  4. Complete jumps to the total, renders once more and finishes the display
//
// A refresh is due when the wall-clock second differs from the one recorded
// at the last refresh, or when the whole-percent value differs from the one
// recorded at the last refresh. Refresh itself is unconditional; the
// throttling lives entirely in Tick.
//
// Example:
//
//	eng, err := progress.NewEngine(100, display.NewTextDisplay(os.Stderr, "rules"))
//	if err != nil {
//	    return err
//	}
//	for i := 0; i < 100; i++ {
//	    if err := eng.TickOne(); err != nil {
//	        return err
//	    }
//	}
//	return eng.Complete()
//
// Engine is not safe for concurrent use.
type Engine struct {
	total     int64
	completed int64
	state     State

	// startTime is nil until the engine starts, and never changes afterwards.
	startTime *time.Time

	lastRefreshSecond  int64
	lastRefreshPercent int

	display Display
	clock   clock.PassiveClock
	log     logr.Logger
}

// EngineOption configures an Engine during creation.
type EngineOption func(e *Engine)

// WithClock sets the clock the engine reads time from.
//
// Tests use a fake clock from k8s.io/utils/clock/testing to drive the
// one-second refresh boundary deterministically.
func WithClock(c clock.PassiveClock) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLogger sets a logger for lifecycle and refresh messages.
func WithLogger(log logr.Logger) EngineOption {
	return func(e *Engine) {
		e.log = log
	}
}

// NewEngine creates an engine for total units of work.
//
// A nil display is replaced by a NoopDisplay. A negative total returns
// ErrInvalidTotal. A zero total is accepted: its percentage is always 0, so
// only a change of second triggers a refresh from Tick.
func NewEngine(total int64, display Display, opts ...EngineOption) (*Engine, error) {
	if total < 0 {
		return nil, fmt.Errorf("%w: %d is negative", ErrInvalidTotal, total)
	}
	e := &Engine{
		total:   total,
		state:   StateNotStarted,
		display: display,
		clock:   clock.RealClock{},
		log:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.display == nil {
		e.display = NewNoopDisplay()
	}
	return e, nil
}

// Start starts the engine and paints the display once, before any work is
// done.
func (e *Engine) Start() error {
	if e.state == StateCompleted {
		return ErrCompleted
	}
	now := e.clock.Now()
	e.ensureStarted(now)
	return e.refreshAt(now)
}

// TickOne records one completed step.
func (e *Engine) TickOne() error {
	return e.Tick(1)
}

// Tick records steps more completed units and refreshes the display if a
// refresh is due.
//
// Steps accumulate: two calls with 5 record 10. A negative step count
// returns ErrInvalidStepCount and leaves the engine untouched.
func (e *Engine) Tick(steps int64) error {
	if steps < 0 {
		return fmt.Errorf("%w: %d is negative", ErrInvalidStepCount, steps)
	}
	if e.state == StateCompleted {
		return ErrCompleted
	}
	now := e.clock.Now()
	e.ensureStarted(now)

	e.completed += steps

	if e.refreshDue(now) {
		return e.refreshAt(now)
	}
	return nil
}

// Refresh unconditionally renders the current progress and records it as
// the new throttle baseline.
//
// After Complete, Refresh redraws the final snapshot.
func (e *Engine) Refresh() error {
	now := e.clock.Now()
	e.ensureStarted(now)
	return e.refreshAt(now)
}

// Complete marks all work as done, renders the final state and finishes the
// display.
//
// The engine is completed even if the display fails. Finish is called even
// when the final Update fails, and both errors are returned joined. Calling
// Complete twice returns ErrCompleted.
func (e *Engine) Complete() error {
	if e.state == StateCompleted {
		return ErrCompleted
	}
	now := e.clock.Now()
	e.ensureStarted(now)

	e.completed = e.total
	e.state = StateCompleted
	e.log.V(3).Info("progress completed", "total", e.total, "elapsed", now.Sub(*e.startTime))

	// Finish runs even when the final render fails, so the display can
	// still close its line.
	var errs []error
	if err := e.refreshAt(now); err != nil {
		errs = append(errs, err)
	}
	if err := e.display.Finish(); err != nil {
		errs = append(errs, fmt.Errorf("failed to finish display: %w", err))
	}
	return errors.Join(errs...)
}

// Total returns the total amount of work.
func (e *Engine) Total() int64 {
	return e.total
}

// Completed returns the amount of work done so far.
func (e *Engine) Completed() int64 {
	return e.completed
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// StartTime returns the time the engine started. The boolean is false
// while the engine has not started.
func (e *Engine) StartTime() (time.Time, bool) {
	if e.startTime == nil {
		return time.Time{}, false
	}
	return *e.startTime, true
}

// Snapshot returns the current progress without rendering it or starting
// the engine. Elapsed is zero before the engine starts.
func (e *Engine) Snapshot() Snapshot {
	var elapsed time.Duration
	if e.startTime != nil {
		elapsed = e.clock.Since(*e.startTime)
	}
	return NewSnapshot(e.total, e.completed, elapsed)
}

func (e *Engine) ensureStarted(now time.Time) {
	if e.startTime != nil {
		return
	}
	start := now
	e.startTime = &start
	if e.state == StateNotStarted {
		e.state = StateRunning
	}
	e.log.V(3).Info("progress started", "total", e.total)
}

// refreshDue is the throttle: at most one refresh per wall-clock second,
// except that any change of the whole-percent value refreshes immediately.
func (e *Engine) refreshDue(now time.Time) bool {
	return now.Unix() != e.lastRefreshSecond ||
		percentBucket(e.completed, e.total) != e.lastRefreshPercent
}

func (e *Engine) refreshAt(now time.Time) error {
	snapshot := NewSnapshot(e.total, e.completed, now.Sub(*e.startTime))

	// Record the baseline before rendering so a failing display is not
	// retried on every following tick.
	e.lastRefreshSecond = now.Unix()
	e.lastRefreshPercent = snapshot.PercentInt()

	e.log.V(5).Info("refreshing progress",
		"completed", snapshot.Completed,
		"total", snapshot.Total,
		"percent", snapshot.PercentInt(),
	)

	if err := e.display.Update(snapshot); err != nil {
		return fmt.Errorf("failed to update display: %w", err)
	}
	return nil
}
