package progress

import "errors"

var (
	// ErrInvalidTotal is returned by NewEngine when total is negative.
	ErrInvalidTotal = errors.New("invalid total")

	// ErrInvalidStepCount is returned by Tick when steps is negative.
	ErrInvalidStepCount = errors.New("invalid step count")

	// ErrCompleted is returned by Start, Tick, TickOne and Complete once the
	// engine has been completed.
	ErrCompleted = errors.New("progress already completed")
)
