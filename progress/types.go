package progress

// Display is the rendering strategy an Engine drives.
//
// Implementations decide what a refresh looks like (a bar redrawn in place,
// a log line, a JSON event). The engine guarantees that calls are strictly
// sequential, so implementations used by a single engine need no locking of
// their own.
type Display interface {
	// Update renders the given snapshot. It is called by Engine.Refresh,
	// and therefore by Start, Tick (when a refresh is due) and Complete.
	Update(s Snapshot) error

	// Finish performs any closing action, such as terminating the line.
	// It is called exactly once by Engine.Complete, after the final Update.
	Finish() error
}

// DisplayFuncs adapts plain functions to the Display interface.
// A nil function is treated as a no-op.
type DisplayFuncs struct {
	OnUpdate func(s Snapshot) error
	OnFinish func() error
}

// Update calls OnUpdate if set.
func (d DisplayFuncs) Update(s Snapshot) error {
	if d.OnUpdate == nil {
		return nil
	}
	return d.OnUpdate(s)
}

// Finish calls OnFinish if set.
func (d DisplayFuncs) Finish() error {
	if d.OnFinish == nil {
		return nil
	}
	return d.OnFinish()
}

// State is the lifecycle position of an Engine.
//
// States occur in a fixed sequence:
//  1. StateNotStarted - constructed, no timestamp captured yet
//  2. StateRunning - started lazily by the first Start, Tick, Refresh or Complete
//  3. StateCompleted - terminal, entered by Complete
type State int

const (
	StateNotStarted State = iota
	StateRunning
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}
