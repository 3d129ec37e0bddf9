package progress

// NoopDisplay is a Display that discards every snapshot.
//
// This is the display an Engine falls back to when NewEngine is given a nil
// display, so the engine can still be used purely for its counters and
// timing (for example to feed Snapshot into a custom UI loop).
type NoopDisplay struct{}

// NewNoopDisplay creates a new no-op display.
func NewNoopDisplay() *NoopDisplay {
	return &NoopDisplay{}
}

// Update discards the snapshot.
func (n *NoopDisplay) Update(s Snapshot) error {
	return nil
}

// Finish does nothing.
func (n *NoopDisplay) Finish() error {
	return nil
}
