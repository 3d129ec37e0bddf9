package display

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"
	"github.com/konveyor/progressbar/progress"
)

const defaultChannelBuffer = 100

// ChannelDisplay delivers progress as Events on a Go channel.
//
// This is the display to use when a Go program wants to consume progress
// itself, e.g. to drive a custom UI or forward updates over the network.
// Sends never block the engine: when the buffer is full the event is
// dropped and counted.
//
// The channel is closed by Finish, by Close, or when the context passed to
// NewChannelDisplay is cancelled, whichever happens first.
//
// Example:
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	ch := display.NewChannelDisplay(ctx, display.WithLabel("rules"))
//
//	go func() {
//	    for event := range ch.Events() {
//	        fmt.Printf("Progress: %d%%\n", int(event.Percent))
//	    }
//	}()
//
//	eng, _ := progress.NewEngine(total, ch)
type ChannelDisplay struct {
	events        chan Event
	done          chan struct{}
	opts          options
	mu            sync.RWMutex
	closed        bool
	last          progress.Snapshot
	droppedEvents atomic.Uint64
	log           logr.Logger
}

// ChannelOption configures a ChannelDisplay.
type ChannelOption func(*ChannelDisplay)

// WithLogger sets a logger for the ChannelDisplay to log dropped events.
func WithLogger(log logr.Logger) ChannelOption {
	return func(c *ChannelDisplay) {
		c.log = log
	}
}

// WithBufferSize sets the channel capacity (default 100).
func WithBufferSize(size int) ChannelOption {
	return func(c *ChannelDisplay) {
		if size > 0 {
			c.events = make(chan Event, size)
		}
	}
}

// WithDisplayOptions applies the shared display options (label, clock).
func WithDisplayOptions(opts ...Option) ChannelOption {
	return func(c *ChannelDisplay) {
		c.opts = newOptions(opts)
	}
}

// NewChannelDisplay creates a channel display that closes when ctx is done.
func NewChannelDisplay(ctx context.Context, opts ...ChannelOption) *ChannelDisplay {
	c := &ChannelDisplay{
		events: make(chan Event, defaultChannelBuffer),
		done:   make(chan struct{}),
		opts:   newOptions(nil),
		log:    logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}

	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-c.done:
		}
	}()

	return c
}

// Update sends s as an Event without blocking.
func (c *ChannelDisplay) Update(s progress.Snapshot) error {
	c.mu.Lock()
	c.last = s
	c.mu.Unlock()

	c.send(NewEvent(c.opts.label, s, c.opts.clock.Now()))
	return nil
}

// Finish sends a final event marked as finished, then closes the channel.
func (c *ChannelDisplay) Finish() error {
	c.mu.RLock()
	event := NewEvent(c.opts.label, c.last, c.opts.clock.Now())
	c.mu.RUnlock()

	event.Finished = true
	c.send(event)
	c.Close()
	return nil
}

func (c *ChannelDisplay) send(event Event) {
	// Hold the read lock for the whole send so Close cannot close the
	// channel underneath us.
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return
	}

	select {
	case c.events <- event:
	default:
		dropped := c.droppedEvents.Add(1)
		c.log.V(1).Info("progress event dropped due to slow consumer",
			"label", event.Label,
			"current", event.Current,
			"total_dropped", dropped,
		)
	}
}

// Events returns the channel consumers should range over.
func (c *ChannelDisplay) Events() <-chan Event {
	return c.events
}

// DroppedEvents returns how many events were dropped because the buffer
// was full.
func (c *ChannelDisplay) DroppedEvents() uint64 {
	return c.droppedEvents.Load()
}

// Close closes the events channel and stops watching the context. It is
// safe to call more than once.
func (c *ChannelDisplay) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.events)
		close(c.done)
	}
}
