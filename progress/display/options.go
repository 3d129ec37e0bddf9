package display

import (
	"k8s.io/utils/clock"
)

const (
	defaultBarWidth  = 25
	defaultBarFormat = ":label :percent |:bar| :current/:total"
)

type options struct {
	label  string
	clock  clock.PassiveClock
	format string
	width  int
}

// Option configures a display during creation.
// Options a display does not use are ignored.
type Option func(o *options)

// WithLabel sets the task name shown alongside the progress.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}

// WithClock sets the clock used for event timestamps.
func WithClock(c clock.PassiveClock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithFormat sets the BarDisplay line format.
//
// Recognized tokens: :label :bar :percent :current :total :elapsed :eta :rate.
func WithFormat(format string) Option {
	return func(o *options) {
		o.format = format
	}
}

// WithWidth sets the BarDisplay bar width in characters.
func WithWidth(width int) Option {
	return func(o *options) {
		o.width = width
	}
}

func newOptions(opts []Option) options {
	o := options{
		clock:  clock.RealClock{},
		format: defaultBarFormat,
		width:  defaultBarWidth,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.width <= 0 {
		o.width = defaultBarWidth
	}
	return o
}
