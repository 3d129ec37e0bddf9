package display

import (
	"github.com/go-logr/logr"
	"github.com/konveyor/progressbar/progress"
)

// LogDisplay emits each refresh as a structured log message.
//
// Useful for long-running services where progress should land in the
// regular log stream rather than on a terminal.
type LogDisplay struct {
	log  logr.Logger
	last progress.Snapshot
}

// NewLogDisplay creates a display that logs through log. A label option
// is attached as the "label" key.
func NewLogDisplay(log logr.Logger, opts ...Option) *LogDisplay {
	o := newOptions(opts)
	if o.label != "" {
		log = log.WithValues("label", o.label)
	}
	return &LogDisplay{log: log}
}

// Update logs s at info level with its counts, whole percent, elapsed
// time and, once known, the estimated time remaining. It never fails.
func (l *LogDisplay) Update(s progress.Snapshot) error {
	l.last = s
	kv := []interface{}{
		"current", s.Completed,
		"total", s.Total,
		"percent", s.PercentInt(),
		"elapsed", s.Elapsed.String(),
	}
	if remaining, ok := s.Remaining(); ok {
		kv = append(kv, "eta", remaining.String())
	}
	l.log.Info("progress", kv...)
	return nil
}

// Finish logs a completion message with the totals of the last update.
func (l *LogDisplay) Finish() error {
	l.log.Info("progress finished", "total", l.last.Total, "elapsed", l.last.Elapsed.String())
	return nil
}
