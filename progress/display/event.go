package display

import (
	"time"

	"github.com/konveyor/progressbar/progress"
)

// Event is the serializable form of a snapshot, used by JSONDisplay and
// ChannelDisplay.
type Event struct {
	// Timestamp is when the display received the snapshot.
	Timestamp time.Time `json:"timestamp"`

	// Label is the task name, if the display was given one.
	Label string `json:"label,omitempty"`

	// Current is the number of units completed so far.
	Current int64 `json:"current"`

	// Total is the number of units to process.
	Total int64 `json:"total"`

	// Percent is the completion percentage (0-100, above 100 when over-ticked).
	Percent float64 `json:"percent"`

	// ElapsedMillis is the time since the engine started.
	ElapsedMillis int64 `json:"elapsed_ms"`

	// RemainingMillis is the estimated time left, omitted while unknown.
	RemainingMillis *int64 `json:"remaining_ms,omitempty"`

	// Finished is set on the single event emitted by Finish.
	Finished bool `json:"finished,omitempty"`
}

// NewEvent converts a snapshot into an Event stamped with now.
func NewEvent(label string, s progress.Snapshot, now time.Time) Event {
	e := Event{
		Timestamp:     now,
		Label:         label,
		Current:       s.Completed,
		Total:         s.Total,
		Percent:       percentOf(s),
		ElapsedMillis: s.ElapsedMillis(),
	}
	if remaining, ok := s.Remaining(); ok {
		ms := remaining.Milliseconds()
		e.RemainingMillis = &ms
	}
	return e
}

// percentOf returns the completion percentage of s, computed from the
// counts so that 29/100 is exactly 29.
func percentOf(s progress.Snapshot) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) * 100.0 / float64(s.Total)
}

// formatDuration renders a duration at one-second resolution, e.g. "1m5s".
func formatDuration(d time.Duration) string {
	return d.Round(time.Second).String()
}

// formatRemaining renders the ETA of s, or "--" when it is unknown.
func formatRemaining(s progress.Snapshot) string {
	remaining, ok := s.Remaining()
	if !ok {
		return "--"
	}
	return formatDuration(remaining)
}
