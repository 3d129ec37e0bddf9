package progress

import (
	"math"
	"math/big"
	"time"
)

// Snapshot is an immutable view of an engine's progress at one refresh.
//
// A new Snapshot is built for every refresh and handed to Display.Update.
// Completed is not clamped to Total: a caller that ticks past the total will
// see a Percentage above 1.0 until Complete resets the count.
type Snapshot struct {
	// Total is the amount of work the engine was created with.
	Total int64 `json:"total"`

	// Completed is the amount of work done so far.
	Completed int64 `json:"completed"`

	// Elapsed is the wall-clock time since the engine started.
	Elapsed time.Duration `json:"elapsed"`
}

// NewSnapshot builds a snapshot from its three inputs.
func NewSnapshot(total, completed int64, elapsed time.Duration) Snapshot {
	return Snapshot{
		Total:     total,
		Completed: completed,
		Elapsed:   elapsed,
	}
}

// Percentage returns Completed/Total as a fraction, normally in [0,1].
// A zero Total yields 0.
func (s Snapshot) Percentage() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total)
}

// PercentInt returns the whole-percent bucket Completed*100/Total using
// truncating integer division. A zero Total yields 0.
//
// This is the coarse value the engine compares to decide whether a refresh
// is due; displays should use Percentage.
func (s Snapshot) PercentInt() int {
	return percentBucket(s.Completed, s.Total)
}

// ElapsedMillis returns Elapsed in whole milliseconds.
func (s Snapshot) ElapsedMillis() int64 {
	return s.Elapsed.Milliseconds()
}

// Rate returns completed steps per second, or 0 before any time elapsed.
func (s Snapshot) Rate() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Completed) / s.Elapsed.Seconds()
}

// Remaining estimates the time left assuming the rate so far stays constant.
// The boolean is false when no estimate is possible yet: nothing completed,
// a zero Total, or no time elapsed.
func (s Snapshot) Remaining() (time.Duration, bool) {
	if s.Total == 0 || s.Completed <= 0 {
		return 0, false
	}
	if s.Completed >= s.Total {
		return 0, true
	}
	if s.Elapsed <= 0 {
		return 0, false
	}
	left := float64(s.Total - s.Completed)
	return time.Duration(float64(s.Elapsed) * left / float64(s.Completed)), true
}

// Done reports whether Completed has reached Total.
func (s Snapshot) Done() bool {
	return s.Completed >= s.Total
}

func percentBucket(completed, total int64) int {
	if total == 0 {
		return 0
	}
	if completed <= math.MaxInt64/100 {
		return int(completed * 100 / total)
	}
	// completed*100 does not fit in an int64.
	q := new(big.Int).Mul(big.NewInt(completed), big.NewInt(100))
	q.Quo(q, big.NewInt(total))
	if !q.IsInt64() || q.Int64() > math.MaxInt {
		return math.MaxInt
	}
	return int(q.Int64())
}
