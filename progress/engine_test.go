package progress

import (
	"errors"
	"testing"
	"time"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"
)

// recordingDisplay captures every hook invocation in order.
type recordingDisplay struct {
	calls     []string
	snapshots []Snapshot
	updateErr error
	finishErr error
}

func (r *recordingDisplay) Update(s Snapshot) error {
	r.calls = append(r.calls, "update")
	r.snapshots = append(r.snapshots, s)
	return r.updateErr
}

func (r *recordingDisplay) Finish() error {
	r.calls = append(r.calls, "finish")
	return r.finishErr
}

func (r *recordingDisplay) updates() int {
	n := 0
	for _, c := range r.calls {
		if c == "update" {
			n++
		}
	}
	return n
}

func (r *recordingDisplay) last() Snapshot {
	return r.snapshots[len(r.snapshots)-1]
}

// baseTime sits in the middle of a second so small steps stay inside it.
var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 100*int(time.Millisecond), time.UTC)

func newTestEngine(t *testing.T, total int64) (*Engine, *recordingDisplay, *clocktesting.FakeClock) {
	t.Helper()
	clk := clocktesting.NewFakeClock(baseTime)
	rec := &recordingDisplay{}
	eng, err := NewEngine(total, rec, WithClock(clk), WithLogger(testr.New(t)))
	require.NoError(t, err)
	return eng, rec, clk
}

func TestNewEngine_NegativeTotal(t *testing.T) {
	eng, err := NewEngine(-1, nil)
	assert.Nil(t, eng)
	assert.ErrorIs(t, err, ErrInvalidTotal)
}

func TestNewEngine_Defaults(t *testing.T) {
	eng, err := NewEngine(10, nil)
	require.NoError(t, err)

	assert.IsType(t, &NoopDisplay{}, eng.display)
	assert.Equal(t, StateNotStarted, eng.State())
	assert.Equal(t, int64(10), eng.Total())
	assert.Equal(t, int64(0), eng.Completed())

	_, started := eng.StartTime()
	assert.False(t, started)
}

func TestEngine_ConcreteScenario(t *testing.T) {
	eng, rec, _ := newTestEngine(t, 10)

	require.NoError(t, eng.Tick(3))
	require.Equal(t, 1, rec.updates())
	assert.Equal(t, int64(3), rec.last().Completed)
	assert.InDelta(t, 0.3, rec.last().Percentage(), 1e-9)

	require.NoError(t, eng.Tick(7))
	require.Equal(t, 2, rec.updates())
	assert.Equal(t, int64(10), rec.last().Completed)
	assert.Equal(t, 1.0, rec.last().Percentage())

	require.NoError(t, eng.Complete())
	assert.Equal(t, []string{"update", "update", "update", "finish"}, rec.calls)
	assert.Equal(t, int64(10), rec.last().Completed)
	assert.Equal(t, 1.0, rec.last().Percentage())
	assert.Equal(t, StateCompleted, eng.State())
}

func TestEngine_LazyStart(t *testing.T) {
	eng, rec, clk := newTestEngine(t, 100)

	require.NoError(t, eng.Tick(0))
	start, ok := eng.StartTime()
	require.True(t, ok)
	assert.Equal(t, baseTime, start)
	assert.Equal(t, StateRunning, eng.State())

	for i := 0; i < 5; i++ {
		clk.Step(300 * time.Millisecond)
		require.NoError(t, eng.Tick(0))
	}

	start, ok = eng.StartTime()
	require.True(t, ok)
	assert.Equal(t, baseTime, start, "start time must not move once set")

	require.NoError(t, eng.Tick(1))
	assert.Equal(t, 1500*time.Millisecond, rec.last().Elapsed)
}

func TestEngine_StartThenRefresh(t *testing.T) {
	eng, rec, _ := newTestEngine(t, 50)

	require.NoError(t, eng.Start())
	require.NoError(t, eng.Refresh())

	require.Equal(t, 2, rec.updates())
	assert.Equal(t, int64(0), rec.last().Completed)
	assert.Equal(t, 0.0, rec.last().Percentage())
	assert.Equal(t, time.Duration(0), rec.last().Elapsed)
}

func TestEngine_ThrottleWithinSecond(t *testing.T) {
	eng, rec, clk := newTestEngine(t, 1_000_000)
	require.NoError(t, eng.Start())
	require.Equal(t, 1, rec.updates())

	// 9999 steps keep the bucket at 0%, and the clock stays inside the second.
	for i := 0; i < 9999; i++ {
		clk.Step(50 * time.Microsecond)
		require.NoError(t, eng.TickOne())
	}
	assert.Equal(t, 1, rec.updates(), "no refresh expected inside the same second and percent")

	// Reaching 1% refreshes immediately.
	require.NoError(t, eng.TickOne())
	assert.Equal(t, 2, rec.updates())
	assert.Equal(t, int64(10000), rec.last().Completed)
}

func TestEngine_ThrottleSecondRollover(t *testing.T) {
	eng, rec, clk := newTestEngine(t, 1_000_000)
	require.NoError(t, eng.Start())

	require.NoError(t, eng.TickOne())
	assert.Equal(t, 1, rec.updates())

	clk.Step(time.Second)
	require.NoError(t, eng.TickOne())
	assert.Equal(t, 2, rec.updates())

	// Still in the new second: no more refreshes.
	require.NoError(t, eng.TickOne())
	require.NoError(t, eng.TickOne())
	assert.Equal(t, 2, rec.updates())
}

func TestEngine_AtMostOncePerSecond(t *testing.T) {
	eng, rec, clk := newTestEngine(t, 1_000_000)
	require.NoError(t, eng.Start())

	// Five seconds of ticking in 10ms steps, never crossing 1%.
	for i := 0; i < 500; i++ {
		clk.Step(10 * time.Millisecond)
		require.NoError(t, eng.TickOne())
	}
	// One refresh from Start plus one per distinct second afterwards.
	assert.Equal(t, 6, rec.updates())
}

func TestEngine_PercentBoundaryWithinSecond(t *testing.T) {
	eng, rec, _ := newTestEngine(t, 100)
	require.NoError(t, eng.Start())

	require.NoError(t, eng.Tick(1))
	assert.Equal(t, 2, rec.updates())
	assert.Equal(t, 1, rec.last().PercentInt())
}

func TestEngine_PercentageMonotonic(t *testing.T) {
	totals := []int64{1, 7, 100, 333}
	steps := []int64{0, 1, 2, 5, 0, 3}

	for _, total := range totals {
		eng, rec, clk := newTestEngine(t, total)
		var accumulated int64
		prev := -1.0
		for i := 0; accumulated < total; i++ {
			s := steps[i%len(steps)]
			accumulated += s
			clk.Step(700 * time.Millisecond)
			require.NoError(t, eng.Tick(s))

			pct := eng.Snapshot().Percentage()
			assert.GreaterOrEqual(t, pct, prev, "total=%d", total)
			prev = pct
		}
		assert.GreaterOrEqual(t, eng.Snapshot().Percentage(), 1.0, "total=%d", total)
		assert.GreaterOrEqual(t, rec.last().Percentage(), 1.0, "total=%d", total)
	}
}

func TestEngine_OverTickIsNotClamped(t *testing.T) {
	eng, rec, _ := newTestEngine(t, 10)

	require.NoError(t, eng.Tick(15))
	assert.Equal(t, int64(15), rec.last().Completed)
	assert.Equal(t, 1.5, rec.last().Percentage())

	require.NoError(t, eng.Complete())
	assert.Equal(t, int64(10), eng.Completed())
	assert.Equal(t, 1.0, rec.last().Percentage())
}

func TestEngine_NegativeSteps(t *testing.T) {
	eng, rec, _ := newTestEngine(t, 10)

	err := eng.Tick(-2)
	assert.ErrorIs(t, err, ErrInvalidStepCount)
	assert.Equal(t, int64(0), eng.Completed())
	assert.Equal(t, StateNotStarted, eng.State())
	assert.Empty(t, rec.calls)
}

func TestEngine_CompleteFromAnyState(t *testing.T) {
	tests := []struct {
		name  string
		setup func(e *Engine) error
	}{
		{
			name:  "not started",
			setup: func(e *Engine) error { return nil },
		},
		{
			name:  "started",
			setup: func(e *Engine) error { return e.Start() },
		},
		{
			name:  "partially ticked",
			setup: func(e *Engine) error { return e.Tick(4) },
		},
		{
			name:  "over ticked",
			setup: func(e *Engine) error { return e.Tick(40) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, rec, _ := newTestEngine(t, 20)
			require.NoError(t, tt.setup(eng))
			before := len(rec.calls)

			require.NoError(t, eng.Complete())

			assert.Equal(t, []string{"update", "finish"}, rec.calls[before:])
			assert.Equal(t, int64(20), eng.Completed())
			assert.Equal(t, int64(20), rec.last().Completed)
			_, started := eng.StartTime()
			assert.True(t, started)
		})
	}
}

func TestEngine_AfterComplete(t *testing.T) {
	eng, rec, _ := newTestEngine(t, 5)
	require.NoError(t, eng.Complete())
	calls := len(rec.calls)

	assert.ErrorIs(t, eng.Tick(1), ErrCompleted)
	assert.ErrorIs(t, eng.TickOne(), ErrCompleted)
	assert.ErrorIs(t, eng.Start(), ErrCompleted)
	assert.ErrorIs(t, eng.Complete(), ErrCompleted)
	assert.Len(t, rec.calls, calls)
	assert.Equal(t, int64(5), eng.Completed())

	// Refresh still redraws the final state.
	require.NoError(t, eng.Refresh())
	assert.Len(t, rec.calls, calls+1)
	assert.Equal(t, int64(5), rec.last().Completed)
}

func TestEngine_ZeroTotal(t *testing.T) {
	eng, rec, clk := newTestEngine(t, 0)
	require.NoError(t, eng.Start())

	require.NoError(t, eng.Tick(3))
	assert.Equal(t, 1, rec.updates(), "bucket stays at 0 for a zero total")

	clk.Step(time.Second)
	require.NoError(t, eng.Tick(1))
	assert.Equal(t, 2, rec.updates())
	assert.Equal(t, 0.0, rec.last().Percentage())

	require.NoError(t, eng.Complete())
	assert.Equal(t, int64(0), rec.last().Completed)
	assert.Equal(t, "finish", rec.calls[len(rec.calls)-1])
}

func TestEngine_UpdateErrorPropagates(t *testing.T) {
	eng, rec, _ := newTestEngine(t, 10)
	boom := errors.New("write failed")
	rec.updateErr = boom

	err := eng.Tick(1)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int64(1), eng.Completed())

	// The failed refresh still counts as the baseline.
	rec.updateErr = nil
	require.NoError(t, eng.Tick(0))
	assert.Equal(t, 1, rec.updates())
}

func TestEngine_CompleteErrors(t *testing.T) {
	t.Run("update fails", func(t *testing.T) {
		eng, rec, _ := newTestEngine(t, 10)
		boom := errors.New("update failed")
		rec.updateErr = boom

		err := eng.Complete()
		require.ErrorIs(t, err, boom)
		assert.Equal(t, StateCompleted, eng.State())
		assert.Equal(t, []string{"update", "finish"}, rec.calls, "finish still runs")
	})

	t.Run("finish fails", func(t *testing.T) {
		eng, rec, _ := newTestEngine(t, 10)
		boom := errors.New("finish failed")
		rec.finishErr = boom

		err := eng.Complete()
		require.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"update", "finish"}, rec.calls)
		assert.Equal(t, StateCompleted, eng.State())
	})

	t.Run("both fail", func(t *testing.T) {
		eng, rec, _ := newTestEngine(t, 10)
		updateErr := errors.New("update failed")
		finishErr := errors.New("finish failed")
		rec.updateErr = updateErr
		rec.finishErr = finishErr

		err := eng.Complete()
		require.ErrorIs(t, err, updateErr)
		require.ErrorIs(t, err, finishErr)
		assert.Equal(t, []string{"update", "finish"}, rec.calls)
		assert.Equal(t, StateCompleted, eng.State())
		assert.ErrorIs(t, eng.Complete(), ErrCompleted)
	})
}

func TestEngine_SnapshotDoesNotStart(t *testing.T) {
	eng, rec, clk := newTestEngine(t, 10)

	s := eng.Snapshot()
	assert.Equal(t, time.Duration(0), s.Elapsed)
	assert.Equal(t, StateNotStarted, eng.State())

	require.NoError(t, eng.Tick(2))
	clk.Step(2 * time.Second)
	s = eng.Snapshot()
	assert.Equal(t, 2*time.Second, s.Elapsed)
	assert.Equal(t, 1, rec.updates())
}

func TestDisplayFuncs(t *testing.T) {
	var updated Snapshot
	finished := false
	d := DisplayFuncs{
		OnUpdate: func(s Snapshot) error {
			updated = s
			return nil
		},
		OnFinish: func() error {
			finished = true
			return nil
		},
	}

	eng, err := NewEngine(4, d, WithClock(clocktesting.NewFakePassiveClock(baseTime)))
	require.NoError(t, err)
	require.NoError(t, eng.Tick(2))
	assert.Equal(t, int64(2), updated.Completed)

	require.NoError(t, eng.Complete())
	assert.True(t, finished)

	// Nil funcs are no-ops.
	assert.NoError(t, DisplayFuncs{}.Update(Snapshot{}))
	assert.NoError(t, DisplayFuncs{}.Finish())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "not_started", StateNotStarted.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "completed", StateCompleted.String())
	assert.Equal(t, "unknown", State(42).String())
}
