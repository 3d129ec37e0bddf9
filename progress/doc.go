// Package progress provides the state engine behind a terminal progress
// indicator.
//
// An Engine is created with a known total amount of work. Producers call
// Tick as work completes; the engine accumulates the completed count and
// decides, on every tick, whether the display should be refreshed. A refresh
// is due when the wall-clock second changed since the last refresh, or when
// the whole-percent value changed. Everything else is dropped, so a tight
// loop ticking millions of times renders at most once per second plus once
// per percent point.
//
// Rendering is delegated to a Display. Concrete displays (text, bar, JSON,
// channel, logr, tracing) live in the display sub-package.
//
// # Basic Usage
//
//	bar := display.NewBarDisplay(os.Stderr)
//	eng, err := progress.NewEngine(int64(len(files)), bar)
//	if err != nil {
//	    return err
//	}
//	if err := eng.Start(); err != nil {
//	    return err
//	}
//	for _, f := range files {
//	    process(f)
//	    if err := eng.TickOne(); err != nil {
//	        return err
//	    }
//	}
//	return eng.Complete()
//
// # Deterministic Time
//
// The engine reads time through a k8s.io/utils/clock.PassiveClock. Tests
// inject a fake clock with WithClock to exercise the one-second throttle
// boundary without sleeping.
//
// # Thread Safety
//
// An Engine is single-writer. All operations run synchronously on the
// caller's goroutine and invoke the display inline; there are no background
// timers. Callers ticking from several goroutines must serialize the calls
// themselves.
package progress
