// Package display provides the concrete rendering strategies for a
// progress.Engine.
//
// Each display implements progress.Display and can be combined with Multi:
//
//   - TextDisplay: timestamped human-readable lines
//   - BarDisplay: a bar redrawn in place with carriage returns
//   - JSONDisplay: newline-delimited JSON events
//   - ChannelDisplay: events delivered on a Go channel
//   - LogDisplay: structured logr messages
//   - TraceDisplay: OpenTelemetry span events
//
// Usage:
//
//	d := display.Multi(
//	    display.NewBarDisplay(os.Stderr, display.WithLabel("download")),
//	    display.NewJSONDisplay(logFile),
//	)
//	eng, err := progress.NewEngine(total, d)
package display
