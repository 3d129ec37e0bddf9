package display

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/konveyor/progressbar/progress"
)

// TraceDisplay records progress on an OpenTelemetry span.
//
// Each refresh becomes a "progress" span event; Finish stamps the final
// counts as span attributes. The span is owned by the caller, which is
// responsible for ending it.
type TraceDisplay struct {
	span trace.Span
	last progress.Snapshot
}

// NewTraceDisplay creates a display that annotates span.
func NewTraceDisplay(span trace.Span) *TraceDisplay {
	return &TraceDisplay{span: span}
}

// Update adds a "progress" event carrying s to the span.
func (t *TraceDisplay) Update(s progress.Snapshot) error {
	t.last = s
	t.span.AddEvent("progress", trace.WithAttributes(
		attribute.Int64("progress.completed", s.Completed),
		attribute.Int64("progress.total", s.Total),
		attribute.Float64("progress.percent", percentOf(s)),
		attribute.Int64("progress.elapsed_ms", s.ElapsedMillis()),
	))
	return nil
}

// Finish marks the span finished and records the last counts as span
// attributes. It does not end the span.
func (t *TraceDisplay) Finish() error {
	t.span.SetAttributes(
		attribute.Bool("progress.finished", true),
		attribute.Int64("progress.completed", t.last.Completed),
		attribute.Int64("progress.total", t.last.Total),
		attribute.Int64("progress.elapsed_ms", t.last.ElapsedMillis()),
	)
	return nil
}
