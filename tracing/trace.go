// Package tracing sets up the OpenTelemetry tracer provider used to record
// task spans and their progress events.
package tracing

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName names the tracer every span in this module is started from.
	TracerName = "github.com/konveyor/progressbar"

	defaultServiceName     = "progressbar"
	defaultShutdownTimeout = 5 * time.Second
)

// Options configures InitTracerProvider.
type Options struct {
	// EnableJaeger batches spans to a jaeger collector at JaegerEndpoint.
	EnableJaeger   bool
	JaegerEndpoint string
	// ServiceName defaults to "progressbar".
	ServiceName string
	// SpanProcessors are registered in addition to the jaeger exporter.
	SpanProcessors []tracesdk.SpanProcessor
	// ShutdownTimeout bounds Shutdown. Defaults to 5s.
	ShutdownTimeout time.Duration
}

// Provider is a tracer provider plus the settings needed to shut it down.
type Provider struct {
	*tracesdk.TracerProvider
	shutdownTimeout time.Duration
}

// InitTracerProvider builds a tracer provider from o and installs it as the
// global provider. Spans are always sampled.
func InitTracerProvider(log logr.Logger, o Options) (*Provider, error) {
	serviceName := o.ServiceName
	if serviceName == "" {
		serviceName = defaultServiceName
	}
	tracerOptions := []tracesdk.TracerProviderOption{
		tracesdk.WithSampler(tracesdk.AlwaysSample()),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
		)),
	}
	if o.EnableJaeger {
		exp, err := jaeger.New(
			jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(o.JaegerEndpoint)),
		)
		if err != nil {
			log.Error(err, "failed to create jaeger exporter", "endpoint", o.JaegerEndpoint)
			return nil, fmt.Errorf("failed to create jaeger exporter: %w", err)
		}
		tracerOptions = append(tracerOptions, tracesdk.WithBatcher(exp))
		log.V(3).Info("jaeger tracing enabled", "endpoint", o.JaegerEndpoint)
	}
	for _, sp := range o.SpanProcessors {
		tracerOptions = append(tracerOptions, tracesdk.WithSpanProcessor(sp))
	}

	timeout := o.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	tp := &Provider{
		TracerProvider:  tracesdk.NewTracerProvider(tracerOptions...),
		shutdownTimeout: timeout,
	}
	otel.SetTracerProvider(tp.TracerProvider)
	return tp, nil
}

// Shutdown flushes pending spans and stops tp. It still flushes when ctx
// was cancelled by an interrupt, bounded by the provider's shutdown
// timeout. A nil tp is a no-op.
func Shutdown(ctx context.Context, log logr.Logger, tp *Provider) {
	if tp == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), tp.shutdownTimeout)
	defer cancel()
	if err := tp.Shutdown(ctx); err != nil {
		log.Error(err, "error shutting down tracer provider")
	}
}

// StartNewSpan starts a span named name from the global provider.
func StartNewSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(TracerName).Start(ctx, name)
	span.SetAttributes(attrs...)
	return ctx, span
}

// StartTaskSpan starts the span that covers one tracked task.
func StartTaskSpan(ctx context.Context, label string, total int64) (context.Context, trace.Span) {
	return StartNewSpan(ctx, "task",
		attribute.String("progress.label", label),
		attribute.Int64("progress.total", total),
	)
}
