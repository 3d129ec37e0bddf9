package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"

	"github.com/konveyor/progressbar/progress"
	"github.com/konveyor/progressbar/progress/display"
	"github.com/konveyor/progressbar/tracing"
)

// runTask drives task through an engine: Start, then Tick(step) every delay
// until the total is reached, then Complete.
func runTask(ctx context.Context, log logr.Logger, task Task, d progress.Display) error {
	eng, err := progress.NewEngine(task.Total, d, progress.WithLogger(log))
	if err != nil {
		return err
	}

	if err := eng.Start(); err != nil {
		return err
	}
	for done := int64(0); done < task.Total; done += task.Step {
		if task.Delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(task.Delay):
			}
		}
		step := task.Step
		if remaining := task.Total - done; step > remaining {
			step = remaining
		}
		if err := eng.Tick(step); err != nil {
			return err
		}
	}
	return eng.Complete()
}

// runTasks runs every task in order, each inside its own span and with its
// own display.
func runTasks(ctx context.Context, log logr.Logger, tasks []Task, format string, w io.Writer) error {
	for _, task := range tasks {
		taskCtx, span := tracing.StartTaskSpan(ctx, task.Label, task.Total)

		d, err := createDisplay(format, w, task.Label, log)
		if err != nil {
			span.End()
			return err
		}

		log.V(1).Info("running task", "label", task.Label, "total", task.Total, "step", task.Step)
		err = runTask(taskCtx, log.WithValues("label", task.Label), task, display.Multi(d, display.NewTraceDisplay(span)))
		span.End()
		if err != nil {
			return fmt.Errorf("task %q failed: %w", task.Label, err)
		}
	}
	return nil
}

// createDisplay builds the display for --progress-format.
func createDisplay(format string, w io.Writer, label string, log logr.Logger) (progress.Display, error) {
	switch format {
	case "bar":
		return display.NewBarDisplay(w, display.WithLabel(label)), nil
	case "text":
		return display.NewTextDisplay(w, display.WithLabel(label)), nil
	case "json":
		return display.NewJSONDisplay(w, display.WithLabel(label)), nil
	case "log":
		return display.NewLogDisplay(log, display.WithLabel(label)), nil
	default:
		return nil, fmt.Errorf("unknown progress format %q, must be one of bar, text, json or log", format)
	}
}

// openOutput resolves --progress-output. The returned close function is
// always safe to call.
func openOutput(output string) (io.Writer, func() error, error) {
	switch output {
	case "", "stderr":
		return os.Stderr, func() error { return nil }, nil
	case "stdout":
		return os.Stdout, func() error { return nil }, nil
	default:
		file, err := os.Create(output)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create progress output file %s: %w", output, err)
		}
		return file, file.Close, nil
	}
}
