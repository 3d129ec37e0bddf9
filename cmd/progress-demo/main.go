package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	logrusr "github.com/bombsimon/logrusr/v3"
	"github.com/go-logr/logr"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/konveyor/progressbar/tracing"
)

var (
	total          int64
	step           int64
	delay          time.Duration
	label          string
	taskFile       string
	progressOutput string
	progressFormat string
	logLevel       int
	enableJaeger   bool
	jaegerEndpoint string
)

func DemoCmd() *cobra.Command {
	var errLog logr.Logger
	var tasks []Task

	rootCmd := &cobra.Command{
		Use:   "progress-demo",
		Short: "Drive simulated tasks through the progress engine",
		PreRunE: func(c *cobra.Command, args []string) error {
			logrusErrLog := logrus.New()
			logrusErrLog.SetOutput(os.Stderr)
			errLog = logrusr.New(logrusErrLog)

			var err error
			tasks, err = resolveTasks()
			if err != nil {
				errLog.Error(err, "failed to validate flags")
				return err
			}
			if _, err := createDisplay(progressFormat, os.Stderr, "", errLog); err != nil {
				errLog.Error(err, "failed to validate flags")
				return err
			}
			return nil
		},
		RunE: func(c *cobra.Command, args []string) error {
			logrusLog := logrus.New()
			logrusLog.SetOutput(os.Stdout)
			logrusLog.SetFormatter(&logrus.TextFormatter{})
			// verbose 0 -> info, each step up shows one more V level
			logrusLog.SetLevel(logrus.Level(logLevel + 4))
			log := logrusr.New(logrusLog)

			ctx, cancelFunc := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancelFunc()

			tp, err := tracing.InitTracerProvider(log, tracing.Options{
				EnableJaeger:   enableJaeger,
				JaegerEndpoint: jaegerEndpoint,
			})
			if err != nil {
				errLog.Error(err, "failed to initialize tracing")
				return err
			}
			defer tracing.Shutdown(ctx, log, tp)

			ctx, span := tracing.StartNewSpan(ctx, "progress-demo")
			defer span.End()

			w, closeOutput, err := openOutput(progressOutput)
			if err != nil {
				errLog.Error(err, "unable to open progress output", "output", progressOutput)
				return err
			}
			defer closeOutput()

			if err := runTasks(ctx, log, tasks, progressFormat, w); err != nil {
				errLog.Error(err, "progress demo failed")
				return err
			}
			log.V(1).Info("all tasks complete", "tasks", len(tasks))
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.Flags().Int64Var(&total, "total", 100, "total units of work for the simulated task")
	rootCmd.Flags().Int64Var(&step, "step", 1, "units completed per tick")
	rootCmd.Flags().DurationVar(&delay, "delay", 20*time.Millisecond, "time between ticks")
	rootCmd.Flags().StringVar(&label, "label", "working", "label shown next to the progress")
	rootCmd.Flags().StringVar(&taskFile, "task-file", "", "yaml file listing tasks to run, overrides --total, --step, --delay and --label")
	rootCmd.Flags().StringVar(&progressOutput, "progress-output", "stderr", "where to write progress (stderr, stdout, or file path)")
	rootCmd.Flags().StringVar(&progressFormat, "progress-format", "bar", "format for progress output: bar, text, json, or log")
	rootCmd.Flags().IntVar(&logLevel, "verbose", 0, "level for logging output")
	rootCmd.Flags().BoolVar(&enableJaeger, "enable-jaeger", false, "enable tracer exports to jaeger endpoint")
	rootCmd.Flags().StringVar(&jaegerEndpoint, "jaeger-endpoint", "http://localhost:14268/api/traces", "jaeger endpoint to collect tracing data")

	return rootCmd
}

func main() {
	if err := DemoCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveTasks returns the tasks from --task-file, or a single task built
// from the other flags.
func resolveTasks() ([]Task, error) {
	if taskFile != "" {
		return LoadTasks(taskFile)
	}
	task := Task{
		Label: label,
		Total: total,
		Step:  step,
		Delay: delay,
	}
	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return []Task{task}, nil
}
