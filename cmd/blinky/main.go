// Command blinky registers four independent periodic print tasks with the
// task kernel and cedes control to it. The process has no shutdown path: the
// kernel runs the task set forever, and if it cannot, the process halts in
// place rather than recovering.
package main

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"blinky/internal/console"
	"blinky/internal/job"
	"blinky/internal/kernel"
	"blinky/internal/logging"
)

func main() {
	// Read the configuration
	cfg := kernel.Load("config.yml")
	logging.Setup(cfg.PrettyLogs)

	k := kernel.New()
	if cfg.TraceLog != "" {
		if err := k.EnableTraceLog(cfg.TraceLog); err != nil {
			logging.Log.Error().Err(err).Str("path", cfg.TraceLog).Msg("trace log unavailable")
			halt()
		}
	}

	out := console.Stdout()

	create := func(name string, tc kernel.TaskConfig, body kernel.Body) {
		_, err := k.CreateTask(name, kernel.MinStackHint, tc.Priority, tc.Period(), body)
		if err != nil {
			logging.Log.Error().Err(err).Str("task", name).Msg("task registration failed")
			halt()
		}
	}
	create("Task 1", cfg.Completion, job.Completion(out))
	create("Task 2", cfg.Temperature, job.Temperature(out))
	create("Task 3", cfg.Multiply, job.Multiply(out))
	create("Task 4", cfg.Search, job.Search(out))

	// Optional prometheus endpoint; off by default so the demo's only
	// observable side effect stays the console.
	if cfg.MetricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			logging.Log.Info().Str("addr", cfg.MetricsAddr).Msg("metrics server listening")
			if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
				logging.Log.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	err := k.Start(context.Background())

	// Start should never return. If it does, the kernel could not keep the
	// task set alive; spin rather than exit.
	logging.Log.Error().Err(err).Msg("kernel returned")
	halt()
}

// halt parks the process forever. Failure to bring the task set up is
// terminal; there is no retry or fallback path.
func halt() {
	for {
	}
}
