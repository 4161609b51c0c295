package kernel

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the task set.
var (
	// taskActivations counts completed activations per task.
	taskActivations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blinky_task_activations_total",
		Help: "The total number of completed task activations",
	}, []string{"task"})

	// activationDuration tracks how long one activation of a body takes.
	activationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blinky_task_activation_duration_seconds",
		Help:    "Duration of a single task activation",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	// taskPeriod records each task's configured period, set at registration.
	taskPeriod = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "blinky_task_period_seconds",
		Help: "Configured period of each task",
	}, []string{"task"})
)
