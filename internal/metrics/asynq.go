package metrics

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	taskProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumekit",
			Subsystem: "asynq",
			Name:      "tasks_processed_total",
			Help:      "Tasks processed, by type.",
		},
		[]string{"task_type"},
	)

	taskFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumekit",
			Subsystem: "asynq",
			Name:      "tasks_failed_total",
			Help:      "Tasks that returned an error, by type.",
		},
		[]string{"task_type"},
	)

	taskInProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "resumekit",
			Subsystem: "asynq",
			Name:      "tasks_in_progress",
			Help:      "Tasks currently being processed.",
		},
		[]string{"task_type"},
	)

	exportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "resumekit",
			Subsystem: "export",
			Name:      "duration_seconds",
			Help:      "Time spent rendering and storing one PDF export.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"mode", "outcome"},
	)
)

// AsynqMetricsMiddleware records task counters around every handler.
func AsynqMetricsMiddleware() asynq.MiddlewareFunc {
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, task *asynq.Task) error {
			taskType := task.Type()
			taskInProgress.WithLabelValues(taskType).Inc()
			defer taskInProgress.WithLabelValues(taskType).Dec()

			err := next.ProcessTask(ctx, task)
			if err != nil {
				taskFailedTotal.WithLabelValues(taskType).Inc()
			}
			taskProcessedTotal.WithLabelValues(taskType).Inc()
			return err
		})
	}
}

// ObserveExport records one export attempt.
func ObserveExport(mode string, ok bool, elapsed time.Duration) {
	outcome := "completed"
	if !ok {
		outcome = "failed"
	}
	exportDuration.WithLabelValues(mode, outcome).Observe(elapsed.Seconds())
}
