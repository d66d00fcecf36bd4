package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"rasad-feed/internal/pkg/config"
)

// Job run statuses.
const (
	StatusStarted = "started"
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusSkipped = "skipped"
)

// WorkerMetrics tracks scheduled runs on top of the worker's config metrics.
type WorkerMetrics struct {
	*config.ConfigMetrics

	JobRunsTotal         *prometheus.CounterVec
	JobDurationSeconds   prometheus.Histogram
	JobItemsAddedTotal   prometheus.Counter
	JobLastSuccessSecond prometheus.Gauge
}

// NewWorkerMetrics registers the worker metrics on the default registry.
// It must be called once per process.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),
		JobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_ingest_job_runs_total",
			Help: "Scheduled ingestion runs by status",
		}, []string{"status"}),
		JobDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_ingest_job_duration_seconds",
			Help:    "Duration of scheduled ingestion runs",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),
		JobItemsAddedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_ingest_job_items_added_total",
			Help: "News items stored by scheduled runs",
		}),
		JobLastSuccessSecond: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_ingest_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful scheduled run",
		}),
	}
}

// RecordJobRun counts a run with the given status.
func (m *WorkerMetrics) RecordJobRun(status string) {
	m.JobRunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes a finished run.
func (m *WorkerMetrics) RecordJobDuration(seconds float64) {
	m.JobDurationSeconds.Observe(seconds)
}

// RecordItemsAdded adds the number of stored items of a run.
func (m *WorkerMetrics) RecordItemsAdded(count int) {
	m.JobItemsAddedTotal.Add(float64(count))
}

// RecordLastSuccess marks now as the last successful run.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.JobLastSuccessSecond.SetToCurrentTime()
}
