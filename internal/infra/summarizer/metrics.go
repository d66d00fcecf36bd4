package summarizer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsRecorder records summarizer call metrics. Tests substitute a fake.
type MetricsRecorder interface {
	// RecordRequest counts one provider call by result ("success" or "error").
	RecordRequest(provider string, success bool)
	// RecordDuration observes the latency of one provider call.
	RecordDuration(provider string, duration time.Duration)
	// RecordLength observes the summary length in runes.
	RecordLength(length int)
	// RecordLimitExceeded counts summaries longer than the requested limit.
	RecordLimitExceeded()
}

// PrometheusMetrics implements MetricsRecorder with client_golang.
type PrometheusMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	length   prometheus.Histogram
	exceeded prometheus.Counter
}

var (
	prometheusMetricsInstance *PrometheusMetrics
	prometheusMetricsOnce     sync.Once
)

// register returns c, or the collector already registered under the same
// name so that constructing several summarizers never panics.
func register[T prometheus.Collector](c T) T {
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
	}
	return c
}

// NewPrometheusMetrics returns the process-wide recorder.
func NewPrometheusMetrics() *PrometheusMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusMetrics{
			requests: register(prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "summarizer_requests_total",
				Help: "Total number of external summarizer calls by provider and result",
			}, []string{"provider", "result"})),
			duration: register(prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "summarizer_request_duration_seconds",
				Help:    "Latency of external summarizer calls",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			}, []string{"provider"})),
			length: register(prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    "summarizer_output_length_runes",
				Help:    "Distribution of summary lengths in runes",
				Buckets: []float64{100, 200, 300, 500, 700, 900, 1200, 1500},
			})),
			exceeded: register(prometheus.NewCounter(prometheus.CounterOpts{
				Name: "summarizer_limit_exceeded_total",
				Help: "Total number of summaries exceeding the requested character limit",
			})),
		}
	})
	return prometheusMetricsInstance
}

// RecordRequest implements MetricsRecorder.
func (p *PrometheusMetrics) RecordRequest(provider string, success bool) {
	result := "success"
	if !success {
		result = "error"
	}
	p.requests.WithLabelValues(provider, result).Inc()
}

// RecordDuration implements MetricsRecorder.
func (p *PrometheusMetrics) RecordDuration(provider string, duration time.Duration) {
	p.duration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordLength implements MetricsRecorder.
func (p *PrometheusMetrics) RecordLength(length int) {
	p.length.Observe(float64(length))
}

// RecordLimitExceeded implements MetricsRecorder.
func (p *PrometheusMetrics) RecordLimitExceeded() {
	p.exceeded.Inc()
}
