package notify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	digestDispatchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_notification_dispatched_total",
			Help: "Total number of digest notifications dispatched",
		},
		[]string{"channel"},
	)

	digestSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_notification_sent_total",
			Help: "Total number of digest notifications by result",
		},
		[]string{"channel", "status"}, // success|failure
	)

	digestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "digest_notification_duration_seconds",
			Help:    "Digest notification send duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"channel"},
	)

	digestDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_notification_dropped_total",
			Help: "Total number of digest notifications not attempted",
		},
		[]string{"channel", "reason"}, // circuit_open|disabled
	)

	channelsEnabled = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "digest_notification_channels_enabled",
			Help: "Number of enabled digest notification channels",
		},
	)
)

func recordDispatch(channel string) {
	digestDispatchedTotal.WithLabelValues(channel).Inc()
}

func recordResult(channel string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	digestSentTotal.WithLabelValues(channel, status).Inc()
	digestDuration.WithLabelValues(channel).Observe(d.Seconds())
}

func recordDropped(channel, reason string) {
	digestDroppedTotal.WithLabelValues(channel, reason).Inc()
}
