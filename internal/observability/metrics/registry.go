package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, route and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)
)

// Ingest metrics track the scrape, dedupe and store pipeline
var (
	// IngestRunsTotal counts ingestion runs by outcome (ok, partial, failed)
	IngestRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_runs_total",
			Help: "Total number of ingestion runs",
		},
		[]string{"outcome"},
	)

	// SourceCandidatesTotal counts candidates listed per agency
	SourceCandidatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_candidates_total",
			Help: "Candidate items listed per agency",
		},
		[]string{"agency"},
	)

	// NewsAddedTotal counts items stored per agency
	NewsAddedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_added_total",
			Help: "News items stored per agency",
		},
		[]string{"agency"},
	)

	// NewsSkippedTotal counts near-duplicates dropped per agency
	NewsSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_skipped_total",
			Help: "Near-duplicate items dropped per agency",
		},
		[]string{"agency"},
	)

	// SourceErrorsTotal counts per-source failures by stage (list, store, lock)
	SourceErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_errors_total",
			Help: "Source failures by stage",
		},
		[]string{"agency", "stage"},
	)

	// SourceIngestDuration measures one agency's fetch, summarize and store
	SourceIngestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_ingest_duration_seconds",
			Help:    "Time taken to ingest one source",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
		[]string{"agency"},
	)

	// NewsStored tracks stored items per agency
	NewsStored = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "news_stored",
			Help: "News items currently stored per agency",
		},
		[]string{"agency"},
	)
)

// Summary metrics track which strategy produced each summary
var (
	// SummaryStrategyTotal counts summaries by winning strategy
	// (lead, extractive, external, fallback, none)
	SummaryStrategyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summary_strategy_total",
			Help: "Summaries produced by each strategy",
		},
		[]string{"strategy"},
	)

	// ArticleFetchAttemptsTotal counts article page loads by result
	ArticleFetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_fetch_attempts_total",
			Help: "Total number of article page fetch attempts",
		},
		[]string{"result"}, // result: success, failure
	)

	// ArticleFetchDuration measures time to fetch and parse an article page
	ArticleFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "article_fetch_duration_seconds",
			Help:    "Time taken to fetch an article page",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
	)
)

// Database metrics track the connection pool
var (
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)
