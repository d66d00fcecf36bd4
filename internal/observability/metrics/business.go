package metrics

import (
	"time"
)

// RecordHTTPRequest records an HTTP request with its metadata.
// path should be the route pattern, not the raw URL.
func RecordHTTPRequest(method, path, status string, duration time.Duration, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordIngestRun records the outcome of one ingestion run.
// A run with no failed sources is "ok", one with some is "partial" and one
// where every source failed is "failed".
func RecordIngestRun(sources, failed int) {
	outcome := "ok"
	switch {
	case failed > 0 && failed >= sources:
		outcome = "failed"
	case failed > 0:
		outcome = "partial"
	}
	IngestRunsTotal.WithLabelValues(outcome).Inc()
}

// RecordSourceIngest records the counters of one successful source.
func RecordSourceIngest(agency string, duration time.Duration, candidates, added, skipped int) {
	SourceIngestDuration.WithLabelValues(agency).Observe(duration.Seconds())
	SourceCandidatesTotal.WithLabelValues(agency).Add(float64(candidates))
	NewsAddedTotal.WithLabelValues(agency).Add(float64(added))
	NewsSkippedTotal.WithLabelValues(agency).Add(float64(skipped))
}

// RecordSourceError records a failed source. stage is list, lock or store.
func RecordSourceError(agency, stage string) {
	SourceErrorsTotal.WithLabelValues(agency, stage).Inc()
}

// UpdateNewsStored replaces the stored-items gauge with fresh counts.
func UpdateNewsStored(counts map[string]int64) {
	NewsStored.Reset()
	for agency, n := range counts {
		NewsStored.WithLabelValues(agency).Set(float64(n))
	}
}

// RecordSummaryStrategy records which strategy produced a summary.
func RecordSummaryStrategy(strategy string) {
	SummaryStrategyTotal.WithLabelValues(strategy).Inc()
}

// RecordArticleFetch records one article page load.
func RecordArticleFetch(success bool, duration time.Duration) {
	result := "success"
	if !success {
		result = "failure"
	}
	ArticleFetchAttemptsTotal.WithLabelValues(result).Inc()
	ArticleFetchDuration.Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
