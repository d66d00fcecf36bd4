// Package metrics provides Prometheus metrics registry and recording utilities.
//
// All collectors are registered with the default registry through promauto
// and exposed on /metrics by the API and on the worker's metrics port.
//
// Example usage:
//
//	start := time.Now()
//	// ... ingest one agency ...
//	metrics.RecordSourceIngest("IRNA", time.Since(start), 10, 3, 7)
package metrics
