// Package observability groups structured logging, Prometheus metrics and
// OpenTelemetry tracing for the ingest worker, the API and the CLI.
//
// Subpackages:
//   - logging: slog setup and context propagation
//   - metrics: Prometheus collectors and recorders
//   - tracing: OpenTelemetry spans and HTTP middleware
package observability
