// Package tracing provides OpenTelemetry spans for ingest runs and HTTP
// requests. Without a configured TracerProvider every span is a no-op.
package tracing
