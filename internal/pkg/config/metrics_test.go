package config

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestConfigMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newConfigMetrics(reg, "ingest")

	m.RecordLoadTimestamp()
	m.RecordValidationError("ingest_max_concurrent_sources")
	m.RecordValidationError("ingest_max_concurrent_sources")
	m.RecordFallback("ingest_max_concurrent_sources", "default")
	m.SetFallbackActive("", true)

	assert.Equal(t, "ingest", m.Component())
	assert.Greater(t, testutil.ToFloat64(m.LoadTimestamp), float64(0))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.ValidationErrorsTotal.WithLabelValues("ingest_max_concurrent_sources")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("ingest_max_concurrent_sources", "default")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.FallbackActive))

	m.SetFallbackActive("", false)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.FallbackActive))
}

func TestConfigMetrics_RegisterTwiceReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := newConfigMetrics(reg, "summarizer")
	b := newConfigMetrics(reg, "summarizer")

	a.RecordValidationError("summarizer_timeout")

	assert.Equal(t, float64(1), testutil.ToFloat64(b.ValidationErrorsTotal.WithLabelValues("summarizer_timeout")))
}

func TestConfigMetrics_ComponentsAreSeparate(t *testing.T) {
	reg := prometheus.NewRegistry()
	worker := newConfigMetrics(reg, "worker")
	fetcher := newConfigMetrics(reg, "fetcher")

	assert.NotSame(t, worker.LoadTimestamp, fetcher.LoadTimestamp)
}
