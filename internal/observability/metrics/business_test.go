package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordIngestRun_Outcome(t *testing.T) {
	tests := []struct {
		name            string
		sources, failed int
		outcome         string
	}{
		{"all ok", 5, 0, "ok"},
		{"partial", 5, 2, "partial"},
		{"all failed", 3, 3, "failed"},
		{"no sources", 0, 0, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(IngestRunsTotal.WithLabelValues(tt.outcome))
			RecordIngestRun(tt.sources, tt.failed)
			after := testutil.ToFloat64(IngestRunsTotal.WithLabelValues(tt.outcome))
			assert.Equal(t, before+1, after)
		})
	}
}

func TestRecordSourceIngest(t *testing.T) {
	before := testutil.ToFloat64(NewsAddedTotal.WithLabelValues("metrics-test"))
	RecordSourceIngest("metrics-test", 2*time.Second, 10, 4, 6)
	assert.Equal(t, before+4, testutil.ToFloat64(NewsAddedTotal.WithLabelValues("metrics-test")))
	assert.Equal(t, float64(6), testutil.ToFloat64(NewsSkippedTotal.WithLabelValues("metrics-test")))
}

func TestUpdateNewsStored_Resets(t *testing.T) {
	UpdateNewsStored(map[string]int64{"IRNA": 4, "BBC": 2})
	UpdateNewsStored(map[string]int64{"ISNA": 1})

	assert.Equal(t, 1, testutil.CollectAndCount(NewsStored))
	assert.Equal(t, float64(1), testutil.ToFloat64(NewsStored.WithLabelValues("ISNA")))
}

func TestRecorders_DoNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordHTTPRequest("GET", "/news", "200", 10*time.Millisecond, 512)
		RecordSourceError("IRNA", "list")
		RecordSummaryStrategy("lead")
		RecordArticleFetch(true, time.Second)
		RecordArticleFetch(false, time.Second)
		UpdateDBConnectionStats(3, 2)
	})
}
