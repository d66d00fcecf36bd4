package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvString(t *testing.T) {
	assert.Equal(t, "0 */2 * * *", LoadEnvString("TEST_INGEST_CRON", "0 */2 * * *"))

	t.Setenv("TEST_INGEST_CRON", "30 6 * * *")
	assert.Equal(t, "30 6 * * *", LoadEnvString("TEST_INGEST_CRON", "0 */2 * * *"))
}

func TestLoadEnvWithFallback(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		want     string
		fallback bool
	}{
		{"unset uses default", "", "Asia/Tehran", false},
		{"valid value", "UTC", "UTC", false},
		{"invalid value falls back", "Asia/Nowhere", "Asia/Tehran", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_TZ", tt.value)

			res := LoadEnvWithFallback("TEST_TZ", "Asia/Tehran", ValidateTimezone)

			assert.Equal(t, tt.want, res.Value)
			assert.Equal(t, tt.fallback, res.FallbackApplied)
			if tt.fallback {
				require.Len(t, res.Warnings, 1)
				assert.Contains(t, res.Warnings[0], "TEST_TZ='Asia/Nowhere'")
				assert.Contains(t, res.Warnings[0], "falling back to default 'Asia/Tehran'")
			} else {
				assert.Empty(t, res.Warnings)
			}
		})
	}
}

func TestLoadEnvWithFallback_NilValidator(t *testing.T) {
	t.Setenv("TEST_ANY", "whatever")
	res := LoadEnvWithFallback("TEST_ANY", "x", nil)
	assert.Equal(t, "whatever", res.Value)
	assert.False(t, res.FallbackApplied)
}

func TestLoadEnvDuration(t *testing.T) {
	between := func(d time.Duration) error { return ValidateDuration(d, time.Second, time.Minute) }
	tests := []struct {
		name     string
		value    string
		want     time.Duration
		fallback bool
	}{
		{"unset", "", 10 * time.Second, false},
		{"valid", "30s", 30 * time.Second, false},
		{"unparsable", "soon", 10 * time.Second, true},
		{"out of range", "2h", 10 * time.Second, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_TIMEOUT", tt.value)
			res := LoadEnvDuration("TEST_TIMEOUT", 10*time.Second, between)
			assert.Equal(t, tt.want, res.Value)
			assert.Equal(t, tt.fallback, res.FallbackApplied)
		})
	}
}

func TestLoadEnvInt(t *testing.T) {
	inRange := func(v int) error { return ValidateIntRange(v, 1, 20) }
	tests := []struct {
		name     string
		value    string
		want     int
		fallback bool
	}{
		{"unset", "", 5, false},
		{"valid", "8", 8, false},
		{"surrounding space", " 8 ", 8, false},
		{"not a number", "eight", 5, true},
		{"trailing garbage", "8x", 5, true},
		{"out of range", "21", 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_WORKERS", tt.value)
			res := LoadEnvInt("TEST_WORKERS", 5, inRange)
			assert.Equal(t, tt.want, res.Value)
			assert.Equal(t, tt.fallback, res.FallbackApplied)
		})
	}
}

func TestLoadEnvFloat(t *testing.T) {
	ratio := func(v float64) error {
		if v <= 0 || v > 1 {
			return assert.AnError
		}
		return nil
	}

	t.Setenv("TEST_RATIO", "0.9")
	assert.Equal(t, 0.9, LoadEnvFloat("TEST_RATIO", 0.8, ratio).Value)

	t.Setenv("TEST_RATIO", "1.5")
	res := LoadEnvFloat("TEST_RATIO", 0.8, ratio)
	assert.Equal(t, 0.8, res.Value)
	assert.True(t, res.FallbackApplied)

	t.Setenv("TEST_RATIO", "high")
	assert.True(t, LoadEnvFloat("TEST_RATIO", 0.8, ratio).FallbackApplied)
}

func TestLoadEnvBool(t *testing.T) {
	tests := []struct {
		value    string
		want     bool
		fallback bool
	}{
		{"", true, false},
		{"false", false, false},
		{"0", false, false},
		{"TRUE", true, false},
		{"yes", true, true},
	}
	for _, tt := range tests {
		t.Run("value="+tt.value, func(t *testing.T) {
			t.Setenv("TEST_FLAG", tt.value)
			res := LoadEnvBool("TEST_FLAG", true)
			assert.Equal(t, tt.want, res.Value)
			assert.Equal(t, tt.fallback, res.FallbackApplied)
		})
	}
}
