// Package worker holds the pieces of the scheduled ingestion process: its
// configuration, the cron runner, Prometheus metrics and the health server.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rasad-feed/internal/calendar"
	"rasad-feed/internal/pkg/config"
)

// WorkerConfig configures the scheduled ingestion.
type WorkerConfig struct {
	// CronSchedule is a five-field cron expression evaluated in Timezone.
	CronSchedule string
	// Timezone is the IANA zone of the schedule.
	Timezone string
	// RunTimeout bounds one ingestion run.
	RunTimeout time.Duration
	// RunOnStart triggers one run right after the scheduler starts.
	RunOnStart bool
	// HealthPort serves /health, /health/ready and /metrics.
	HealthPort int
}

// DefaultConfig returns the defaults: every two hours, Tehran time.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule: "0 */2 * * *",
		Timezone:     calendar.DefaultTimezone,
		RunTimeout:   20 * time.Minute,
		RunOnStart:   true,
		HealthPort:   9091,
	}
}

// Validate reports every invalid field at once.
func (c *WorkerConfig) Validate() error {
	var errs []error
	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateDuration(c.RunTimeout, time.Minute, 4*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("run timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// LoadConfigFromEnv reads the worker settings. Invalid values fall back to
// the defaults and are logged and counted; the result is always valid.
//
// Environment variables:
//   - INGEST_CRON: cron expression (default: "0 */2 * * *")
//   - WORKER_TIMEZONE: IANA zone (default: Asia/Tehran)
//   - INGEST_RUN_TIMEOUT: 1m-4h (default: 20m)
//   - INGEST_RUN_ON_START: bool (default: true)
//   - WORKER_HEALTH_PORT: 1024-65535 (default: 9091)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) WorkerConfig {
	cfg := DefaultConfig()
	fallbackApplied := false

	record := func(field string, res config.ConfigLoadResult) {
		if !res.FallbackApplied {
			return
		}
		fallbackApplied = true
		if metrics != nil {
			metrics.RecordValidationError(field)
			metrics.RecordFallback(field, "default")
		}
		for _, w := range res.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", w))
		}
	}

	res := config.LoadEnvWithFallback("INGEST_CRON", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = res.Value.(string)
	record("cron_schedule", res)

	res = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = res.Value.(string)
	record("timezone", res)

	res = config.LoadEnvDuration("INGEST_RUN_TIMEOUT", cfg.RunTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Minute, 4*time.Hour)
	})
	cfg.RunTimeout = res.Value.(time.Duration)
	record("run_timeout", res)

	res = config.LoadEnvBool("INGEST_RUN_ON_START", cfg.RunOnStart)
	cfg.RunOnStart = res.Value.(bool)
	record("run_on_start", res)

	res = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = res.Value.(int)
	record("health_port", res)

	if metrics != nil {
		metrics.SetFallbackActive("", fallbackApplied)
		metrics.RecordLoadTimestamp()
	}
	return cfg
}
