package main

import (
	"log/slog"
	"time"

	"rasad-feed/internal/common/pagination"
	"rasad-feed/internal/pkg/config"
)

type serverConfig struct {
	Addr            string
	Version         string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	Pagination      pagination.Config
}

// loadServerConfig reads the listener settings.
//
//   - API_ADDR (default ":8080")
//   - VERSION (default "dev")
//   - API_REQUEST_TIMEOUT: 1s-5m (default 30s)
//   - API_SHUTDOWN_TIMEOUT: 1s-2m (default 10s)
//   - PAGINATION_DEFAULT_LIMIT, PAGINATION_MAX_LIMIT (see pagination.LoadFromEnv)
func loadServerConfig(logger *slog.Logger, metrics *config.ConfigMetrics) serverConfig {
	cfg := serverConfig{
		Addr:            config.LoadEnvString("API_ADDR", ":8080"),
		Version:         config.LoadEnvString("VERSION", "dev"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
	fallback := false

	warn := func(field string, res config.ConfigLoadResult) {
		if !res.FallbackApplied {
			return
		}
		fallback = true
		metrics.RecordValidationError(field)
		metrics.RecordFallback(field, "default")
		for _, w := range res.Warnings {
			logger.Warn("Configuration fallback applied", slog.String("field", field), slog.String("warning", w))
		}
	}

	res := config.LoadEnvDuration("API_REQUEST_TIMEOUT", cfg.RequestTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Second, 5*time.Minute)
	})
	cfg.RequestTimeout = res.Value.(time.Duration)
	warn("api_request_timeout", res)

	res = config.LoadEnvDuration("API_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Second, 2*time.Minute)
	})
	cfg.ShutdownTimeout = res.Value.(time.Duration)
	warn("api_shutdown_timeout", res)

	cfg.Pagination = pagination.LoadFromEnv(logger, metrics)

	metrics.SetFallbackActive("", fallback)
	metrics.RecordLoadTimestamp()
	return cfg
}
