// Package pagination reads and bounds the ?limit= parameter of list
// endpoints.
package pagination

import (
	"log/slog"

	"rasad-feed/internal/pkg/config"
)

// Config bounds list sizes.
type Config struct {
	DefaultLimit int // used by GET /news when ?limit= is absent
	MaxLimit     int // larger requests are capped, not rejected
}

// DefaultConfig returns limit=50, max=500.
func DefaultConfig() Config {
	return Config{DefaultLimit: 50, MaxLimit: 500}
}

// LoadFromEnv reads PAGINATION_DEFAULT_LIMIT (1-1000) and
// PAGINATION_MAX_LIMIT (1-5000). Invalid values fall back to the defaults;
// a default above the maximum is lowered to it. metrics may be nil.
func LoadFromEnv(logger *slog.Logger, metrics *config.ConfigMetrics) Config {
	cfg := DefaultConfig()

	warn := func(field string, res config.ConfigLoadResult) {
		if !res.FallbackApplied {
			return
		}
		if metrics != nil {
			metrics.RecordValidationError(field)
			metrics.RecordFallback(field, "default")
		}
		for _, w := range res.Warnings {
			logger.Warn("Configuration fallback applied", slog.String("field", field), slog.String("warning", w))
		}
	}

	res := config.LoadEnvInt("PAGINATION_DEFAULT_LIMIT", cfg.DefaultLimit, func(v int) error {
		return config.ValidateIntRange(v, 1, 1000)
	})
	cfg.DefaultLimit = res.Value.(int)
	warn("pagination_default_limit", res)

	res = config.LoadEnvInt("PAGINATION_MAX_LIMIT", cfg.MaxLimit, func(v int) error {
		return config.ValidateIntRange(v, 1, 5000)
	})
	cfg.MaxLimit = res.Value.(int)
	warn("pagination_max_limit", res)

	if cfg.DefaultLimit > cfg.MaxLimit {
		logger.Warn("default limit above max limit, lowering it",
			slog.Int("default_limit", cfg.DefaultLimit),
			slog.Int("max_limit", cfg.MaxLimit))
		cfg.DefaultLimit = cfg.MaxLimit
	}
	return cfg
}
