package ingest

import (
	"fmt"
	"log/slog"

	"rasad-feed/internal/pkg/config"
	"rasad-feed/internal/utils/text"
)

// Config bounds the run's concurrency and sets the duplicate threshold.
type Config struct {
	// MaxConcurrentSources is the number of sources ingested at once.
	MaxConcurrentSources int
	// MaxConcurrentItems is the number of candidates of one source
	// summarized at once.
	MaxConcurrentItems int
	// SimilarityThreshold is the ratio from which two titles are the same story.
	SimilarityThreshold float64
}

// DefaultConfig returns the defaults.
func DefaultConfig() Config {
	return Config{
		MaxConcurrentSources: 5,
		MaxConcurrentItems:   4,
		SimilarityThreshold:  text.DefaultThreshold,
	}
}

func validateThreshold(v float64) error {
	if v <= 0 || v > 1 {
		return fmt.Errorf("threshold %v out of range (0, 1]", v)
	}
	return nil
}

// LoadConfigFromEnv reads INGEST_* variables with fallback to defaults;
// metrics may be nil.
//
// Environment variables:
//   - INGEST_MAX_CONCURRENT_SOURCES: 1-20 (default: 5)
//   - INGEST_MAX_CONCURRENT_ITEMS: 1-20 (default: 4)
//   - INGEST_SIMILARITY_THRESHOLD: (0, 1] (default: 0.8)
func LoadConfigFromEnv(logger *slog.Logger, metrics *config.ConfigMetrics) Config {
	cfg := DefaultConfig()
	fallbackApplied := false

	warn := func(field string, res config.ConfigLoadResult) {
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

	res := config.LoadEnvInt("INGEST_MAX_CONCURRENT_SOURCES", cfg.MaxConcurrentSources, func(v int) error {
		return config.ValidateIntRange(v, 1, 20)
	})
	cfg.MaxConcurrentSources = res.Value.(int)
	warn("ingest_max_concurrent_sources", res)

	res = config.LoadEnvInt("INGEST_MAX_CONCURRENT_ITEMS", cfg.MaxConcurrentItems, func(v int) error {
		return config.ValidateIntRange(v, 1, 20)
	})
	cfg.MaxConcurrentItems = res.Value.(int)
	warn("ingest_max_concurrent_items", res)

	res = config.LoadEnvFloat("INGEST_SIMILARITY_THRESHOLD", cfg.SimilarityThreshold, validateThreshold)
	cfg.SimilarityThreshold = res.Value.(float64)
	warn("ingest_similarity_threshold", res)

	if metrics != nil {
		metrics.SetFallbackActive("", fallbackApplied)
		metrics.RecordLoadTimestamp()
	}
	return cfg
}
