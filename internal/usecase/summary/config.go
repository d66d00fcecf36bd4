package summary

import (
	"fmt"
	"log/slog"
	"time"

	"rasad-feed/internal/pkg/config"
)

// Config bounds every strategy of the chain.
type Config struct {
	// LeadMin and LeadMax bound an acceptable lead, in runes.
	LeadMin int
	LeadMax int

	// Paragraphs is how many main-content paragraphs the extractive step keeps.
	Paragraphs   int
	ParagraphMin int
	ParagraphMax int
	// ExtractiveMax caps the joined extractive summary.
	ExtractiveMax int

	// MaxWords and MaxRunes cap the external summarizer output.
	MaxWords int
	MaxRunes int

	// FallbackRunes is the hard cut applied to raw text when the external
	// summarizer is missing or fails.
	FallbackRunes int

	// ArticleTimeout bounds loading one article page.
	ArticleTimeout time.Duration
}

// DefaultConfig returns the chain defaults.
func DefaultConfig() Config {
	return Config{
		LeadMin:        50,
		LeadMax:        300,
		Paragraphs:     4,
		ParagraphMin:   30,
		ParagraphMax:   1000,
		ExtractiveMax:  2000,
		MaxWords:       200,
		MaxRunes:       1500,
		FallbackRunes:  500,
		ArticleTimeout: 15 * time.Second,
	}
}

// Validate checks the ranges the chain relies on.
func (c Config) Validate() error {
	if err := config.ValidateIntRange(c.Paragraphs, 3, 5); err != nil {
		return fmt.Errorf("paragraphs: %w", err)
	}
	if c.LeadMin <= 0 || c.LeadMax < c.LeadMin {
		return fmt.Errorf("lead bounds: invalid range %d..%d", c.LeadMin, c.LeadMax)
	}
	if c.ParagraphMin <= 0 || c.ParagraphMax < c.ParagraphMin {
		return fmt.Errorf("paragraph bounds: invalid range %d..%d", c.ParagraphMin, c.ParagraphMax)
	}
	if c.ExtractiveMax <= 0 || c.MaxWords <= 0 || c.MaxRunes <= 0 || c.FallbackRunes <= 0 {
		return fmt.Errorf("limits must be positive")
	}
	if err := config.ValidatePositiveDuration(c.ArticleTimeout); err != nil {
		return fmt.Errorf("article timeout: %w", err)
	}
	return nil
}

// LoadConfigFromEnv reads SUMMARY_* variables. Invalid values fall back to
// the defaults with a warning; metrics may be nil.
func LoadConfigFromEnv(logger *slog.Logger, metrics *config.ConfigMetrics) Config {
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

	res := config.LoadEnvInt("SUMMARY_PARAGRAPHS", cfg.Paragraphs, func(v int) error {
		return config.ValidateIntRange(v, 3, 5)
	})
	cfg.Paragraphs = res.Value.(int)
	record("summary_paragraphs", res)

	res = config.LoadEnvInt("SUMMARY_MAX_WORDS", cfg.MaxWords, func(v int) error {
		return config.ValidateIntRange(v, 20, 1000)
	})
	cfg.MaxWords = res.Value.(int)
	record("summary_max_words", res)

	res = config.LoadEnvInt("SUMMARY_MAX_RUNES", cfg.MaxRunes, func(v int) error {
		return config.ValidateIntRange(v, 100, 10000)
	})
	cfg.MaxRunes = res.Value.(int)
	record("summary_max_runes", res)

	res = config.LoadEnvInt("SUMMARY_FALLBACK_RUNES", cfg.FallbackRunes, func(v int) error {
		return config.ValidateIntRange(v, 50, 5000)
	})
	cfg.FallbackRunes = res.Value.(int)
	record("summary_fallback_runes", res)

	res = config.LoadEnvDuration("SUMMARY_ARTICLE_TIMEOUT", cfg.ArticleTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Second, 2*time.Minute)
	})
	cfg.ArticleTimeout = res.Value.(time.Duration)
	record("summary_article_timeout", res)

	if metrics != nil {
		metrics.SetFallbackActive("", fallbackApplied)
		metrics.RecordLoadTimestamp()
	}
	return cfg
}
