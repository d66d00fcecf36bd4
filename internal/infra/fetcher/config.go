package fetcher

import (
	"fmt"
	"log/slog"
	"time"

	"rasad-feed/internal/infra/scraper"
	"rasad-feed/internal/pkg/config"
)

// ArticleFetchConfig controls article page loading.
//
// Security settings:
//   - DenyPrivateIPs: rejects hosts resolving to private addresses
//   - MaxBodySize: rejects oversized pages while reading
//   - MaxRedirects: every redirect target is validated as well
type ArticleFetchConfig struct {
	// Timeout bounds one HTTP request. The summary chain applies its own
	// per-article timeout on top.
	// Default: 10s
	Timeout time.Duration

	// MaxBodySize is the largest accepted page in bytes.
	// Default: 10485760 (10MB)
	MaxBodySize int64

	// MaxRedirects is the number of redirects followed.
	// Default: 5
	MaxRedirects int

	// DenyPrivateIPs should stay true in production.
	// Default: true
	DenyPrivateIPs bool

	UserAgent string
}

// DefaultConfig returns the production configuration.
func DefaultConfig() ArticleFetchConfig {
	return ArticleFetchConfig{
		Timeout:        10 * time.Second,
		MaxBodySize:    10 * 1024 * 1024,
		MaxRedirects:   5,
		DenyPrivateIPs: true,
		UserAgent:      scraper.DefaultUserAgent,
	}
}

// Validate checks the configuration ranges.
func (c *ArticleFetchConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	minBodySize := int64(1024)
	maxBodySize := int64(100 * 1024 * 1024)
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}
	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}
	return nil
}

// LoadConfigFromEnv loads ARTICLE_FETCH_* variables. Invalid values fall
// back to defaults with a warning; metrics may be nil.
//
// Environment variables:
//   - ARTICLE_FETCH_TIMEOUT: duration string (default: 10s)
//   - ARTICLE_FETCH_MAX_BODY_SIZE: bytes (default: 10485760)
//   - ARTICLE_FETCH_MAX_REDIRECTS: integer (default: 5)
//   - ARTICLE_FETCH_DENY_PRIVATE_IPS: "true" or "false" (default: true)
func LoadConfigFromEnv(logger *slog.Logger, metrics *config.ConfigMetrics) ArticleFetchConfig {
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

	res := config.LoadEnvDuration("ARTICLE_FETCH_TIMEOUT", cfg.Timeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Second, time.Minute)
	})
	cfg.Timeout = res.Value.(time.Duration)
	warn("article_fetch_timeout", res)

	res = config.LoadEnvInt("ARTICLE_FETCH_MAX_BODY_SIZE", int(cfg.MaxBodySize), func(v int) error {
		return config.ValidateIntRange(v, 1024, 100*1024*1024)
	})
	cfg.MaxBodySize = int64(res.Value.(int))
	warn("article_fetch_max_body_size", res)

	res = config.LoadEnvInt("ARTICLE_FETCH_MAX_REDIRECTS", cfg.MaxRedirects, func(v int) error {
		return config.ValidateIntRange(v, 0, 10)
	})
	cfg.MaxRedirects = res.Value.(int)
	warn("article_fetch_max_redirects", res)

	res = config.LoadEnvBool("ARTICLE_FETCH_DENY_PRIVATE_IPS", cfg.DenyPrivateIPs)
	cfg.DenyPrivateIPs = res.Value.(bool)
	warn("article_fetch_deny_private_ips", res)

	if metrics != nil {
		metrics.SetFallbackActive("", fallbackApplied)
		metrics.RecordLoadTimestamp()
	}
	return cfg
}
