package summarizer

import (
	"fmt"
	"log/slog"
	"time"

	"rasad-feed/internal/pkg/config"
)

// Provider names accepted by SUMMARIZER_PROVIDER.
const (
	ProviderClaude = "claude"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNoop   = "noop"
)

const (
	// minCharLimit is the minimum allowed character limit for summaries.
	minCharLimit = 100

	// maxCharLimit is the maximum allowed character limit for summaries.
	maxCharLimit = 5000

	// maxInputRunes bounds the article text sent to a provider.
	maxInputRunes = 10000
)

// Config holds the settings shared by every provider.
type Config struct {
	// Provider selects the adapter. Empty picks the first provider whose
	// credentials are present.
	Provider string

	// CharacterLimit is the summary length requested in the prompt.
	// Loaded from SUMMARIZER_CHAR_LIMIT. Valid range: 100-5000. Default: 600.
	CharacterLimit int

	// Model overrides the provider's default model.
	Model string

	// MaxTokens is the maximum number of tokens for the API response.
	MaxTokens int

	// Timeout bounds one Summarize call including retries.
	Timeout time.Duration

	// Credentials. A provider without its key is never selected.
	ClaudeAPIKey string
	OpenAIAPIKey string
	GeminiAPIKey string
}

// DefaultConfig returns the defaults without credentials.
func DefaultConfig() Config {
	return Config{
		CharacterLimit: 600,
		MaxTokens:      1024,
		Timeout:        60 * time.Second,
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := ValidateCharacterLimit(c.CharacterLimit); err != nil {
		return fmt.Errorf("invalid character limit: %w", err)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	switch c.Provider {
	case "", ProviderClaude, ProviderOpenAI, ProviderGemini, ProviderNoop:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	return nil
}

// ValidateCharacterLimit validates that the character limit is within the valid range (100-5000).
//
// Example:
//
//	err := ValidateCharacterLimit(900)  // nil (valid)
//	err := ValidateCharacterLimit(50)   // error: "character limit 50 is below minimum 100"
func ValidateCharacterLimit(limit int) error {
	if limit < minCharLimit {
		return fmt.Errorf("character limit %d is below minimum %d", limit, minCharLimit)
	}
	if limit > maxCharLimit {
		return fmt.Errorf("character limit %d exceeds maximum %d", limit, maxCharLimit)
	}
	return nil
}

func validateProvider(p string) error {
	switch p {
	case ProviderClaude, ProviderOpenAI, ProviderGemini, ProviderNoop:
		return nil
	}
	return fmt.Errorf("unknown provider %q", p)
}

// LoadConfigFromEnv loads the summarizer configuration.
//
// Environment variables:
//   - SUMMARIZER_PROVIDER: claude, openai, gemini or noop
//   - SUMMARIZER_CHAR_LIMIT: Character limit (default: 600, range: 100-5000)
//   - SUMMARIZER_MODEL: model override
//   - SUMMARIZER_TIMEOUT: duration (default: 60s)
//   - ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY
//
// Invalid values fall back to defaults with a warning; metrics may be nil.
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

	res := config.LoadEnvWithFallback("SUMMARIZER_PROVIDER", "", validateProvider)
	cfg.Provider = res.Value.(string)
	warn("summarizer_provider", res)

	res = config.LoadEnvInt("SUMMARIZER_CHAR_LIMIT", cfg.CharacterLimit, ValidateCharacterLimit)
	cfg.CharacterLimit = res.Value.(int)
	warn("summarizer_char_limit", res)

	res = config.LoadEnvDuration("SUMMARIZER_TIMEOUT", cfg.Timeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 5*time.Second, 5*time.Minute)
	})
	cfg.Timeout = res.Value.(time.Duration)
	warn("summarizer_timeout", res)

	cfg.Model = config.LoadEnvString("SUMMARIZER_MODEL", "")
	cfg.ClaudeAPIKey = config.LoadEnvString("ANTHROPIC_API_KEY", "")
	cfg.OpenAIAPIKey = config.LoadEnvString("OPENAI_API_KEY", "")
	cfg.GeminiAPIKey = config.LoadEnvString("GEMINI_API_KEY", "")

	if metrics != nil {
		metrics.SetFallbackActive("", fallbackApplied)
		metrics.RecordLoadTimestamp()
	}
	return cfg
}
