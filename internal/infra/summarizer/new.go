package summarizer

import (
	"context"
	"log/slog"

	"rasad-feed/internal/usecase/summary"
)

// New returns the summarizer cfg selects. With no explicit provider the
// first one with credentials wins, in the order Claude, OpenAI, Gemini.
// A provider without its key, or a Gemini client that cannot be created,
// degrades to NoOp.
func New(ctx context.Context, cfg Config) summary.Summarizer {
	provider := cfg.Provider
	if provider == "" {
		switch {
		case cfg.ClaudeAPIKey != "":
			provider = ProviderClaude
		case cfg.OpenAIAPIKey != "":
			provider = ProviderOpenAI
		case cfg.GeminiAPIKey != "":
			provider = ProviderGemini
		default:
			provider = ProviderNoop
		}
	}

	var s summary.Summarizer
	switch provider {
	case ProviderClaude:
		if cfg.ClaudeAPIKey != "" {
			s = NewClaude(cfg.ClaudeAPIKey, cfg)
		}
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey != "" {
			s = NewOpenAI(cfg.OpenAIAPIKey, "", cfg)
		}
	case ProviderGemini:
		if cfg.GeminiAPIKey != "" {
			g, err := NewGemini(ctx, cfg.GeminiAPIKey, cfg)
			if err != nil {
				slog.Warn("gemini summarizer unavailable", slog.Any("error", err))
			} else {
				s = g
			}
		}
	}
	if s == nil {
		slog.Info("external summarizer disabled", slog.String("provider", provider))
		return NewNoOp()
	}

	slog.Info("Initialized summarizer",
		slog.String("provider", provider),
		slog.Int("character_limit", cfg.CharacterLimit))
	return s
}

var (
	_ summary.Summarizer = (*Claude)(nil)
	_ summary.Summarizer = (*OpenAI)(nil)
	_ summary.Summarizer = (*Gemini)(nil)
	_ summary.Summarizer = (*NoOp)(nil)
)
