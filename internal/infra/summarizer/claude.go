package summarizer

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"rasad-feed/internal/resilience/retry"
)

// Claude summarizes with Anthropic's Messages API.
type Claude struct {
	*client
	api anthropic.Client
}

// NewClaude creates a Claude summarizer. Extra request options (base URL,
// HTTP client) are passed through to the SDK.
func NewClaude(apiKey string, cfg Config, opts ...option.RequestOption) *Claude {
	if cfg.Model == "" {
		cfg.Model = "claude-sonnet-4-5-20250929" // anthropic.ModelClaudeSonnet4_5_20250929 (not in SDK v1.9.0)
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	c := &Claude{api: anthropic.NewClient(opts...)}
	c.client = newClient(ProviderClaude, cfg, c.complete)
	return c
}

// WithRetryConfig overrides the retry policy. Used by tests.
func (c *Claude) WithRetryConfig(cfg retry.Config) *Claude {
	c.retryConfig = cfg
	return c
}

func (c *Claude) complete(ctx context.Context, prompt string) (string, error) {
	message, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.cfg.Model),
		MaxTokens: int64(c.cfg.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}
	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			return tb.Text, nil
		}
	}
	return "", ErrEmptyResponse
}
