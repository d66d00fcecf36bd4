package summarizer

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"rasad-feed/internal/resilience/retry"
)

// OpenAI summarizes with the chat completions API.
type OpenAI struct {
	*client
	api *openai.Client
}

// NewOpenAI creates an OpenAI summarizer. baseURL may be empty.
func NewOpenAI(apiKey, baseURL string, cfg Config) *OpenAI {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	oc := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		oc.BaseURL = baseURL
	}
	o := &OpenAI{api: openai.NewClientWithConfig(oc)}
	o.client = newClient(ProviderOpenAI, cfg, o.complete)
	return o
}

// WithRetryConfig overrides the retry policy. Used by tests.
func (o *OpenAI) WithRetryConfig(cfg retry.Config) *OpenAI {
	o.retryConfig = cfg
	return o
}

func (o *OpenAI) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.cfg.Model,
		MaxTokens: o.cfg.MaxTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
