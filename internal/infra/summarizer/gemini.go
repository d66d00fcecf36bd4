package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-flash"

// Gemini summarizes with Google's Generative AI API.
type Gemini struct {
	*client
	api *genai.Client
}

// NewGemini creates a Gemini summarizer. Close releases the API client.
func NewGemini(ctx context.Context, apiKey string, cfg Config, opts ...option.ClientOption) (*Gemini, error) {
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	api, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	g := &Gemini{api: api}
	g.client = newClient(ProviderGemini, cfg, g.complete)
	return g, nil
}

// Close closes the underlying client.
func (g *Gemini) Close() error {
	return g.api.Close()
}

func (g *Gemini) complete(ctx context.Context, prompt string) (string, error) {
	model := g.api.GenerativeModel(g.cfg.Model)
	model.SetMaxOutputTokens(int32(g.cfg.MaxTokens))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return strings.TrimSpace(b.String()), nil
}
