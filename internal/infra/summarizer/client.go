// Package summarizer adapts external LLM APIs (Claude, OpenAI, Gemini) to
// summary.Summarizer, each behind retry and a circuit breaker.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"rasad-feed/internal/resilience/circuitbreaker"
	"rasad-feed/internal/resilience/retry"
	"rasad-feed/internal/utils/text"
)

// ErrEmptyResponse is returned when a provider answers without text.
var ErrEmptyResponse = errors.New("summarizer returned empty response")

// completeFunc sends one prompt to a provider and returns its text.
type completeFunc func(ctx context.Context, prompt string) (string, error)

// client holds what every provider shares: prompt building, retry, the
// breaker, logging and metrics. Providers only supply complete.
type client struct {
	provider       string
	complete       completeFunc
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	cfg            Config
	metrics        MetricsRecorder
}

func newClient(provider string, cfg Config, complete completeFunc) *client {
	return &client{
		provider:       provider,
		complete:       complete,
		circuitBreaker: circuitbreaker.New(circuitbreaker.SummarizerConfig(provider)),
		retryConfig:    retry.SummarizerConfig(),
		cfg:            cfg,
		metrics:        NewPrometheusMetrics(),
	}
}

// Summarize implements summary.Summarizer.
func (c *client) Summarize(ctx context.Context, content, title string) (string, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	var result string
	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doSummarize(ctx, content, title)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("summarizer circuit breaker open, request rejected",
					slog.String("service", c.circuitBreaker.Name()),
					slog.String("state", c.circuitBreaker.State().String()))
				return fmt.Errorf("%s api unavailable: circuit breaker open", c.provider)
			}
			return err
		}
		result = cbResult.(string)
		return nil
	})
	if retryErr != nil {
		return "", fmt.Errorf("%s summarize failed after retries: %w", c.provider, retryErr)
	}
	return result, nil
}

// buildPrompt asks for a Persian summary within the character limit.
func (c *client) buildPrompt(content, title string) string {
	return fmt.Sprintf("خبر زیر را به فارسی و حداکثر در %d نویسه خلاصه کن. فقط متن خلاصه را بنویس.\nعنوان: %s\n\n%s",
		c.cfg.CharacterLimit, title, content)
}

func (c *client) doSummarize(ctx context.Context, content, title string) (string, error) {
	requestID := uuid.New().String()

	input := content
	if text.CountRunes(content) > maxInputRunes {
		input = text.TruncateRunes(content, maxInputRunes, text.Ellipsis)
		slog.Warn("text truncated for summarizer",
			slog.String("provider", c.provider),
			slog.String("request_id", requestID),
			slog.Int("original_length", text.CountRunes(content)))
	}

	slog.DebugContext(ctx, "Starting summarization",
		slog.String("provider", c.provider),
		slog.String("request_id", requestID),
		slog.Int("input_length", text.CountRunes(input)))

	start := time.Now()
	out, err := c.complete(ctx, c.buildPrompt(input, title))
	duration := time.Since(start)
	c.metrics.RecordDuration(c.provider, duration)

	if err == nil && out == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		c.metrics.RecordRequest(c.provider, false)
		slog.ErrorContext(ctx, "Summarization failed",
			slog.String("provider", c.provider),
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return "", fmt.Errorf("%s api error: %w", c.provider, err)
	}
	c.metrics.RecordRequest(c.provider, true)

	length := text.CountRunes(out)
	c.metrics.RecordLength(length)
	if length > c.cfg.CharacterLimit {
		c.metrics.RecordLimitExceeded()
		slog.WarnContext(ctx, "Summary exceeds character limit",
			slog.String("provider", c.provider),
			slog.String("request_id", requestID),
			slog.Int("summary_length", length),
			slog.Int("limit", c.cfg.CharacterLimit))
	}

	slog.InfoContext(ctx, "Summarization completed",
		slog.String("provider", c.provider),
		slog.String("request_id", requestID),
		slog.Int("summary_length", length),
		slog.Duration("duration", duration))
	return out, nil
}
