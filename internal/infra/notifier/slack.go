package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// SlackConfig configures the Slack Incoming Webhook notifier.
type SlackConfig struct {
	Enabled bool

	// WebhookURL includes the webhook token and must never be logged.
	WebhookURL string

	Timeout    time.Duration
	RetryDelay time.Duration
}

// SlackNotifier posts digests with Block Kit.
type SlackNotifier struct {
	config      SlackConfig
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// NewSlackNotifier creates a notifier limited to one request per second.
func NewSlackNotifier(config SlackConfig) *SlackNotifier {
	if config.RetryDelay <= 0 {
		config.RetryDelay = defaultRetryDelay
	}
	return &SlackNotifier{
		config:      config,
		httpClient:  &http.Client{Timeout: config.Timeout},
		rateLimiter: NewRateLimiter(1.0, 1),
	}
}

// SlackWebhookPayload is the JSON body of a webhook call.
type SlackWebhookPayload struct {
	Text   string       `json:"text"`
	Blocks []SlackBlock `json:"blocks"`
}

// SlackBlock is a Block Kit block.
type SlackBlock struct {
	Type     string            `json:"type"`
	Text     *SlackTextObject  `json:"text,omitempty"`
	Elements []SlackTextObject `json:"elements,omitempty"`
}

// SlackTextObject is a Block Kit text object.
type SlackTextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

const (
	maxHeaderTextLength  = 150
	maxSectionTextLength = 3000
	maxBlocksPerMessage  = 50
	maxFallbackLength    = 150
)

// buildPayloads lays the body out as section blocks. The first call gets a
// header block and every call ends with a context block naming the day.
func (s *SlackNotifier) buildPayloads(msg Message) []SlackWebhookPayload {
	chunks := splitLines(msg.Body, maxSectionTextLength)
	fallback := truncateRunes(msg.Title, maxFallbackLength, "...")
	footer := SlackBlock{
		Type:     "context",
		Elements: []SlackTextObject{{Type: "mrkdwn", Text: msg.Day}},
	}

	var (
		payloads []SlackWebhookPayload
		blocks   = []SlackBlock{{
			Type: "header",
			Text: &SlackTextObject{Type: "plain_text", Text: truncateRunes(msg.Title, maxHeaderTextLength, "...")},
		}}
	)
	for _, c := range chunks {
		// context ブロック分を空けておく
		if len(blocks) == maxBlocksPerMessage-1 {
			payloads = append(payloads, SlackWebhookPayload{Text: fallback, Blocks: append(blocks, footer)})
			blocks = nil
		}
		blocks = append(blocks, SlackBlock{Type: "section", Text: &SlackTextObject{Type: "plain_text", Text: c}})
	}
	return append(payloads, SlackWebhookPayload{Text: fallback, Blocks: append(blocks, footer)})
}

func slackRetryAfter(resp *http.Response, _ []byte) time.Duration {
	return retryAfterHeader(resp)
}

// Notify posts msg, splitting it over several webhook calls when needed.
func (s *SlackNotifier) Notify(ctx context.Context, msg Message) error {
	requestID := uuid.New().String()
	ctx = context.WithValue(ctx, requestIDKey, requestID)

	payloads := s.buildPayloads(msg)
	slog.Info("starting Slack notification",
		slog.String("request_id", requestID),
		slog.String("day", msg.Day),
		slog.Int("requests", len(payloads)))

	for i, p := range payloads {
		if err := s.rateLimiter.Allow(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}
		err := sendWithRetry(ctx, "Slack", defaultMaxAttempts, s.config.RetryDelay, func(ctx context.Context) error {
			return postJSON(ctx, s.httpClient, s.config.WebhookURL, "Slack", p, slackRetryAfter)
		})
		if err != nil {
			return fmt.Errorf("slack part %d/%d: %w", i+1, len(payloads), err)
		}
	}
	return nil
}
