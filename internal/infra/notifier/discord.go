package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DiscordConfig configures the Discord webhook notifier.
type DiscordConfig struct {
	Enabled bool

	// WebhookURL includes the webhook token and must never be logged.
	WebhookURL string

	Timeout time.Duration

	// RetryDelay is the base backoff after a 5xx or network error.
	// Zero means 5s.
	RetryDelay time.Duration
}

// DiscordNotifier posts digests as Discord embeds.
type DiscordNotifier struct {
	config      DiscordConfig
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// NewDiscordNotifier creates a notifier limited to 0.5 req/s with a burst
// of 3 (Discord allows 30 webhook requests per minute).
func NewDiscordNotifier(config DiscordConfig) *DiscordNotifier {
	if config.RetryDelay <= 0 {
		config.RetryDelay = defaultRetryDelay
	}
	return &DiscordNotifier{
		config:      config,
		httpClient:  &http.Client{Timeout: config.Timeout},
		rateLimiter: NewRateLimiter(0.5, 3),
	}
}

// DiscordWebhookPayload is the JSON body of a webhook call.
type DiscordWebhookPayload struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

// DiscordEmbed is one embed of a webhook message.
type DiscordEmbed struct {
	Title       string             `json:"title,omitempty"`
	Description string             `json:"description"`
	Color       int                `json:"color"`
	Footer      DiscordEmbedFooter `json:"footer"`
	Timestamp   string             `json:"timestamp,omitempty"`
}

type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

// DiscordErrorResponse is the body of a 429 answer.
type DiscordErrorResponse struct {
	Message    string  `json:"message"`
	Code       int     `json:"code"`
	RetryAfter float64 `json:"retry_after"` // seconds
}

const (
	maxTitleLength       = 256
	maxDescriptionLength = 4096
	maxEmbedsPerMessage  = 10

	discordBlueColor = 5793266 // #5865F2
)

// buildPayloads splits the digest body into embeds, at most ten per
// webhook call. Only the first embed carries the title.
func (d *DiscordNotifier) buildPayloads(msg Message, now time.Time) []DiscordWebhookPayload {
	chunks := splitLines(msg.Body, maxDescriptionLength)
	if len(chunks) == 0 {
		chunks = []string{"-"}
	}

	var (
		payloads []DiscordWebhookPayload
		embeds   []DiscordEmbed
	)
	for i, c := range chunks {
		e := DiscordEmbed{
			Description: c,
			Color:       discordBlueColor,
			Footer:      DiscordEmbedFooter{Text: msg.Day},
		}
		if i == 0 {
			e.Title = truncateRunes(msg.Title, maxTitleLength, "...")
		}
		if i == len(chunks)-1 {
			e.Timestamp = now.UTC().Format(time.RFC3339)
		}
		embeds = append(embeds, e)
		if len(embeds) == maxEmbedsPerMessage {
			payloads = append(payloads, DiscordWebhookPayload{Embeds: embeds})
			embeds = nil
		}
	}
	if len(embeds) > 0 {
		payloads = append(payloads, DiscordWebhookPayload{Embeds: embeds})
	}
	return payloads
}

// discordRetryAfter prefers retry_after from the JSON body, then the
// Retry-After header.
func discordRetryAfter(resp *http.Response, body []byte) time.Duration {
	var e DiscordErrorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.RetryAfter > 0 {
		return time.Duration(e.RetryAfter * float64(time.Second))
	}
	return retryAfterHeader(resp)
}

// Notify posts msg, splitting it over several webhook calls when needed.
func (d *DiscordNotifier) Notify(ctx context.Context, msg Message) error {
	requestID := uuid.New().String()
	ctx = context.WithValue(ctx, requestIDKey, requestID)

	payloads := d.buildPayloads(msg, time.Now())
	slog.Info("starting Discord notification",
		slog.String("request_id", requestID),
		slog.String("day", msg.Day),
		slog.Int("requests", len(payloads)))

	for i, p := range payloads {
		if err := d.rateLimiter.Allow(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}
		err := sendWithRetry(ctx, "Discord", defaultMaxAttempts, d.config.RetryDelay, func(ctx context.Context) error {
			return postJSON(ctx, d.httpClient, d.config.WebhookURL, "Discord", p, discordRetryAfter)
		})
		if err != nil {
			return fmt.Errorf("discord part %d/%d: %w", i+1, len(payloads), err)
		}
	}
	return nil
}
