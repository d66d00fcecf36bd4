package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

type contextKey string

const requestIDKey contextKey = "request_id"

const (
	defaultMaxAttempts = 2
	defaultRetryDelay  = 5 * time.Second
	defaultRetryAfter  = 5 * time.Second
)

// RateLimitError is a 429 answer from a webhook.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (retry after %v)", e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("rate limit exceeded (retry after %v)", e.RetryAfter)
}

// ClientError is a 4xx answer other than 429. It is not retried.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string { return e.Message }

// ServerError is a 5xx answer.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string { return e.Message }

func is429Error(err error) (*RateLimitError, bool) {
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return rl, true
	}
	return nil, false
}

// isRetryableError reports whether err is a server or network failure.
func isRetryableError(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return false
	}
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// postJSON sends payload to url and maps the status code onto the error
// types above. retryAfter parses the 429 body of the given service.
func postJSON(ctx context.Context, client *http.Client, url, service string, payload any, retryAfter func(*http.Response, []byte) time.Duration) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{Message: service + " rate limit exceeded", RetryAfter: retryAfter(resp, body)}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ClientError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("%s API client error: %s", service, string(body))}
	case resp.StatusCode >= 500:
		return &ServerError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("%s API server error: %s", service, string(body))}
	}
	return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
}

// retryAfterHeader reads Retry-After in seconds, or the default.
func retryAfterHeader(resp *http.Response) time.Duration {
	if h := resp.Header.Get("Retry-After"); h != "" {
		if s, err := strconv.Atoi(h); err == nil && s > 0 {
			return time.Duration(s) * time.Second
		}
	}
	return defaultRetryAfter
}

// sendWithRetry calls send up to maxAttempts times. A 429 sleeps for the
// advertised delay and does not count against the attempts' backoff; 4xx
// fails immediately; other errors back off linearly from delay.
func sendWithRetry(ctx context.Context, service string, maxAttempts int, delay time.Duration, send func(context.Context) error) error {
	requestID, _ := ctx.Value(requestIDKey).(string)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := send(ctx)
		if err == nil {
			slog.Info(service+" notification sent",
				slog.String("request_id", requestID),
				slog.Int("attempt", attempt))
			return nil
		}
		lastErr = err

		if rl, ok := is429Error(err); ok {
			slog.Warn(service+" rate limit hit, backing off",
				slog.String("request_id", requestID),
				slog.Duration("retry_after", rl.RetryAfter),
				slog.Int("attempt", attempt))
			if werr := sleep(ctx, rl.RetryAfter); werr != nil {
				return fmt.Errorf("context canceled during rate limit backoff: %w", werr)
			}
			continue
		}
		if !isRetryableError(err) {
			slog.Error(service+" notification failed with non-retryable error",
				slog.String("request_id", requestID),
				slog.Any("error", err),
				slog.Int("attempt", attempt))
			return err
		}
		if attempt < maxAttempts {
			wait := delay * time.Duration(attempt)
			slog.Warn(service+" request failed, retrying",
				slog.String("request_id", requestID),
				slog.Any("error", err),
				slog.Int("attempt", attempt),
				slog.Duration("delay", wait))
			if werr := sleep(ctx, wait); werr != nil {
				return fmt.Errorf("context canceled during retry backoff: %w", werr)
			}
		}
	}
	return fmt.Errorf("%s notification failed after %d attempts: %w", strings.ToLower(service), maxAttempts, lastErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// splitLines packs the lines of text into chunks of at most maxRunes runes.
// A single line longer than maxRunes is cut into pieces.
func splitLines(text string, maxRunes int) []string {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}

	var (
		chunks []string
		cur    strings.Builder
		n      int
	)
	flush := func() {
		if n > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			n = 0
		}
	}
	for _, line := range strings.Split(text, "\n") {
		for utf8.RuneCountInString(line) > maxRunes {
			flush()
			r := []rune(line)
			chunks = append(chunks, string(r[:maxRunes]))
			line = string(r[maxRunes:])
		}
		ln := utf8.RuneCountInString(line)
		sep := 0
		if n > 0 {
			sep = 1
		}
		if n+sep+ln > maxRunes {
			flush()
			sep = 0
		}
		if sep == 1 {
			cur.WriteByte('\n')
		}
		cur.WriteString(line)
		// チャンク先頭の空行は n が 0 のまま捨てられる
		n += sep + ln
	}
	flush()
	return chunks
}

// truncateRunes cuts s to max runes, ending with suffix when cut.
func truncateRunes(s string, max int, suffix string) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	keep := max - utf8.RuneCountInString(suffix)
	if keep < 0 {
		keep = 0
	}
	return string(r[:keep]) + suffix
}
