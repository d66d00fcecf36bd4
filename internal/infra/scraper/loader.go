package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/resilience/circuitbreaker"
	"rasad-feed/internal/resilience/retry"
)

// DefaultUserAgent is sent by every loader. Several agency sites serve a
// stripped page to unknown clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

const defaultMaxBodySize = 10 * 1024 * 1024 // 10MB

// PageLoader returns the HTML of a listing page.
type PageLoader interface {
	Load(ctx context.Context, pageURL string, src entity.SourceConfig) ([]byte, error)
}

// LoaderConfig configures HTTPLoader.
type LoaderConfig struct {
	Timeout        time.Duration
	UserAgent      string
	MaxBodySize    int64
	DenyPrivateIPs bool
	// RequestsPerSecond and Burst bound requests per host.
	RequestsPerSecond float64
	Burst             int
}

// DefaultLoaderConfig returns production settings.
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		Timeout:           10 * time.Second,
		UserAgent:         DefaultUserAgent,
		MaxBodySize:       defaultMaxBodySize,
		DenyPrivateIPs:    true,
		RequestsPerSecond: 1,
		Burst:             2,
	}
}

// HTTPLoader fetches pages with net/http. Each agency has its own circuit
// breaker and each host its own rate limiter.
type HTTPLoader struct {
	client      *http.Client
	cfg         LoaderConfig
	breakers    *circuitbreaker.Set
	retryConfig retry.Config

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewHTTPLoader creates an HTTPLoader. A nil client gets one with cfg.Timeout.
func NewHTTPLoader(client *http.Client, cfg LoaderConfig) *HTTPLoader {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = defaultMaxBodySize
	}
	return &HTTPLoader{
		client:      client,
		cfg:         cfg,
		breakers:    circuitbreaker.NewSet(circuitbreaker.ScrapeConfig),
		retryConfig: retry.ScrapeConfig(),
		limiters:    make(map[string]*rate.Limiter),
	}
}

// WithRetryConfig overrides the retry policy. Used by tests.
func (l *HTTPLoader) WithRetryConfig(cfg retry.Config) *HTTPLoader {
	l.retryConfig = cfg
	return l
}

// Load fetches pageURL through retry and the agency's circuit breaker.
func (l *HTTPLoader) Load(ctx context.Context, pageURL string, src entity.SourceConfig) ([]byte, error) {
	if err := ValidateURL(pageURL, l.cfg.DenyPrivateIPs); err != nil {
		return nil, err
	}
	if src.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, src.Timeout)
		defer cancel()
	}

	cb := l.breakers.Get(src.Agency)
	var body []byte
	err := retry.WithBackoff(ctx, l.retryConfig, func() error {
		res, err := cb.Execute(func() (interface{}, error) {
			return l.get(ctx, pageURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("scrape circuit breaker open, request rejected",
					slog.String("agency", src.Agency),
					slog.String("url", pageURL),
					slog.String("state", cb.State().String()))
			}
			return err
		}
		body = res.([]byte)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (l *HTTPLoader) get(ctx context.Context, pageURL string) ([]byte, error) {
	if err := l.wait(ctx, pageURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", l.cfg.UserAgent)
	req.Header.Set("Accept-Language", "fa,en;q=0.8")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status: %s", resp.Status),
		}
	}
	return readLimited(resp.Body, l.cfg.MaxBodySize)
}

// wait blocks until the host's limiter admits one more request.
func (l *HTTPLoader) wait(ctx context.Context, pageURL string) error {
	if l.cfg.RequestsPerSecond <= 0 {
		return nil
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	l.mu.Lock()
	lim, ok := l.limiters[u.Host]
	if !ok {
		burst := l.cfg.Burst
		if burst < 1 {
			burst = 1
		}
		lim = rate.NewLimiter(rate.Limit(l.cfg.RequestsPerSecond), burst)
		l.limiters[u.Host] = lim
	}
	l.mu.Unlock()

	return lim.Wait(ctx)
}

// readLimited reads at most limit bytes and fails with ErrBodyTooLarge
// when there is more.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrBodyTooLarge, limit)
	}
	return b, nil
}
