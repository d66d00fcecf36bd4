// Package fetcher loads article pages and reduces them to summary documents.
package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/infra/scraper"
	"rasad-feed/internal/observability/metrics"
	"rasad-feed/internal/resilience/circuitbreaker"
	"rasad-feed/internal/resilience/retry"
	"rasad-feed/internal/usecase/summary"
)

// ErrTooManyRedirects is returned when a page redirects more than allowed.
var ErrTooManyRedirects = errors.New("too many redirects")

// ArticleFetcher implements summary.DocumentFetcher over net/http.
//
// Features:
//   - URL and redirect validation against private addresses
//   - Per-host circuit breaker and retry with backoff
//   - Size limiting while reading the body
//
// Thread safety: ArticleFetcher is safe for concurrent use.
type ArticleFetcher struct {
	client      *http.Client
	cfg         ArticleFetchConfig
	breakers    *circuitbreaker.Set
	retryConfig retry.Config
}

// NewArticleFetcher creates an ArticleFetcher with its own HTTP client.
func NewArticleFetcher(cfg ArticleFetchConfig) *ArticleFetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = scraper.DefaultUserAgent
	}
	f := &ArticleFetcher{
		cfg:         cfg,
		breakers:    circuitbreaker.NewSet(circuitbreaker.ArticleConfig),
		retryConfig: retry.ArticleConfig(),
	}
	f.client = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= f.cfg.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := scraper.ValidateURL(req.URL.String(), f.cfg.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}
	return f
}

// WithRetryConfig overrides the retry policy. Used by tests.
func (f *ArticleFetcher) WithRetryConfig(cfg retry.Config) *ArticleFetcher {
	f.retryConfig = cfg
	return f
}

// Fetch loads pageURL and extracts its document using src's selectors.
func (f *ArticleFetcher) Fetch(ctx context.Context, pageURL string, src entity.SourceConfig) (*summary.Document, error) {
	start := time.Now()
	doc, err := f.fetch(ctx, pageURL, src)
	metrics.RecordArticleFetch(err == nil, time.Since(start))
	return doc, err
}

func (f *ArticleFetcher) fetch(ctx context.Context, pageURL string, src entity.SourceConfig) (*summary.Document, error) {
	if err := scraper.ValidateURL(pageURL, f.cfg.DenyPrivateIPs); err != nil {
		return nil, err
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", scraper.ErrInvalidURL, err)
	}

	cb := f.breakers.Get(u.Host)
	var page *fetchedPage
	err = retry.WithBackoff(ctx, f.retryConfig, func() error {
		res, err := cb.Execute(func() (interface{}, error) {
			return f.get(ctx, pageURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("article circuit breaker open, request rejected",
					slog.String("host", u.Host),
					slog.String("url", pageURL))
			}
			return err
		}
		page = res.(*fetchedPage)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch article: %w", err)
	}

	doc, err := ParseDocument(page.body, page.finalURL, src)
	if err != nil {
		return nil, fmt.Errorf("parse article: %w", err)
	}
	return doc, nil
}

type fetchedPage struct {
	body     []byte
	finalURL *url.URL
}

func (f *ArticleFetcher) get(ctx context.Context, pageURL string) (*fetchedPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", scraper.ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept-Language", "fa,en;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && !urlErr.Timeout() && urlErr.Err != nil {
			if errors.Is(urlErr.Err, ErrTooManyRedirects) ||
				errors.Is(urlErr.Err, scraper.ErrPrivateIP) ||
				errors.Is(urlErr.Err, scraper.ErrInvalidURL) {
				return nil, urlErr.Err
			}
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status: %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > f.cfg.MaxBodySize {
		return nil, fmt.Errorf("%w: response size exceeds limit %d bytes", scraper.ErrBodyTooLarge, f.cfg.MaxBodySize)
	}

	final := req.URL
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL
	}
	return &fetchedPage{body: body, finalURL: final}, nil
}

var _ summary.DocumentFetcher = (*ArticleFetcher)(nil)
