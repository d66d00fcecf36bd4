package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/resilience/circuitbreaker"
	"rasad-feed/internal/resilience/retry"
)

// FeedExtractor lists candidates from an RSS or Atom feed.
type FeedExtractor struct {
	client         *http.Client
	breakers       *circuitbreaker.Set
	retryConfig    retry.Config
	userAgent      string
	denyPrivateIPs bool
}

// NewFeedExtractor creates a FeedExtractor with the given HTTP client.
func NewFeedExtractor(client *http.Client, denyPrivateIPs bool) *FeedExtractor {
	return &FeedExtractor{
		client:         client,
		breakers:       circuitbreaker.NewSet(circuitbreaker.ScrapeConfig),
		retryConfig:    retry.ScrapeConfig(),
		userAgent:      DefaultUserAgent,
		denyPrivateIPs: denyPrivateIPs,
	}
}

// WithRetryConfig overrides the retry policy. Used by tests.
func (f *FeedExtractor) WithRetryConfig(cfg retry.Config) *FeedExtractor {
	f.retryConfig = cfg
	return f
}

func (f *FeedExtractor) ListCandidates(ctx context.Context, src entity.SourceConfig) ([]entity.CandidateItem, error) {
	if err := ValidateURL(src.FeedURL, f.denyPrivateIPs); err != nil {
		return nil, err
	}
	if src.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, src.Timeout)
		defer cancel()
	}

	cb := f.breakers.Get(src.Agency)
	var feed *gofeed.Feed
	err := retry.WithBackoff(ctx, f.retryConfig, func() error {
		res, err := cb.Execute(func() (interface{}, error) {
			return f.parse(ctx, src.FeedURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("feed circuit breaker open, request rejected",
					slog.String("agency", src.Agency),
					slog.String("url", src.FeedURL))
			}
			return err
		}
		feed = res.(*gofeed.Feed)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 相対リンクは BaseURL 基準で解決する
	base := baseURL(src.BaseURL, feed.Link, src.FeedURL)
	c := newCollector(src.Limit, src.MinTitleLength)
	for _, it := range feed.Items {
		if c.full() {
			break
		}
		cand := entity.CandidateItem{
			Title: it.Title,
			URL:   resolveURL(base, it.Link),
			Lead:  plainText(it.Description),
		}
		switch {
		case it.PublishedParsed != nil:
			cand.PublishedAt = it.PublishedParsed
		case it.UpdatedParsed != nil:
			cand.PublishedAt = it.UpdatedParsed
		}
		c.add(cand)
	}
	return c.items, nil
}

func (f *FeedExtractor) parse(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = f.userAgent
	fp.Client = f.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &retry.HTTPError{StatusCode: httpErr.StatusCode, Message: httpErr.Status}
		}
		return nil, err
	}
	return feed, nil
}

// plainText strips markup from a feed description.
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
