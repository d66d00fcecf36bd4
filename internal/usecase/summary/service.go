package summary

import (
	"context"
	"log/slog"
	"time"

	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/observability/metrics"
)

// Service runs the strategy chain for one candidate at a time.
// It is safe for concurrent use.
type Service struct {
	fetcher    DocumentFetcher
	strategies []Strategy
	timeout    time.Duration
}

// NewService builds the default chain: lead, extractive, external, fallback.
// fetcher and summarizer may be nil.
func NewService(fetcher DocumentFetcher, summarizer Summarizer, cfg Config) *Service {
	return NewServiceWithStrategies(fetcher, cfg.ArticleTimeout,
		LeadStrategy(cfg),
		ExtractiveStrategy(cfg),
		ExternalStrategy(cfg, summarizer),
		FallbackStrategy(cfg),
	)
}

// NewServiceWithStrategies builds a Service with an explicit chain.
func NewServiceWithStrategies(fetcher DocumentFetcher, timeout time.Duration, strategies ...Strategy) *Service {
	return &Service{fetcher: fetcher, strategies: strategies, timeout: timeout}
}

// Strategies returns the chain's step names in order.
func (s *Service) Strategies() []string {
	names := make([]string, len(s.strategies))
	for i, st := range s.strategies {
		names[i] = st.Name
	}
	return names
}

// Extract returns the summary of item, or "" when every strategy declines.
// It never fails: a page that cannot be loaded leaves only the candidate's
// own lead to work with.
func (s *Service) Extract(ctx context.Context, src entity.SourceConfig, item entity.CandidateItem) string {
	doc := s.load(ctx, src, item)
	if doc.Lead == "" {
		doc.Lead = item.Lead
	}
	if doc.Title == "" {
		doc.Title = item.Title
	}

	for _, st := range s.strategies {
		if ctx.Err() != nil {
			break
		}
		if out, ok := st.Run(ctx, doc); ok {
			metrics.RecordSummaryStrategy(st.Name)
			return out
		}
	}
	metrics.RecordSummaryStrategy(StrategyNone)
	return ""
}

func (s *Service) load(ctx context.Context, src entity.SourceConfig, item entity.CandidateItem) *Document {
	if s.fetcher == nil || item.URL == "" {
		return &Document{}
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	doc, err := s.fetcher.Fetch(ctx, item.URL, src)
	if err != nil || doc == nil {
		slog.Debug("article load failed",
			slog.String("agency", src.Agency),
			slog.String("url", item.URL),
			slog.Any("error", err))
		return &Document{}
	}
	return doc
}
