package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/infra/lock"
	"rasad-feed/internal/observability/metrics"
	"rasad-feed/internal/observability/tracing"
	"rasad-feed/internal/repository"
	"rasad-feed/internal/utils/text"
)

// Failure stages reported in SourceResult.Stage and the source error metric.
const (
	StageList  = "list"
	StageLock  = "lock"
	StageStore = "store"
)

// Catalog is the source table.
type Catalog interface {
	Sources() []entity.SourceConfig
	Source(agency string) (entity.SourceConfig, error)
}

// SourceExtractor lists the candidate items of one source.
type SourceExtractor interface {
	ListCandidates(ctx context.Context, src entity.SourceConfig) ([]entity.CandidateItem, error)
}

// SummaryExtractor produces the summary of one candidate. It never fails;
// "" means no summary.
type SummaryExtractor interface {
	Extract(ctx context.Context, src entity.SourceConfig, item entity.CandidateItem) string
}

// SourceResult is the outcome of one source in a run.
type SourceResult struct {
	Agency     string        `json:"agency"`
	Candidates int           `json:"candidates"`
	Added      int           `json:"added"`
	Skipped    int           `json:"skipped"`
	Stage      string        `json:"stage,omitempty"`
	Err        error         `json:"-"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// RunReport summarizes a run. Sources keeps the order the run was given.
type RunReport struct {
	Sources  []SourceResult `json:"sources"`
	Added    int            `json:"added"`
	Skipped  int            `json:"skipped"`
	Failed   int            `json:"failed"`
	Duration time.Duration  `json:"duration"`
}

// Service runs ingestion. It is safe for concurrent use; concurrent runs
// for the same agency serialize on the locker.
type Service struct {
	repo      repository.NewsRepository
	catalog   Catalog
	extractor SourceExtractor
	summaries SummaryExtractor
	locker    lock.AgencyLocker
	cfg       Config
	now       func() time.Time
}

// NewService creates an ingest Service. summaries may be nil, in which
// case the candidate's own lead is kept. A nil locker gets a MemoryLocker.
func NewService(
	repo repository.NewsRepository,
	catalog Catalog,
	extractor SourceExtractor,
	summaries SummaryExtractor,
	locker lock.AgencyLocker,
	cfg Config,
) *Service {
	if locker == nil {
		locker = lock.NewMemoryLocker()
	}
	if cfg.MaxConcurrentSources < 1 {
		cfg.MaxConcurrentSources = 1
	}
	if cfg.MaxConcurrentItems < 1 {
		cfg.MaxConcurrentItems = 1
	}
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = text.DefaultThreshold
	}
	return &Service{
		repo:      repo,
		catalog:   catalog,
		extractor: extractor,
		summaries: summaries,
		locker:    locker,
		cfg:       cfg,
		now:       time.Now,
	}
}

// WithClock replaces time.Now. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Run ingests the given agencies, or every enabled source when none is
// given. Per-source failures are reported in the RunReport; an error is
// returned only when ctx is already done, an agency is unknown or the
// store does not answer the preflight ping.
func (s *Service) Run(ctx context.Context, agencies ...string) (*RunReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("ingest run: %w", err)
	}
	sources, err := s.selectSources(agencies)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	ctx, span := tracing.StartSpan(ctx, "ingest.Run", attribute.Int("ingest.sources", len(sources)))
	defer tracing.EndSpan(span, nil)

	logger := slog.Default()
	start := time.Now()
	report := &RunReport{Sources: make([]SourceResult, len(sources))}

	var g errgroup.Group
	g.SetLimit(s.cfg.MaxConcurrentSources)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				report.Sources[i] = SourceResult{Agency: src.Agency, Err: err, Error: err.Error()}
				return nil
			}
			report.Sources[i] = s.ingestSource(ctx, src)
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range report.Sources {
		report.Added += r.Added
		report.Skipped += r.Skipped
		if r.Err != nil {
			report.Failed++
		}
	}
	report.Duration = time.Since(start)
	metrics.RecordIngestRun(len(sources), report.Failed)
	s.refreshStoredGauge(ctx)

	logger.Info("ingest run completed",
		slog.Int("sources", len(sources)),
		slog.Int("added", report.Added),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
		slog.Duration("duration", report.Duration))

	return report, nil
}

func (s *Service) selectSources(agencies []string) ([]entity.SourceConfig, error) {
	if len(agencies) == 0 {
		srcs := s.catalog.Sources()
		if len(srcs) == 0 {
			return nil, ErrNoSources
		}
		return srcs, nil
	}
	srcs := make([]entity.SourceConfig, 0, len(agencies))
	for _, a := range agencies {
		src, err := s.catalog.Source(strings.TrimSpace(a))
		if err != nil {
			return nil, err
		}
		srcs = append(srcs, src)
	}
	return srcs, nil
}

// ingestSource never returns an error; failures land in the result.
func (s *Service) ingestSource(ctx context.Context, src entity.SourceConfig) (res SourceResult) {
	logger := slog.Default().With(slog.String("agency", src.Agency))
	start := time.Now()
	res.Agency = src.Agency

	ctx, span := tracing.StartSpan(ctx, "ingest.Source", attribute.String("agency", src.Agency))
	defer func() {
		res.Duration = time.Since(start)
		if res.Err != nil {
			res.Error = res.Err.Error()
			metrics.RecordSourceError(src.Agency, res.Stage)
			logger.Warn("source ingest failed",
				slog.String("stage", res.Stage),
				slog.Any("error", res.Err))
		} else {
			metrics.RecordSourceIngest(src.Agency, res.Duration, res.Candidates, res.Added, res.Skipped)
			logger.Info("source ingest completed",
				slog.Int("candidates", res.Candidates),
				slog.Int("added", res.Added),
				slog.Int("skipped", res.Skipped),
				slog.Duration("duration", res.Duration))
		}
		tracing.EndSpan(span, res.Err)
	}()

	cands, err := s.extractor.ListCandidates(ctx, src)
	if err != nil {
		res.Stage, res.Err = StageList, fmt.Errorf("list candidates: %w", err)
		return res
	}
	res.Candidates = len(cands)
	if len(cands) == 0 {
		return res
	}

	// 要約前に既存タイトルと照合して無駄な記事取得を減らす。確定判定はロック内で行う
	if existing, err := s.repo.ExistingTitles(ctx, src.Agency); err == nil {
		pre := text.NewMatcher(existing, s.cfg.SimilarityThreshold)
		kept := cands[:0:0]
		for _, c := range cands {
			if _, dup := pre.Match(c.Title); dup {
				res.Skipped++
				continue
			}
			kept = append(kept, c)
		}
		cands = kept
	}

	items := s.summarize(ctx, src, cands)

	unlock, err := s.locker.Lock(ctx, src.Agency)
	if err != nil {
		res.Stage, res.Err = StageLock, err
		return res
	}
	defer unlock()

	existing, err := s.repo.ExistingTitles(ctx, src.Agency)
	if err != nil {
		res.Stage, res.Err = StageStore, fmt.Errorf("load existing titles: %w", err)
		return res
	}
	matcher := text.NewMatcher(existing, s.cfg.SimilarityThreshold)
	accepted := make([]*entity.NewsItem, 0, len(items))
	for _, it := range items {
		if err := it.Validate(); err != nil {
			logger.Debug("invalid item dropped",
				slog.String("title", it.Title),
				slog.String("url", it.URL),
				slog.Any("error", err))
			res.Skipped++
			continue
		}
		if match, dup := matcher.Match(it.Title); dup {
			logger.Debug("duplicate dropped",
				slog.String("title", it.Title),
				slog.String("matches", match))
			res.Skipped++
			continue
		}
		matcher.Add(it.Title)
		accepted = append(accepted, it)
	}
	if len(accepted) == 0 {
		return res
	}

	// 書き込み途中でキャンセルされないよう切り離す
	if err := s.repo.InsertBatch(context.WithoutCancel(ctx), accepted); err != nil {
		res.Stage, res.Err = StageStore, fmt.Errorf("insert batch: %w", err)
		return res
	}
	res.Added = len(accepted)
	return res
}

// summarize builds NewsItems in discovery order, summarizing at most
// MaxConcurrentItems candidates at once.
func (s *Service) summarize(ctx context.Context, src entity.SourceConfig, cands []entity.CandidateItem) []*entity.NewsItem {
	items := make([]*entity.NewsItem, len(cands))
	ingestedAt := s.now()

	var g errgroup.Group
	g.SetLimit(s.cfg.MaxConcurrentItems)
	for i, c := range cands {
		i, c := i, c
		g.Go(func() error {
			sum := c.Lead
			if s.summaries != nil {
				sum = s.summaries.Extract(ctx, src, c)
			}
			published := ingestedAt
			if c.PublishedAt != nil {
				published = *c.PublishedAt
			}
			items[i] = &entity.NewsItem{
				Title:       c.Title,
				URL:         c.URL,
				Agency:      src.Agency,
				Summary:     sum,
				PublishedAt: published,
			}
			return nil
		})
	}
	_ = g.Wait()
	return items
}

func (s *Service) refreshStoredGauge(ctx context.Context) {
	counts, err := s.repo.CountByAgency(context.WithoutCancel(ctx))
	if err != nil {
		slog.Debug("count by agency failed", slog.Any("error", err))
		return
	}
	metrics.UpdateNewsStored(counts)
}

// IsStoreUnavailable reports whether err aborted a run at the preflight ping.
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
