package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rasad-feed/internal/calendar"
	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/observability/tracing"
	"rasad-feed/internal/repository"
)

// DefaultRecentLimit bounds Recent when no limit is given.
const DefaultRecentLimit = 200

// KeywordSource supplies the configured highlight keywords.
type KeywordSource interface {
	List(ctx context.Context) ([]string, error)
}

// DayReport is the content of one civil day.
type DayReport struct {
	Day      string             `json:"day"`
	Long     string             `json:"long"`
	Items    []*entity.NewsItem `json:"items"`
	Agencies []AgencyGroup      `json:"agencies"`
}

// Service answers read-only report queries over the news store.
type Service struct {
	repo     repository.NewsRepository
	keywords KeywordSource
	loc      *time.Location
	now      func() time.Time
}

// NewService creates a report Service. A nil loc selects Asia/Tehran and a
// nil keywords source disables the filter-file fallback.
func NewService(repo repository.NewsRepository, keywords KeywordSource, loc *time.Location) *Service {
	if loc == nil {
		loc = defaultLocation()
	}
	return &Service{repo: repo, keywords: keywords, loc: loc, now: time.Now}
}

// WithClock overrides the clock used for "today".
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Location returns the zone whose civil day bounds reports.
func (s *Service) Location() *time.Location { return s.loc }

// Day returns the items of the given YYYY-MM-DD Jalali day.
func (s *Service) Day(ctx context.Context, day string) (*DayReport, error) {
	d, err := calendar.ParseDay(day)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDay, err)
	}
	return s.dayReport(ctx, d)
}

// Today returns the report of the current civil day.
func (s *Service) Today(ctx context.Context) (*DayReport, error) {
	return s.dayReport(ctx, calendar.Today(s.now(), s.loc))
}

func (s *Service) dayReport(ctx context.Context, d calendar.Day) (*DayReport, error) {
	ctx, span := tracing.StartSpan(ctx, "report.Day")
	defer span.End()

	start, end := d.Range(s.loc)
	items, err := s.repo.FindByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("find news of %s: %w", d, err)
	}
	return &DayReport{
		Day:      d.String(),
		Long:     d.Long(),
		Items:    items,
		Agencies: GroupByAgency(items),
	}, nil
}

// Recent groups the newest items by day.
func (s *Service) Recent(ctx context.Context, limit int) ([]DayGroup, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	items, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	return GroupByDay(items, s.loc), nil
}

// AgencyCounts returns the number of stored items per agency.
func (s *Service) AgencyCounts(ctx context.Context) (map[string]int64, error) {
	counts, err := s.repo.CountByAgency(ctx)
	if err != nil {
		return nil, fmt.Errorf("count news by agency: %w", err)
	}
	return counts, nil
}

// Highlights returns today's highlighted items. Empty keywords fall back to
// the configured filter list.
func (s *Service) Highlights(ctx context.Context, keywords []string) ([]*entity.NewsItem, error) {
	items, kws, err := s.highlightInput(ctx, keywords)
	if err != nil {
		return nil, err
	}
	return Highlights(items, kws), nil
}

// HighlightGroups returns today's highlight breakdown per keyword and per
// repeated-title cluster.
func (s *Service) HighlightGroups(ctx context.Context, keywords []string) ([]entity.HighlightGroup, error) {
	items, kws, err := s.highlightInput(ctx, keywords)
	if err != nil {
		return nil, err
	}
	return HighlightGroups(items, kws), nil
}

func (s *Service) highlightInput(ctx context.Context, keywords []string) ([]*entity.NewsItem, []string, error) {
	if len(keywords) == 0 && s.keywords != nil {
		kws, err := s.keywords.List(ctx)
		if err != nil {
			// キーワードが読めなくても繰り返し検出は続ける
			slog.WarnContext(ctx, "highlight keywords unavailable", slog.Any("error", err))
		} else {
			keywords = kws
		}
	}
	today, err := s.Today(ctx)
	if err != nil {
		return nil, nil, err
	}
	return today.Items, keywords, nil
}

// DigestFor renders the digest of the given day, or today when day is empty.
func (s *Service) DigestFor(ctx context.Context, day string, perAgency int) (string, error) {
	var (
		r   *DayReport
		err error
	)
	if day == "" {
		r, err = s.Today(ctx)
	} else {
		r, err = s.Day(ctx, day)
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("📅 %s\n\n%s", r.Long, Digest(r.Agencies, perAgency)), nil
}
