package report_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rasad-feed/internal/calendar"
	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/usecase/report"
)

/* ───────── スタブ ───────── */

type stubRepo struct {
	items      []*entity.NewsItem
	rangeStart time.Time
	rangeEnd   time.Time
	err        error
}

func (r *stubRepo) FindByAgency(context.Context, string) ([]*entity.NewsItem, error) {
	return nil, nil
}
func (r *stubRepo) ExistingTitles(context.Context, string) ([]string, error) { return nil, nil }

func (r *stubRepo) FindByDateRange(_ context.Context, start, end time.Time) ([]*entity.NewsItem, error) {
	r.rangeStart, r.rangeEnd = start, end
	if r.err != nil {
		return nil, r.err
	}
	var out []*entity.NewsItem
	for _, it := range r.items {
		if !it.PublishedAt.Before(start) && !it.PublishedAt.After(end) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *stubRepo) List(_ context.Context, limit int) ([]*entity.NewsItem, error) {
	if limit > 0 && limit < len(r.items) {
		return r.items[:limit], nil
	}
	return r.items, r.err
}
func (r *stubRepo) Get(context.Context, int64) (*entity.NewsItem, error)    { return nil, nil }
func (r *stubRepo) Insert(context.Context, *entity.NewsItem) (int64, error) { return 0, nil }
func (r *stubRepo) InsertBatch(context.Context, []*entity.NewsItem) error   { return nil }
func (r *stubRepo) Delete(context.Context, int64) error                     { return nil }
func (r *stubRepo) Ping(context.Context) error                              { return nil }
func (r *stubRepo) CountByAgency(context.Context) (map[string]int64, error) {
	return map[string]int64{"IRNA": 2}, r.err
}

type stubKeywords struct {
	kws []string
	err error
}

func (k stubKeywords) List(context.Context) ([]string, error) { return k.kws, k.err }

/* ───────── ヘルパ ───────── */

func tehran(t *testing.T) *time.Location {
	t.Helper()
	loc, err := calendar.LoadLocation(calendar.DefaultTimezone)
	require.NoError(t, err)
	return loc
}

func item(id int64, agency, title string, at time.Time) *entity.NewsItem {
	return &entity.NewsItem{ID: id, Agency: agency, Title: title, URL: "https://example.com/" + title, PublishedAt: at}
}

func ids(items []*entity.NewsItem) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

/* ───────── GroupByDay ───────── */

func TestGroupByDay_ThreeDaysDescending(t *testing.T) {
	loc := tehran(t)
	// 1404-01-01 .. 1404-01-03
	d1 := time.Date(2025, 3, 21, 10, 0, 0, 0, loc)
	d2 := d1.AddDate(0, 0, 1)
	d3 := d1.AddDate(0, 0, 2)

	items := []*entity.NewsItem{
		item(1, "IRNA", "a", d1),
		item(2, "ISNA", "b", d3),
		item(3, "IRNA", "c", d2),
		item(4, "ISNA", "d", d1.Add(time.Hour)),
		item(5, "IRNA", "e", d3.Add(-time.Hour)),
	}

	groups := report.GroupByDay(items, loc)
	require.Len(t, groups, 3)

	got := make(map[string][]int64)
	var days []string
	for _, g := range groups {
		days = append(days, g.Day)
		got[g.Day] = ids(g.Items)
	}
	assert.Equal(t, []string{"1404-01-03", "1404-01-02", "1404-01-01"}, days)
	want := map[string][]int64{
		"1404-01-03": {2, 5},
		"1404-01-02": {3},
		"1404-01-01": {1, 4},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupByDay_MidnightBoundaryInTehran(t *testing.T) {
	loc := tehran(t)
	// 20:29 UTC は テヘラン 23:59、20:31 UTC は翌日 00:01
	before := time.Date(2025, 3, 21, 20, 29, 0, 0, time.UTC)
	after := time.Date(2025, 3, 21, 20, 31, 0, 0, time.UTC)

	groups := report.GroupByDay([]*entity.NewsItem{
		item(1, "IRNA", "a", before),
		item(2, "IRNA", "b", after),
	}, loc)

	require.Len(t, groups, 2)
	assert.Equal(t, "1404-01-02", groups[0].Day)
	assert.Equal(t, "1404-01-01", groups[1].Day)
}

func TestGroupByAgency_FirstAppearanceOrder(t *testing.T) {
	now := time.Now()
	items := []*entity.NewsItem{
		item(1, "ISNA", "a", now),
		item(2, "IRNA", "b", now),
		item(3, "ISNA", "c", now),
	}

	groups := report.GroupByAgency(items)

	require.Len(t, groups, 2)
	assert.Equal(t, "ISNA", groups[0].Agency)
	assert.Equal(t, []int64{1, 3}, ids(groups[0].Items))
	assert.Equal(t, "IRNA", groups[1].Agency)
	assert.Equal(t, map[string]int{"ISNA": 2, "IRNA": 1}, report.CountByAgency(items))
}

/* ───────── ハイライト ───────── */

func TestHighlights_RepetitionAcrossAgencies(t *testing.T) {
	base := time.Date(2025, 3, 21, 8, 0, 0, 0, time.UTC)
	items := []*entity.NewsItem{
		item(1, "A", "رئیس جمهور به تبریز سفر کرد", base),
		item(2, "B", "رئیس جمهور به تبریز سفر کرد!", base.Add(time.Minute)),
		item(3, "B", "  رئیس  جمهور، به تبریز سفر کرد.", base.Add(2*time.Minute)),
		item(4, "A", "افزایش قیمت نان", base.Add(3*time.Minute)),
	}

	got := report.Highlights(items, nil)

	assert.Equal(t, []int64{3, 2, 1}, ids(got))

	groups := report.HighlightGroups(items, nil)
	require.Len(t, groups, 1)
	assert.Equal(t, entity.HighlightRepetition, groups[0].Reason)
	assert.ElementsMatch(t, []string{"A", "B"}, groups[0].Agencies())
}

func TestHighlights_SameAgencyRepetitionIgnored(t *testing.T) {
	now := time.Now()
	items := []*entity.NewsItem{
		item(1, "A", "خبر تکراری", now),
		item(2, "A", "خبر تکراری", now),
	}

	assert.Empty(t, report.Highlights(items, nil))
}

func TestHighlights_KeywordInSummaryOnly(t *testing.T) {
	now := time.Now()
	hit := item(1, "A", "عنوان بی‌ربط", now)
	hit.Summary = "در این نشست درباره بودجه صحبت شد"
	miss := item(2, "B", "خبر ورزشی", now)
	miss.Summary = "تیم ملی برد"

	got := report.Highlights([]*entity.NewsItem{hit, miss}, []string{"بودجه"})

	assert.Equal(t, []int64{1}, ids(got))
}

func TestHighlights_KeywordIsCaseSensitive(t *testing.T) {
	now := time.Now()
	items := []*entity.NewsItem{
		item(1, "A", "OPEC meeting", now),
		item(2, "B", "opec meeting", now),
	}

	got := report.Highlights(items, []string{"OPEC"})

	assert.Equal(t, []int64{1}, ids(got))
}

func TestHighlights_UnionDedupeAndOrder(t *testing.T) {
	base := time.Date(2025, 3, 21, 8, 0, 0, 0, time.UTC)
	items := []*entity.NewsItem{
		item(1, "A", "بودجه ۱۴۰۴ تصویب شد", base),
		item(2, "B", "بودجه ۱۴۰۴ تصویب شد", base),
		item(3, "C", "نشست بودجه", base.Add(time.Hour)),
	}

	got := report.Highlights(items, []string{"بودجه", "  ", "بودجه"})

	// 同時刻は ID 降順
	assert.Equal(t, []int64{3, 2, 1}, ids(got))

	groups := report.HighlightGroups(items, []string{"بودجه"})
	require.Len(t, groups, 2)
	assert.Equal(t, entity.HighlightKeyword, groups[0].Reason)
	assert.Equal(t, "بودجه", groups[0].Key)
	assert.Len(t, groups[0].Items, 3)
	assert.Equal(t, entity.HighlightRepetition, groups[1].Reason)
	assert.Equal(t, []int64{2, 1}, ids(groups[1].Items))
}

/* ───────── ダイジェスト ───────── */

func TestDigest(t *testing.T) {
	now := time.Now()
	groups := report.GroupByAgency([]*entity.NewsItem{
		item(1, "IRNA", "خبر یک!", now),
		item(2, "IRNA", "خبر دو", now),
		item(3, "IRNA", "خبر سه", now),
		item(4, "IRNA", "خبر چهار", now),
		item(5, "IRNA", "خبر پنج", now),
		item(6, "ISNA", "تنها خبر", now),
	})

	got := report.Digest(groups, 0)

	want := "📰 IRNA: 5 خبر\n" +
		"  • خبر یک\n" +
		"  • خبر دو\n" +
		"  • خبر سه\n" +
		"  ... و 2 خبر دیگر\n" +
		"\n" +
		"📰 ISNA: 1 خبر\n" +
		"  • تنها خبر\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("digest mismatch (-want +got):\n%s", diff)
	}
}

func TestDigest_LongTitleCutAtWord(t *testing.T) {
	title := strings.Repeat("کلمه ", 30)
	got := report.Digest([]report.AgencyGroup{{
		Agency: "IRNA",
		Items:  []*entity.NewsItem{item(1, "IRNA", title, time.Now())},
	}}, 3)

	line := strings.Split(got, "\n")[1]
	assert.True(t, strings.HasSuffix(line, "..."))
	assert.LessOrEqual(t, len([]rune(strings.TrimPrefix(line, "  • "))), 83)
}

/* ───────── Service ───────── */

func TestService_Day(t *testing.T) {
	loc := tehran(t)
	in := time.Date(2025, 3, 21, 12, 0, 0, 0, loc)
	repo := &stubRepo{items: []*entity.NewsItem{
		item(1, "IRNA", "a", in),
		item(2, "IRNA", "b", in.AddDate(0, 0, 1)),
	}}
	svc := report.NewService(repo, nil, loc)

	r, err := svc.Day(context.Background(), "1404-01-01")
	require.NoError(t, err)

	assert.Equal(t, "1404-01-01", r.Day)
	assert.Equal(t, "1 فروردین 1404", r.Long)
	assert.Equal(t, []int64{1}, ids(r.Items))
	require.Len(t, r.Agencies, 1)
	assert.WithinDuration(t, time.Date(2025, 3, 21, 0, 0, 0, 0, loc), repo.rangeStart, 0)
	assert.WithinDuration(t, time.Date(2025, 3, 22, 0, 0, 0, 0, loc).Add(-time.Nanosecond), repo.rangeEnd, 0)
}

func TestService_DayInvalid(t *testing.T) {
	svc := report.NewService(&stubRepo{}, nil, tehran(t))

	for _, day := range []string{"", "1404-13-01", "1404-07-31", "yesterday"} {
		_, err := svc.Day(context.Background(), day)
		assert.ErrorIs(t, err, report.ErrInvalidDay, day)
		assert.ErrorIs(t, err, calendar.ErrInvalidDay, day)
	}
}

func TestService_HighlightsFallBackToFilterList(t *testing.T) {
	loc := tehran(t)
	now := time.Date(2025, 3, 21, 15, 0, 0, 0, loc)
	yesterday := now.AddDate(0, 0, -1)
	repo := &stubRepo{items: []*entity.NewsItem{
		item(1, "IRNA", "نشست بودجه", now.Add(-time.Hour)),
		item(2, "IRNA", "بودجه دیروز", yesterday),
		item(3, "ISNA", "فوتبال", now.Add(-2*time.Hour)),
	}}
	svc := report.NewService(repo, stubKeywords{kws: []string{"بودجه"}}, loc).
		WithClock(func() time.Time { return now })

	got, err := svc.Highlights(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(got))

	got, err = svc.Highlights(context.Background(), []string{"فوتبال"})
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(got))
}

func TestService_HighlightsKeywordStoreFailure(t *testing.T) {
	loc := tehran(t)
	now := time.Date(2025, 3, 21, 15, 0, 0, 0, loc)
	repo := &stubRepo{items: []*entity.NewsItem{
		item(1, "A", "سفر به تبریز", now),
		item(2, "B", "سفر به تبریز", now),
	}}
	svc := report.NewService(repo, stubKeywords{err: errors.New("disk")}, loc).
		WithClock(func() time.Time { return now })

	groups, err := svc.HighlightGroups(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, entity.HighlightRepetition, groups[0].Reason)
}

func TestService_DigestFor(t *testing.T) {
	loc := tehran(t)
	now := time.Date(2025, 3, 21, 15, 0, 0, 0, loc)
	repo := &stubRepo{items: []*entity.NewsItem{item(1, "IRNA", "خبر", now)}}
	svc := report.NewService(repo, nil, loc).WithClock(func() time.Time { return now })

	got, err := svc.DigestFor(context.Background(), "", 3)
	require.NoError(t, err)
	assert.Equal(t, "📅 1 فروردین 1404\n\n📰 IRNA: 1 خبر\n  • خبر\n", got)

	_, err = svc.DigestFor(context.Background(), "bad", 3)
	assert.ErrorIs(t, err, report.ErrInvalidDay)
}

func TestService_RecentAndCounts(t *testing.T) {
	loc := tehran(t)
	now := time.Date(2025, 3, 21, 15, 0, 0, 0, loc)
	repo := &stubRepo{items: []*entity.NewsItem{
		item(2, "IRNA", "b", now),
		item(1, "IRNA", "a", now.AddDate(0, 0, -1)),
	}}
	svc := report.NewService(repo, nil, loc)

	days, err := svc.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "1404-01-01", days[0].Day)

	counts, err := svc.AgencyCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"IRNA": 2}, counts)
}
