package scraper_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/infra/scraper"
)

type namedExtractor struct{ name string }

func (n namedExtractor) ListCandidates(context.Context, entity.SourceConfig) ([]entity.CandidateItem, error) {
	return []entity.CandidateItem{{Title: n.name, URL: "https://x/" + n.name}}, nil
}

func TestRegistry_Dispatch(t *testing.T) {
	r := scraper.NewRegistry(scraper.DefaultSources(),
		namedExtractor{"html"}, namedExtractor{"browser"}, namedExtractor{"feed"})
	ctx := context.Background()

	for _, tc := range []struct {
		src  entity.SourceConfig
		want string
	}{
		{entity.SourceConfig{Agency: "IRNA"}, "html"},
		{entity.SourceConfig{Agency: "IranIntl", NeedsBrowser: true}, "browser"},
		{entity.SourceConfig{Agency: "Feed", FeedURL: "https://f"}, "feed"},
	} {
		got, err := r.ListCandidates(ctx, tc.src)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got[0].Title)
	}
}

func TestRegistry_NoBrowser(t *testing.T) {
	r := scraper.NewRegistry(nil, namedExtractor{"html"}, nil, namedExtractor{"feed"})
	_, err := r.ListCandidates(context.Background(), entity.SourceConfig{Agency: "IranIntl", NeedsBrowser: true})
	assert.True(t, errors.Is(err, scraper.ErrNoBrowser))
}

func TestRegistry_Sources(t *testing.T) {
	disabled := false
	sources := scraper.DefaultSources()
	sources[1].Enabled = &disabled

	r := scraper.NewRegistry(sources, nil, nil, nil)
	var names []string
	for _, s := range r.Sources() {
		names = append(names, s.Agency)
	}
	assert.Equal(t, []string{"IRNA", "IranIntl", "ISNA", "Tasnim"}, names)

	src, err := r.Source("ISNA")
	require.NoError(t, err)
	assert.Equal(t, 10, src.MinTitleLength)

	_, err = r.Source("Reuters")
	assert.ErrorIs(t, err, scraper.ErrUnknownAgency)
	assert.Equal(t, []string{"BBC", "IRNA", "ISNA", "IranIntl", "Tasnim"}, r.Agencies())
}

func TestDefaultSources_Valid(t *testing.T) {
	limits := map[string]int{"IRNA": 10, "BBC": 15, "IranIntl": 15, "ISNA": 10, "Tasnim": 10}
	for _, s := range scraper.DefaultSources() {
		require.NoError(t, s.Validate(), s.Agency)
		assert.Equal(t, limits[s.Agency], s.Limit, s.Agency)
	}
}

func TestLoadSources_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sources:
  - agency: IRNA
    base_url: https://www.irna.ir/
    limit: 5
    timeout: 20s
    rules:
      - selector: div.latest a
  - agency: Mehr
    base_url: https://www.mehrnews.com/
    feed_url: https://www.mehrnews.com/rss
    limit: 8
`), 0o600))

	sources, err := scraper.LoadSources(path)
	require.NoError(t, err)
	require.Len(t, sources, 6)

	assert.Equal(t, "IRNA", sources[0].Agency)
	assert.Equal(t, 5, sources[0].Limit)
	assert.Equal(t, "div.latest a", sources[0].Rules[0].Selector)
	assert.Equal(t, "20s", sources[0].Timeout.String())
	assert.NotEmpty(t, sources[0].ContentSelectors)
	assert.Equal(t, "Mehr", sources[5].Agency)
}

func TestLoadSources_InvalidEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sources:
  - agency: Broken
    base_url: not-a-url
    limit: 3
`), 0o600))

	_, err := scraper.LoadSources(path)
	assert.Error(t, err)
}

func TestLoadSources_EmptyPathReturnsDefaults(t *testing.T) {
	sources, err := scraper.LoadSources("")
	require.NoError(t, err)
	assert.Len(t, sources, 5)
}
