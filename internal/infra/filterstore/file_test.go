package filterstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"rasad-feed/internal/infra/filterstore"
)

func TestLoad_SkipsBlanksKeepsHashtags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filters.txt")
	require.NoError(t, os.WriteFile(path, []byte("بودجه\n\n  تحریم  \n#مهسا_امینی\nانتخابات\n"), 0o644))

	got, err := filterstore.NewFileStore(path).Load(context.Background())
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"بودجه", "تحریم", "#مهسا_امینی", "انتخابات"}, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	got, err := filterstore.NewFileStore(filepath.Join(t.TempDir(), "none.txt")).Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, got)
	require.NotNil(t, got)
}

func TestSave_DedupesAndRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "filters.txt")
	s := filterstore.NewFileStore(path)

	require.NoError(t, s.Save(context.Background(), []string{"بودجه", " تحریم ", "", "بودجه", "نفت"}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "بودجه\nتحریم\nنفت\n", string(raw))

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"بودجه", "تحریم", "نفت"}, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
