package filter_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/infra/filterstore"
	"rasad-feed/internal/usecase/filter"
)

func newService(t *testing.T) *filter.Service {
	t.Helper()
	return filter.NewService(filterstore.NewFileStore(filepath.Join(t.TempDir(), "filters.txt")))
}

func TestAddListRemove(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	got, err := svc.Add(ctx, "بودجه", "تحریم")
	require.NoError(t, err)
	assert.Equal(t, []string{"بودجه", "تحریم"}, got)

	got, err = svc.Add(ctx, "تحریم", "نفت")
	require.NoError(t, err)
	assert.Equal(t, []string{"بودجه", "تحریم", "نفت"}, got)

	got, err = svc.Remove(ctx, "بودجه", "ناموجود")
	require.NoError(t, err)
	assert.Equal(t, []string{"تحریم", "نفت"}, got)

	got, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"تحریم", "نفت"}, got)
}

// ハッシュタグも保存後に読み戻せる
func TestAdd_HashtagRoundTrips(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	got, err := svc.Add(ctx, "#مهسا_امینی", "بودجه")
	require.NoError(t, err)
	assert.Equal(t, []string{"#مهسا_امینی", "بودجه"}, got)

	got, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"#مهسا_امینی", "بودجه"}, got)
}

func TestAdd_RequiresKeyword(t *testing.T) {
	_, err := newService(t).Add(context.Background(), "  ")
	var vErr *entity.ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestReplace(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	_, err := svc.Add(ctx, "قدیمی")
	require.NoError(t, err)

	got, err := svc.Replace(ctx, []string{"الف", "ب", "الف"})
	require.NoError(t, err)
	assert.Equal(t, []string{"الف", "ب"}, got)

	got, err = svc.Replace(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

type failingStore struct{}

func (failingStore) Load(context.Context) ([]string, error) { return nil, errors.New("disk gone") }
func (failingStore) Save(context.Context, []string) error   { return errors.New("disk gone") }

func TestStoreErrorsWrapped(t *testing.T) {
	svc := filter.NewService(failingStore{})
	_, err := svc.List(context.Background())
	assert.ErrorContains(t, err, "list filters")
	_, err = svc.Add(context.Background(), "x")
	assert.ErrorContains(t, err, "add filters")
}
