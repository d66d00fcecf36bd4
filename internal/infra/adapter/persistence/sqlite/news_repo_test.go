package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/infra/adapter/persistence/sqlite"
	"rasad-feed/internal/infra/db"
)

/* ────────────────────────────  ヘルパ  ──────────────────────────── */

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	conn, dialect, err := db.Open(ctx, "sqlite::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.MigrateUp(ctx, conn, dialect))
	return conn
}

func item(agency, title string, at time.Time) *entity.NewsItem {
	return &entity.NewsItem{
		Title:       title,
		URL:         "https://example.com/" + agency + "/" + title,
		Agency:      agency,
		PublishedAt: at,
	}
}

/* ──────────────────────────── 1. Insert / Get ──────────────────────────── */

func TestNewsRepo_InsertAndGet(t *testing.T) {
	repo := sqlite.NewNewsRepo(openTestDB(t))
	ctx := context.Background()

	at := time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)
	n := item("IRNA", "دیدار وزیر", at)
	n.Summary = "خلاصه"

	id, err := repo.Insert(ctx, n)
	require.NoError(t, err)
	assert.Equal(t, id, n.ID)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "دیدار وزیر", got.Title)
	assert.Equal(t, "خلاصه", got.Summary)
	assert.True(t, at.Equal(got.PublishedAt), "published_at = %v", got.PublishedAt)

	missing, err := repo.Get(ctx, id+100)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

/* ──────────────────────────── 2. Batch ──────────────────────────── */

func TestNewsRepo_InsertBatch(t *testing.T) {
	repo := sqlite.NewNewsRepo(openTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	batch := []*entity.NewsItem{
		item("ISNA", "a", now),
		item("ISNA", "b", now),
		item("IRNA", "c", now),
	}
	require.NoError(t, repo.InsertBatch(ctx, batch))
	for _, n := range batch {
		assert.NotZero(t, n.ID)
	}

	titles, err := repo.ExistingTitles(ctx, "ISNA")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, titles)

	counts, err := repo.CountByAgency(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"ISNA": 2, "IRNA": 1}, counts)
}

func TestNewsRepo_InsertBatch_CanceledContextWritesNothing(t *testing.T) {
	repo := sqlite.NewNewsRepo(openTestDB(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.InsertBatch(ctx, []*entity.NewsItem{item("BBC", "x", time.Now())})
	require.Error(t, err)

	all, err := repo.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}

/* ──────────────────────────── 3. Queries ──────────────────────────── */

func TestNewsRepo_FindByDateRange(t *testing.T) {
	repo := sqlite.NewNewsRepo(openTestDB(t))
	ctx := context.Background()

	tehran := time.FixedZone("IRST", 12600)
	start := time.Date(2024, 3, 20, 0, 0, 0, 0, tehran)
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)

	require.NoError(t, repo.InsertBatch(ctx, []*entity.NewsItem{
		item("ISNA", "in-late", start.Add(23*time.Hour)),
		item("BBC", "in-early", start.Add(time.Minute)),
		item("BBC", "before", start.Add(-time.Minute)),
		item("IRNA", "after", end.Add(time.Second)),
	}))

	got, err := repo.FindByDateRange(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "in-early", got[0].Title) // BBC < ISNA
	assert.Equal(t, "in-late", got[1].Title)
}

func TestNewsRepo_FindByAgencyAndList(t *testing.T) {
	repo := sqlite.NewNewsRepo(openTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.InsertBatch(ctx, []*entity.NewsItem{
		item("ISNA", "old", base),
		item("ISNA", "new", base.Add(time.Hour)),
		item("IRNA", "other", base.Add(2*time.Hour)),
	}))

	isna, err := repo.FindByAgency(ctx, "ISNA")
	require.NoError(t, err)
	require.Len(t, isna, 2)
	assert.Equal(t, "old", isna[0].Title)

	latest, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "other", latest[0].Title)
	assert.Equal(t, "new", latest[1].Title)
}

/* ──────────────────────────── 4. Delete ──────────────────────────── */

func TestNewsRepo_Delete(t *testing.T) {
	repo := sqlite.NewNewsRepo(openTestDB(t))
	ctx := context.Background()

	id, err := repo.Insert(ctx, item("BBC", "t", time.Now()))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))
	err = repo.Delete(ctx, id)
	assert.True(t, errors.Is(err, entity.ErrNotFound), "err = %v", err)
}
