// Package sqlite provides SQLite implementations of repository interfaces.
// Timestamps are written in UTC so that range predicates compare correctly
// on the driver's text encoding.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/repository"
)

const newsColumns = `id, title, url, agency, summary, published_at`

// NewsRepo implements the NewsRepository interface using SQLite.
type NewsRepo struct{ db *sql.DB }

// NewNewsRepo creates a new SQLite-backed news repository.
func NewNewsRepo(db *sql.DB) repository.NewsRepository {
	return &NewsRepo{db: db}
}

func (repo *NewsRepo) query(ctx context.Context, op, query string, args ...any) ([]*entity.NewsItem, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: QueryContext: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]*entity.NewsItem, 0, 64)
	for rows.Next() {
		var n entity.NewsItem
		if err := rows.Scan(&n.ID, &n.Title, &n.URL, &n.Agency, &n.Summary, &n.PublishedAt); err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		items = append(items, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows.Err: %w", op, err)
	}
	return items, nil
}

// FindByAgency returns all items stored for one agency, oldest first.
func (repo *NewsRepo) FindByAgency(ctx context.Context, agency string) ([]*entity.NewsItem, error) {
	const query = `
SELECT ` + newsColumns + `
FROM news
WHERE agency = ?
ORDER BY published_at ASC, id ASC`
	return repo.query(ctx, "FindByAgency", query, agency)
}

// ExistingTitles returns the raw titles stored for one agency.
func (repo *NewsRepo) ExistingTitles(ctx context.Context, agency string) ([]string, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT title FROM news WHERE agency = ?`, agency)
	if err != nil {
		return nil, fmt.Errorf("ExistingTitles: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("ExistingTitles: Scan: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ExistingTitles: rows.Err: %w", err)
	}
	return titles, nil
}

// FindByDateRange returns items with start <= published_at <= end.
func (repo *NewsRepo) FindByDateRange(ctx context.Context, start, end time.Time) ([]*entity.NewsItem, error) {
	const query = `
SELECT ` + newsColumns + `
FROM news
WHERE published_at >= ? AND published_at <= ?
ORDER BY agency ASC, published_at ASC, id ASC`
	return repo.query(ctx, "FindByDateRange", query, start.UTC(), end.UTC())
}

// List returns the newest items. limit <= 0 returns everything.
func (repo *NewsRepo) List(ctx context.Context, limit int) ([]*entity.NewsItem, error) {
	const query = `
SELECT ` + newsColumns + `
FROM news
ORDER BY published_at DESC, id DESC
LIMIT ?`
	if limit <= 0 {
		limit = -1 // SQLite: 負の LIMIT は無制限
	}
	return repo.query(ctx, "List", query, limit)
}

func (repo *NewsRepo) Get(ctx context.Context, id int64) (*entity.NewsItem, error) {
	const query = `
SELECT ` + newsColumns + `
FROM news
WHERE id = ?
LIMIT 1`
	var n entity.NewsItem
	err := repo.db.QueryRowContext(ctx, query, id).
		Scan(&n.ID, &n.Title, &n.URL, &n.Agency, &n.Summary, &n.PublishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &n, nil
}

const insertNews = `
INSERT INTO news (title, url, agency, summary, published_at)
VALUES (?, ?, ?, ?, ?)`

func (repo *NewsRepo) Insert(ctx context.Context, item *entity.NewsItem) (int64, error) {
	res, err := repo.db.ExecContext(ctx, insertNews,
		item.Title, item.URL, item.Agency, item.Summary, item.PublishedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("Insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("Insert: LastInsertId: %w", err)
	}
	item.ID = id
	return id, nil
}

// InsertBatch writes all items in a single transaction. Either every item
// is stored or none is.
func (repo *NewsRepo) InsertBatch(ctx context.Context, items []*entity.NewsItem) (err error) {
	if len(items) == 0 {
		return nil
	}

	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("InsertBatch: Begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertNews)
	if err != nil {
		return fmt.Errorf("InsertBatch: Prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	ids := make([]int64, len(items))
	for i, item := range items {
		res, err := stmt.ExecContext(ctx,
			item.Title, item.URL, item.Agency, item.Summary, item.PublishedAt.UTC())
		if err != nil {
			return fmt.Errorf("InsertBatch: item %d: %w", i, err)
		}
		if ids[i], err = res.LastInsertId(); err != nil {
			return fmt.Errorf("InsertBatch: item %d: LastInsertId: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("InsertBatch: Commit: %w", err)
	}
	for i, item := range items {
		item.ID = ids[i]
	}
	return nil
}

func (repo *NewsRepo) Delete(ctx context.Context, id int64) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM news WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *NewsRepo) CountByAgency(ctx context.Context) (map[string]int64, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT agency, COUNT(*) FROM news GROUP BY agency`)
	if err != nil {
		return nil, fmt.Errorf("CountByAgency: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			agency string
			n      int64
		)
		if err := rows.Scan(&agency, &n); err != nil {
			return nil, fmt.Errorf("CountByAgency: Scan: %w", err)
		}
		counts[agency] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("CountByAgency: rows.Err: %w", err)
	}
	return counts, nil
}

func (repo *NewsRepo) Ping(ctx context.Context) error {
	return repo.db.PingContext(ctx)
}
