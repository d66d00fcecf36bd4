package postgres

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

type NewsRepo struct {
	db *sql.DB
}

func NewNewsRepo(db *sql.DB) repository.NewsRepository {
	return &NewsRepo{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNews(s scanner) (*entity.NewsItem, error) {
	var n entity.NewsItem
	if err := s.Scan(&n.ID, &n.Title, &n.URL, &n.Agency, &n.Summary, &n.PublishedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

func (repo *NewsRepo) queryNews(ctx context.Context, op, query string, args ...any) ([]*entity.NewsItem, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	// パフォーマンス最適化: メモリ再割り当てを削減するため事前割り当て
	items := make([]*entity.NewsItem, 0, 64)
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

func (repo *NewsRepo) FindByAgency(ctx context.Context, agency string) ([]*entity.NewsItem, error) {
	const query = `
SELECT ` + newsColumns + `
FROM news
WHERE agency = $1
ORDER BY published_at ASC, id ASC`
	return repo.queryNews(ctx, "FindByAgency", query, agency)
}

func (repo *NewsRepo) ExistingTitles(ctx context.Context, agency string) ([]string, error) {
	const query = `SELECT title FROM news WHERE agency = $1`
	rows, err := repo.db.QueryContext(ctx, query, agency)
	if err != nil {
		return nil, fmt.Errorf("ExistingTitles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	titles := make([]string, 0, 128)
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("ExistingTitles: Scan: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ExistingTitles: %w", err)
	}
	return titles, nil
}

func (repo *NewsRepo) FindByDateRange(ctx context.Context, start, end time.Time) ([]*entity.NewsItem, error) {
	const query = `
SELECT ` + newsColumns + `
FROM news
WHERE published_at >= $1 AND published_at <= $2
ORDER BY agency ASC, published_at ASC, id ASC`
	return repo.queryNews(ctx, "FindByDateRange", query, start, end)
}

func (repo *NewsRepo) List(ctx context.Context, limit int) ([]*entity.NewsItem, error) {
	if limit <= 0 {
		const query = `
SELECT ` + newsColumns + `
FROM news
ORDER BY published_at DESC, id DESC`
		return repo.queryNews(ctx, "List", query)
	}
	const query = `
SELECT ` + newsColumns + `
FROM news
ORDER BY published_at DESC, id DESC
LIMIT $1`
	return repo.queryNews(ctx, "List", query, limit)
}

func (repo *NewsRepo) Get(ctx context.Context, id int64) (*entity.NewsItem, error) {
	const query = `
SELECT ` + newsColumns + `
FROM news
WHERE id = $1
LIMIT 1`
	n, err := scanNews(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return n, nil
}

const insertNews = `
INSERT INTO news
       (title, url, agency, summary, published_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

func (repo *NewsRepo) Insert(ctx context.Context, item *entity.NewsItem) (int64, error) {
	var id int64
	err := repo.db.QueryRowContext(ctx, insertNews,
		item.Title, item.URL, item.Agency, item.Summary, item.PublishedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("Insert: %w", err)
	}
	item.ID = id
	return id, nil
}

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
		if err = stmt.QueryRowContext(ctx,
			item.Title, item.URL, item.Agency, item.Summary, item.PublishedAt,
		).Scan(&ids[i]); err != nil {
			return fmt.Errorf("InsertBatch: item %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("InsertBatch: Commit: %w", err)
	}
	// コミット成功後にのみ ID を反映する
	for i, item := range items {
		item.ID = ids[i]
	}
	return nil
}

func (repo *NewsRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM news WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *NewsRepo) CountByAgency(ctx context.Context) (map[string]int64, error) {
	const query = `SELECT agency, COUNT(*) FROM news GROUP BY agency`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("CountByAgency: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int64)
	for rows.Next() {
		var agency string
		var n int64
		if err := rows.Scan(&agency, &n); err != nil {
			return nil, fmt.Errorf("CountByAgency: Scan: %w", err)
		}
		counts[agency] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("CountByAgency: %w", err)
	}
	return counts, nil
}

func (repo *NewsRepo) Ping(ctx context.Context) error {
	return repo.db.PingContext(ctx)
}
