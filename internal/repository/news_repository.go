package repository

import (
	"context"
	"time"

	"rasad-feed/internal/domain/entity"
)

// NewsRepository is the persisted store of news items.
type NewsRepository interface {
	// FindByAgency returns every stored item of the agency, oldest first.
	FindByAgency(ctx context.Context, agency string) ([]*entity.NewsItem, error)
	// ExistingTitles returns the stored titles of the agency, used by the
	// write-time duplicate check.
	ExistingTitles(ctx context.Context, agency string) ([]string, error)
	// FindByDateRange returns items with start <= published_at <= end,
	// ordered by agency then published_at ascending.
	FindByDateRange(ctx context.Context, start, end time.Time) ([]*entity.NewsItem, error)
	// List returns the newest items first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]*entity.NewsItem, error)
	// Get returns (nil, nil) if the item does not exist.
	Get(ctx context.Context, id int64) (*entity.NewsItem, error)
	Insert(ctx context.Context, item *entity.NewsItem) (int64, error)
	// InsertBatch stores all items in one transaction and sets their IDs.
	// On any failure nothing is stored.
	InsertBatch(ctx context.Context, items []*entity.NewsItem) error
	// Delete returns an error wrapping entity.ErrNotFound for unknown ids.
	Delete(ctx context.Context, id int64) error
	CountByAgency(ctx context.Context) (map[string]int64, error)
	Ping(ctx context.Context) error
}
