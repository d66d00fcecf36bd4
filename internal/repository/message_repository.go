package repository

import (
	"context"
	"time"

	"rasad-feed/internal/domain/entity"
)

// MessageFilter narrows a daily message listing. Zero values disable a filter.
type MessageFilter struct {
	Category string
	Since    *time.Time
	Limit    int
}

// MessageRepository stores editor-written daily messages.
// Listings are ordered by priority DESC, created_at DESC.
type MessageRepository interface {
	Create(ctx context.Context, msg *entity.DailyMessage) (int64, error)
	List(ctx context.Context, filter MessageFilter) ([]*entity.DailyMessage, error)
	Delete(ctx context.Context, id int64) error
}
