// Package news serves stored news: listings, Jalali day reports, agency
// counts, the plain-text digest and deletion.
package news

import (
	"context"

	"github.com/go-chi/chi/v5"

	"rasad-feed/internal/common/pagination"
	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/usecase/report"
)

// Reports is the read side used by the day, agency and digest handlers.
type Reports interface {
	Day(ctx context.Context, day string) (*report.DayReport, error)
	Recent(ctx context.Context, limit int) ([]report.DayGroup, error)
	AgencyCounts(ctx context.Context) (map[string]int64, error)
	DigestFor(ctx context.Context, day string, perAgency int) (string, error)
}

// Store lists and deletes stored items.
type Store interface {
	List(ctx context.Context, limit int) ([]*entity.NewsItem, error)
	Delete(ctx context.Context, id int64) error
}

// Register mounts the news routes on r.
func Register(r chi.Router, store Store, reports Reports, limits pagination.Config) {
	r.Get("/news", ListHandler{Store: store, Limits: limits}.ServeHTTP)
	r.Get("/news/days", DaysHandler{Reports: reports, Limits: limits}.ServeHTTP)
	r.Get("/news/agencies", AgenciesHandler{Reports: reports}.ServeHTTP)
	r.Delete("/news/{id}", DeleteHandler{Store: store}.ServeHTTP)
	r.Get("/digest", DigestHandler{Reports: reports}.ServeHTTP)
}
