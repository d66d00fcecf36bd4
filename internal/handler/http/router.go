package http

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rasad-feed/internal/common/pagination"
	"rasad-feed/internal/handler/http/filter"
	"rasad-feed/internal/handler/http/highlight"
	"rasad-feed/internal/handler/http/ingest"
	"rasad-feed/internal/handler/http/message"
	"rasad-feed/internal/handler/http/news"
	"rasad-feed/internal/handler/http/respond"
	"rasad-feed/internal/observability/tracing"
)

// Deps are the services behind the API. Nil services leave their routes
// unmounted.
type Deps struct {
	Logger  *slog.Logger
	Version string

	DB    *sql.DB
	Extra map[string]Pinger

	Store      news.Store
	Reports    news.Reports
	Highlights highlight.Service
	Filters    filter.Service
	Ingest     ingest.Runner
	Messages   message.Service

	// RequestTimeout bounds read routes; POST /ingest is not bounded by it.
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	// Pagination bounds ?limit=; zero selects pagination.DefaultConfig.
	Pagination pagination.Config
}

// NewRouter builds the API router.
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 30 * time.Second
	}
	if d.MaxBodyBytes <= 0 {
		d.MaxBodyBytes = 1 << 20
	}
	if d.Pagination == (pagination.Config{}) {
		d.Pagination = pagination.DefaultConfig()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(tracing.Middleware)
	r.Use(Logging(d.Logger))
	r.Use(Recover(d.Logger))
	r.Use(Metrics)
	r.Use(LimitRequestBody(d.MaxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respond.JSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	})

	r.Method(http.MethodGet, "/health", &HealthHandler{DB: d.DB, Extra: d.Extra, Version: d.Version})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(d.RequestTimeout))
		if d.Store != nil && d.Reports != nil {
			news.Register(r, d.Store, d.Reports, d.Pagination)
		}
		if d.Highlights != nil {
			highlight.Register(r, d.Highlights)
		}
		if d.Filters != nil {
			filter.Register(r, d.Filters)
		}
		if d.Messages != nil {
			message.Register(r, d.Messages, d.Pagination)
		}
	})

	if d.Ingest != nil {
		ingest.Register(r, d.Ingest)
	}
	return r
}
