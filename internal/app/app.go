// Package app wires the news store, the scrapers, the summary chain and the
// use cases from environment variables. The worker, the API server and the
// CLI all build their dependencies through New.
package app

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"rasad-feed/internal/calendar"
	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/infra/adapter/persistence/postgres"
	"rasad-feed/internal/infra/adapter/persistence/sqlite"
	"rasad-feed/internal/infra/db"
	"rasad-feed/internal/infra/fetcher"
	"rasad-feed/internal/infra/filterstore"
	"rasad-feed/internal/infra/lock"
	"rasad-feed/internal/infra/notifier"
	"rasad-feed/internal/infra/scraper"
	"rasad-feed/internal/infra/summarizer"
	"rasad-feed/internal/pkg/config"
	"rasad-feed/internal/repository"
	"rasad-feed/internal/usecase/filter"
	"rasad-feed/internal/usecase/ingest"
	"rasad-feed/internal/usecase/message"
	"rasad-feed/internal/usecase/notify"
	"rasad-feed/internal/usecase/report"
	"rasad-feed/internal/usecase/summary"
)

const defaultFiltersFile = "filters.txt"

// Pinger is a dependency that answers a health ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Options override what New would read from the environment.
type Options struct {
	// DSN defaults to DATABASE_URL.
	DSN string
	// Migrate applies the schema after connecting.
	Migrate bool
	// SkipIngest leaves Registry and Ingest nil; read-only commands use it
	// to avoid building scrapers and summarizers.
	SkipIngest bool
}

// App holds the wired dependencies. Close releases them.
type App struct {
	Logger   *slog.Logger
	DB       *sql.DB
	Dialect  db.Dialect
	Location *time.Location

	News        repository.NewsRepository
	MessageRepo repository.MessageRepository

	Sources  []entity.SourceConfig
	Registry *scraper.Registry
	Ingest   *ingest.Service

	Reports   *report.Service
	Filters   *filter.Service
	Messages  *message.Service
	Notify    *notify.Service
	Publisher *notify.Publisher

	// Extra are optional dependencies reported by health checks.
	Extra map[string]Pinger

	closers []func() error
}

// New connects to the store and builds every service.
func New(ctx context.Context, logger *slog.Logger, opts Options) (*App, error) {
	a := &App{Logger: logger, Extra: map[string]Pinger{}}

	loc, err := calendar.LoadLocation(os.Getenv("TIMEZONE"))
	if err != nil {
		logger.Warn("invalid TIMEZONE, using default",
			slog.String("default", calendar.DefaultTimezone), slog.Any("error", err))
		loc, _ = calendar.LoadLocation("")
	}
	a.Location = loc

	database, dialect, err := db.Open(ctx, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("open news store: %w", err)
	}
	a.DB, a.Dialect = database, dialect
	a.closers = append(a.closers, database.Close)

	if opts.Migrate {
		if err := db.MigrateUp(ctx, database, dialect); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	if dialect == db.Postgres {
		a.News, a.MessageRepo = postgres.NewNewsRepo(database), postgres.NewMessageRepo(database)
	} else {
		a.News, a.MessageRepo = sqlite.NewNewsRepo(database), sqlite.NewMessageRepo(database)
	}

	sources, err := loadSources(logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Sources = sources

	filtersFile := config.LoadEnvString("FILTERS_FILE", defaultFiltersFile)
	a.Filters = filter.NewService(filterstore.NewFileStore(filtersFile))
	a.Reports = report.NewService(a.News, a.Filters, loc)
	a.Messages = &message.Service{Repo: a.MessageRepo, Location: loc}

	notifyMetrics := config.NewConfigMetrics("notify")
	a.Notify = notify.NewService([]notify.Channel{
		notify.NewDiscordChannel(notifier.LoadDiscordConfig(logger, notifyMetrics)),
		notify.NewSlackChannel(notifier.LoadSlackConfig(logger, notifyMetrics)),
	}, 0, logger)
	a.Publisher = &notify.Publisher{Reports: a.Reports, Notify: a.Notify}

	if opts.SkipIngest {
		return a, nil
	}

	locker, err := a.newLocker(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Registry = newRegistry(sources)
	a.Ingest = ingest.NewService(
		a.News,
		a.Registry,
		a.Registry,
		newSummaryChain(ctx, logger),
		locker,
		ingest.LoadConfigFromEnv(logger, config.NewConfigMetrics("ingest")),
	)
	return a, nil
}

// Close releases every resource New acquired, in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func loadSources(logger *slog.Logger) ([]entity.SourceConfig, error) {
	path := os.Getenv("SOURCES_FILE")
	if path == "" {
		return scraper.DefaultSources(), nil
	}
	sources, err := scraper.LoadSources(path)
	if err != nil {
		return nil, fmt.Errorf("load sources: %w", err)
	}
	logger.Info("source table loaded", slog.String("path", path), slog.Int("sources", len(sources)))
	return sources, nil
}

// newLocker returns a Redis lock when REDIS_ADDR is set so that several
// workers can share one store, and an in-process lock otherwise.
func (a *App) newLocker(ctx context.Context) (lock.AgencyLocker, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return lock.NewMemoryLocker(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	a.closers = append(a.closers, client.Close)
	a.Extra["redis"] = pingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
	a.Logger.Info("using redis agency lock")
	return lock.NewRedisLocker(client, lock.DefaultRedisConfig()), nil
}

func newRegistry(sources []entity.SourceConfig) *scraper.Registry {
	loaderCfg := scraper.DefaultLoaderConfig()
	httpLoader := scraper.NewHTTPLoader(newHTTPClient(loaderCfg.Timeout), loaderCfg)
	browser := scraper.NewBrowserLoader(os.Getenv("CHROME_PATH"), 30*time.Second, loaderCfg.DenyPrivateIPs)

	return scraper.NewRegistry(sources,
		scraper.NewHTMLExtractor(httpLoader),
		scraper.NewHTMLExtractor(browser),
		scraper.NewFeedExtractor(newHTTPClient(loaderCfg.Timeout), loaderCfg.DenyPrivateIPs),
	)
}

func newSummaryChain(ctx context.Context, logger *slog.Logger) *summary.Service {
	fetchCfg := fetcher.LoadConfigFromEnv(logger, config.NewConfigMetrics("fetcher"))
	sumCfg := summarizer.LoadConfigFromEnv(logger, config.NewConfigMetrics("summarizer"))
	chainCfg := summary.LoadConfigFromEnv(logger, config.NewConfigMetrics("summary"))
	return summary.NewService(fetcher.NewArticleFetcher(fetchCfg), summarizer.New(ctx, sumCfg), chainCfg)
}

// newHTTPClient enforces TLS 1.2+ and pools connections.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
		},
	}
}
