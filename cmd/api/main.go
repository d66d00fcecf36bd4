// Command api serves the news store, reports, highlights, filters and daily
// messages over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rasad-feed/internal/app"
	hhttp "rasad-feed/internal/handler/http"
	"rasad-feed/internal/observability/logging"
	"rasad-feed/internal/pkg/config"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("api server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, logger, app.Options{Migrate: true})
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("failed to release resources", slog.Any("error", err))
		}
	}()

	cfg := loadServerConfig(logger, config.NewConfigMetrics("api"))
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(a, cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting",
			slog.String("addr", cfg.Addr),
			slog.String("version", cfg.Version))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("api server stopped")
	return nil
}

func newHandler(a *app.App, cfg serverConfig, logger *slog.Logger) http.Handler {
	extra := make(map[string]hhttp.Pinger, len(a.Extra))
	for name, p := range a.Extra {
		extra[name] = p
	}
	return hhttp.NewRouter(hhttp.Deps{
		Logger:         logger,
		Version:        cfg.Version,
		DB:             a.DB,
		Extra:          extra,
		Store:          a.News,
		Reports:        a.Reports,
		Highlights:     a.Reports,
		Filters:        a.Filters,
		Ingest:         a.Ingest,
		Messages:       a.Messages,
		RequestTimeout: cfg.RequestTimeout,
		Pagination:     cfg.Pagination,
	})
}
