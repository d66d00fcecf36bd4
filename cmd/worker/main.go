// Command worker runs the scheduled ingestion and publishes the daily
// digest after every run that stored new items.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"rasad-feed/internal/app"
	"rasad-feed/internal/infra/worker"
	"rasad-feed/internal/observability/logging"
	"rasad-feed/internal/usecase/ingest"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("worker failed", slog.Any("error", err))
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

	metrics := worker.NewWorkerMetrics()
	cfg := worker.LoadConfigFromEnv(logger, metrics)
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.Duration("run_timeout", cfg.RunTimeout),
		slog.Bool("run_on_start", cfg.RunOnStart),
		slog.Int("health_port", cfg.HealthPort),
		slog.Int("sources", len(a.Sources)),
		slog.Int("notify_channels", a.Notify.Enabled()))

	health := worker.NewHealthServer(fmt.Sprintf(":%d", cfg.HealthPort), a.News, logger)
	health.Mount("GET /health/channels", channelHealthHandler(a.Notify))
	go func() {
		if err := health.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server stopped unexpectedly", slog.Any("error", err))
		}
	}()

	runner := worker.NewRunner(a.Ingest, cfg, metrics, logger)
	runner.AfterSuccess(func(ctx context.Context, report *ingest.RunReport) {
		if report.Added == 0 {
			return
		}
		sent, err := a.Publisher.PublishDay(ctx, "")
		if err != nil {
			logger.Warn("digest delivery failed", slog.Any("error", err))
			return
		}
		if sent {
			logger.Info("digest delivered", slog.Int("channels", a.Notify.Enabled()))
		}
	})

	return runner.Start(ctx, func() { health.SetReady(true) })
}
