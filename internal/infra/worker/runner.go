package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"rasad-feed/internal/handler/http/respond"
	"rasad-feed/internal/usecase/ingest"
)

// Ingestor runs one ingestion over all enabled sources.
type Ingestor interface {
	Run(ctx context.Context, agencies ...string) (*ingest.RunReport, error)
}

// Runner triggers ingestion on a cron schedule. Overlapping triggers are
// skipped, never queued.
type Runner struct {
	ingestor Ingestor
	cfg      WorkerConfig
	metrics  *WorkerMetrics
	logger   *slog.Logger
	running  atomic.Bool
	after    func(ctx context.Context, report *ingest.RunReport)
}

// NewRunner creates a Runner. metrics may be nil.
func NewRunner(ingestor Ingestor, cfg WorkerConfig, metrics *WorkerMetrics, logger *slog.Logger) *Runner {
	return &Runner{ingestor: ingestor, cfg: cfg, metrics: metrics, logger: logger}
}

// AfterSuccess registers fn to run after each successful ingestion, still
// inside the overlap guard. The worker uses it to publish the digest.
func (r *Runner) AfterSuccess(fn func(ctx context.Context, report *ingest.RunReport)) {
	r.after = fn
}

// Start schedules the job and blocks until ctx is cancelled; in-flight runs,
// scheduled or run-on-start, are awaited before returning. onReady is called once the
// scheduler runs and may be nil.
func (r *Runner) Start(ctx context.Context, onReady func()) error {
	loc, err := time.LoadLocation(r.cfg.Timezone)
	if err != nil {
		r.logger.Error("invalid timezone, using UTC",
			slog.String("timezone", r.cfg.Timezone), slog.Any("error", err))
		loc = time.UTC
	}

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(r.cfg.CronSchedule, func() { r.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}
	c.Start()
	r.logger.Info("worker started",
		slog.String("schedule", r.cfg.CronSchedule),
		slog.String("timezone", r.cfg.Timezone))
	if onReady != nil {
		onReady()
	}

	// 起動時ジョブは cron の管理外なので別途待つ
	var startup sync.WaitGroup
	if r.cfg.RunOnStart {
		startup.Add(1)
		go func() {
			defer startup.Done()
			r.RunOnce(ctx)
		}()
	}

	<-ctx.Done()
	r.logger.Info("worker stopping")
	<-c.Stop().Done()
	startup.Wait()
	return nil
}

// RunOnce runs one ingestion under the configured timeout. It reports false
// when another run was still in progress.
func (r *Runner) RunOnce(ctx context.Context) bool {
	if !r.running.CompareAndSwap(false, true) {
		r.logger.Warn("previous ingestion still running, skipping")
		r.record(StatusSkipped)
		return false
	}
	defer r.running.Store(false)

	start := time.Now()
	r.record(StatusStarted)
	r.logger.Info("ingestion started")

	runCtx, cancel := context.WithTimeout(ctx, r.cfg.RunTimeout)
	defer cancel()

	report, err := r.ingestor.Run(runCtx)
	if r.metrics != nil {
		r.metrics.RecordJobDuration(time.Since(start).Seconds())
	}
	if err != nil {
		r.logger.Error("ingestion failed", slog.String("error", respond.SanitizeError(err)))
		r.record(StatusFailure)
		return true
	}

	r.record(StatusSuccess)
	if r.metrics != nil {
		r.metrics.RecordItemsAdded(report.Added)
		r.metrics.RecordLastSuccess()
	}
	r.logger.Info("ingestion completed",
		slog.Int("sources", len(report.Sources)),
		slog.Int("added", report.Added),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
		slog.Duration("duration", report.Duration))

	if r.after != nil {
		r.after(ctx, report)
	}
	return true
}

func (r *Runner) record(status string) {
	if r.metrics != nil {
		r.metrics.RecordJobRun(status)
	}
}
