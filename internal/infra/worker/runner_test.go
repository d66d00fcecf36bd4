package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rasad-feed/internal/usecase/ingest"
)

/* ───────── スタブ ───────── */

type stubIngestor struct {
	calls   atomic.Int32
	block   chan struct{}
	err     error
	sawDead atomic.Bool
}

func (s *stubIngestor) Run(ctx context.Context, _ ...string) (*ingest.RunReport, error) {
	s.calls.Add(1)
	if _, ok := ctx.Deadline(); ok {
		s.sawDead.Store(true)
	}
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return &ingest.RunReport{Added: 2, Skipped: 1}, nil
}

// slowIngestor は書き込み中を模してキャンセルを無視する
type slowIngestor struct {
	delay    time.Duration
	finished atomic.Bool
}

func (s *slowIngestor) Run(ctx context.Context, _ ...string) (*ingest.RunReport, error) {
	time.Sleep(s.delay)
	s.finished.Store(true)
	return &ingest.RunReport{Added: 1}, nil
}

func testConfig() WorkerConfig {
	cfg := DefaultConfig()
	cfg.RunOnStart = false
	return cfg
}

/* ───────── テスト ───────── */

func TestRunOnce_AppliesTimeout(t *testing.T) {
	ing := &stubIngestor{}
	r := NewRunner(ing, testConfig(), nil, discardLogger())

	assert.True(t, r.RunOnce(context.Background()))
	assert.Equal(t, int32(1), ing.calls.Load())
	assert.True(t, ing.sawDead.Load())
}

func TestRunOnce_FailureDoesNotPanic(t *testing.T) {
	ing := &stubIngestor{err: errors.New("news store unavailable: dial postgres://rasad:secret@db")}
	r := NewRunner(ing, testConfig(), nil, discardLogger())

	assert.True(t, r.RunOnce(context.Background()))
}

func TestRunOnce_SkipsOverlappingRun(t *testing.T) {
	ing := &stubIngestor{block: make(chan struct{})}
	r := NewRunner(ing, testConfig(), nil, discardLogger())

	first := make(chan bool)
	go func() { first <- r.RunOnce(context.Background()) }()
	require.Eventually(t, func() bool { return ing.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	assert.False(t, r.RunOnce(context.Background()))

	close(ing.block)
	assert.True(t, <-first)
	assert.Equal(t, int32(1), ing.calls.Load())
}

func TestStart_RunsOnStartAndStopsOnCancel(t *testing.T) {
	ing := &stubIngestor{}
	cfg := testConfig()
	cfg.RunOnStart = true
	r := NewRunner(ing, cfg, nil, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	var ready atomic.Bool
	done := make(chan error, 1)
	go func() { done <- r.Start(ctx, func() { ready.Store(true) }) }()

	require.Eventually(t, func() bool { return ing.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, ready.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
}

// 起動時ジョブの完了を待ってから戻る
func TestStart_WaitsForRunOnStartJob(t *testing.T) {
	ing := &slowIngestor{delay: 300 * time.Millisecond}
	cfg := testConfig()
	cfg.RunOnStart = true
	r := NewRunner(ing, cfg, nil, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Start(ctx, nil) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}
	assert.True(t, ing.finished.Load(), "Start returned before the run-on-start job finished")
}

func TestStart_InvalidSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.CronSchedule = "not a schedule"
	r := NewRunner(&stubIngestor{}, cfg, nil, discardLogger())

	err := r.Start(context.Background(), nil)

	assert.ErrorContains(t, err, "add cron job")
}

func TestRunOnce_AfterSuccessHook(t *testing.T) {
	ing := &stubIngestor{}
	r := NewRunner(ing, testConfig(), nil, discardLogger())
	var got *ingest.RunReport
	r.AfterSuccess(func(_ context.Context, rep *ingest.RunReport) { got = rep })

	r.RunOnce(context.Background())

	require.NotNil(t, got)
	assert.Equal(t, 2, got.Added)
}

func TestRunOnce_AfterSuccessSkippedOnFailure(t *testing.T) {
	ing := &stubIngestor{err: errors.New("boom")}
	r := NewRunner(ing, testConfig(), nil, discardLogger())
	called := false
	r.AfterSuccess(func(context.Context, *ingest.RunReport) { called = true })

	r.RunOnce(context.Background())

	assert.False(t, called)
}
