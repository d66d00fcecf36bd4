package notify_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rasad-feed/internal/domain/entity"
	"rasad-feed/internal/infra/notifier"
	"rasad-feed/internal/usecase/notify"
	"rasad-feed/internal/usecase/report"
)

/* ───────── スタブ ───────── */

type stubChannel struct {
	name    string
	enabled bool
	err     error
	panics  bool

	mu   sync.Mutex
	sent []notifier.Message
}

func (c *stubChannel) Name() string    { return c.name }
func (c *stubChannel) IsEnabled() bool { return c.enabled }

func (c *stubChannel) Send(_ context.Context, msg notifier.Message) error {
	if c.panics {
		panic("boom")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return c.err
}

func (c *stubChannel) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

type stubReports struct {
	rep     *report.DayReport
	err     error
	lastDay string
	today   bool
}

func (s *stubReports) Day(_ context.Context, day string) (*report.DayReport, error) {
	s.lastDay = day
	return s.rep, s.err
}

func (s *stubReports) Today(context.Context) (*report.DayReport, error) {
	s.today = true
	return s.rep, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var msg = notifier.Message{Day: "1404-01-01", Title: "خلاصه", Body: "📰 IRNA: 1 خبر"}

/* ───────── Service ───────── */

func TestPublish_SendsToEnabledChannelsOnly(t *testing.T) {
	discord := &stubChannel{name: "discord", enabled: true}
	slack := &stubChannel{name: "slack", enabled: false}
	svc := notify.NewService([]notify.Channel{discord, slack}, time.Second, discardLogger())

	require.NoError(t, svc.Publish(context.Background(), msg))

	assert.Equal(t, 1, discord.count())
	assert.Equal(t, 0, slack.count())
	assert.Equal(t, 1, svc.Enabled())
}

func TestPublish_JoinsChannelErrors(t *testing.T) {
	boom := errors.New("webhook 500")
	discord := &stubChannel{name: "discord", enabled: true, err: boom}
	slack := &stubChannel{name: "slack", enabled: true}
	svc := notify.NewService([]notify.Channel{discord, slack}, time.Second, discardLogger())

	err := svc.Publish(context.Background(), msg)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "discord")
	assert.Equal(t, 1, slack.count())
}

func TestPublish_EmptyBody(t *testing.T) {
	svc := notify.NewService(nil, 0, discardLogger())

	assert.ErrorIs(t, svc.Publish(context.Background(), notifier.Message{Title: "x"}), notify.ErrEmptyMessage)
}

func TestPublish_RecoversChannelPanic(t *testing.T) {
	ch := &stubChannel{name: "discord", enabled: true, panics: true}
	svc := notify.NewService([]notify.Channel{ch}, time.Second, discardLogger())

	err := svc.Publish(context.Background(), msg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic")
}

func TestPublish_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	ch := &stubChannel{name: "discord-breaker", enabled: true, err: errors.New("down")}
	svc := notify.NewService([]notify.Channel{ch}, time.Second, discardLogger())

	for i := 0; i < 3; i++ {
		_ = svc.Publish(context.Background(), msg)
	}
	err := svc.Publish(context.Background(), msg)

	assert.ErrorIs(t, err, notify.ErrCircuitBreakerOpen)
	assert.Equal(t, 3, ch.count())
	health := svc.ChannelHealth()
	require.Len(t, health, 1)
	assert.True(t, health[0].CircuitBreakerOpen)
}

/* ───────── Channel ───────── */

func TestNotifierChannel(t *testing.T) {
	disabled := notify.NewDiscordChannel(notifier.DiscordConfig{})
	assert.Equal(t, "discord", disabled.Name())
	assert.False(t, disabled.IsEnabled())
	assert.ErrorIs(t, disabled.Send(context.Background(), msg), notify.ErrChannelDisabled)

	slack := notify.NewSlackChannel(notifier.SlackConfig{Enabled: true, WebhookURL: "https://hooks.slack.com/services/x"})
	assert.True(t, slack.IsEnabled())
	assert.ErrorIs(t, slack.Send(context.Background(), notifier.Message{}), notify.ErrEmptyMessage)
}

/* ───────── Publisher ───────── */

func dayReport(items ...*entity.NewsItem) *report.DayReport {
	return &report.DayReport{
		Day:      "1404-01-01",
		Long:     "1 فروردین 1404",
		Items:    items,
		Agencies: report.GroupByAgency(items),
	}
}

func TestPublisher_PublishDay(t *testing.T) {
	ch := &stubChannel{name: "discord", enabled: true}
	reports := &stubReports{rep: dayReport(
		&entity.NewsItem{ID: 1, Agency: "IRNA", Title: "خبر اول"},
		&entity.NewsItem{ID: 2, Agency: "ISNA", Title: "خبر دوم"},
	)}
	p := &notify.Publisher{Reports: reports, Notify: notify.NewService([]notify.Channel{ch}, time.Second, discardLogger())}

	sent, err := p.PublishDay(context.Background(), "1404-01-01")

	require.NoError(t, err)
	assert.True(t, sent)
	assert.Equal(t, "1404-01-01", reports.lastDay)
	require.Equal(t, 1, ch.count())
	got := ch.sent[0]
	assert.Equal(t, "1404-01-01", got.Day)
	assert.Equal(t, "📅 خلاصه اخبار 1 فروردین 1404", got.Title)
	assert.Equal(t, "📰 IRNA: 1 خبر\n  • خبر اول\n\n📰 ISNA: 1 خبر\n  • خبر دوم\n", got.Body)
}

func TestPublisher_TodayWithoutItemsSendsNothing(t *testing.T) {
	ch := &stubChannel{name: "discord", enabled: true}
	reports := &stubReports{rep: dayReport()}
	p := &notify.Publisher{Reports: reports, Notify: notify.NewService([]notify.Channel{ch}, time.Second, discardLogger())}

	sent, err := p.PublishDay(context.Background(), "")

	require.NoError(t, err)
	assert.False(t, sent)
	assert.True(t, reports.today)
	assert.Equal(t, 0, ch.count())
}

func TestPublisher_NoChannelsSkipsLoad(t *testing.T) {
	reports := &stubReports{err: errors.New("must not be called")}
	p := &notify.Publisher{Reports: reports, Notify: notify.NewService(nil, 0, discardLogger())}

	sent, err := p.PublishDay(context.Background(), "")

	require.NoError(t, err)
	assert.False(t, sent)
	assert.False(t, reports.today)
}

func TestPublisher_InvalidDay(t *testing.T) {
	ch := &stubChannel{name: "discord", enabled: true}
	reports := &stubReports{err: report.ErrInvalidDay}
	p := &notify.Publisher{Reports: reports, Notify: notify.NewService([]notify.Channel{ch}, time.Second, discardLogger())}

	_, err := p.PublishDay(context.Background(), "1404-13-01")

	assert.ErrorIs(t, err, report.ErrInvalidDay)
}
