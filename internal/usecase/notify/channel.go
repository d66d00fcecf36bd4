// Package notify publishes the daily digest to every enabled chat channel.
package notify

import (
	"context"

	"rasad-feed/internal/infra/notifier"
)

// Channel is one delivery destination. Implementations must be safe for
// concurrent use and respect ctx.
type Channel interface {
	// Name is a lowercase identifier used in logs and metric labels.
	Name() string
	IsEnabled() bool
	Send(ctx context.Context, msg notifier.Message) error
}

// NotifierChannel adapts an infra notifier to Channel.
type NotifierChannel struct {
	name     string
	notifier notifier.Notifier
	enabled  bool
}

// NewDiscordChannel returns the "discord" channel. A disabled config gets
// a no-op notifier.
func NewDiscordChannel(cfg notifier.DiscordConfig) *NotifierChannel {
	var n notifier.Notifier = notifier.NewNoOpNotifier()
	if cfg.Enabled {
		n = notifier.NewDiscordNotifier(cfg)
	}
	return &NotifierChannel{name: "discord", notifier: n, enabled: cfg.Enabled}
}

// NewSlackChannel returns the "slack" channel.
func NewSlackChannel(cfg notifier.SlackConfig) *NotifierChannel {
	var n notifier.Notifier = notifier.NewNoOpNotifier()
	if cfg.Enabled {
		n = notifier.NewSlackNotifier(cfg)
	}
	return &NotifierChannel{name: "slack", notifier: n, enabled: cfg.Enabled}
}

func (c *NotifierChannel) Name() string    { return c.name }
func (c *NotifierChannel) IsEnabled() bool { return c.enabled }

func (c *NotifierChannel) Send(ctx context.Context, msg notifier.Message) error {
	if !c.enabled {
		return ErrChannelDisabled
	}
	if msg.Body == "" {
		return ErrEmptyMessage
	}
	return c.notifier.Notify(ctx, msg)
}
