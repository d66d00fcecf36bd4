package notifier

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"rasad-feed/internal/pkg/config"
)

const defaultTimeout = 30 * time.Second

// ValidateDiscordWebhook accepts https://discord.com/api/webhooks/... URLs.
func ValidateDiscordWebhook(raw string) error {
	return validateWebhook(raw, []string{"discord.com", "discordapp.com"}, "/api/webhooks/")
}

// ValidateSlackWebhook accepts https://hooks.slack.com/services/... URLs.
func ValidateSlackWebhook(raw string) error {
	return validateWebhook(raw, []string{"hooks.slack.com"}, "/services/")
}

func validateWebhook(raw string, hosts []string, pathPrefix string) error {
	if raw == "" {
		return errors.New("webhook URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errors.New("invalid webhook URL format")
	}
	if u.Scheme != "https" {
		return errors.New("webhook URL must use https")
	}
	hostOK := false
	for _, h := range hosts {
		if u.Host == h {
			hostOK = true
			break
		}
	}
	if !hostOK {
		return fmt.Errorf("invalid webhook host %q", u.Host)
	}
	if !strings.HasPrefix(u.Path, pathPrefix) {
		return fmt.Errorf("invalid webhook path, must start with %s", pathPrefix)
	}
	return nil
}

// LoadDiscordConfig reads DISCORD_ENABLED, DISCORD_WEBHOOK_URL and
// NOTIFY_TIMEOUT. An enabled channel with an invalid URL is disabled with a
// warning; the URL itself is never logged.
func LoadDiscordConfig(logger *slog.Logger, metrics *config.ConfigMetrics) DiscordConfig {
	enabled, timeout := loadCommon(logger, metrics, "DISCORD_ENABLED")
	cfg := DiscordConfig{Timeout: timeout}
	if !enabled {
		return cfg
	}
	webhook := os.Getenv("DISCORD_WEBHOOK_URL")
	if err := ValidateDiscordWebhook(webhook); err != nil {
		logger.Warn("Discord webhook rejected, disabling notifications", slog.String("reason", err.Error()))
		if metrics != nil {
			metrics.RecordValidationError("discord_webhook_url")
		}
		return cfg
	}
	cfg.Enabled, cfg.WebhookURL = true, webhook
	return cfg
}

// LoadSlackConfig is LoadDiscordConfig for SLACK_ENABLED and SLACK_WEBHOOK_URL.
func LoadSlackConfig(logger *slog.Logger, metrics *config.ConfigMetrics) SlackConfig {
	enabled, timeout := loadCommon(logger, metrics, "SLACK_ENABLED")
	cfg := SlackConfig{Timeout: timeout}
	if !enabled {
		return cfg
	}
	webhook := os.Getenv("SLACK_WEBHOOK_URL")
	if err := ValidateSlackWebhook(webhook); err != nil {
		logger.Warn("Slack webhook rejected, disabling notifications", slog.String("reason", err.Error()))
		if metrics != nil {
			metrics.RecordValidationError("slack_webhook_url")
		}
		return cfg
	}
	cfg.Enabled, cfg.WebhookURL = true, webhook
	return cfg
}

func loadCommon(logger *slog.Logger, metrics *config.ConfigMetrics, enabledKey string) (bool, time.Duration) {
	warn := func(field string, res config.ConfigLoadResult) {
		if !res.FallbackApplied {
			return
		}
		if metrics != nil {
			metrics.RecordFallback(field, "default")
		}
		for _, w := range res.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", w))
		}
	}

	res := config.LoadEnvBool(enabledKey, false)
	warn(strings.ToLower(enabledKey), res)
	enabled := res.Value.(bool)

	res = config.LoadEnvDuration("NOTIFY_TIMEOUT", defaultTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Second, 2*time.Minute)
	})
	warn("notify_timeout", res)
	return enabled, res.Value.(time.Duration)
}
