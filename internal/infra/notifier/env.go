package notifier

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"
)

const webhookTimeout = 30 * time.Second

// LoadDiscordConfigFromEnv reads DISCORD_ENABLED and DISCORD_WEBHOOK_URL.
// A malformed URL disables the channel with a warning instead of failing startup.
func LoadDiscordConfigFromEnv(logger *slog.Logger) DiscordConfig {
	if os.Getenv("DISCORD_ENABLED") != "true" {
		return DiscordConfig{}
	}
	raw := os.Getenv("DISCORD_WEBHOOK_URL")
	if err := checkWebhookURL(raw, "discord.com", "/api/webhooks/"); err != nil {
		logger.Warn("discord notifications disabled", slog.String("reason", err.Error()))
		return DiscordConfig{}
	}
	return DiscordConfig{Enabled: true, WebhookURL: raw, Timeout: webhookTimeout}
}

// LoadSlackConfigFromEnv reads SLACK_ENABLED and SLACK_WEBHOOK_URL.
func LoadSlackConfigFromEnv(logger *slog.Logger) SlackConfig {
	if os.Getenv("SLACK_ENABLED") != "true" {
		return SlackConfig{}
	}
	raw := os.Getenv("SLACK_WEBHOOK_URL")
	if err := checkWebhookURL(raw, "hooks.slack.com", "/services/"); err != nil {
		logger.Warn("slack notifications disabled", slog.String("reason", err.Error()))
		return SlackConfig{}
	}
	return SlackConfig{Enabled: true, WebhookURL: raw, Timeout: webhookTimeout}
}

// checkWebhookURL never echoes raw: webhook URLs carry their secret in the path.
func checkWebhookURL(raw, host, pathPrefix string) error {
	if raw == "" {
		return fmt.Errorf("webhook URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("webhook URL is malformed")
	}
	if u.Scheme != "https" {
		return fmt.Errorf("webhook URL must use https")
	}
	if u.Host != host {
		return fmt.Errorf("webhook host %q is not %s", u.Host, host)
	}
	if !strings.HasPrefix(u.Path, pathPrefix) {
		return fmt.Errorf("webhook path must start with %s", pathPrefix)
	}
	return nil
}
