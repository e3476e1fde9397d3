// Package notify fans team notifications out to the configured chat channels.
// Dispatch is asynchronous: callers never wait for, or see errors from, delivery.
// Each channel has its own consecutive-failure breaker and all deliveries share
// a bounded worker pool.
package notify

import (
	"context"
	"log/slog"

	"tnsystems-site/internal/domain/entity"
	"tnsystems-site/internal/infra/notifier"
)

// Channel is one delivery target. Implementations must be safe for concurrent
// use and respect ctx cancellation.
type Channel interface {
	// Name is a lowercase identifier used in logs, metrics and health output.
	Name() string
	IsEnabled() bool
	Send(ctx context.Context, n *entity.Notification) error
}

// WebhookChannel adapts a notifier.Notifier to Channel.
type WebhookChannel struct {
	name     string
	notifier notifier.Notifier
	enabled  bool
}

// NewDiscordChannel builds the Discord channel; a disabled config yields a
// channel backed by notifier.Discard.
func NewDiscordChannel(config notifier.DiscordConfig) *WebhookChannel {
	var n notifier.Notifier = notifier.Discard
	if config.Enabled {
		n = notifier.NewDiscordNotifier(config)
	}
	return &WebhookChannel{name: "discord", notifier: n, enabled: config.Enabled}
}

func NewSlackChannel(config notifier.SlackConfig) *WebhookChannel {
	var n notifier.Notifier = notifier.Discard
	if config.Enabled {
		n = notifier.NewSlackNotifier(config)
	}
	return &WebhookChannel{name: "slack", notifier: n, enabled: config.Enabled}
}

// ChannelsFromEnv builds the Discord and Slack channels from the environment.
// Disabled channels are included so health output lists them.
func ChannelsFromEnv(logger *slog.Logger) []Channel {
	return []Channel{
		NewDiscordChannel(notifier.LoadDiscordConfigFromEnv(logger)),
		NewSlackChannel(notifier.LoadSlackConfigFromEnv(logger)),
	}
}

func (c *WebhookChannel) Name() string    { return c.name }
func (c *WebhookChannel) IsEnabled() bool { return c.enabled }

func (c *WebhookChannel) Send(ctx context.Context, n *entity.Notification) error {
	if !c.enabled {
		return ErrChannelDisabled
	}
	if err := validate(n); err != nil {
		return err
	}
	return c.notifier.Notify(ctx, n)
}

func validate(n *entity.Notification) error {
	if n == nil || n.Title == "" || n.Kind == "" {
		return ErrInvalidNotification
	}
	return nil
}
