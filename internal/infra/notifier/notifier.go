// Package notifier delivers team notifications to chat webhooks (Discord, Slack).
// Each notifier paces itself with a token bucket and retries transient failures.
// Discard stands in when a channel is disabled.
package notifier

import (
	"context"

	"tnsystems-site/internal/domain/entity"
)

// Notifier sends a single notification. Implementations are safe for
// concurrent use and respect ctx cancellation.
type Notifier interface {
	Notify(ctx context.Context, n *entity.Notification) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n *entity.Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n *entity.Notification) error {
	return f(ctx, n)
}

// Discard accepts and drops every notification.
var Discard Notifier = NotifierFunc(func(context.Context, *entity.Notification) error { return nil })
