package notifier

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"tnsystems-site/internal/domain/entity"
)

// SlackConfig configures the Slack Incoming Webhook notifier.
type SlackConfig struct {
	Enabled    bool
	WebhookURL string
	Timeout    time.Duration
	Retry      RetryPolicy
}

// SlackNotifier posts Block Kit messages, one per second at most.
type SlackNotifier struct {
	hook *webhook
}

func NewSlackNotifier(config SlackConfig) *SlackNotifier {
	if config.Retry.MaxAttempts == 0 {
		config.Retry = DefaultRetryPolicy()
	}
	return &SlackNotifier{hook: &webhook{
		name:   "slack",
		url:    config.WebhookURL,
		client: &http.Client{Timeout: config.Timeout},
		pace:   rate.NewLimiter(1, 1),
		retry:  config.Retry,
		retryAfter: func(resp *http.Response, _ []byte) time.Duration {
			return retryAfterHeader(resp, 5*time.Second)
		},
	}}
}

type SlackWebhookPayload struct {
	Text   string       `json:"text"`
	Blocks []SlackBlock `json:"blocks"`
}

type SlackBlock struct {
	Type     string            `json:"type"`
	Text     *SlackTextObject  `json:"text,omitempty"`
	Fields   []SlackTextObject `json:"fields,omitempty"`
	Elements []SlackTextObject `json:"elements,omitempty"`
}

type SlackTextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

const (
	maxSectionTextLength = 3000
	maxSlackFields       = 10
	maxSlackFieldLength  = 2000
	maxFallbackLength    = 150
)

func buildBlockKitPayload(n *entity.Notification) SlackWebhookPayload {
	headline := "*" + n.Title + "*"
	if n.URL != "" {
		headline = fmt.Sprintf("*<%s|%s>*", n.URL, n.Title)
	}
	section := headline
	if n.Body != "" {
		section += "\n\n" + n.Body
	}

	blocks := []SlackBlock{{
		Type: "section",
		Text: &SlackTextObject{Type: "mrkdwn", Text: truncate(section, maxSectionTextLength, truncationSuffix)},
	}}

	var fields []SlackTextObject
	for _, f := range n.Fields {
		if f.Value == "" || len(fields) == maxSlackFields {
			continue
		}
		fields = append(fields, SlackTextObject{
			Type: "mrkdwn",
			Text: truncate(fmt.Sprintf("*%s*\n%s", f.Name, f.Value), maxSlackFieldLength, truncationSuffix),
		})
	}
	if len(fields) > 0 {
		blocks = append(blocks, SlackBlock{Type: "section", Fields: fields})
	}

	blocks = append(blocks, SlackBlock{
		Type: "context",
		Elements: []SlackTextObject{{
			Type: "mrkdwn",
			Text: strings.ReplaceAll(n.Kind, "_", " ") + " • " + n.OccurredAt.Format(time.RFC3339),
		}},
	})

	return SlackWebhookPayload{
		Text:   truncate(n.Title, maxFallbackLength, truncationSuffix),
		Blocks: blocks,
	}
}

func (s *SlackNotifier) Notify(ctx context.Context, n *entity.Notification) error {
	return s.hook.deliver(ctx, n.Kind, buildBlockKitPayload(n))
}
