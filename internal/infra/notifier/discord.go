package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"tnsystems-site/internal/domain/entity"
)

// DiscordConfig configures the Discord webhook notifier.
type DiscordConfig struct {
	Enabled    bool
	WebhookURL string
	Timeout    time.Duration
	Retry      RetryPolicy
}

// DiscordNotifier posts notifications as Discord embeds.
// Discord allows 30 webhook requests per minute, so it paces at 0.5 req/s with a burst of 3.
type DiscordNotifier struct {
	hook *webhook
}

func NewDiscordNotifier(config DiscordConfig) *DiscordNotifier {
	if config.Retry.MaxAttempts == 0 {
		config.Retry = DefaultRetryPolicy()
	}
	return &DiscordNotifier{hook: &webhook{
		name:       "discord",
		url:        config.WebhookURL,
		client:     &http.Client{Timeout: config.Timeout},
		pace:       rate.NewLimiter(0.5, 3),
		retry:      config.Retry,
		retryAfter: discordRetryAfter,
	}}
}

type DiscordWebhookPayload struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

type DiscordEmbed struct {
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	URL         string              `json:"url,omitempty"`
	Color       int                 `json:"color"`
	Fields      []DiscordEmbedField `json:"fields,omitempty"`
	Footer      DiscordEmbedFooter  `json:"footer"`
	Timestamp   string              `json:"timestamp"`
}

type DiscordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

const (
	maxTitleLength       = 256
	maxDescriptionLength = 4096
	maxEmbedFields       = 25
	maxFieldValueLength  = 1024
	truncationSuffix     = "..."

	// #5865F2
	discordBlueColor = 5793266
	// #57F287
	discordGreenColor = 5763719
)

func buildEmbedPayload(n *entity.Notification) DiscordWebhookPayload {
	color := discordBlueColor
	if n.Kind == entity.NotifyApplication {
		color = discordGreenColor
	}

	embed := DiscordEmbed{
		Title:       truncate(n.Title, maxTitleLength, ""),
		Description: truncate(n.Body, maxDescriptionLength, truncationSuffix),
		URL:         n.URL,
		Color:       color,
		Footer:      DiscordEmbedFooter{Text: n.Kind},
		Timestamp:   n.OccurredAt.Format(time.RFC3339),
	}
	for i, f := range n.Fields {
		if i == maxEmbedFields {
			break
		}
		if f.Value == "" {
			continue
		}
		embed.Fields = append(embed.Fields, DiscordEmbedField{
			Name:   f.Name,
			Value:  truncate(f.Value, maxFieldValueLength, truncationSuffix),
			Inline: len(f.Value) <= 40,
		})
	}
	return DiscordWebhookPayload{Embeds: []DiscordEmbed{embed}}
}

// discordRetryAfter prefers retry_after from the JSON body over the header.
func discordRetryAfter(resp *http.Response, body []byte) time.Duration {
	var discordErr struct {
		RetryAfter float64 `json:"retry_after"`
	}
	if err := json.Unmarshal(body, &discordErr); err == nil && discordErr.RetryAfter > 0 {
		return time.Duration(discordErr.RetryAfter * float64(time.Second))
	}
	return retryAfterHeader(resp, 5*time.Second)
}

func (d *DiscordNotifier) Notify(ctx context.Context, n *entity.Notification) error {
	return d.hook.deliver(ctx, n.Kind, buildEmbedPayload(n))
}
