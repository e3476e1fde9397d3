package notifier

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDiscordConfigFromEnv(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name    string
		enabled string
		url     string
		want    bool
	}{
		{"disabled", "false", "https://discord.com/api/webhooks/1/abc", false},
		{"valid", "true", "https://discord.com/api/webhooks/1/abc", true},
		{"empty url", "true", "", false},
		{"http", "true", "http://discord.com/api/webhooks/1/abc", false},
		{"wrong host", "true", "https://evil.example.com/api/webhooks/1/abc", false},
		{"wrong path", "true", "https://discord.com/webhooks/1/abc", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DISCORD_ENABLED", tt.enabled)
			t.Setenv("DISCORD_WEBHOOK_URL", tt.url)

			cfg := LoadDiscordConfigFromEnv(logger)
			assert.Equal(t, tt.want, cfg.Enabled)
			if tt.want {
				assert.Equal(t, tt.url, cfg.WebhookURL)
				assert.Equal(t, webhookTimeout, cfg.Timeout)
			}
		})
	}
}

func TestLoadSlackConfigFromEnv(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Setenv("SLACK_ENABLED", "true")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.com/services/T0/B0/xyz")
	assert.True(t, LoadSlackConfigFromEnv(logger).Enabled)

	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.com/other/T0")
	assert.False(t, LoadSlackConfigFromEnv(logger).Enabled)

	t.Setenv("SLACK_ENABLED", "")
	assert.False(t, LoadSlackConfigFromEnv(logger).Enabled)
}

func TestCheckWebhookURL_DoesNotLeakSecret(t *testing.T) {
	err := checkWebhookURL("http://discord.com/api/webhooks/1/supersecret", "discord.com", "/api/webhooks/")
	if assert.Error(t, err) {
		assert.NotContains(t, err.Error(), "supersecret")
	}
}
