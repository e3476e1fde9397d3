package auth

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAdminCredentials(t *testing.T) {
	tests := []struct {
		name    string
		user    string
		pass    string
		wantErr string
	}{
		{"valid", "admin", "Correct-Horse-Battery-9", ""},
		{"empty user", "", "Correct-Horse-Battery-9", "ADMIN_USER must not be empty"},
		{"empty password", "admin", "", "must not be empty"},
		{"short", "admin", "Sh0rt!", "at least 12 characters"},
		{"ascending digits", "admin", "123456789012", "numeric pattern"},
		{"repeated", "admin", "aaaaaaaaaaaa", "numeric pattern"},
		{"keyboard", "admin", "MyQwertyPass99", "keyboard pattern"},
		{"reversed keyboard", "admin", "lkjhgfdsa-1234", "keyboard pattern"},
		{"weak prefix", "admin", "password12345", "common weak passwords"},
		{"long passphrase with weak prefix", "admin", "welcome-to-the-jungle-2024", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ADMIN_USER", tt.user)
			t.Setenv("ADMIN_USER_PASSWORD", tt.pass)
			err := ValidateAdminCredentials()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
				if tt.pass != "" {
					assert.NotContains(t, err.Error(), tt.pass)
				}
			}
		})
	}
}

func TestValidateEditorCredentials(t *testing.T) {
	tests := []struct {
		name        string
		user        string
		pass        string
		wantEnabled bool
		wantLog     string
	}{
		{"not configured", "", "", false, "admin-only"},
		{"empty password", "editor", "", false, "EDITOR_USER_PASSWORD is empty"},
		{"same as admin", "admin", "Correct-Horse-Battery-9", false, "same as ADMIN_USER"},
		{"weak", "editor", "short", false, "disabling editor role"},
		{"valid", "editor", "Editor-Battery-Staple-7", true, "editor role configured"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ADMIN_USER", "admin")
			t.Setenv("EDITOR_USER", tt.user)
			t.Setenv("EDITOR_USER_PASSWORD", tt.pass)

			var buf bytes.Buffer
			ValidateEditorCredentials(slog.New(slog.NewTextHandler(&buf, nil)))

			assert.Equal(t, tt.wantEnabled, os.Getenv("EDITOR_USER") != "")
			assert.True(t, strings.Contains(buf.String(), tt.wantLog), buf.String())
		})
	}
}
