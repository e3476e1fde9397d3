package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSiteConfig_FileAndEnv(t *testing.T) {
	path := writeFile(t, "site.yaml", `api:
  base_url: https://cms.example.com
  timeout: 5s
listing:
  page_size: 12
company:
  name: Example Corp
features:
  blog: false
`)
	t.Setenv("SITE_API_URL", "https://staging.example.com/")
	t.Setenv("SITE_FEATURE_ANALYTICS", "true")

	cfg, err := LoadSiteConfig(path, true)
	require.NoError(t, err)

	assert.Equal(t, "https://staging.example.com/", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 12, cfg.Listing.PageSize)
	assert.Equal(t, 100, cfg.Listing.FetchSize)
	assert.Equal(t, "Example Corp", cfg.Company.Name)
	assert.False(t, cfg.Features.Blog)
	assert.True(t, cfg.Features.Careers)
	assert.True(t, cfg.Features.Analytics)
	assert.Equal(t, "https://staging.example.com/wp-json/jobs/v1/listings", cfg.Endpoint(cfg.API.JobsPath))
}

func TestLoadSiteConfig_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "site.yaml")

	cfg, err := LoadSiteConfig(missing, false)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Listing.PageSize)

	_, err = LoadSiteConfig(missing, true)
	assert.Error(t, err)
}

func TestSiteConfig_Validate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*SiteConfig)
	}{
		{"relative url", func(c *SiteConfig) { c.API.BaseURL = "/wp-json" }},
		{"ftp url", func(c *SiteConfig) { c.API.BaseURL = "ftp://cms.example.com" }},
		{"zero page size", func(c *SiteConfig) { c.Listing.PageSize = 0 }},
		{"fetch size over WordPress cap", func(c *SiteConfig) { c.Listing.FetchSize = 101 }},
		{"zero timeout", func(c *SiteConfig) { c.API.Timeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultSiteConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, DefaultSiteConfig().Validate())
}

func TestSiteConfig_EndpointAndOverride(t *testing.T) {
	t.Parallel()
	cfg := DefaultSiteConfig().WithAPIURL("https://a.example.com")
	assert.Equal(t, "https://a.example.com/wp-json/wp/v2", cfg.Endpoint("wp-json/wp/v2"))
	assert.Equal(t, "https://other.example.com/x", cfg.Endpoint("https://other.example.com/x"))
	assert.Equal(t, "http://localhost:8080", DefaultSiteConfig().API.BaseURL)
}
