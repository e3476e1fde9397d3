package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SiteConfig is everything the site CLI needs to reach the CMS and present
// the company.
type SiteConfig struct {
	API struct {
		// BaseURL is the site root; endpoint paths below are joined to it
		// unless they are absolute URLs.
		BaseURL     string        `yaml:"base_url"`
		PostsPath   string        `yaml:"posts_path"`
		JobsPath    string        `yaml:"jobs_path"`
		ContactPath string        `yaml:"contact_path"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"api"`

	Listing struct {
		PageSize  int `yaml:"page_size"`
		FetchSize int `yaml:"fetch_size"`
	} `yaml:"listing"`

	Company struct {
		Name    string `yaml:"name"`
		Tagline string `yaml:"tagline"`
		Email   string `yaml:"email"`
		Phone   string `yaml:"phone"`
		Address string `yaml:"address"`
	} `yaml:"company"`

	Features struct {
		Blog      bool `yaml:"blog"`
		Careers   bool `yaml:"careers"`
		Analytics bool `yaml:"analytics"`
	} `yaml:"features"`
}

// DefaultSiteConfig points at a local API server.
func DefaultSiteConfig() *SiteConfig {
	c := &SiteConfig{}
	c.API.BaseURL = "http://localhost:8080"
	c.API.PostsPath = "/wp-json/wp/v2"
	c.API.JobsPath = "/wp-json/jobs/v1/listings"
	c.API.ContactPath = "/wp-json/contact-form-7/v1/contact-forms/535/feedback"
	c.API.Timeout = 10 * time.Second
	c.Listing.PageSize = 9
	c.Listing.FetchSize = 100
	c.Company.Name = "TN Systems"
	c.Features.Blog = true
	c.Features.Careers = true
	return c
}

// LoadSiteConfig reads an optional YAML file over the defaults, then applies
// SITE_* environment overrides. A missing file at path is not an error when
// the path came from the default.
func LoadSiteConfig(path string, mustExist bool) (*SiteConfig, error) {
	cfg := DefaultSiteConfig()
	if path != "" {
		// #nosec G304 -- operator-supplied path
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !mustExist:
		default:
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("site config: %w", err)
	}
	return cfg, nil
}

func (c *SiteConfig) applyEnv() {
	if v := os.Getenv("SITE_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("SITE_API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.API.Timeout = d
		}
	}
	if v := os.Getenv("SITE_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Listing.PageSize = n
		}
	}
	if v := os.Getenv("SITE_FEATURE_BLOG"); v != "" {
		c.Features.Blog, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("SITE_FEATURE_ANALYTICS"); v != "" {
		c.Features.Analytics, _ = strconv.ParseBool(v)
	}
}

func (c *SiteConfig) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}
	if c.Listing.PageSize < 1 {
		return errors.New("listing.page_size must be positive")
	}
	if c.Listing.FetchSize < 1 || c.Listing.FetchSize > 100 {
		return errors.New("listing.fetch_size must be between 1 and 100")
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	return nil
}

// Endpoint resolves one of the configured API paths against BaseURL.
func (c *SiteConfig) Endpoint(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(c.API.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// WithAPIURL returns a copy with BaseURL replaced, for the --api-url flag.
func (c *SiteConfig) WithAPIURL(base string) *SiteConfig {
	cp := *c
	cp.API.BaseURL = base
	return &cp
}
