package fetcher

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"tnsystems-site/pkg/config"
)

// ContentFetchConfig controls full-page fetching for imported posts. The env
// tag names the variable each field is read from.
type ContentFetchConfig struct {
	// Enabled false makes the importer keep feed content as is.
	Enabled bool `env:"CONTENT_FETCH_ENABLED"`

	// Threshold is the visible-text length of feed content, in runes, below
	// which the page is fetched.
	Threshold int `env:"CONTENT_FETCH_THRESHOLD" validate:"gte=0"`

	Timeout     time.Duration `env:"CONTENT_FETCH_TIMEOUT" validate:"gt=0"`
	Parallelism int           `env:"CONTENT_FETCH_PARALLELISM" validate:"min=1,max=50"`

	// MaxBodySize is enforced while reading, not from Content-Length.
	MaxBodySize int64 `env:"CONTENT_FETCH_MAX_BODY_SIZE" validate:"min=1024,max=104857600"`

	MaxRedirects int `env:"CONTENT_FETCH_MAX_REDIRECTS" validate:"min=0,max=10"`

	// DenyPrivateIPs rejects URLs and redirects that resolve to loopback,
	// private or link-local addresses.
	DenyPrivateIPs bool `env:"CONTENT_FETCH_DENY_PRIVATE_IPS"`
}

func DefaultConfig() ContentFetchConfig {
	return ContentFetchConfig{
		Enabled:        true,
		Threshold:      500,
		Timeout:        10 * time.Second,
		Parallelism:    5,
		MaxBodySize:    5 << 20,
		MaxRedirects:   5,
		DenyPrivateIPs: true,
	}
}

var configValidator = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("env")
	})
	return v
}()

// Validate reports every out-of-range field by its variable name.
func (c *ContentFetchConfig) Validate() error {
	err := configValidator.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s=%v violates %s%s", fe.Field(), fe.Value(), fe.Tag(), param(fe.Param())))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func param(p string) string {
	if p == "" {
		return ""
	}
	return "=" + p
}

// LoadConfigFromEnv reads the CONTENT_FETCH_* variables over the defaults
// and validates the result.
func LoadConfigFromEnv() (ContentFetchConfig, error) {
	d := DefaultConfig()
	cfg := ContentFetchConfig{
		Enabled:        config.GetEnvBool("CONTENT_FETCH_ENABLED", d.Enabled),
		Threshold:      config.GetEnvInt("CONTENT_FETCH_THRESHOLD", d.Threshold),
		Timeout:        config.GetEnvDuration("CONTENT_FETCH_TIMEOUT", d.Timeout),
		Parallelism:    config.GetEnvInt("CONTENT_FETCH_PARALLELISM", d.Parallelism),
		MaxBodySize:    int64(config.GetEnvInt("CONTENT_FETCH_MAX_BODY_SIZE", int(d.MaxBodySize))),
		MaxRedirects:   config.GetEnvInt("CONTENT_FETCH_MAX_REDIRECTS", d.MaxRedirects),
		DenyPrivateIPs: config.GetEnvBool("CONTENT_FETCH_DENY_PRIVATE_IPS", d.DenyPrivateIPs),
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("content fetch configuration: %w", err)
	}
	return cfg, nil
}
