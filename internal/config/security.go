// Package config loads the YAML configuration files of the API server and
// the site CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SecurityConfig is the auth policy of the content API.
type SecurityConfig struct {
	Security struct {
		Auth struct {
			Provider          string   `yaml:"provider"`
			MinPasswordLength int      `yaml:"min_password_length"`
			WeakPasswords     []string `yaml:"weak_passwords"`
		} `yaml:"auth"`
		JWT struct {
			SecretEnv     string `yaml:"secret_env"`
			ExpiryMinutes int    `yaml:"expiry_minutes"`
		} `yaml:"jwt"`
	} `yaml:"security"`
}

// DefaultSecurityConfig is used when no security file is configured.
func DefaultSecurityConfig() *SecurityConfig {
	c := &SecurityConfig{}
	c.Security.Auth.Provider = "env"
	c.Security.Auth.MinPasswordLength = 12
	c.Security.JWT.SecretEnv = "JWT_SECRET"
	c.Security.JWT.ExpiryMinutes = 60
	return c
}

// LoadSecurityConfig reads path over the defaults. An empty path returns the
// defaults.
func LoadSecurityConfig(path string) (*SecurityConfig, error) {
	cfg := DefaultSecurityConfig()
	if path == "" {
		return cfg, nil
	}
	// #nosec G304 -- path comes from a flag or env var set by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *SecurityConfig) Validate() error {
	if c.Security.Auth.Provider != "env" {
		return fmt.Errorf("unsupported auth provider %q", c.Security.Auth.Provider)
	}
	if c.Security.Auth.MinPasswordLength < 8 {
		return errors.New("min_password_length must be at least 8")
	}
	if c.Security.JWT.SecretEnv == "" {
		return errors.New("jwt secret_env is required")
	}
	if c.Security.JWT.ExpiryMinutes <= 0 {
		return errors.New("jwt expiry_minutes must be positive")
	}
	return nil
}

func (c *SecurityConfig) TokenTTL() time.Duration {
	return time.Duration(c.Security.JWT.ExpiryMinutes) * time.Minute
}
