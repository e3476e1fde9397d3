package config

import (
	"fmt"
	"math"
	"net/netip"
	"strings"
	"time"
)

// ServerConfig holds the content API listener settings.
type ServerConfig struct {
	Addr            string
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
}

// LoadServerConfig reads HTTP_ADDR, HTTP_MAX_BODY_BYTES and HTTP_SHUTDOWN_TIMEOUT.
func LoadServerConfig() ServerConfig {
	cfg := ServerConfig{
		Addr:            GetEnvString("HTTP_ADDR", ":8080"),
		MaxBodyBytes:    int64(GetEnvInt("HTTP_MAX_BODY_BYTES", 1<<20)),
		ShutdownTimeout: GetEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	cfg.MaxBodyBytes = inRangeOr("HTTP_MAX_BODY_BYTES", cfg.MaxBodyBytes, 1, math.MaxInt64, 1<<20)
	cfg.ShutdownTimeout = inRangeOr("HTTP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout, time.Nanosecond, time.Duration(math.MaxInt64), 10*time.Second)
	return cfg
}

// SubmissionLimitConfig configures the per-IP limiter on the public
// application and contact endpoints.
type SubmissionLimitConfig struct {
	Enabled         bool
	Limit           int
	Window          time.Duration
	CleanupInterval time.Duration
	// TrustProxy makes the limiter read X-Forwarded-For, but only when the
	// connection comes from one of TrustedProxies.
	TrustProxy     bool
	TrustedProxies []netip.Prefix
}

// LoadSubmissionLimitConfig reads the SUBMIT_RATE_LIMIT_* variables.
// Invalid numbers fall back to defaults with a warning; an invalid proxy list
// is an error because guessing would either open or close the limiter.
//
//   - SUBMIT_RATE_LIMIT_ENABLED (default true)
//   - SUBMIT_RATE_LIMIT (default 10)
//   - SUBMIT_RATE_LIMIT_WINDOW (default 1m, between 1s and 1h)
//   - SUBMIT_RATE_LIMIT_CLEANUP_INTERVAL (default 5m)
//   - SUBMIT_RATE_LIMIT_TRUST_PROXY (default false)
//   - SUBMIT_RATE_LIMIT_TRUSTED_PROXIES: comma separated IPs or CIDRs
func LoadSubmissionLimitConfig() (*SubmissionLimitConfig, error) {
	cfg := &SubmissionLimitConfig{
		Enabled:         GetEnvBool("SUBMIT_RATE_LIMIT_ENABLED", true),
		Limit:           GetEnvInt("SUBMIT_RATE_LIMIT", 10),
		Window:          GetEnvDuration("SUBMIT_RATE_LIMIT_WINDOW", time.Minute),
		CleanupInterval: GetEnvDuration("SUBMIT_RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		TrustProxy:      GetEnvBool("SUBMIT_RATE_LIMIT_TRUST_PROXY", false),
	}

	cfg.Limit = inRangeOr("SUBMIT_RATE_LIMIT", cfg.Limit, 1, math.MaxInt, 10)
	cfg.Window = inRangeOr("SUBMIT_RATE_LIMIT_WINDOW", cfg.Window, time.Second, time.Hour, time.Minute)
	cfg.CleanupInterval = inRangeOr("SUBMIT_RATE_LIMIT_CLEANUP_INTERVAL", cfg.CleanupInterval, time.Second, 24*time.Hour, 5*time.Minute)

	if !cfg.TrustProxy {
		return cfg, nil
	}
	proxies := GetEnvStringList("SUBMIT_RATE_LIMIT_TRUSTED_PROXIES", nil)
	if len(proxies) == 0 {
		return nil, fmt.Errorf("SUBMIT_RATE_LIMIT_TRUST_PROXY is enabled but SUBMIT_RATE_LIMIT_TRUSTED_PROXIES is empty")
	}
	prefixes, err := ParseTrustedProxies(proxies)
	if err != nil {
		return nil, err
	}
	cfg.TrustedProxies = prefixes
	return cfg, nil
}

// ParseTrustedProxies parses IPs and CIDR ranges. A bare IP becomes a /32 or /128 prefix.
func ParseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(entries))
	for _, raw := range entries {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(raw); err == nil {
			out = append(out, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid IP or CIDR %q", raw)
		}
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no valid trusted proxies")
	}
	return out, nil
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         int
}

// LoadCORSConfig reads CORS_ALLOWED_ORIGINS (comma separated, default
// http://localhost:3000) and CORS_MAX_AGE in seconds (default 600).
func LoadCORSConfig() CORSConfig {
	cfg := CORSConfig{
		AllowedOrigins: GetEnvStringList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		MaxAge:         GetEnvInt("CORS_MAX_AGE", 600),
	}
	if cfg.MaxAge < 0 {
		cfg.MaxAge = 600
	}
	return cfg
}
