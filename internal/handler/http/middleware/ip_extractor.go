// Package middleware holds the cross-cutting HTTP middleware of the content API
// that needs configuration: browser CORS and the per-IP limiter guarding the
// public application and contact submission endpoints.
package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// IPExtractor resolves the client IP a request is attributed to.
type IPExtractor interface {
	ExtractIP(r *http.Request) (string, error)
}

// RemoteAddrExtractor uses the TCP peer address and ignores forwarding headers.
// It is the default, because headers are client controlled.
type RemoteAddrExtractor struct{}

func (e *RemoteAddrExtractor) ExtractIP(r *http.Request) (string, error) {
	return extractIPFromAddr(r.RemoteAddr)
}

// TrustedProxyExtractor reads X-Forwarded-For, then X-Real-IP, but only when
// the peer address is inside one of the trusted prefixes. Requests from
// anywhere else fall back to RemoteAddr so the limiter cannot be dodged by
// rotating a spoofed header.
type TrustedProxyExtractor struct {
	trusted []netip.Prefix
}

func NewTrustedProxyExtractor(trusted []netip.Prefix) *TrustedProxyExtractor {
	return &TrustedProxyExtractor{trusted: trusted}
}

// IsTrusted reports whether remoteAddr ("ip:port" or bare ip) is a trusted proxy.
func (e *TrustedProxyExtractor) IsTrusted(remoteAddr string) bool {
	ip, err := extractIPFromAddr(remoteAddr)
	if err != nil {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range e.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func (e *TrustedProxyExtractor) ExtractIP(r *http.Request) (string, error) {
	if !e.IsTrusted(r.RemoteAddr) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			slog.Warn("ignoring X-Forwarded-For from untrusted peer",
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("x_forwarded_for", xff))
		}
		return extractIPFromAddr(r.RemoteAddr)
	}
	if ip := firstIP(r.Header.Get("X-Forwarded-For")); ip != "" {
		return ip, nil
	}
	if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
		return ip.String(), nil
	}
	return extractIPFromAddr(r.RemoteAddr)
}

// NewIPExtractor picks the extractor for the given trust settings.
func NewIPExtractor(trustProxy bool, trusted []netip.Prefix) IPExtractor {
	if trustProxy && len(trusted) > 0 {
		return NewTrustedProxyExtractor(trusted)
	}
	return &RemoteAddrExtractor{}
}

// extractIPFromAddr drops the port when there is one:
//
//	"192.168.1.1:8080"   -> "192.168.1.1"
//	"[2001:db8::1]:8080" -> "2001:db8::1"
//	"127.0.0.1"          -> "127.0.0.1"
func extractIPFromAddr(addr string) (string, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		if ip := net.ParseIP(addr); ip != nil {
			return ip.String(), nil
		}
		return "", fmt.Errorf("invalid address format: %s", addr)
	}
	return host, nil
}

// firstIP returns the left-most entry of an X-Forwarded-For list when it parses.
func firstIP(list string) string {
	if list == "" {
		return ""
	}
	first, _, _ := strings.Cut(list, ",")
	if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
		return ip.String()
	}
	return ""
}
