// Package fetcher downloads post pages for the feed importer and extracts
// their readable content.
package fetcher

import (
	"fmt"
	"net"
	"net/url"

	"tnsystems-site/internal/domain/entity"
)

// checkTarget runs before the first request and on every redirect hop.
// Unlike entity.ValidateURL a failed lookup is an error here.
func checkTarget(raw string, denyPrivate bool) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q", ErrInvalidURL, u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	if !denyPrivate {
		return nil
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		return fmt.Errorf("%w: resolve %s: %v", ErrInvalidURL, host, err)
	}
	for _, ip := range ips {
		if entity.IsPrivateIP(ip) {
			return fmt.Errorf("%w: %s resolves to %s", ErrPrivateIP, host, ip)
		}
	}
	return nil
}
