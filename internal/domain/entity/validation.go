package entity

import (
	"fmt"
	"net"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

const maxURLLength = 2048

// ValidateURL checks a URL the server fetches itself, such as an import feed.
// Besides the ValidateLink rules the host must not resolve to a loopback,
// private or link-local address.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "url", Message: "is required"}
	}
	if err := ValidateLink("url", rawURL); err != nil {
		return err
	}
	u, _ := url.Parse(rawURL)
	if ip, ok := ResolvesPrivate(u.Hostname()); ok {
		return &ValidationError{Field: "url", Message: "host resolves to private address " + ip.String()}
	}
	return nil
}

// ResolvesPrivate returns the first internal address host maps to.
// Lookup failures report false; the fetch will fail on its own.
func ResolvesPrivate(host string) (net.IP, bool) {
	ips, err := net.LookupIP(host)
	if err != nil {
		return nil, false
	}
	for _, ip := range ips {
		if IsPrivateIP(ip) {
			return ip, true
		}
	}
	return nil, false
}

// IsPrivateIP reports addresses the importer must never connect to.
// Link-local includes the 169.254.169.254 metadata endpoint.
func IsPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}

// ValidateLink checks that rawURL is an absolute http(s) URL. Unlike ValidateURL it
// performs no DNS lookup; it is used for links that are only stored and rendered
// (featured media, résumé links, company websites).
func ValidateLink(field, rawURL string) error {
	if len(rawURL) > maxURLLength {
		return &ValidationError{Field: field, Message: fmt.Sprintf("must not exceed %d characters", maxURLLength)}
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ValidationError{Field: field, Message: "must be an http or https URL"}
	}
	return nil
}

// ValidateEmail checks that addr is a single bare e-mail address.
func ValidateEmail(field, addr string) error {
	parsed, err := mail.ParseAddress(addr)
	if err != nil || parsed.Address != addr || !strings.Contains(addr[strings.LastIndex(addr, "@")+1:], ".") {
		return &ValidationError{Field: field, Message: "invalid email address"}
	}
	return nil
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidateSlug checks the post slug format: lowercase words joined by single hyphens.
func ValidateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return &ValidationError{Field: "slug", Message: "slug must contain only lowercase letters, digits and single hyphens"}
	}
	return nil
}

// Slugify derives a slug from a title. Non-ASCII letters are dropped,
// which may yield "" for titles without any ASCII letters or digits.
func Slugify(title string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}
	return b.String()
}
