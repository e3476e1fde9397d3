package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"tnsystems-site/internal/resilience/circuitbreaker"
)

// UserAgent identifies page fetches to upstream sites.
const UserAgent = "TNSystemsSiteImporter/1.0"

// ReadabilityFetcher downloads a post page and extracts its main content with
// the Readability algorithm. It is safe for concurrent use.
type ReadabilityFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         ContentFetchConfig
}

func NewReadabilityFetcher(config ContentFetchConfig) *ReadabilityFetcher {
	f := &ReadabilityFetcher{
		circuitBreaker: circuitbreaker.New(circuitbreaker.PageFetchConfig()),
		config:         config,
	}
	f.client = &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= f.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			// Every hop is checked, not only the first URL.
			if err := checkTarget(req.URL.String(), f.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}
	return f
}

// FetchContent returns the readable HTML of the page at pageURL.
func (f *ReadabilityFetcher) FetchContent(ctx context.Context, pageURL string) (string, error) {
	if err := checkTarget(pageURL, f.config.DenyPrivateIPs); err != nil {
		return "", err
	}
	return circuitbreaker.Do(f.circuitBreaker, func() (string, error) {
		return f.doFetch(ctx, pageURL)
	})
}

func (f *ReadabilityFetcher) doFetch(ctx context.Context, pageURL string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return "", fmt.Errorf("%w: request exceeded %v", ErrTimeout, f.config.Timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			return "", urlErr.Err
		}
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}
	if int64(len(body)) > f.config.MaxBodySize {
		return "", fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, f.config.MaxBodySize)
	}

	// Relative links resolve against the final URL after redirects.
	base := resp.Request.URL
	article, err := readability.FromReader(bytes.NewReader(body), base)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadabilityFailed, err)
	}
	if strings.TrimSpace(article.Content) == "" {
		return "", fmt.Errorf("%w: no readable content found", ErrReadabilityFailed)
	}
	return article.Content, nil
}
