// Package cmsclient talks to the site's CMS REST API: WordPress posts, the job
// board endpoints and Contact Form 7 feedback. Every decoded payload is checked
// against an explicit schema before it reaches the rest of the program.
package cmsclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 5 << 20

// Config holds the endpoint URLs. They mirror the public site configuration.
type Config struct {
	// WordPressAPIURL is the wp/v2 root, e.g. https://example.com/wp-json/wp/v2
	WordPressAPIURL string
	// JobsAPIURL is the job listings collection, e.g. https://example.com/wp-json/jobs/v1/listings
	JobsAPIURL string
	// ContactFormAPIURL is the full feedback URL of the contact form.
	ContactFormAPIURL string

	Timeout   time.Duration
	UserAgent string
}

// Client is safe for concurrent use.
type Client struct {
	cfg      Config
	http     *http.Client
	validate *validator.Validate
	logger   *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default logging HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request logs.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg:      cfg,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = NewHTTPClient(cfg.Timeout, c.logger)
	}
	return c
}

// response is a fully read HTTP response.
type response struct {
	status int
	header http.Header
	body   []byte
}

// do performs one request. Every call goes on the wire: loads and retries
// are user-initiated, so nothing here short-circuits or repeats them. The
// caller maps non-2xx statuses.
func (c *Client) do(ctx context.Context, method, rawURL, contentType string, body []byte) (*response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, &NetworkError{Method: method, URL: rawURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Method: method, URL: rawURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &NetworkError{Method: method, URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}
	return &response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

// get performs a GET and turns non-2xx statuses into HTTPError.
func (c *Client) get(ctx context.Context, rawURL string) (*response, error) {
	res, err := c.do(ctx, http.MethodGet, rawURL, "", nil)
	if err != nil {
		return nil, err
	}
	if res.status < 200 || res.status > 299 {
		return nil, &HTTPError{StatusCode: res.status, URL: rawURL, Message: serverMessage(res.body)}
	}
	return res, nil
}

// serverMessage extracts a human-readable message from an error body.
// WordPress uses "message"; the job endpoints use "error".
func serverMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, key := range []string{"message", "error"} {
		if v := gjson.GetBytes(body, key); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

func joinURL(base string, elems ...string) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return "", fmt.Errorf("parse base URL %q: %w", base, err)
	}
	return u.JoinPath(elems...).String(), nil
}

func withQuery(rawURL string, q url.Values) string {
	if len(q) == 0 {
		return rawURL
	}
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + q.Encode()
}
