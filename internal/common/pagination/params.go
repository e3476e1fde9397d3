// Package pagination holds the paging rules shared by the REST handlers,
// the use cases and the terminal client.
package pagination

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	envconfig "tnsystems-site/pkg/config"
)

// ErrInvalidParam wraps every rejection from ParseQueryParams.
var ErrInvalidParam = errors.New("invalid query parameter")

// Config bounds the per_page query parameter.
type Config struct {
	PerPage    int
	MaxPerPage int
}

// DefaultConfig matches the WordPress REST defaults.
func DefaultConfig() Config {
	return Config{PerPage: 20, MaxPerPage: 100}
}

// LoadFromEnv reads PAGINATION_PER_PAGE and PAGINATION_MAX_PER_PAGE.
// A default above the maximum is lowered to it.
func LoadFromEnv() Config {
	def := DefaultConfig()
	cfg := Config{
		PerPage:    envconfig.GetEnvInt("PAGINATION_PER_PAGE", def.PerPage),
		MaxPerPage: envconfig.GetEnvInt("PAGINATION_MAX_PER_PAGE", def.MaxPerPage),
	}
	if cfg.MaxPerPage < 1 {
		cfg.MaxPerPage = def.MaxPerPage
	}
	if cfg.PerPage < 1 {
		cfg.PerPage = def.PerPage
	}
	cfg.PerPage = min(cfg.PerPage, cfg.MaxPerPage)
	return cfg
}

// Params is a requested page. Page is 1-based.
type Params struct {
	Page  int
	Limit int
}

// Offset is the number of rows to skip before this page.
func (p Params) Offset() int {
	return CalculateOffset(p.Page, p.Limit)
}

// ParseQueryParams reads page and per_page the way WordPress does: absent
// values take the defaults, anything out of range is an error.
func ParseQueryParams(r *http.Request, cfg Config) (Params, error) {
	p := Params{Page: 1, Limit: cfg.PerPage}
	q := r.URL.Query()

	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, fmt.Errorf("%w: page must be a positive integer", ErrInvalidParam)
		}
		p.Page = n
	}
	if raw := q.Get("per_page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > cfg.MaxPerPage {
			return p, fmt.Errorf("%w: per_page must be between 1 and %d", ErrInvalidParam, cfg.MaxPerPage)
		}
		p.Limit = n
	}
	return p, nil
}

// ParseQueryParamsLenient never fails. Garbage falls back to the defaults
// and per_page is capped at the maximum, which is how the jobs endpoint has
// always behaved.
func ParseQueryParamsLenient(r *http.Request, cfg Config) Params {
	q := r.URL.Query()
	p := Params{Page: 1, Limit: cfg.PerPage}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(q.Get("per_page")); err == nil && n > 0 {
		p.Limit = min(n, cfg.MaxPerPage)
	}
	return p
}

// CalculateOffset converts a 1-based page into a row offset.
func CalculateOffset(page, limit int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * limit
}

// CalculateTotalPages rounds up and never returns less than 1.
func CalculateTotalPages(total int64, limit int) int {
	if total <= 0 || limit < 1 {
		return 1
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
