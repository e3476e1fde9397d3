package pagination

import (
	"net/http"
	"strconv"
)

// Metadata contains pagination metadata included in API responses.
type Metadata struct {
	Total      int64 `json:"total"`       // Total number of items across all pages
	Page       int   `json:"page"`        // Current page number (1-based)
	Limit      int   `json:"per_page"`    // Items per page
	TotalPages int   `json:"total_pages"` // Calculated total number of pages
}

// Header names used by the WordPress REST API for collection totals.
const (
	HeaderTotal      = "X-WP-Total"
	HeaderTotalPages = "X-WP-TotalPages"
)

// WriteHeaders sets the WordPress collection headers on w.
// Must be called before the response body is written.
func (m Metadata) WriteHeaders(w http.ResponseWriter) {
	w.Header().Set(HeaderTotal, strconv.FormatInt(m.Total, 10))
	w.Header().Set(HeaderTotalPages, strconv.Itoa(m.TotalPages))
}
