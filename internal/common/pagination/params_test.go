package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tnsystems-site/internal/common/pagination"
)

func TestParseQueryParams(t *testing.T) {
	t.Parallel()

	cfg := pagination.DefaultConfig()
	tests := []struct {
		name    string
		query   string
		want    pagination.Params
		wantErr string
	}{
		{name: "defaults", query: "", want: pagination.Params{Page: 1, Limit: 20}},
		{name: "explicit", query: "?page=3&per_page=9", want: pagination.Params{Page: 3, Limit: 9}},
		{name: "max per_page", query: "?per_page=100", want: pagination.Params{Page: 1, Limit: 100}},
		{name: "page zero", query: "?page=0", wantErr: "page must be a positive integer"},
		{name: "page not a number", query: "?page=two", wantErr: "page must be a positive integer"},
		{name: "per_page over max", query: "?per_page=101", wantErr: "per_page must be between 1 and 100"},
		{name: "per_page zero", query: "?per_page=0", wantErr: "per_page must be between 1 and 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := pagination.ParseQueryParams(httptest.NewRequest("GET", "/wp-json/wp/v2/posts"+tt.query, nil), cfg)
			if tt.wantErr != "" {
				require.ErrorIs(t, err, pagination.ErrInvalidParam)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseQueryParamsLenient(t *testing.T) {
	t.Parallel()

	cfg := pagination.Config{PerPage: 10, MaxPerPage: 50}
	tests := []struct {
		query string
		want  pagination.Params
	}{
		{"", pagination.Params{Page: 1, Limit: 10}},
		{"?page=x&per_page=y", pagination.Params{Page: 1, Limit: 10}},
		{"?page=-2&per_page=0", pagination.Params{Page: 1, Limit: 10}},
		{"?page=4&per_page=500", pagination.Params{Page: 4, Limit: 50}},
		{"?page=2&per_page=5", pagination.Params{Page: 2, Limit: 5}},
	}
	for _, tt := range tests {
		got := pagination.ParseQueryParamsLenient(httptest.NewRequest("GET", "/wp-json/jobs/v1/listings"+tt.query, nil), cfg)
		assert.Equal(t, tt.want, got, "query %q", tt.query)
	}
}

func TestLoadFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		perPage string
		max     string
		want    pagination.Config
	}{
		{name: "unset", want: pagination.Config{PerPage: 20, MaxPerPage: 100}},
		{name: "custom", perPage: "9", max: "30", want: pagination.Config{PerPage: 9, MaxPerPage: 30}},
		{name: "default above max", perPage: "60", max: "40", want: pagination.Config{PerPage: 40, MaxPerPage: 40}},
		{name: "malformed", perPage: "lots", max: "-1", want: pagination.Config{PerPage: 20, MaxPerPage: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PAGINATION_PER_PAGE", tt.perPage)
			t.Setenv("PAGINATION_MAX_PER_PAGE", tt.max)
			assert.Equal(t, tt.want, pagination.LoadFromEnv())
		})
	}
}

func TestOffsetAndTotalPages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 18, pagination.Params{Page: 3, Limit: 9}.Offset())
	assert.Equal(t, 0, pagination.CalculateOffset(0, 9))

	for _, tc := range []struct {
		total int64
		limit int
		want  int
	}{
		{0, 20, 1},
		{10, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{25, 9, 3},
		{5, 0, 1},
	} {
		assert.Equal(t, tc.want, pagination.CalculateTotalPages(tc.total, tc.limit), "total=%d limit=%d", tc.total, tc.limit)
	}
}
