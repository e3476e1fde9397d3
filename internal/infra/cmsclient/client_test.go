package cmsclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tnsystems-site/internal/domain/entity"
	"tnsystems-site/internal/handler/http/requestid"
	"tnsystems-site/internal/infra/cmsclient"
	"tnsystems-site/internal/listing"
)

const postsJSON = `[
  {
    "id": 42,
    "date": "2024-03-05T10:30:00",
    "modified": "2024-03-06T08:00:00",
    "slug": "cloud-migration",
    "status": "publish",
    "link": "https://example.com/cloud-migration/",
    "title": {"rendered": "Cloud &#8211; Migration"},
    "excerpt": {"rendered": "<p>Lessons learned</p>"},
    "content": {"rendered": "<p>Full body</p>"},
    "_embedded": {
      "author": [{"name": "Priya"}],
      "wp:featuredmedia": [{"source_url": "https://example.com/media/cloud.png"}],
      "wp:term": [[{"name": "Engineering"}, {"name": "News"}], [{"name": "aws"}]]
    }
  },
  {
    "id": 43,
    "date": "2024-03-01T09:00:00",
    "slug": "no-media",
    "title": {"rendered": ""},
    "excerpt": {"rendered": ""},
    "content": {"rendered": ""}
  }
]`

func newTestClient(t *testing.T, h http.Handler) (*cmsclient.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := cmsclient.New(cmsclient.Config{
		WordPressAPIURL:   srv.URL + "/wp-json/wp/v2",
		JobsAPIURL:        srv.URL + "/wp-json/jobs/v1/listings",
		ContactFormAPIURL: srv.URL + "/wp-json/contact-form-7/v1/contact-forms/535/feedback",
		Timeout:           2 * time.Second,
	})
	return c, srv
}

func TestListPosts_DecodesEmbeddedFields(t *testing.T) {
	t.Parallel()

	var gotQuery string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wp-json/wp/v2/posts", r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Header().Set("X-WP-Total", "12")
		w.Header().Set("X-WP-TotalPages", "6")
		_, _ = io.WriteString(w, postsJSON)
	}))

	list, err := c.ListPosts(context.Background(), cmsclient.PostQuery{PerPage: 2, Search: "cloud"})
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "_embed=1")
	assert.Contains(t, gotQuery, "per_page=2")
	assert.Contains(t, gotQuery, "search=cloud")
	assert.Equal(t, 12, list.Total)
	assert.Equal(t, 6, list.TotalPages)
	require.Len(t, list.Posts, 2)

	want := entity.Post{
		ID:         42,
		Slug:       "cloud-migration",
		Title:      "Cloud &#8211; Migration",
		Excerpt:    "<p>Lessons learned</p>",
		Content:    "<p>Full body</p>",
		Author:     "Priya",
		Categories: []string{"Engineering", "News"},
		MediaURL:   "https://example.com/media/cloud.png",
		Link:       "https://example.com/cloud-migration/",
		Status:     "publish",
		CreatedAt:  time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC),
		UpdatedAt:  time.Date(2024, 3, 6, 8, 0, 0, 0, time.UTC),
	}
	if diff := cmp.Diff(want, list.Posts[0]); diff != "" {
		t.Errorf("post mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, list.Posts[1].MediaURL)
	assert.Nil(t, list.Posts[1].Categories)
	assert.Equal(t, list.Posts[1].CreatedAt, list.Posts[1].UpdatedAt)
}

func TestListPosts_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "not JSON", body: "<html>maintenance</html>"},
		{name: "object instead of array", body: `{"code":"rest_no_route"}`},
		{name: "missing id", body: `[{"slug":"a","date":"2024-01-01T00:00:00","title":{"rendered":"A"}}]`},
		{name: "missing title", body: `[{"id":1,"slug":"a","date":"2024-01-01T00:00:00"}]`},
		{name: "bad date", body: `[{"id":1,"slug":"a","date":"yesterday","title":{"rendered":"A"}}]`},
		{name: "duplicate id", body: `[{"id":5,"slug":"a","date":"2024-01-01T00:00:00","title":{"rendered":"A"}},{"id":5,"slug":"b","date":"2024-01-02T00:00:00","title":{"rendered":"B"}}]`},
		{name: "bad media URL", body: `[{"id":1,"slug":"a","date":"2024-01-01T00:00:00","title":{"rendered":"A"},"_embedded":{"wp:featuredmedia":[{"source_url":"not a url"}]}}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			}))
			_, err := c.ListPosts(context.Background(), cmsclient.PostQuery{})
			var parseErr *cmsclient.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.True(t, cmsclient.IsLoadFailure(err))
		})
	}
}

func TestListPosts_HTTPAndNetworkErrors(t *testing.T) {
	t.Parallel()

	t.Run("server error", func(t *testing.T) {
		t.Parallel()
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"code":"internal","message":"Database down"}`)
		}))
		_, err := c.ListPosts(context.Background(), cmsclient.PostQuery{})
		var httpErr *cmsclient.HTTPError
		require.ErrorAs(t, err, &httpErr)
		assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
		assert.Equal(t, "Database down", httpErr.Message)
	})

	t.Run("connection refused", func(t *testing.T) {
		t.Parallel()
		c, srv := newTestClient(t, http.NotFoundHandler())
		srv.Close()
		_, err := c.ListPosts(context.Background(), cmsclient.PostQuery{})
		var netErr *cmsclient.NetworkError
		require.ErrorAs(t, err, &netErr)
		assert.Equal(t, http.MethodGet, netErr.Method)
		assert.True(t, cmsclient.IsLoadFailure(err))
	})
}

func TestPostBySlug(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("slug") == "cloud-migration" {
			_, _ = io.WriteString(w, postsJSON)
			return
		}
		_, _ = io.WriteString(w, `[]`)
	}))

	post, err := c.PostBySlug(context.Background(), "cloud-migration")
	require.NoError(t, err)
	assert.Equal(t, int64(42), post.ID)

	_, err = c.PostBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, cmsclient.ErrNotFound)
}

const jobsJSON = `{
  "jobs": [
    {
      "id": 7,
      "title": "Go Engineer",
      "description": "<p>Build services</p>",
      "excerpt": "Build services",
      "location": "Chennai",
      "job_type": "Full Time",
      "department": "Engineering",
      "salary": "",
      "company": {"name": "TopNotch Systems", "website": "https://tnsystems.in", "logo": ""},
      "application_email": "hr@tnsystems.in",
      "application_url": "",
      "permalink": "https://tnsystems.in/jobs/go-engineer/",
      "posted_on": "2024-02-10"
    }
  ],
  "total": 1,
  "total_pages": 1,
  "current_page": 1
}`

func TestListJobs(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wp-json/jobs/v1/listings", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		_, _ = io.WriteString(w, jobsJSON)
	}))

	list, err := c.ListJobs(context.Background(), 1, 500)
	require.NoError(t, err)
	require.Len(t, list.Jobs, 1)

	job := list.Jobs[0]
	assert.Equal(t, int64(7), job.ID)
	assert.Equal(t, "Engineering", job.Department)
	assert.Equal(t, "TopNotch Systems", job.Company.Name)
	assert.Equal(t, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), job.PostedOn)
	assert.Equal(t, 1, list.Total)
}

func TestListJobs_InvalidJobRejected(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"jobs":[{"id":0,"title":""}],"total":1,"total_pages":1,"current_page":1}`)
	}))
	_, err := c.ListJobs(context.Background(), 1, 10)
	var parseErr *cmsclient.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestListJobs_DuplicateIDRejected(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"jobs":[{"id":3,"title":"Go Engineer"},{"id":3,"title":"Designer"}],"total":2,"total_pages":1,"current_page":1}`)
	}))
	_, err := c.ListJobs(context.Background(), 1, 10)
	var parseErr *cmsclient.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, err.Error(), "unique")
}

func TestJob_NotFound(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/wp-json/jobs/v1/listings/99", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"Job not found."}`)
	}))

	_, err := c.Job(context.Background(), 99)
	assert.ErrorIs(t, err, cmsclient.ErrNotFound)
	var httpErr *cmsclient.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "Job not found.", httpErr.Message)
}

func TestApplyJob(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req cmsclient.ApplicationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		switch r.URL.Path {
		case "/wp-json/jobs/v1/apply_job/7":
			if req.Email == "bad" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, `{"error":"Name and valid email required.","message":"Name and valid email required."}`)
				return
			}
			_, _ = io.WriteString(w, `{"success":true,"message":"Application submitted successfully!","application_id":501,"job_id":7,"reference":"APP-01HQ"}`)
		case "/wp-json/jobs/v1/apply_job/8":
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":"Invalid or unpublished job."}`)
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	}))

	receipt, err := c.ApplyJob(context.Background(), 7, cmsclient.ApplicationRequest{Name: "Asha", Email: "asha@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(501), receipt.ApplicationID)
	assert.Equal(t, "Application submitted successfully!", receipt.Message)

	_, err = c.ApplyJob(context.Background(), 7, cmsclient.ApplicationRequest{Name: "Asha", Email: "bad"})
	var ve *cmsclient.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Name and valid email required.", ve.Message)
	assert.False(t, cmsclient.IsLoadFailure(err))

	_, err = c.ApplyJob(context.Background(), 8, cmsclient.ApplicationRequest{Name: "Asha", Email: "asha@example.com"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Invalid or unpublished job.", ve.Message)
}

func TestSubmitContact(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		if r.FormValue("your-email") == "" {
			_, _ = io.WriteString(w, `{"status":"validation_failed","message":"One or more fields have an error. Please check and try again.","invalid_fields":[{"field":"your-email","message":"Please fill out this field."}]}`)
			return
		}
		assert.Equal(t, "Asha", r.FormValue("your-name"))
		_, _ = io.WriteString(w, `{"status":"mail_sent","message":"Thank you for your message. It has been sent.","reference":"MSG-1"}`)
	}))

	res, err := c.SubmitContact(context.Background(), map[string]string{
		"your-name":    "Asha",
		"your-email":   "asha@example.com",
		"your-message": "Hello",
	})
	require.NoError(t, err)
	assert.Equal(t, cmsclient.ContactMailSent, res.Status)

	_, err = c.SubmitContact(context.Background(), map[string]string{"your-name": "Asha"})
	var ve *cmsclient.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Please fill out this field.", ve.FieldMessage("your-email"))
	assert.Empty(t, ve.FieldMessage("your-name"))
}

func TestRequestIDPropagation(t *testing.T) {
	t.Parallel()

	var got string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(requestid.RequestIDHeader)
		_, _ = io.WriteString(w, `[]`)
	}))

	ctx := requestid.WithRequestID(context.Background(), "req-123")
	_, err := c.ListPosts(ctx, cmsclient.PostQuery{})
	require.NoError(t, err)
	assert.Equal(t, "req-123", got)
}

// A failed load shows the error view, and retry re-issues the same request.
func TestPostsSource_RetryAfterServerError(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		calls []string
	)
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, r.URL.String())
		n := len(calls)
		mu.Unlock()
		if n == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, postsJSON)
	}))

	posts := listing.New(c.PostsSource(100), listing.Config[entity.Post]{
		Fields: func(p entity.Post) []string { return []string{p.Title, p.Excerpt} },
	})

	v := posts.Load(context.Background())
	require.Equal(t, listing.StateError, v.State)
	assert.Equal(t, listing.ErrorMessage, v.Message)

	v = posts.Retry(context.Background())
	assert.Equal(t, listing.StatePopulated, v.State)
	assert.Len(t, v.Items, 2)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 2)
	assert.Equal(t, calls[0], calls[1])
	assert.True(t, strings.Contains(calls[0], "per_page=100"))
}

// Every retry reaches the server, however many loads failed before it.
func TestPostsSource_RepeatedRetriesAllReachServer(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		calls []string
	)
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, r.URL.String())
		mu.Unlock()
		w.WriteHeader(http.StatusInternalServerError)
	}))

	posts := listing.New(c.PostsSource(100), listing.Config[entity.Post]{
		Fields: func(p entity.Post) []string { return []string{p.Title, p.Excerpt} },
	})

	const retries = 9
	v := posts.Load(context.Background())
	require.Equal(t, listing.StateError, v.State)
	for i := 0; i < retries; i++ {
		v = posts.Retry(context.Background())
		require.Equal(t, listing.StateError, v.State, "retry %d", i+1)
		assert.True(t, v.CanRetry)
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, retries+1)
	for _, u := range calls[1:] {
		assert.Equal(t, calls[0], u)
	}
}

func TestHTTPError_IsNotFound(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.Is(&cmsclient.HTTPError{StatusCode: 404}, cmsclient.ErrNotFound))
	assert.False(t, errors.Is(&cmsclient.HTTPError{StatusCode: 500}, cmsclient.ErrNotFound))
}
