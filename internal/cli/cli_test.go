package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliPostsJSON = `[
  {"id": 1, "date": "2024-03-05T10:30:00", "slug": "cloud-migration", "link": "https://tnsystems.in/cloud-migration/",
   "title": {"rendered": "Cloud Migration"}, "excerpt": {"rendered": "<p>Lessons learned</p>"}, "content": {"rendered": "<p>Full body</p>"},
   "_embedded": {"author": [{"name": "Priya"}], "wp:term": [[{"name": "Engineering"}]]}},
  {"id": 2, "date": "2024-03-01T09:00:00", "slug": "hiring", "title": {"rendered": "We are hiring"},
   "excerpt": {"rendered": "<p>Join the team</p>"}, "content": {"rendered": ""},
   "_embedded": {"wp:term": [[{"name": "News"}]]}}
]`

const cliJobJSON = `{"id": 7, "title": "Go Engineer", "description": "<p>Build services</p>", "location": "Chennai",
  "job_type": "Full Time", "department": "Engineering", "company": {"name": "TopNotch Systems"}, "posted_on": "2024-02-10"}`

// fakeCMS serves the endpoints the site command talks to. Jobs listing fails
// with 500 when failJobs is set.
func fakeCMS(t *testing.T, failJobs bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /wp-json/wp/v2/posts", func(w http.ResponseWriter, r *http.Request) {
		switch slug := r.URL.Query().Get("slug"); slug {
		case "":
			_, _ = io.WriteString(w, cliPostsJSON)
		case "cloud-migration":
			var posts []json.RawMessage
			require.NoError(t, json.Unmarshal([]byte(cliPostsJSON), &posts))
			_, _ = fmt.Fprintf(w, "[%s]", posts[0])
		default:
			_, _ = io.WriteString(w, "[]")
		}
	})
	mux.HandleFunc("GET /wp-json/jobs/v1/listings", func(w http.ResponseWriter, r *http.Request) {
		if failJobs {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = fmt.Fprintf(w, `{"jobs":[%s],"total":1,"total_pages":1,"current_page":1}`, cliJobJSON)
	})
	mux.HandleFunc("GET /wp-json/jobs/v1/listings/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "7" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":"Job not found."}`)
			return
		}
		_, _ = io.WriteString(w, cliJobJSON)
	})
	mux.HandleFunc("POST /wp-json/jobs/v1/apply_job/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "7" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":"Invalid or unpublished job."}`)
			return
		}
		_, _ = io.WriteString(w, `{"success":true,"message":"Application submitted successfully!","application_id":501,"job_id":7,"reference":"APP-01HQ"}`)
	})
	mux.HandleFunc("POST /wp-json/contact-form-7/v1/contact-forms/535/feedback", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		if r.FormValue("your-company") == "spam" {
			_, _ = io.WriteString(w, `{"status":"validation_failed","message":"One or more fields have an error. Please check and try again.","invalid_fields":[{"field":"your-company","message":"Not accepted."}]}`)
			return
		}
		_, _ = io.WriteString(w, `{"status":"mail_sent","message":"Thank you for your message. It has been sent.","reference":"MSG-9"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, srv *httptest.Server, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--api-url", srv.URL}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestBlog(t *testing.T) {
	t.Parallel()
	srv := fakeCMS(t, false)

	out, _, err := run(t, srv, "blog", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "[All] Engineering News")
	assert.Contains(t, out, "Cloud Migration")
	assert.Contains(t, out, "Engineering · Mar 5, 2024 · Priya")
	assert.Contains(t, out, "We are hiring")
}

func TestBlog_CategoryThenSearch(t *testing.T) {
	t.Parallel()
	srv := fakeCMS(t, false)

	out, _, err := run(t, srv, "blog", "--plain", "--category", "News")
	require.NoError(t, err)
	assert.Contains(t, out, "All Engineering [News]")
	assert.Contains(t, out, "We are hiring")
	assert.NotContains(t, out, "Cloud Migration")

	out, _, err = run(t, srv, "blog", "--plain", "--category", "News", "--search", "cloud")
	require.NoError(t, err)
	assert.Contains(t, out, "No results found")
}

func TestCareers(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, fakeCMS(t, false), "careers", "--plain", "--search", "chennai")
	require.NoError(t, err)
	assert.Contains(t, out, `1 result(s) for "chennai"`)
	assert.Contains(t, out, "Chennai · Full Time · Engineering")
}

func TestCareers_LoadFailure(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, fakeCMS(t, true), "careers", "--plain")
	assert.ErrorIs(t, err, ErrReported)
	assert.Contains(t, out, "Failed to load jobs")
	assert.Contains(t, out, "We couldn't load this page.")
	assert.NotContains(t, out, "[r]")
}

func TestListFlags_InvalidPage(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, fakeCMS(t, false), "careers", "--page", "0")
	assert.EqualError(t, err, "--page must be >= 1")
}

func TestPostAndJobDetail(t *testing.T) {
	t.Parallel()
	srv := fakeCMS(t, false)

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"post", []string{"post", "cloud-migration", "--plain"}, "Full body", false},
		{"missing post", []string{"post", "nope", "--plain"}, "Post not found.", true},
		{"job", []string{"job", "7", "--plain"}, "Location    Chennai", false},
		{"missing job", []string{"job", "99", "--plain"}, "Job Not Found", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, stderr, err := run(t, srv, tt.args...)
			assert.Contains(t, out, tt.want)
			assert.Contains(t, stderr, "Loading...")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrReported)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJob_InvalidID(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, fakeCMS(t, false), "job", "abc")
	assert.EqualError(t, err, `invalid job id "abc"`)
}

func TestApply(t *testing.T) {
	t.Parallel()
	srv := fakeCMS(t, false)

	out, _, err := run(t, srv, "apply", "7", "--plain", "--name", "Asha", "--email", "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Application submitted successfully!\nReference: APP-01HQ\n", out)

	out, _, err = run(t, srv, "apply", "7", "--plain", "--name", "Asha", "--email", "nope", "--resume-url", "ftp://x")
	assert.ErrorIs(t, err, ErrReported)
	assert.Equal(t, "One or more fields have an error. Please check and try again.\n"+
		"  email: The e-mail address entered is invalid.\n"+
		"  resume_url: Please enter a valid URL.\n", out)

	out, _, err = run(t, srv, "apply", "8", "--plain", "--name", "Asha", "--email", "asha@example.com")
	assert.ErrorIs(t, err, ErrReported)
	assert.Equal(t, "Invalid or unpublished job.\n", out)
}

func TestContact(t *testing.T) {
	t.Parallel()
	srv := fakeCMS(t, false)

	out, _, err := run(t, srv, "contact", "--plain", "--name", "Asha", "--email", "asha@example.com", "--message", "Hello")
	require.NoError(t, err)
	assert.Contains(t, out, "Thank you for your message. It has been sent.")
	assert.Contains(t, out, "Reference: MSG-9")

	out, _, err = run(t, srv, "contact", "--plain", "--name", "Asha", "--email", "asha@example.com", "--message", "Hello", "--company", "spam")
	assert.ErrorIs(t, err, ErrReported)
	assert.Contains(t, out, "your-company: Not accepted.")

	out, _, err = run(t, srv, "contact", "--plain", "--name", "Asha")
	assert.ErrorIs(t, err, ErrReported)
	assert.Contains(t, out, "your-email: Please fill out this field.")
	assert.Contains(t, out, "your-message: Please fill out this field.")
}

func TestRoot_ConfigFile(t *testing.T) {
	t.Parallel()
	srv := fakeCMS(t, false)

	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: "+srv.URL+"\nfeatures:\n  blog: false\n  careers: true\n"), 0o600))

	var stdout bytes.Buffer
	cmd := NewRootCmd("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--config", path, "blog"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blog is disabled")
}

func TestRoot_MissingExplicitConfig(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd("test")
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml"), "blog"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrReported))
}

func TestRoot_BadAPIURL(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd("test")
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--api-url", "ftp://example.com", "careers"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "--api-url:"))
}
