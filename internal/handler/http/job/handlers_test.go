package job

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tnsystems-site/internal/common/pagination"
	"tnsystems-site/internal/domain/entity"
	"tnsystems-site/internal/handler/http/auth"
	jobUC "tnsystems-site/internal/usecase/job"
)

type stubService struct {
	params   pagination.Params
	jobs     map[int64]*entity.Job
	listErr  error
	input    jobUC.Input
	writeErr error
}

func (s *stubService) ListPublished(_ context.Context, p pagination.Params) (*jobUC.Page, error) {
	s.params = p
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []*entity.Job
	for _, j := range s.jobs {
		if j.IsPublished() {
			out = append(out, j)
		}
	}
	return &jobUC.Page{Jobs: out, Total: int64(len(out)), TotalPages: 1, CurrentPage: p.Page}, nil
}

func (s *stubService) GetPublished(_ context.Context, id int64) (*entity.Job, error) {
	if j, ok := s.jobs[id]; ok && j.IsPublished() {
		return j, nil
	}
	return nil, jobUC.ErrJobNotFound
}

func (s *stubService) Create(_ context.Context, in jobUC.Input) (*entity.Job, error) {
	s.input = in
	if s.writeErr != nil {
		return nil, s.writeErr
	}
	return &entity.Job{ID: 50, Title: in.Title, Status: entity.StatusDraft}, nil
}

func (s *stubService) Update(_ context.Context, id int64, in jobUC.Input) (*entity.Job, error) {
	s.input = in
	if _, ok := s.jobs[id]; !ok {
		return nil, jobUC.ErrJobNotFound
	}
	return &entity.Job{ID: id, Title: in.Title, Status: in.Status}, nil
}

func (s *stubService) Delete(_ context.Context, id int64) error {
	if _, ok := s.jobs[id]; !ok {
		return jobUC.ErrJobNotFound
	}
	delete(s.jobs, id)
	return nil
}

type stubApps struct {
	jobID int64
	apps  []*entity.Application
}

func (s *stubApps) List(_ context.Context, jobID int64) ([]*entity.Application, error) {
	s.jobID = jobID
	return s.apps, nil
}

const secret = "job-handler-secret-0123456789abcdef"

func token(t *testing.T, role string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "someone@tnsystems.example", "role": role, "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func fixtures() *stubService {
	return &stubService{jobs: map[int64]*entity.Job{
		12: {
			ID: 12, Title: "Backend Engineer", Status: entity.StatusPublish, Location: "Tokyo",
			Company:  entity.Company{Name: "TN Systems"},
			PostedOn: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		13: {ID: 13, Title: "Hidden", Status: entity.StatusDraft},
	}}
}

func newMux(t *testing.T, svc Service, apps ApplicationLister) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	Register(mux, svc, apps, pagination.DefaultConfig(), nil)
	return mux
}

func do(mux http.Handler, method, target, body, tok string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestList(t *testing.T) {
	t.Setenv(auth.JWTSecretEnv, secret)
	svc := fixtures()
	mux := newMux(t, svc, &stubApps{})

	rec := do(mux, http.MethodGet, "/wp-json/jobs/v1/listings?per_page=500&page=x", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pagination.Params{Page: 1, Limit: 100}, svc.params, "lenient parsing caps per_page")

	var resp ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	want := ListResponse{
		Jobs: []DTO{{
			ID: 12, Title: "Backend Engineer", Location: "Tokyo",
			Company: CompanyDTO{Name: "TN Systems"}, PostedOn: "2025-03-01",
		}},
		Total: 1, TotalPages: 1, CurrentPage: 1,
	}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
	assert.NotContains(t, rec.Body.String(), `"status"`, "public listing hides status")
}

func TestList_ServiceError(t *testing.T) {
	t.Setenv(auth.JWTSecretEnv, secret)
	rec := do(newMux(t, &stubService{listErr: errors.New("db down")}, &stubApps{}), http.MethodGet, "/wp-json/jobs/v1/listings", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}

func TestGet(t *testing.T) {
	t.Setenv(auth.JWTSecretEnv, secret)
	mux := newMux(t, fixtures(), &stubApps{})

	rec := do(mux, http.MethodGet, "/wp-json/jobs/v1/listings/12", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Backend Engineer"`)

	for _, target := range []string{"/wp-json/jobs/v1/listings/13", "/wp-json/jobs/v1/listings/999", "/wp-json/jobs/v1/listings/abc"} {
		rec := do(mux, http.MethodGet, target, "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.JSONEq(t, `{"error":"Job not found."}`, rec.Body.String(), target)
	}
}

func TestAdminRoutes(t *testing.T) {
	t.Setenv(auth.JWTSecretEnv, secret)
	svc := fixtures()
	apps := &stubApps{apps: []*entity.Application{{ID: 1, JobID: 12, Name: "Ken", Email: "ken@example.com", Reference: "APP-1"}}}
	mux := newMux(t, svc, apps)
	editor := token(t, auth.RoleEditor)
	admin := token(t, auth.RoleAdmin)

	rec := do(mux, http.MethodPost, "/wp-json/jobs/v1/listings", `{"title":"SRE"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(mux, http.MethodPost, "/wp-json/jobs/v1/listings", `{"title":"SRE","posted_on":"2025-04-01","company":{"name":"TN"}}`, editor)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), svc.input.PostedOn)
	assert.Equal(t, "TN", svc.input.Company.Name)
	assert.Contains(t, rec.Body.String(), `"status":"draft"`)

	rec = do(mux, http.MethodPost, "/wp-json/jobs/v1/listings", `{"title":"SRE","posted_on":"April"}`, editor)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "posted_on must be")

	rec = do(mux, http.MethodPut, "/wp-json/jobs/v1/listings/12", `{"title":"Senior Backend Engineer","status":"publish"}`, editor)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(mux, http.MethodPut, "/wp-json/jobs/v1/listings/77", `{"title":"x"}`, editor)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(mux, http.MethodDelete, "/wp-json/jobs/v1/listings/13", "", editor)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(mux, http.MethodGet, "/wp-json/jobs/v1/applications?job_id=12", "", editor)
	assert.Equal(t, http.StatusForbidden, rec.Code, "editors cannot read applicant data")

	rec = do(mux, http.MethodGet, "/wp-json/jobs/v1/applications?job_id=12", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(12), apps.jobID)
	assert.Contains(t, rec.Body.String(), `"reference":"APP-1"`)
	assert.Contains(t, rec.Body.String(), `"total":1`)

	rec = do(mux, http.MethodGet, "/wp-json/jobs/v1/applications?job_id=-4", "", admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreate_ValidationError(t *testing.T) {
	t.Setenv(auth.JWTSecretEnv, secret)
	var fe entity.FieldErrors
	fe.Add("title", "is required")
	fe.Add("application_email", "invalid email address")
	mux := newMux(t, &stubService{writeErr: fe}, &stubApps{})

	rec := do(mux, http.MethodPost, "/wp-json/jobs/v1/listings", `{}`, token(t, auth.RoleAdmin))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{
		"error": "title is required",
		"invalid_fields": [
			{"field": "title", "message": "is required"},
			{"field": "application_email", "message": "invalid email address"}
		]
	}`, rec.Body.String())
}
