package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/personal-blog-backend/config"
	"github.com/rpupo63/personal-blog-backend/database"
	"github.com/rpupo63/personal-blog-backend/errs"
)

func TestNewServerRequiresTokenService(t *testing.T) {
	_, err := NewServer(database.Database{}, config.Config{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	health := decodeBody[HealthResponse](t, rec)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "ok", health.Database)
	assert.False(t, health.StartedAt.IsZero())
}

func TestHealthReportsDatabaseDown(t *testing.T) {
	env := newTestEnv(t)
	sqlDB, err := env.gormDB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	rec := env.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unreachable", decodeBody[HealthResponse](t, rec).Database)
}

func TestMetricsUseRoutePatterns(t *testing.T) {
	env := newTestEnv(t)
	env.createPost(t, CreatePostRequest{Title: "Measured", Status: "published"})
	env.do(t, http.MethodGet, "/api/posts/measured", nil, "")

	rec := env.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `blog_http_requests_total{method="GET",route="/api/posts/{slug}",status="200"} 1`)
	assert.Contains(t, body, "blog_http_request_duration_seconds")
	assert.NotContains(t, body, "/api/posts/measured")
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t, WithConfig(config.Config{"APP_ENV": "test", "ACCEPTED_ORIGINS": "https://blog.example.com"}))

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		return rec
	}

	rec := preflight("https://blog.example.com")
	assert.Equal(t, "https://blog.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = preflight("https://evil.example.com")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestErrorBodySeparatesMessageFromDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	NewResponder(zerolog.Nop(), false).WriteError(rec, errs.NewInvalidFieldError("title", "must be set"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "invalid field", body.Error)
	assert.Equal(t, "Invalid field title: must be set", body.Details)
	assert.Equal(t, "title", body.Field)
}

func TestUnexpectedErrorsHideDetailsOutsideDevelopment(t *testing.T) {
	rec := httptest.NewRecorder()
	NewResponder(zerolog.Nop(), false).WriteError(rec, assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "Internal Server Error", body.Error)
	assert.Empty(t, body.Details)

	rec = httptest.NewRecorder()
	NewResponder(zerolog.Nop(), true).WriteError(rec, assert.AnError)
	assert.Equal(t, assert.AnError.Error(), decodeBody[ErrorResponse](t, rec).Details)
}
