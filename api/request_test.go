package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/personal-blog-backend/errs"
)

func uuidMust(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
		wantField   string
		check       func(error) bool
	}{
		{"Valid", "application/json", `{"name":"Go"}`, 0, "", nil},
		{"No Content Type", "", `{"name":"Go"}`, 0, "", nil},
		{"Charset", "application/json; charset=utf-8", `{"name":"Go"}`, 0, "", nil},
		{"Unknown Field", "application/json", `{"name":"Go","slug":"go"}`, http.StatusBadRequest, "slug", errs.IsInvalidFieldError},
		{"Wrong Type", "application/json", `{"name":42}`, http.StatusBadRequest, "name", errs.IsInvalidFieldError},
		{"Syntax", "application/json", `{"name":`, http.StatusBadRequest, "json", errs.IsInvalidJSONError},
		{"Trailing Data", "application/json", `{"name":"Go"}{"name":"Rust"}`, http.StatusBadRequest, "json", errs.IsInvalidJSONError},
		{"Empty Body", "application/json", ``, http.StatusBadRequest, "payload", nil},
		{"Missing Name", "application/json", `{}`, http.StatusBadRequest, "name", errs.IsMissingRequiredFieldError},
		{"Blank Name", "application/json", `{"name":"   "}`, http.StatusBadRequest, "name", errs.IsMissingRequiredFieldError},
		{"Too Long", "application/json", `{"name":"` + strings.Repeat("a", 51) + `"}`, http.StatusBadRequest, "name", errs.IsInvalidFieldError},
		{"Form Body", "application/x-www-form-urlencoded", `name=Go`, http.StatusUnsupportedMediaType, "content_type", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			var dst CreateTaxonomyRequest
			err := decodeJSON(httptest.NewRecorder(), req, &dst)
			if tt.wantStatus == 0 {
				require.NoError(t, err)
				assert.Equal(t, "Go", dst.Name)
				return
			}

			var apiErr *errs.ApiErr
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantField, apiErr.Field)
			if tt.check != nil {
				assert.True(t, tt.check(err), err.Error())
			}
		})
	}
}

func TestDecodeJSONBodyTooLarge(t *testing.T) {
	body := `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var dst CreateTaxonomyRequest
	err := decodeJSON(httptest.NewRecorder(), req, &dst)

	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusRequestEntityTooLarge, apiErr.StatusCode)
}

func TestValidationMessages(t *testing.T) {
	err := validateStruct(&CreateCommentRequest{
		PostID:  uuid.NewString(),
		Author:  "Ann",
		Email:   "not-an-email",
		Content: "hi",
	})
	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "email", apiErr.Field)

	status := "archived"
	err = validateStruct(&UpdatePostRequest{Status: &status})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "status", apiErr.Field)
	assert.Contains(t, apiErr.Details, "draft, published")

	assert.NoError(t, validateStruct(&UpdatePostRequest{}))
}

func TestPositiveIntQuery(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", 1, false},
		{"page=3", 3, false},
		{"page=0", 0, true},
		{"page=-2", 0, true},
		{"page=two", 0, true},
		{"page=1.5", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			got, err := positiveIntQuery(req, "page", 1)
			if tt.wantErr {
				assert.True(t, errs.IsInvalidFieldError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?tag=go,%20web&tag=&tag=db", nil)
	assert.Equal(t, []string{"go", "web", "db"}, listQuery(req, "tag"))
	assert.Nil(t, listQuery(req, "category"))
}
