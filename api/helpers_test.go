package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rpupo63/personal-blog-backend/config"
	"github.com/rpupo63/personal-blog-backend/database"
	"github.com/rpupo63/personal-blog-backend/models"
	"github.com/rpupo63/personal-blog-backend/services"
)

const testPassword = "correct horse"

type testEnv struct {
	router http.Handler
	gormDB *gorm.DB
	db     database.Database
	tokens *services.TokenService
	admin  *models.User
	token  string
}

func newTestEnv(t *testing.T, opts ...RouterOption) *testEnv {
	t.Helper()

	gormDB, err := database.Open(config.Config{"DB_TYPE": database.TypeSQLite, "SQLITE_PATH": ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(gormDB))
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			sqlDB.Close()
		}
	})
	db := database.New(gormDB)

	hash, err := services.HashPassword(testPassword)
	require.NoError(t, err)
	admin := &models.User{Username: "admin", Email: "admin@example.com", Password: hash}
	require.NoError(t, db.UserRepo().Add(context.Background(), admin))

	tokens, err := services.NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)
	token, _, err := tokens.Issue(admin)
	require.NoError(t, err)

	opts = append([]RouterOption{
		WithConfig(config.Config{"APP_ENV": "test"}),
		WithTokenService(tokens),
	}, opts...)
	router, err := newRouter(db, opts...)
	require.NoError(t, err)

	return &testEnv{router: router, gormDB: gormDB, db: db, tokens: tokens, admin: admin, token: token}
}

// do sends body as JSON (strings are sent verbatim) and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// createPost goes through the admin API so slugs and taxonomy are resolved
// the same way as in production.
func (e *testEnv) createPost(t *testing.T, req CreatePostRequest) models.Post {
	t.Helper()
	if req.Content == "" {
		req.Content = "content of " + req.Title
	}
	if req.Excerpt == "" {
		req.Excerpt = "excerpt"
	}
	rec := e.do(t, http.MethodPost, "/api/posts", req, e.token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[models.Post](t, rec)
}

func (e *testEnv) addComment(t *testing.T, postID string, status models.CommentStatus) models.Comment {
	t.Helper()
	comment := &models.Comment{
		PostID:  uuidMust(t, postID),
		Author:  "Reader",
		Email:   "reader@example.com",
		Content: "Nice post",
	}
	require.NoError(t, e.db.CommentRepo().Add(context.Background(), comment))
	if status != models.CommentStatusPending {
		_, err := e.db.CommentRepo().SetStatus(context.Background(), comment.ID, status)
		require.NoError(t, err)
		comment.Status = status
	}
	return *comment
}
