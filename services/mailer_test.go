package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/personal-blog-backend/config"
	"github.com/rpupo63/personal-blog-backend/models"
)

func TestNewMailerDisabledWithoutKey(t *testing.T) {
	assert.Nil(t, NewMailer(config.Config{}))
	assert.Nil(t, NewCommentNotifier(nil, config.Config{"COMMENT_NOTIFY_EMAILS": "me@example.com"}))

	var notifier *CommentNotifier
	assert.NoError(t, notifier.NotifyPending(context.Background(), "t", &models.Comment{}))
}

func TestCommentNotifierSendsEscapedEmail(t *testing.T) {
	var got ResendEmailRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"email-1"}`))
	}))
	defer server.Close()

	cfg := config.Config{
		"RESEND_API_KEY":        "key",
		"RESEND_FROM_EMAIL":     "Blog <blog@example.com>",
		"RESEND_ENDPOINT":       server.URL,
		"COMMENT_NOTIFY_EMAILS": "me@example.com, you@example.com",
	}
	notifier := NewCommentNotifier(NewMailer(cfg), cfg)
	require.NotNil(t, notifier)

	err := notifier.NotifyPending(context.Background(), "Hello", &models.Comment{
		Author: "<b>Eve</b>", Email: "eve@example.com", Content: "hi",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"me@example.com", "you@example.com"}, got.To)
	assert.Equal(t, `New comment on "Hello"`, got.Subject)
	assert.Contains(t, got.Html, "&lt;b&gt;Eve&lt;/b&gt;")
}

func TestMailerReportsApiErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid from"}`))
	}))
	defer server.Close()

	mailer := NewMailer(config.Config{"RESEND_API_KEY": "k", "RESEND_FROM_EMAIL": "f", "RESEND_ENDPOINT": server.URL})
	err := mailer.Send(context.Background(), "s", "b", []string{"to@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid from")

	assert.Error(t, mailer.Send(context.Background(), "s", "b", nil))
}
