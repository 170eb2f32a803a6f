package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/personal-blog-backend/config"
	"github.com/rpupo63/personal-blog-backend/models"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// Mailer sends email through the Resend API.
type Mailer struct {
	apiKey   string
	from     string
	endpoint string
	client   *http.Client
}

// NewMailer reads RESEND_API_KEY and RESEND_FROM_EMAIL. It returns nil when
// either is missing, which disables email.
func NewMailer(cfg config.Config) *Mailer {
	apiKey := config.GetString(cfg, "RESEND_API_KEY", "")
	from := config.GetString(cfg, "RESEND_FROM_EMAIL", "")
	if apiKey == "" || from == "" {
		return nil
	}
	return &Mailer{
		apiKey:   apiKey,
		from:     from,
		endpoint: config.GetString(cfg, "RESEND_ENDPOINT", resendEndpoint),
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Send delivers an HTML email to recipients
func (m *Mailer) Send(ctx context.Context, subject, body string, recipients []string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	payload := ResendEmailRequest{
		From:    m.from,
		To:      recipients,
		Subject: subject,
		Html:    body,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		log.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		log.Info().Str("emailId", emailResponse.ID).Msg("Successfully sent email via Resend")
	}

	return nil
}

// CommentNotifier tells the site owner that a comment is waiting for moderation.
type CommentNotifier struct {
	mailer     *Mailer
	recipients []string
}

// NewCommentNotifier returns nil when there is no mailer or no recipient.
func NewCommentNotifier(mailer *Mailer, cfg config.Config) *CommentNotifier {
	recipients := config.GetStrings(cfg, "COMMENT_NOTIFY_EMAILS", nil)
	if mailer == nil || len(recipients) == 0 {
		return nil
	}
	return &CommentNotifier{mailer: mailer, recipients: recipients}
}

// NotifyPending sends the moderation email. A nil notifier does nothing.
func (n *CommentNotifier) NotifyPending(ctx context.Context, postTitle string, comment *models.Comment) error {
	if n == nil {
		return nil
	}
	subject := fmt.Sprintf("New comment on %q", postTitle)
	body := fmt.Sprintf("<p><strong>%s</strong> (%s) wrote:</p><blockquote>%s</blockquote><p>The comment is pending moderation.</p>",
		html.EscapeString(comment.Author), html.EscapeString(comment.Email), html.EscapeString(comment.Content))
	return n.mailer.Send(ctx, subject, body, n.recipients)
}
