package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/rpupo63/personal-blog-backend/models"
	"github.com/rpupo63/personal-blog-backend/services"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	postHandler      postHandler
	commentHandler   commentHandler
	categoryHandler  taxonomyHandler
	tagHandler       taxonomyHandler
	analyticsHandler analyticsHandler
	authHandler      authHandler
	healthHandler    healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// MessageResponse confirms an operation without returning a resource
type MessageResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"Post deleted successfully"`
}

// CreatePostRequest is the body of POST /api/posts
type CreatePostRequest struct {
	Title         string   `json:"title" validate:"required,notblank,max=200"`
	Content       string   `json:"content" validate:"required,notblank"`
	Excerpt       string   `json:"excerpt" validate:"required,notblank,max=500"`
	FeaturedImage string   `json:"featuredImage" validate:"omitempty,url"`
	Status        string   `json:"status" validate:"omitempty,oneof=draft published"`
	Tags          []string `json:"tags" validate:"omitempty,dive,notblank,max=50"`
	Categories    []string `json:"categories" validate:"omitempty,dive,notblank,max=50"`
}

// UpdatePostRequest is the body of PUT /api/posts/{id}. Absent fields are
// left unchanged; an empty tags or categories array clears them and an
// empty featuredImage removes the image.
type UpdatePostRequest struct {
	Title         *string   `json:"title" validate:"omitempty,notblank,max=200"`
	Content       *string   `json:"content" validate:"omitempty,notblank"`
	Excerpt       *string   `json:"excerpt" validate:"omitempty,notblank,max=500"`
	FeaturedImage *string   `json:"featuredImage"`
	Status        *string   `json:"status" validate:"omitempty,oneof=draft published"`
	Tags          *[]string `json:"tags" validate:"omitempty,dive,notblank,max=50"`
	Categories    *[]string `json:"categories" validate:"omitempty,dive,notblank,max=50"`
}

// CreateCommentRequest is the body of POST /api/comments. Status is accepted
// for compatibility with older clients and never applied.
type CreateCommentRequest struct {
	PostID        string  `json:"postId" validate:"required,notblank"`
	Author        string  `json:"author" validate:"required,notblank,max=100"`
	Email         string  `json:"email" validate:"required,email,max=254"`
	Content       string  `json:"content" validate:"required,notblank,max=5000"`
	ParentComment *string `json:"parentComment"`
	Status        string  `json:"status"`
}

// UpdateCommentStatusRequest is the body of PUT /api/comments/{id}/status
type UpdateCommentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

// PublicComment is a comment as shown to readers, without the email
type PublicComment struct {
	ID              uuid.UUID  `json:"id"`
	PostID          uuid.UUID  `json:"postId"`
	Author          string     `json:"author"`
	Content         string     `json:"content"`
	ParentCommentID *uuid.UUID `json:"parentComment"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func newPublicComment(c models.Comment) PublicComment {
	return PublicComment{
		ID:              c.ID,
		PostID:          c.PostID,
		Author:          c.Author,
		Content:         c.Content,
		ParentCommentID: c.ParentCommentID,
		CreatedAt:       c.CreatedAt,
	}
}

// CreateTaxonomyRequest is the body of POST /api/categories and /api/tags
type CreateTaxonomyRequest struct {
	Name string `json:"name" validate:"required,notblank,max=50"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token
type LoginResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
	User      services.Identity `json:"user"`
}

// HealthResponse reports liveness and database reachability
type HealthResponse struct {
	Status    string    `json:"status" example:"ok"`
	Uptime    string    `json:"uptime" example:"1h2m3s"`
	StartedAt time.Time `json:"startedAt"`
	Database  string    `json:"database" example:"ok"`
}
