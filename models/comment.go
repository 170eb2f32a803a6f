package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/personal-blog-backend/errs"
	"gorm.io/gorm"
)

type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusApproved CommentStatus = "approved"
	CommentStatusRejected CommentStatus = "rejected"
)

func (s CommentStatus) Valid() bool {
	switch s {
	case CommentStatusPending, CommentStatusApproved, CommentStatusRejected:
		return true
	}
	return false
}

// Comment is a reader reply on a post. Only approved comments are public.
type Comment struct {
	ID              uuid.UUID     `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	PostID          uuid.UUID     `json:"postId" db:"post_id" gorm:"type:uuid;not null;index:idx_comment_post_status"`
	Author          string        `json:"author" db:"author" gorm:"type:text;not null"`
	Email           string        `json:"email" db:"email" gorm:"type:text;not null"`
	Content         string        `json:"content" db:"content" gorm:"type:text;not null"`
	Status          CommentStatus `json:"status" db:"status" gorm:"type:text;not null;default:pending;index:idx_comment_post_status"`
	ParentCommentID *uuid.UUID    `json:"parentComment" db:"parent_comment_id" gorm:"type:uuid;index"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" db:"updated_at"`

	Post *PostSummary `json:"post,omitempty" gorm:"foreignKey:PostID;references:ID"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c *Comment) BeforeSave(tx *gorm.DB) error {
	c.Author = strings.TrimSpace(c.Author)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if c.Status == "" {
		c.Status = CommentStatusPending
	}
	if !c.Status.Valid() {
		return errs.NewInvalidCommentStatusError(string(c.Status))
	}
	return nil
}
