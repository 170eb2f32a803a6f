package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/personal-blog-backend/errs"
	"gorm.io/gorm"
)

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

func (s PostStatus) Valid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

// Post is a blog article. Only published posts are visible to readers.
type Post struct {
	ID            uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title         string     `json:"title" db:"title" gorm:"type:text;not null"`
	Slug          string     `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex"`
	Content       string     `json:"content" db:"content" gorm:"type:text;not null"`
	Excerpt       string     `json:"excerpt" db:"excerpt" gorm:"type:text;not null"`
	FeaturedImage string     `json:"featuredImage" db:"featured_image" gorm:"type:text;not null;default:''"`
	Status        PostStatus `json:"status" db:"status" gorm:"type:text;not null;default:draft;index"`
	AuthorID      uuid.UUID  `json:"authorId" db:"author_id" gorm:"type:uuid;not null;index"`
	Views         int64      `json:"views" db:"views" gorm:"not null;default:0"`
	PublishedAt   *time.Time `json:"publishedAt" db:"published_at" gorm:"index"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`

	Author     *Author    `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID"`
	Tags       []Tag      `json:"tags" gorm:"many2many:post_tags"`
	Categories []Category `json:"categories" gorm:"many2many:post_categories"`
}

// Author is the public view of a post's user.
type Author struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username string    `json:"username"`
}

func (Author) TableName() string {
	return "users"
}

// PostSummary is the slice of a post shown next to its comments.
type PostSummary struct {
	ID    uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title string    `json:"title"`
	Slug  string    `json:"slug"`
}

func (PostSummary) TableName() string {
	return "posts"
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BeforeSave normalizes the post and stamps PublishedAt the first time it is
// saved as published.
func (p *Post) BeforeSave(tx *gorm.DB) error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Status == "" {
		p.Status = PostStatusDraft
	}
	if !p.Status.Valid() {
		return errs.NewInvalidPostStatusError(string(p.Status))
	}
	p.MarkPublished(time.Now().UTC())
	return nil
}

// MarkPublished sets PublishedAt to now when the post is published and has
// never been published before. It reports whether the timestamp was set.
func (p *Post) MarkPublished(now time.Time) bool {
	if p.Status != PostStatusPublished || p.PublishedAt != nil {
		return false
	}
	p.PublishedAt = &now
	return true
}
