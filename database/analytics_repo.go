package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rpupo63/personal-blog-backend/models"
)

const dashboardListSize = 5

type PostCounts struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
	Draft     int64 `json:"draft"`
}

type CommentCounts struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

type PopularPost struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Slug  string    `json:"slug"`
	Views int64     `json:"views"`
}

type RecentComment struct {
	ID        uuid.UUID            `json:"id"`
	Author    string               `json:"author"`
	Content   string               `json:"content"`
	Status    models.CommentStatus `json:"status"`
	CreatedAt time.Time            `json:"createdAt"`
	PostID    uuid.UUID            `json:"postId"`
	PostTitle string               `json:"postTitle"`
}

// Summary is the admin dashboard payload
type Summary struct {
	Posts          PostCounts      `json:"posts"`
	Comments       CommentCounts   `json:"comments"`
	TotalViews     int64           `json:"totalViews"`
	PopularPosts   []PopularPost   `json:"popularPosts"`
	RecentComments []RecentComment `json:"recentComments"`
}

type statusCount struct {
	Status string
	Count  int64
}

type AnalyticsRepo struct {
	db *gorm.DB
}

func NewAnalyticsRepo(db *gorm.DB) *AnalyticsRepo {
	return &AnalyticsRepo{db}
}

// Summary computes the dashboard aggregates with a fresh set of queries
func (r *AnalyticsRepo) Summary(ctx context.Context) (*Summary, error) {
	db := r.db.WithContext(ctx)
	summary := &Summary{
		PopularPosts:   []PopularPost{},
		RecentComments: []RecentComment{},
	}

	var postRows []statusCount
	if err := db.Model(&models.Post{}).Select("status, COUNT(*) AS count").Group("status").Scan(&postRows).Error; err != nil {
		return nil, errs.NewDatabaseError("count", "posts", err)
	}
	for _, row := range postRows {
		summary.Posts.Total += row.Count
		switch models.PostStatus(row.Status) {
		case models.PostStatusPublished:
			summary.Posts.Published = row.Count
		case models.PostStatusDraft:
			summary.Posts.Draft = row.Count
		}
	}

	var commentRows []statusCount
	if err := db.Model(&models.Comment{}).Select("status, COUNT(*) AS count").Group("status").Scan(&commentRows).Error; err != nil {
		return nil, errs.NewDatabaseError("count", "comments", err)
	}
	for _, row := range commentRows {
		summary.Comments.Total += row.Count
		switch models.CommentStatus(row.Status) {
		case models.CommentStatusPending:
			summary.Comments.Pending = row.Count
		case models.CommentStatusApproved:
			summary.Comments.Approved = row.Count
		case models.CommentStatusRejected:
			summary.Comments.Rejected = row.Count
		}
	}

	if err := db.Model(&models.Post{}).Select("COALESCE(SUM(views), 0)").Scan(&summary.TotalViews).Error; err != nil {
		return nil, errs.NewDatabaseError("sum", "post views", err)
	}

	err := db.Model(&models.Post{}).
		Select("id, title, slug, views").
		Where("status = ?", models.PostStatusPublished).
		Order("views DESC").
		Order("published_at DESC").
		Limit(dashboardListSize).
		Scan(&summary.PopularPosts).Error
	if err != nil {
		return nil, errs.NewDatabaseError("rank", "posts", err)
	}

	err = db.Table("comments").
		Select("comments.id, comments.author, comments.content, comments.status, comments.created_at, comments.post_id, posts.title AS post_title").
		Joins("JOIN posts ON posts.id = comments.post_id").
		Order("comments.created_at DESC").
		Limit(dashboardListSize).
		Scan(&summary.RecentComments).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "recent comments", err)
	}

	return summary, nil
}
