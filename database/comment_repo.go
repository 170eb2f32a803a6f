package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rpupo63/personal-blog-backend/models"
)

type CommentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db}
}

// FindApprovedByPost returns the approved comments of a post, newest first
func (r *CommentRepo) FindApprovedByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND status = ?", postID, models.CommentStatusApproved).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "comments", err)
	}
	return comments, nil
}

// FindAll returns every comment with a summary of its post, newest first
func (r *CommentRepo) FindAll(ctx context.Context) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.db.WithContext(ctx).
		Preload("Post").
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "comments", err)
	}
	return comments, nil
}

// Add stores a new pending comment. The post must be published and a parent
// comment, when given, must belong to the same post.
func (r *CommentRepo) Add(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var posts int64
		err := tx.Model(&models.Post{}).
			Where("id = ? AND status = ?", comment.PostID, models.PostStatusPublished).
			Count(&posts).Error
		if err != nil {
			return errs.NewDatabaseError("find", "post", err)
		}
		if posts == 0 {
			return errs.NewNotFound("post")
		}

		if comment.ParentCommentID != nil {
			var parents int64
			err := tx.Model(&models.Comment{}).
				Where("id = ? AND post_id = ?", *comment.ParentCommentID, comment.PostID).
				Count(&parents).Error
			if err != nil {
				return errs.NewDatabaseError("find", "parent comment", err)
			}
			if parents == 0 {
				return errs.NewBadRequestErrorWithField("invalid parent comment", "parentComment",
					"parent comment must exist on the same post")
			}
		}

		comment.ID = uuid.Nil
		comment.Status = models.CommentStatusPending
		if err := tx.Omit("Post").Create(comment).Error; err != nil {
			return errs.NewDatabaseError("create", "comment", err)
		}
		return nil
	})
}

// SetStatus moves the comment with id to status
func (r *CommentRepo) SetStatus(ctx context.Context, id uuid.UUID, status models.CommentStatus) (*models.Comment, error) {
	if !status.Valid() {
		return nil, errs.NewInvalidCommentStatusError(string(status))
	}

	var comment models.Comment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&comment, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewNotFound("comment")
		}
		if err != nil {
			return errs.NewDatabaseError("find", "comment", err)
		}

		comment.Status = status
		if err := tx.Omit("Post").Save(&comment).Error; err != nil {
			return errs.NewDatabaseError("update", "comment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete removes the comment with id. Its replies are kept as top level comments.
func (r *CommentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&models.Comment{})
		if result.Error != nil {
			return errs.NewDatabaseError("delete", "comment", result.Error)
		}
		if result.RowsAffected == 0 {
			return errs.NewNotFound("comment")
		}

		err := tx.Model(&models.Comment{}).
			Where("parent_comment_id = ?", id).
			UpdateColumn("parent_comment_id", nil).Error
		if err != nil {
			return errs.NewDatabaseError("detach", "comment replies", err)
		}
		return nil
	})
}
