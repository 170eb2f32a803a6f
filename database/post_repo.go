package database

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rpupo63/personal-blog-backend/models"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PostFilter narrows the public listing. Tag and category filters match
// when a post carries any of the given slugs.
type PostFilter struct {
	Search     string
	Tags       []string
	Categories []string
	Page       int
	Limit      int
}

type PostPage struct {
	Posts       []models.Post `json:"posts"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
	Total       int64         `json:"total"`
}

// PostChanges is a partial update. Nil fields are left untouched.
type PostChanges struct {
	Title         *string
	Content       *string
	Excerpt       *string
	FeaturedImage *string
	Status        *models.PostStatus
	Tags          []string
	Categories    []string
}

type PostRepo struct {
	db         *gorm.DB
	tags       *TagRepo
	categories *CategoryRepo
}

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{
		db:         db,
		tags:       NewTagRepo(db),
		categories: NewCategoryRepo(db),
	}
}

func preloadPost(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Tags", func(db *gorm.DB) *gorm.DB {
		return db.Order("tags.name ASC")
	}).Preload("Categories", func(db *gorm.DB) *gorm.DB {
		return db.Order("categories.name ASC")
	})
}

// escapeLike quotes the LIKE wildcards in s so it matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ListPublished returns one page of published posts matching filter,
// newest publication first.
func (r *PostRepo) ListPublished(ctx context.Context, filter PostFilter) (*PostPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = DefaultPageSize
	}
	if filter.Limit > MaxPageSize {
		filter.Limit = MaxPageSize
	}

	db := r.db.WithContext(ctx)
	query := db.Model(&models.Post{}).Where("posts.status = ?", models.PostStatusPublished)

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + escapeLike(strings.ToLower(search)) + "%"
		query = query.Where(`(LOWER(posts.title) LIKE ? ESCAPE '\' OR LOWER(posts.content) LIKE ? ESCAPE '\')`, like, like)
	}
	if len(filter.Tags) > 0 {
		tagged := db.Table("post_tags").
			Select("post_tags.post_id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.slug IN ?", filter.Tags)
		query = query.Where("posts.id IN (?)", tagged)
	}
	if len(filter.Categories) > 0 {
		categorized := db.Table("post_categories").
			Select("post_categories.post_id").
			Joins("JOIN categories ON categories.id = post_categories.category_id").
			Where("categories.slug IN ?", filter.Categories)
		query = query.Where("posts.id IN (?)", categorized)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, errs.NewDatabaseError("count", "posts", err)
	}

	posts := []models.Post{}
	err := preloadPost(query).
		Order("posts.published_at DESC").
		Order("posts.created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "posts", err)
	}

	return &PostPage{
		Posts:       posts,
		TotalPages:  int((total + int64(filter.Limit) - 1) / int64(filter.Limit)),
		CurrentPage: filter.Page,
		Total:       total,
	}, nil
}

// ViewPublishedBySlug counts one view on the published post with slug and
// returns it. The increment is a single UPDATE so concurrent reads are not lost.
func (r *PostRepo) ViewPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Post{}).
			Where("slug = ? AND status = ?", slug, models.PostStatusPublished).
			UpdateColumn("views", gorm.Expr("views + ?", 1))
		if result.Error != nil {
			return errs.NewDatabaseError("count view on", "post", result.Error)
		}
		if result.RowsAffected == 0 {
			return errs.NewNotFound("post")
		}

		if err := preloadPost(tx).Where("slug = ?", slug).First(&post).Error; err != nil {
			return errs.NewDatabaseError("find", "post", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// FindAll returns every post regardless of status, newest first
func (r *PostRepo) FindAll(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	err := preloadPost(r.db.WithContext(ctx)).Order("created_at DESC").Find(&posts).Error
	if err != nil {
		return nil, errs.NewDatabaseError("list", "posts", err)
	}
	return posts, nil
}

// FindByID returns a post by its ID regardless of status
func (r *PostRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return r.findByID(r.db.WithContext(ctx), id)
}

func (r *PostRepo) findByID(tx *gorm.DB, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := preloadPost(tx).First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("post")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("find", "post", err)
	}
	return &post, nil
}

func (r *PostRepo) checkSlugFree(tx *gorm.DB, slug string, except uuid.UUID) error {
	var taken int64
	query := tx.Model(&models.Post{}).Where("slug = ?", slug)
	if except != uuid.Nil {
		query = query.Where("id <> ?", except)
	}
	if err := query.Count(&taken).Error; err != nil {
		return errs.NewDatabaseError("check", "post slug", err)
	}
	if taken > 0 {
		return errs.NewDuplicateSlugError("post", "title", slug)
	}
	return nil
}

func slugFor(title string) (string, error) {
	slug := models.Slugify(title)
	if slug == "" {
		return "", errs.NewInvalidFieldError("title", "must contain at least one letter or digit")
	}
	return slug, nil
}

// Add inserts post with its tags and categories, resolved by name. The slug
// is derived from the title.
func (r *PostRepo) Add(ctx context.Context, post *models.Post, tagNames, categoryNames []string) error {
	slug, err := slugFor(post.Title)
	if err != nil {
		return err
	}
	post.Slug = slug

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.checkSlugFree(tx, slug, uuid.Nil); err != nil {
			return err
		}

		tags, err := r.tags.resolve(tx, tagNames)
		if err != nil {
			return err
		}
		categories, err := r.categories.resolve(tx, categoryNames)
		if err != nil {
			return err
		}
		post.Tags = tags
		post.Categories = categories

		if err := tx.Omit("Author").Create(post).Error; err != nil {
			dbErr := errs.NewDatabaseError("create", "post", err)
			if errs.IsAlreadyExists(dbErr) {
				return errs.NewDuplicateSlugError("post", "title", slug)
			}
			return dbErr
		}

		stored, err := r.findByID(tx, post.ID)
		if err != nil {
			return err
		}
		*post = *stored
		return nil
	})
}

// Update applies changes to the post with id. A new title re-derives the
// slug, which must stay unique among the other posts. Views are never
// written here; only ViewPublishedBySlug moves them.
func (r *PostRepo) Update(ctx context.Context, id uuid.UUID, changes PostChanges) (*models.Post, error) {
	var updated *models.Post
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		err := tx.First(&post, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewNotFound("post")
		}
		if err != nil {
			return errs.NewDatabaseError("find", "post", err)
		}

		if changes.Title != nil {
			slug, err := slugFor(*changes.Title)
			if err != nil {
				return err
			}
			if slug != post.Slug {
				if err := r.checkSlugFree(tx, slug, post.ID); err != nil {
					return err
				}
			}
			post.Title = *changes.Title
			post.Slug = slug
		}
		if changes.Content != nil {
			post.Content = *changes.Content
		}
		if changes.Excerpt != nil {
			post.Excerpt = *changes.Excerpt
		}
		if changes.FeaturedImage != nil {
			post.FeaturedImage = *changes.FeaturedImage
		}
		if changes.Status != nil {
			post.Status = *changes.Status
		}

		if err := tx.Omit(clause.Associations, "views").Save(&post).Error; err != nil {
			dbErr := errs.NewDatabaseError("update", "post", err)
			if errs.IsAlreadyExists(dbErr) {
				return errs.NewDuplicateSlugError("post", "title", post.Slug)
			}
			return dbErr
		}

		if changes.Tags != nil {
			tags, err := r.tags.resolve(tx, changes.Tags)
			if err != nil {
				return err
			}
			if err := tx.Model(&post).Association("Tags").Replace(tags); err != nil {
				return errs.NewDatabaseError("update", "post tags", err)
			}
		}
		if changes.Categories != nil {
			categories, err := r.categories.resolve(tx, changes.Categories)
			if err != nil {
				return err
			}
			if err := tx.Model(&post).Association("Categories").Replace(categories); err != nil {
				return errs.NewDatabaseError("update", "post categories", err)
			}
		}

		updated, err = r.findByID(tx, post.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the post with its comments and taxonomy links
func (r *PostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		err := tx.First(&post, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewNotFound("post")
		}
		if err != nil {
			return errs.NewDatabaseError("find", "post", err)
		}

		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return errs.NewDatabaseError("delete", "post comments", err)
		}
		if err := tx.Model(&post).Association("Tags").Clear(); err != nil {
			return errs.NewDatabaseError("unlink", "post tags", err)
		}
		if err := tx.Model(&post).Association("Categories").Clear(); err != nil {
			return errs.NewDatabaseError("unlink", "post categories", err)
		}
		if err := tx.Delete(&post).Error; err != nil {
			return errs.NewDatabaseError("delete", "post", err)
		}
		return nil
	})
}
