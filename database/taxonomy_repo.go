package database

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rpupo63/personal-blog-backend/models"
)

type taxonomy interface {
	models.Category | models.Tag
}

// taxonomyStore holds the queries shared by categories and tags. Both are
// {name, slug} rows linked to posts through a join table.
type taxonomyStore[T taxonomy] struct {
	db         *gorm.DB
	entity     string
	joinTable  string
	joinColumn string
	build      func(name, slug string) T
}

type CategoryRepo struct {
	taxonomyStore[models.Category]
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{taxonomyStore[models.Category]{
		db:         db,
		entity:     "category",
		joinTable:  "post_categories",
		joinColumn: "category_id",
		build: func(name, slug string) models.Category {
			return models.Category{Name: name, Slug: slug}
		},
	}}
}

type TagRepo struct {
	taxonomyStore[models.Tag]
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{taxonomyStore[models.Tag]{
		db:         db,
		entity:     "tag",
		joinTable:  "post_tags",
		joinColumn: "tag_id",
		build: func(name, slug string) models.Tag {
			return models.Tag{Name: name, Slug: slug}
		},
	}}
}

// FindAll returns every row ordered by name
func (s taxonomyStore[T]) FindAll(ctx context.Context) ([]T, error) {
	var rows []T
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, errs.NewDatabaseError("list", s.entity, err)
	}
	return rows, nil
}

// Add creates a row named name. The slug is derived from the name and must
// not be taken.
func (s taxonomyStore[T]) Add(ctx context.Context, name string) (*T, error) {
	name = strings.TrimSpace(name)
	slug := models.Slugify(name)
	if slug == "" {
		return nil, errs.NewInvalidFieldError("name", "must contain at least one letter or digit")
	}

	var taken int64
	if err := s.db.WithContext(ctx).Model(new(T)).Where("slug = ?", slug).Count(&taken).Error; err != nil {
		return nil, errs.NewDatabaseError("check", s.entity, err)
	}
	if taken > 0 {
		return nil, errs.NewDuplicateSlugError(s.entity, "name", slug)
	}

	row := s.build(name, slug)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		dbErr := errs.NewDatabaseError("create", s.entity, err)
		if errs.IsAlreadyExists(dbErr) {
			return nil, errs.NewDuplicateSlugError(s.entity, "name", slug)
		}
		return nil, dbErr
	}
	return &row, nil
}

// Delete removes the row and unlinks it from every post
func (s taxonomyStore[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM "+s.joinTable+" WHERE "+s.joinColumn+" = ?", id).Error; err != nil {
			return errs.NewDatabaseError("unlink", s.entity, err)
		}

		result := tx.Where("id = ?", id).Delete(new(T))
		if result.Error != nil {
			return errs.NewDatabaseError("delete", s.entity, result.Error)
		}
		if result.RowsAffected == 0 {
			return errs.NewNotFound(s.entity)
		}
		return nil
	})
}

// resolve maps names to rows by slug, creating the ones that do not exist.
// Blank and repeated names are skipped.
func (s taxonomyStore[T]) resolve(tx *gorm.DB, names []string) ([]T, error) {
	seen := make(map[string]bool, len(names))
	rows := make([]T, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		slug := models.Slugify(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true

		var row T
		err := tx.Where("slug = ?", slug).Attrs(s.build(name, slug)).FirstOrCreate(&row).Error
		if err != nil {
			return nil, errs.NewDatabaseError("resolve", s.entity, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
