package database

import (
	"context"

	"gorm.io/gorm"
)

type Database struct {
	db            *gorm.DB
	userRepo      *UserRepo
	postRepo      *PostRepo
	commentRepo   *CommentRepo
	categoryRepo  *CategoryRepo
	tagRepo       *TagRepo
	analyticsRepo *AnalyticsRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:            db,
		userRepo:      NewUserRepo(db),
		postRepo:      NewPostRepo(db),
		commentRepo:   NewCommentRepo(db),
		categoryRepo:  NewCategoryRepo(db),
		tagRepo:       NewTagRepo(db),
		analyticsRepo: NewAnalyticsRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) PostRepo() *PostRepo {
	return d.postRepo
}

func (d Database) CommentRepo() *CommentRepo {
	return d.commentRepo
}

func (d Database) CategoryRepo() *CategoryRepo {
	return d.categoryRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) AnalyticsRepo() *AnalyticsRepo {
	return d.analyticsRepo
}

// Ping checks that the shared connection is still usable.
func (d Database) Ping(ctx context.Context) error {
	return Ping(ctx, d.db)
}
