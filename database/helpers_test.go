package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rpupo63/personal-blog-backend/config"
	"github.com/rpupo63/personal-blog-backend/models"
)

func setupTestDB(t *testing.T) (Database, *gorm.DB) {
	t.Helper()
	db, err := Open(config.Config{"DB_TYPE": TypeSQLite, "SQLITE_PATH": ":memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return New(db), db
}

func seedAuthor(t *testing.T, d Database) *models.User {
	t.Helper()
	user := &models.User{Username: "admin", Email: "admin@example.com", Password: "hash"}
	require.NoError(t, d.UserRepo().Add(context.Background(), user))
	return user
}

type postOpt func(*models.Post)

func published(at time.Time) postOpt {
	return func(p *models.Post) {
		p.Status = models.PostStatusPublished
		p.PublishedAt = &at
	}
}

func withContent(content string) postOpt {
	return func(p *models.Post) { p.Content = content }
}

func seedPost(t *testing.T, d Database, author *models.User, title string, tags, categories []string, opts ...postOpt) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:    title,
		Content:  "content of " + title,
		Excerpt:  "excerpt",
		AuthorID: author.ID,
	}
	for _, opt := range opts {
		opt(post)
	}
	require.NoError(t, d.PostRepo().Add(context.Background(), post, tags, categories))
	return post
}
