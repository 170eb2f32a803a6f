package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rpupo63/personal-blog-backend/models"
)

func ptr[T any](v T) *T { return &v }

func TestPostRepo_AddDerivesSlug(t *testing.T) {
	d, _ := setupTestDB(t)
	author := seedAuthor(t, d)
	ctx := context.Background()

	post := seedPost(t, d, author, "Hello, World! 2024", []string{"Go", "go", "  "}, []string{"Learning to Code"})

	assert.Equal(t, "hello-world-2024", post.Slug)
	assert.Equal(t, models.PostStatusDraft, post.Status)
	assert.Nil(t, post.PublishedAt)
	require.Len(t, post.Tags, 1)
	assert.Equal(t, "go", post.Tags[0].Slug)
	require.Len(t, post.Categories, 1)
	assert.Equal(t, "learning-to-code", post.Categories[0].Slug)

	dup := &models.Post{Title: "hello world 2024", Content: "c", Excerpt: "e", AuthorID: author.ID}
	err := d.PostRepo().Add(ctx, dup, nil, nil)
	require.Error(t, err)
	assert.True(t, errs.IsDuplicateSlug(err))
	assert.True(t, errs.IsAlreadyExists(err))
	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "post with this title already exists", apiErr.Message())

	empty := &models.Post{Title: "?!", Content: "c", Excerpt: "e", AuthorID: author.ID}
	err = d.PostRepo().Add(ctx, empty, nil, nil)
	assert.True(t, errs.IsInvalidFieldError(err))
}

func TestPostRepo_AddPublishedSetsPublishedAt(t *testing.T) {
	d, _ := setupTestDB(t)
	author := seedAuthor(t, d)

	post := seedPost(t, d, author, "Live", nil, nil, func(p *models.Post) { p.Status = models.PostStatusPublished })
	assert.NotNil(t, post.PublishedAt)
}

func TestPostRepo_ListPublished(t *testing.T) {
	d, _ := setupTestDB(t)
	author := seedAuthor(t, d)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	seedPost(t, d, author, "Oldest Golang Notes", []string{"Go"}, []string{"Learning to Code"}, published(base))
	seedPost(t, d, author, "Middle", []string{"Career"}, []string{"Career Transition"}, published(base.Add(time.Hour)), withContent("all about GOLANG tooling"))
	seedPost(t, d, author, "Newest", []string{"Motivation"}, nil, published(base.Add(2*time.Hour)))
	seedPost(t, d, author, "Draft about golang", []string{"Go"}, []string{"Learning to Code"})

	page, err := d.PostRepo().ListPublished(ctx, PostFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, "Newest", page.Posts[0].Title)
	assert.Equal(t, "Middle", page.Posts[1].Title)

	page, err = d.PostRepo().ListPublished(ctx, PostFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "Oldest Golang Notes", page.Posts[0].Title)

	page, err = d.PostRepo().ListPublished(ctx, PostFilter{Search: "golang"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	page, err = d.PostRepo().ListPublished(ctx, PostFilter{Search: "100%"})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	page, err = d.PostRepo().ListPublished(ctx, PostFilter{Tags: []string{"go"}})
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "Oldest Golang Notes", page.Posts[0].Title)

	page, err = d.PostRepo().ListPublished(ctx, PostFilter{Tags: []string{"go", "motivation"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	page, err = d.PostRepo().ListPublished(ctx, PostFilter{Categories: []string{"career-transition"}, Search: "tooling"})
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "Middle", page.Posts[0].Title)
	require.Len(t, page.Posts[0].Tags, 1)

	page, err = d.PostRepo().ListPublished(ctx, PostFilter{Tags: []string{"unknown"}})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Zero(t, page.TotalPages)
	assert.NotNil(t, page.Posts)
}

func TestPostRepo_ViewPublishedBySlug(t *testing.T) {
	d, _ := setupTestDB(t)
	author := seedAuthor(t, d)
	ctx := context.Background()

	seedPost(t, d, author, "Counted", nil, nil, published(time.Now()))
	seedPost(t, d, author, "Hidden", nil, nil)

	for want := int64(1); want <= 3; want++ {
		post, err := d.PostRepo().ViewPublishedBySlug(ctx, "counted")
		require.NoError(t, err)
		assert.Equal(t, want, post.Views)
	}

	_, err := d.PostRepo().ViewPublishedBySlug(ctx, "hidden")
	assert.True(t, errs.IsNotFound(err))

	_, err = d.PostRepo().ViewPublishedBySlug(ctx, "missing-slug")
	assert.True(t, errs.IsNotFound(err))
}

func TestPostRepo_Update(t *testing.T) {
	d, _ := setupTestDB(t)
	author := seedAuthor(t, d)
	ctx := context.Background()

	first := seedPost(t, d, author, "First Post", []string{"Go"}, nil)
	seedPost(t, d, author, "Second Post", nil, nil)

	_, err := d.PostRepo().Update(ctx, first.ID, PostChanges{Title: ptr("Second Post")})
	require.Error(t, err)
	assert.True(t, errs.IsDuplicateSlug(err))

	updated, err := d.PostRepo().Update(ctx, first.ID, PostChanges{Title: ptr("First Post!")})
	require.NoError(t, err)
	assert.Equal(t, "first-post", updated.Slug)
	assert.Equal(t, "First Post!", updated.Title)
	assert.Len(t, updated.Tags, 1)

	updated, err = d.PostRepo().Update(ctx, first.ID, PostChanges{
		Title:      ptr("Renamed"),
		Excerpt:    ptr("new excerpt"),
		Tags:       []string{},
		Categories: []string{"Mental Health Journey"},
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Slug)
	assert.Equal(t, "new excerpt", updated.Excerpt)
	assert.Equal(t, first.Content, updated.Content)
	assert.Empty(t, updated.Tags)
	require.Len(t, updated.Categories, 1)

	_, err = d.PostRepo().Update(ctx, uuid.New(), PostChanges{Title: ptr("x")})
	assert.True(t, errs.IsNotFound(err))

	_, err = d.PostRepo().Update(ctx, first.ID, PostChanges{Status: ptr(models.PostStatus("archived"))})
	assert.ErrorIs(t, err, errs.ErrInvalidPostStatus)
}

func TestPostRepo_UpdateKeepsViewsCountedMeanwhile(t *testing.T) {
	d, db := setupTestDB(t)
	author := seedAuthor(t, d)
	post := seedPost(t, d, author, "Busy Post", nil, nil, published(time.Now()))

	// a reader's view lands after the edit has loaded the row
	counted := false
	require.NoError(t, db.Callback().Update().Before("gorm:update").Register("test:view_during_edit", func(tx *gorm.DB) {
		if counted || tx.Statement.Table != "posts" {
			return
		}
		counted = true
		tx.Session(&gorm.Session{NewDB: true}).Exec("UPDATE posts SET views = views + 1 WHERE id = ?", post.ID)
	}))

	updated, err := d.PostRepo().Update(context.Background(), post.ID, PostChanges{Excerpt: ptr("edited")})
	require.NoError(t, err)
	require.True(t, counted)
	assert.Equal(t, "edited", updated.Excerpt)
	assert.Equal(t, int64(1), updated.Views)
}

func TestPostRepo_PublishedAtIsSetOnce(t *testing.T) {
	d, _ := setupTestDB(t)
	author := seedAuthor(t, d)
	ctx := context.Background()
	post := seedPost(t, d, author, "Cycle", nil, nil)

	live, err := d.PostRepo().Update(ctx, post.ID, PostChanges{Status: ptr(models.PostStatusPublished)})
	require.NoError(t, err)
	require.NotNil(t, live.PublishedAt)
	firstPublish := *live.PublishedAt

	draft, err := d.PostRepo().Update(ctx, post.ID, PostChanges{Status: ptr(models.PostStatusDraft)})
	require.NoError(t, err)
	require.NotNil(t, draft.PublishedAt)

	again, err := d.PostRepo().Update(ctx, post.ID, PostChanges{Status: ptr(models.PostStatusPublished)})
	require.NoError(t, err)
	assert.True(t, firstPublish.Equal(*again.PublishedAt))
}

func TestPostRepo_DeleteRemovesComments(t *testing.T) {
	d, db := setupTestDB(t)
	author := seedAuthor(t, d)
	ctx := context.Background()
	post := seedPost(t, d, author, "Doomed", []string{"Go"}, []string{"Learning to Code"}, published(time.Now()))

	require.NoError(t, d.CommentRepo().Add(ctx, &models.Comment{PostID: post.ID, Author: "a", Email: "a@b.co", Content: "hi"}))

	require.NoError(t, d.PostRepo().Delete(ctx, post.ID))

	var comments, links int64
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&comments).Error)
	require.NoError(t, db.Table("post_tags").Where("post_id = ?", post.ID).Count(&links).Error)
	assert.Zero(t, comments)
	assert.Zero(t, links)

	tags, err := d.TagRepo().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 1)

	assert.True(t, errs.IsNotFound(d.PostRepo().Delete(ctx, post.ID)))
}

func TestPostRepo_FindAllIncludesDrafts(t *testing.T) {
	d, _ := setupTestDB(t)
	author := seedAuthor(t, d)
	ctx := context.Background()
	seedPost(t, d, author, "Draft", nil, nil)
	live := seedPost(t, d, author, "Live", nil, nil, published(time.Now()))

	posts, err := d.PostRepo().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	found, err := d.PostRepo().FindByID(ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, "live", found.Slug)

	_, err = d.PostRepo().FindByID(ctx, uuid.New())
	assert.True(t, errs.IsNotFound(err))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%\_off\\`, escapeLike(`100%_off\`))
}
