package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/personal-blog-backend/errs"
)

func TestCategoryRepo_AddAndList(t *testing.T) {
	d, _ := setupTestDB(t)
	ctx := context.Background()

	career, err := d.CategoryRepo().Add(ctx, " Career Transition ")
	require.NoError(t, err)
	assert.Equal(t, "Career Transition", career.Name)
	assert.Equal(t, "career-transition", career.Slug)

	_, err = d.CategoryRepo().Add(ctx, "Apprentissage")
	require.NoError(t, err)

	_, err = d.CategoryRepo().Add(ctx, "career transition")
	require.Error(t, err)
	assert.True(t, errs.IsDuplicateSlug(err))

	_, err = d.CategoryRepo().Add(ctx, "***")
	assert.True(t, errs.IsInvalidFieldError(err))

	categories, err := d.CategoryRepo().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Apprentissage", categories[0].Name)
}

func TestTagRepo_DeleteUnlinksPosts(t *testing.T) {
	d, db := setupTestDB(t)
	author := seedAuthor(t, d)
	ctx := context.Background()
	post := seedPost(t, d, author, "Tagged", []string{"Successes", "Challenges"}, nil, published(time.Now()))

	var successes uuid.UUID
	for _, tag := range post.Tags {
		if tag.Slug == "successes" {
			successes = tag.ID
		}
	}
	require.NotEqual(t, uuid.Nil, successes)

	require.NoError(t, d.TagRepo().Delete(ctx, successes))

	var links int64
	require.NoError(t, db.Table("post_tags").Where("tag_id = ?", successes).Count(&links).Error)
	assert.Zero(t, links)

	reloaded, err := d.PostRepo().FindByID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Tags, 1)
	assert.Equal(t, "challenges", reloaded.Tags[0].Slug)

	assert.True(t, errs.IsNotFound(d.TagRepo().Delete(ctx, successes)))
}
