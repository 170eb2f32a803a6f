package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/personal-blog-backend/models"
)

func TestTaxonomyEndpoints(t *testing.T) {
	for _, base := range []string{"/api/categories", "/api/tags"} {
		t.Run(base, func(t *testing.T) {
			env := newTestEnv(t)

			rec := env.do(t, http.MethodPost, base, CreateTaxonomyRequest{Name: "Web Dev"}, env.token)
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			created := decodeBody[models.Tag](t, rec)
			assert.Equal(t, "web-dev", created.Slug)

			rec = env.do(t, http.MethodPost, base, CreateTaxonomyRequest{Name: "web  dev"}, env.token)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			rec = env.do(t, http.MethodPost, base, CreateTaxonomyRequest{Name: "Algorithms"}, env.token)
			require.Equal(t, http.StatusCreated, rec.Code)

			rec = env.do(t, http.MethodGet, base, nil, "")
			require.Equal(t, http.StatusOK, rec.Code)
			terms := decodeBody[[]models.Tag](t, rec)
			require.Len(t, terms, 2)
			assert.Equal(t, "Algorithms", terms[0].Name)

			rec = env.do(t, http.MethodDelete, base+"/"+created.ID.String(), nil, env.token)
			require.Equal(t, http.StatusOK, rec.Code)
			rec = env.do(t, http.MethodDelete, base+"/"+uuid.NewString(), nil, env.token)
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestDeleteTagUnlinksPosts(t *testing.T) {
	env := newTestEnv(t)
	post := env.createPost(t, CreatePostRequest{Title: "Tagged", Status: "published", Tags: []string{"Go", "Web"}})

	var goTag models.Tag
	for _, tag := range post.Tags {
		if tag.Slug == "go" {
			goTag = tag
		}
	}
	require.NotEqual(t, uuid.Nil, goTag.ID)

	rec := env.do(t, http.MethodDelete, "/api/tags/"+goTag.ID.String(), nil, env.token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/posts/tagged", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[models.Post](t, rec)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "web", got.Tags[0].Slug)
}
