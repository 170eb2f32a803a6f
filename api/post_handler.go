package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/personal-blog-backend/database"
	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rpupo63/personal-blog-backend/models"
)

type postHandler struct {
	responder Responder
	logger    zerolog.Logger
	postRepo  *database.PostRepo
}

func newPostHandler(postRepo *database.PostRepo, development bool) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder: NewResponder(logger, development),
		logger:    logger,
		postRepo:  postRepo,
	}
}

// listPosts returns one page of published posts
// @Summary List published posts
// @Description Paginated published posts, newest first, filtered by search text, tag slug and category slug
// @Tags Posts
// @Produce json
// @Param page query int false "Page number" minimum(1)
// @Param limit query int false "Page size" minimum(1) maximum(100)
// @Param search query string false "Matches title or content"
// @Param tag query string false "Tag slug, repeatable or comma separated"
// @Param category query string false "Category slug, repeatable or comma separated"
// @Success 200 {object} database.PostPage
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid page or limit"
// @Failure 500 {object} ErrorResponse
// @Router /api/posts [get]
func (h postHandler) listPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := positiveIntQuery(r, "page", 1)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		limit, err := positiveIntQuery(r, "limit", database.DefaultPageSize)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		result, err := h.postRepo.ListPublished(r.Context(), database.PostFilter{
			Search:     r.URL.Query().Get("search"),
			Tags:       listQuery(r, "tag"),
			Categories: listQuery(r, "category"),
			Page:       page,
			Limit:      limit,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, result)
	}
}

// getPostBySlug returns a published post and counts the view
// @Summary Get published post
// @Tags Posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} models.Post
// @Failure 404 {object} ErrorResponse "Not Found - No published post with this slug"
// @Router /api/posts/{slug} [get]
func (h postHandler) getPostBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "slug")))
		if slug == "" {
			h.responder.WriteError(w, errs.NewNotFound("post"))
			return
		}

		post, err := h.postRepo.ViewPublishedBySlug(r.Context(), slug)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// getAllPosts returns every post regardless of status
// @Summary List all posts
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Post
// @Failure 401 {object} ErrorResponse
// @Router /api/posts/admin/all [get]
func (h postHandler) getAllPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.postRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, posts)
	}
}

// getPost returns any post by id without counting a view
// @Summary Get post for editing
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param postID path string true "Post ID" format(uuid)
// @Success 200 {object} models.Post
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid postID"
// @Failure 404 {object} ErrorResponse
// @Router /api/posts/admin/{postID} [get]
func (h postHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := uuidParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post, err := h.postRepo.FindByID(r.Context(), postID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// createPost creates a post authored by the caller
// @Summary Create post
// @Description The slug is derived from the title and must be unique
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param post body CreatePostRequest true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} ErrorResponse "Bad Request - Validation failed or a post with this title already exists"
// @Failure 401 {object} ErrorResponse
// @Router /api/posts [post]
func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req CreatePostRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		post := &models.Post{
			Title:         req.Title,
			Content:       req.Content,
			Excerpt:       strings.TrimSpace(req.Excerpt),
			FeaturedImage: strings.TrimSpace(req.FeaturedImage),
			Status:        models.PostStatus(req.Status),
			AuthorID:      identity.UserID,
		}

		if err := h.postRepo.Add(r.Context(), post, req.Tags, req.Categories); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("postID", post.ID.String()).Str("slug", post.Slug).Msg("post created")
		h.responder.WriteJSONStatus(w, http.StatusCreated, post)
	}
}

// updatePost applies a partial update
// @Summary Update post
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postID path string true "Post ID" format(uuid)
// @Param post body UpdatePostRequest true "Fields to change"
// @Success 200 {object} models.Post
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/posts/{postID} [put]
func (h postHandler) updatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := uuidParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req UpdatePostRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		changes := database.PostChanges{
			Title:   req.Title,
			Content: req.Content,
			Excerpt: req.Excerpt,
		}
		if req.FeaturedImage != nil {
			image := strings.TrimSpace(*req.FeaturedImage)
			if image != "" && validate.Var(image, "url") != nil {
				h.responder.WriteError(w, errs.NewInvalidFieldError("featuredImage", "must be a valid URL"))
				return
			}
			changes.FeaturedImage = &image
		}
		if req.Status != nil {
			status := models.PostStatus(*req.Status)
			changes.Status = &status
		}
		if req.Tags != nil {
			changes.Tags = append([]string{}, *req.Tags...)
		}
		if req.Categories != nil {
			changes.Categories = append([]string{}, *req.Categories...)
		}

		post, err := h.postRepo.Update(r.Context(), postID, changes)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// deletePost removes a post and its comments
// @Summary Delete post
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param postID path string true "Post ID" format(uuid)
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/posts/{postID} [delete]
func (h postHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := uuidParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.postRepo.Delete(r.Context(), postID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("postID", postID.String()).Msg("post deleted")
		h.responder.WriteMessage(w, "Post deleted successfully")
	}
}
