package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/personal-blog-backend/database"
	"github.com/rpupo63/personal-blog-backend/models"
	"github.com/rpupo63/personal-blog-backend/services"
)

const notifyTimeout = 15 * time.Second

type commentHandler struct {
	responder   Responder
	logger      zerolog.Logger
	commentRepo *database.CommentRepo
	postRepo    *database.PostRepo
	notifier    *services.CommentNotifier
}

func newCommentHandler(commentRepo *database.CommentRepo, postRepo *database.PostRepo, notifier *services.CommentNotifier, development bool) commentHandler {
	logger := log.With().Str("handlerName", "commentHandler").Logger()

	return commentHandler{
		responder:   NewResponder(logger, development),
		logger:      logger,
		commentRepo: commentRepo,
		postRepo:    postRepo,
		notifier:    notifier,
	}
}

// getPostComments lists the approved comments of a post
// @Summary List approved comments
// @Tags Comments
// @Produce json
// @Param postID path string true "Post ID" format(uuid)
// @Success 200 {array} PublicComment
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid postID"
// @Router /api/comments/post/{postID} [get]
func (h commentHandler) getPostComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := uuidParam(r, "postID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		comments, err := h.commentRepo.FindApprovedByPost(r.Context(), postID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		response := make([]PublicComment, 0, len(comments))
		for _, comment := range comments {
			response = append(response, newPublicComment(comment))
		}
		h.responder.WriteJSON(w, response)
	}
}

// createComment stores a reader comment for moderation
// @Summary Submit comment
// @Description The comment is always stored as pending, whatever status the body carries
// @Tags Comments
// @Accept json
// @Produce json
// @Param comment body CreateCommentRequest true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Not Found - Post does not exist or is not published"
// @Router /api/comments [post]
func (h commentHandler) createComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateCommentRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		postID, err := uuidField("postId", req.PostID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		comment := &models.Comment{
			PostID:  postID,
			Author:  req.Author,
			Email:   req.Email,
			Content: req.Content,
		}
		if req.ParentComment != nil && strings.TrimSpace(*req.ParentComment) != "" {
			parentID, err := uuidField("parentComment", *req.ParentComment)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			comment.ParentCommentID = &parentID
		}

		if err := h.commentRepo.Add(r.Context(), comment); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("commentID", comment.ID.String()).Str("postID", comment.PostID.String()).Msg("comment submitted")
		if h.notifier != nil {
			go h.notify(context.WithoutCancel(r.Context()), *comment)
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, comment)
	}
}

func (h commentHandler) notify(ctx context.Context, comment models.Comment) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	title := comment.PostID.String()
	if post, err := h.postRepo.FindByID(ctx, comment.PostID); err == nil {
		title = post.Title
	}
	if err := h.notifier.NotifyPending(ctx, title, &comment); err != nil {
		h.logger.Warn().Err(err).Str("commentID", comment.ID.String()).Msg("comment notification failed")
	}
}

// getAllComments lists every comment for moderation
// @Summary List all comments
// @Tags Comments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Comment
// @Failure 401 {object} ErrorResponse
// @Router /api/comments/admin/all [get]
func (h commentHandler) getAllComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		comments, err := h.commentRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, comments)
	}
}

// updateCommentStatus moderates a comment
// @Summary Set comment status
// @Tags Comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param commentID path string true "Comment ID" format(uuid)
// @Param status body UpdateCommentStatusRequest true "New status"
// @Success 200 {object} models.Comment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/comments/{commentID}/status [put]
func (h commentHandler) updateCommentStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, err := uuidParam(r, "commentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req UpdateCommentStatusRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		comment, err := h.commentRepo.SetStatus(r.Context(), commentID, models.CommentStatus(req.Status))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("commentID", commentID.String()).Str("status", req.Status).Msg("comment moderated")
		h.responder.WriteJSON(w, comment)
	}
}

// deleteComment removes a comment
// @Summary Delete comment
// @Tags Comments
// @Produce json
// @Security BearerAuth
// @Param commentID path string true "Comment ID" format(uuid)
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/comments/{commentID} [delete]
func (h commentHandler) deleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		commentID, err := uuidParam(r, "commentID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.commentRepo.Delete(r.Context(), commentID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteMessage(w, "Comment deleted successfully")
	}
}
