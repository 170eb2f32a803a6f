package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// taxonomyStore is the part of CategoryRepo and TagRepo the handler needs.
type taxonomyStore[T any] interface {
	FindAll(ctx context.Context) ([]T, error)
	Add(ctx context.Context, name string) (*T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// taxonomyHandler serves categories and tags, which share one shape.
type taxonomyHandler struct {
	responder Responder
	logger    zerolog.Logger
	noun      string
	list      func(ctx context.Context) (any, error)
	add       func(ctx context.Context, name string) (any, error)
	remove    func(ctx context.Context, id uuid.UUID) error
}

func newTaxonomyHandler[T any](noun string, store taxonomyStore[T], development bool) taxonomyHandler {
	logger := log.With().Str("handlerName", noun+"Handler").Logger()

	return taxonomyHandler{
		responder: NewResponder(logger, development),
		logger:    logger,
		noun:      noun,
		list: func(ctx context.Context) (any, error) {
			return store.FindAll(ctx)
		},
		add: func(ctx context.Context, name string) (any, error) {
			return store.Add(ctx, name)
		},
		remove: store.Delete,
	}
}

// listTerms returns all terms ordered by name
// @Summary List categories or tags
// @Tags Taxonomy
// @Produce json
// @Success 200 {array} models.Category
// @Router /api/categories [get]
// @Router /api/tags [get]
func (h taxonomyHandler) listTerms() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		terms, err := h.list(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, terms)
	}
}

// createTerm adds a term; its slug is derived from the name
// @Summary Create category or tag
// @Tags Taxonomy
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param term body CreateTaxonomyRequest true "Name"
// @Success 201 {object} models.Category
// @Failure 400 {object} ErrorResponse "Bad Request - Duplicate name"
// @Router /api/categories [post]
// @Router /api/tags [post]
func (h taxonomyHandler) createTerm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateTaxonomyRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		term, err := h.add(r.Context(), req.Name)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("name", req.Name).Msgf("%s created", h.noun)
		h.responder.WriteJSONStatus(w, http.StatusCreated, term)
	}
}

// deleteTerm removes a term and unlinks it from posts
// @Summary Delete category or tag
// @Tags Taxonomy
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID" format(uuid)
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/categories/{id} [delete]
// @Router /api/tags/{id} [delete]
func (h taxonomyHandler) deleteTerm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuidParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.remove(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteMessage(w, strings.ToUpper(h.noun[:1])+h.noun[1:]+" deleted successfully")
	}
}
