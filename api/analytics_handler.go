package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/personal-blog-backend/database"
)

type analyticsHandler struct {
	responder     Responder
	logger        zerolog.Logger
	analyticsRepo *database.AnalyticsRepo
}

func newAnalyticsHandler(analyticsRepo *database.AnalyticsRepo, development bool) analyticsHandler {
	logger := log.With().Str("handlerName", "analyticsHandler").Logger()

	return analyticsHandler{
		responder:     NewResponder(logger, development),
		logger:        logger,
		analyticsRepo: analyticsRepo,
	}
}

// getSummary computes the dashboard aggregates
// @Summary Dashboard analytics
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} database.Summary
// @Failure 401 {object} ErrorResponse
// @Router /api/analytics [get]
func (h analyticsHandler) getSummary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := h.analyticsRepo.Summary(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, summary)
	}
}
