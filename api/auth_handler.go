package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/personal-blog-backend/database"
	"github.com/rpupo63/personal-blog-backend/errs"
	"github.com/rpupo63/personal-blog-backend/services"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	userRepo  *database.UserRepo
	tokens    *services.TokenService
}

func newAuthHandler(userRepo *database.UserRepo, tokens *services.TokenService, development bool) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger, development),
		logger:    logger,
		userRepo:  userRepo,
		tokens:    tokens,
	}
}

// login exchanges admin credentials for a bearer token
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} ErrorResponse "Unauthorized - Invalid credentials"
// @Failure 429 {object} ErrorResponse "Too Many Requests"
// @Router /api/auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.userRepo.FindByUsername(r.Context(), req.Username)
		if errs.IsNotFound(err) {
			h.logger.Warn().Str("username", req.Username).Msg("login for unknown user")
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if !services.CheckPassword(req.Password, user.Password) {
			h.logger.Warn().Str("username", req.Username).Msg("login with wrong password")
			h.responder.WriteError(w, errs.NewInvalidCredentialsError())
			return
		}

		token, expiresAt, err := h.tokens.Issue(user)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("could not issue token", err))
			return
		}

		h.responder.WriteJSON(w, LoginResponse{
			Token:     token,
			ExpiresAt: expiresAt,
			User: services.Identity{
				UserID:   user.ID,
				Username: user.Username,
				Role:     user.Role,
			},
		})
	}
}

// me returns the identity carried by the bearer token
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.Identity
// @Failure 401 {object} ErrorResponse
// @Router /api/auth/me [get]
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := ctxGetIdentity(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, identity)
	}
}
