package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/personal-blog-backend/config"
	"github.com/rpupo63/personal-blog-backend/database"
	"github.com/rpupo63/personal-blog-backend/services"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(db database.Database, c config.Config, opts ...RouterOption) (Server, error) {
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	opts = append([]RouterOption{WithConfig(c), WithStartupTime(startupTime)}, opts...)
	router, err := newRouter(db, opts...)
	if err != nil {
		return Server{}, err
	}

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  config.GetSeconds(c, "READ_TIMEOUT_SECONDS", 180),  // Timeout for reading the entire request
		WriteTimeout: config.GetSeconds(c, "WRITE_TIMEOUT_SECONDS", 180), // Timeout for writing the response
		IdleTimeout:  config.GetSeconds(c, "IDLE_TIMEOUT_SECONDS", 180),  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      config.Config
	startupTime time.Time
	tokens      *services.TokenService
	limiter     services.Limiter
	notifier    *services.CommentNotifier
}

// RouterOption customizes the router built by NewServer.
type RouterOption func(*router)

func WithConfig(c config.Config) RouterOption {
	return func(r *router) {
		r.config = c
	}
}

func WithStartupTime(startupTime time.Time) RouterOption {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func WithTokenService(tokens *services.TokenService) RouterOption {
	return func(r *router) {
		r.tokens = tokens
	}
}

// WithLoginLimiter sets the limiter guarding POST /api/auth/login.
func WithLoginLimiter(limiter services.Limiter) RouterOption {
	return func(r *router) {
		r.limiter = limiter
	}
}

func WithCommentNotifier(notifier *services.CommentNotifier) RouterOption {
	return func(r *router) {
		r.notifier = notifier
	}
}

func newRouter(db database.Database, opts ...RouterOption) (*chi.Mux, error) {
	var router router
	for _, opt := range opts {
		opt(&router)
	}

	if router.tokens == nil {
		return nil, errors.New("api: a token service is required")
	}
	if router.startupTime.IsZero() {
		router.startupTime = time.Now()
	}
	if router.limiter == nil {
		router.limiter = services.NewMemoryLimiter(
			config.GetInt(router.config, "LOGIN_RATE_LIMIT", services.DefaultLoginLimit),
			config.GetSeconds(router.config, "LOGIN_RATE_WINDOW_SECONDS", services.DefaultLoginWindowSeconds),
		)
	}
	development := config.IsDevelopment(router.config)

	metrics := newHTTPMetrics()
	acceptedOrigins := config.GetStrings(router.config, "ACCEPTED_ORIGINS", []string{"*"})

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(metrics.middleware)
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins, NewResponder(log.Logger, development)))
	chiRouter.Use(corsHandler(acceptedOrigins))

	handlers := initializeHandlers(db, router.tokens, router.notifier, router.startupTime, development)
	auth := newAuthMiddleware(router.tokens, development)
	loginLimit := newRateLimitMiddleware(router.limiter, "login", development)

	setupRoutes(chiRouter, handlers, auth, loginLimit, metrics)

	return chiRouter, nil
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
