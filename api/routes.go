package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes mounts the public reader API, the admin API behind bearer
// auth, and the ops endpoints.
func setupRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware, loginLimit rateLimitMiddleware, metrics *httpMetrics) {
	r.Get("/health", handlers.healthHandler.health())
	r.Method("GET", "/metrics", metrics.handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", handlers.postHandler.listPosts())
			r.Get("/{slug}", handlers.postHandler.getPostBySlug())

			r.Group(func(r chi.Router) {
				r.Use(auth.authenticate)
				r.Get("/admin/all", handlers.postHandler.getAllPosts())
				r.Get("/admin/{postID}", handlers.postHandler.getPost())
				r.Post("/", handlers.postHandler.createPost())
				r.Put("/{postID}", handlers.postHandler.updatePost())
				r.Delete("/{postID}", handlers.postHandler.deletePost())
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/post/{postID}", handlers.commentHandler.getPostComments())
			r.Post("/", handlers.commentHandler.createComment())

			r.Group(func(r chi.Router) {
				r.Use(auth.authenticate)
				r.Get("/admin/all", handlers.commentHandler.getAllComments())
				r.Put("/{commentID}/status", handlers.commentHandler.updateCommentStatus())
				r.Delete("/{commentID}", handlers.commentHandler.deleteComment())
			})
		})

		taxonomyRoutes := func(h taxonomyHandler) func(chi.Router) {
			return func(r chi.Router) {
				r.Get("/", h.listTerms())
				r.With(auth.authenticate).Post("/", h.createTerm())
				r.With(auth.authenticate).Delete("/{id}", h.deleteTerm())
			}
		}
		r.Route("/categories", taxonomyRoutes(handlers.categoryHandler))
		r.Route("/tags", taxonomyRoutes(handlers.tagHandler))

		r.With(auth.authenticate).Get("/analytics", handlers.analyticsHandler.getSummary())

		r.Route("/auth", func(r chi.Router) {
			r.With(loginLimit.limit).Post("/login", handlers.authHandler.login())
			r.With(auth.authenticate).Get("/me", handlers.authHandler.me())
		})
	})
}
