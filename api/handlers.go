package api

import (
	"time"

	"github.com/rpupo63/personal-blog-backend/database"
	"github.com/rpupo63/personal-blog-backend/models"
	"github.com/rpupo63/personal-blog-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, tokens *services.TokenService, notifier *services.CommentNotifier, startupTime time.Time, development bool) *routeHandlers {
	return &routeHandlers{
		postHandler:      newPostHandler(db.PostRepo(), development),
		commentHandler:   newCommentHandler(db.CommentRepo(), db.PostRepo(), notifier, development),
		categoryHandler:  newTaxonomyHandler[models.Category]("category", db.CategoryRepo(), development),
		tagHandler:       newTaxonomyHandler[models.Tag]("tag", db.TagRepo(), development),
		analyticsHandler: newAnalyticsHandler(db.AnalyticsRepo(), development),
		authHandler:      newAuthHandler(db.UserRepo(), tokens, development),
		healthHandler:    newHealthHandler(db, startupTime, development),
	}
}
