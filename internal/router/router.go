package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Oxyrus/photowall/internal/auth"
	"github.com/Oxyrus/photowall/internal/gallery"
	"github.com/Oxyrus/photowall/internal/http/handlers"
	"github.com/Oxyrus/photowall/internal/http/middleware"
	"github.com/Oxyrus/photowall/internal/storage"
)

func New(logger *slog.Logger, svc *gallery.Service, users storage.Users, tokens *auth.Tokens) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logging(logger))

	photoHandler := handlers.NewPhotoHandler(logger, svc)
	authHandler := handlers.NewAuthHandler(logger, users, tokens)

	api := r.Group("/api")

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	api.GET("/photos", photoHandler.List)
	api.GET("/photos/:id", photoHandler.Get)
	api.GET("/photos/:id/image", photoHandler.Image)
	api.GET("/photos/:id/thumbnail", photoHandler.Thumbnail)

	protected := api.Group("/")
	protected.Use(middleware.RequireAdmin(tokens))
	protected.POST("/photos", photoHandler.Create)
	protected.PUT("/photos/:id", photoHandler.Update)
	protected.DELETE("/photos/:id", photoHandler.Delete)
	protected.POST("/photos/reorder", photoHandler.Reorder)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
