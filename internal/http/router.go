package http

import (
	"github.com/gin-gonic/gin"

	"ebookshelf/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	if cfg.MaxUploadSizeMB > 0 {
		router.MaxMultipartMemory = int64(cfg.MaxUploadSizeMB) << 20
	}

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by
	// CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	// Resolve the session user into the request context
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	// Serve static files
	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	// Registration, login and logout
	if cfg.AuthController != nil {
		cfg.AuthController.RegisterRoutes(router, cfg.AuthMiddleware.RequireAuth())
	}

	render := newRenderer(cfg.TemplatesPath)

	booksController := NewBooksController(cfg.BookStore, cfg.SessionManager, render)
	uploadController := NewUploadController(cfg.BookStore, cfg.AssetStore, cfg.SessionManager, render)
	downloadController := NewDownloadController(cfg.BookStore, cfg.AssetStore)
	deleteController := NewDeleteController(cfg.BookStore, cfg.AssetStore, cfg.SessionManager)
	health := NewHealthController(cfg.Database, cfg.BookCounter, cfg.UserCounter, cfg.Version)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Public catalog pages
	router.GET("/", booksController.Home)
	router.GET("/book/:id", booksController.Detail)
	router.GET("/cover/:id", downloadController.Cover)

	// Signed-in pages
	authed := router.Group("/", cfg.AuthMiddleware.RequireAuth())
	authed.GET("/books", booksController.Library)
	authed.GET("/download/:id", downloadController.Download)

	// Admin pages
	admin := router.Group("/", cfg.AuthMiddleware.RequireAdmin())
	admin.GET("/upload", uploadController.UploadPage)
	admin.POST("/upload", uploadController.Upload)
	admin.POST("/delete/:id", deleteController.Delete)

	return router
}
