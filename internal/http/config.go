package http

import (
	"ebookshelf/internal/auth"
	"ebookshelf/internal/database"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database    *database.Database
	BookStore   BookStore
	AssetStore  AssetStore
	BookCounter Counter
	UserCounter Counter

	// Authentication
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	AuthController *auth.Controller
	SessionManager *auth.SessionManager
	CSRFSecret     []byte
	SecureCookies  bool

	// UI paths
	TemplatesPath string
	StaticPath    string

	// Upload limits
	MaxUploadSizeMB int

	// Application info
	Version string
}
