package config

// Default paths for persisted state
const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./ebookshelf.db"

	// DefaultCoversDir is the default root for uploaded cover images
	DefaultCoversDir = "./uploads/covers"

	// DefaultPDFsDir is the default root for uploaded PDF files
	DefaultPDFsDir = "./uploads/books"
)
