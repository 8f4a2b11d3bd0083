package http

import (
	"io"
	"os"

	"ebookshelf/internal/entities"
	"ebookshelf/internal/storage"
)

// This file consolidates the store interface definitions used by HTTP
// controllers. Each controller depends only on the operations it needs;
// books.Repository and storage.Store satisfy them.

// BookStore provides catalog access for the book controllers.
type BookStore interface {
	Create(book *entities.Book) error
	GetByID(id uint) (*entities.Book, error)
	Find(titleQuery string) ([]entities.Book, error)
	Delete(id uint) error
}

// AssetStore provides file storage for covers and PDFs.
type AssetStore interface {
	Save(kind storage.Kind, r io.Reader, originalFilename string) (string, error)
	Open(kind storage.Kind, ref string) (*os.File, error)
	Resolve(kind storage.Kind, ref string) (string, error)
	Delete(kind storage.Kind, ref string) error
}
