package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"ebookshelf/internal/database/books"
	"ebookshelf/internal/storage"
)

// DownloadController streams stored assets: PDF downloads for signed-in
// users and cover images for everyone.
type DownloadController struct {
	store  BookStore
	assets AssetStore
}

func NewDownloadController(store BookStore, assets AssetStore) *DownloadController {
	return &DownloadController{
		store:  store,
		assets: assets,
	}
}

// Download streams a book's PDF as an attachment. Route-level middleware
// guarantees an authenticated user.
func (dc *DownloadController) Download(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := dc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	path, err := dc.assets.Resolve(storage.KindPDF, book.PDFFilename)
	if err != nil {
		// The record exists but its file is gone; don't leak the path.
		if errors.Is(err, storage.ErrNotFound) {
			respondNotFound(c, "book file")
			return
		}
		respondInternalError(c, err, "resolve pdf")
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.FileAttachment(path, book.PDFFilename)
}

// Cover serves a book's cover image.
func (dc *DownloadController) Cover(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := dc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	path, err := dc.assets.Resolve(storage.KindCover, book.CoverFilename)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondNotFound(c, "cover")
			return
		}
		respondInternalError(c, err, "resolve cover")
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.File(path)
}
