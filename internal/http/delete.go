package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ebookshelf/internal/auth"
	"ebookshelf/internal/database/books"
	"ebookshelf/internal/storage"
)

// DeleteController handles admin book removal. The catalog record is
// deleted first; leftover files from a crash in between are reclaimed
// by the orphan asset sweep.
type DeleteController struct {
	store          BookStore
	assets         AssetStore
	sessionManager *auth.SessionManager
}

func NewDeleteController(store BookStore, assets AssetStore, sessionManager *auth.SessionManager) *DeleteController {
	return &DeleteController{
		store:          store,
		assets:         assets,
		sessionManager: sessionManager,
	}
}

// Delete removes a book and its stored files.
func (dc *DeleteController) Delete(c *gin.Context) {
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

	if err := dc.store.Delete(id); err != nil {
		if errors.Is(err, books.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "delete book")
		return
	}

	// File removal failures are logged, not surfaced; the record is
	// already gone and the sweep picks up stragglers.
	if err := dc.assets.Delete(storage.KindCover, book.CoverFilename); err != nil {
		log.Printf("Failed to delete cover %q for book %d: %v", book.CoverFilename, id, err)
	}
	if err := dc.assets.Delete(storage.KindPDF, book.PDFFilename); err != nil {
		log.Printf("Failed to delete pdf %q for book %d: %v", book.PDFFilename, id, err)
	}

	dc.sessionManager.PutFlash(c.Request, "Book deleted.")

	if wantsJSON(c) {
		c.JSON(http.StatusOK, SuccessResponse{Message: "book deleted"})
		return
	}
	c.Redirect(http.StatusFound, "/")
}
