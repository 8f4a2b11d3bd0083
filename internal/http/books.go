package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ebookshelf/internal/auth"
	"ebookshelf/internal/database/books"
)

// BooksController serves the catalog pages: home listing with search,
// the authenticated library view and the book detail page.
type BooksController struct {
	store          BookStore
	sessionManager *auth.SessionManager
	renderer       *renderer
}

func NewBooksController(store BookStore, sessionManager *auth.SessionManager, renderer *renderer) *BooksController {
	return &BooksController{
		store:          store,
		sessionManager: sessionManager,
		renderer:       renderer,
	}
}

// Home renders the landing page with the full catalog, optionally filtered
// by a case-insensitive title substring from the "q" query parameter.
func (bc *BooksController) Home(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))

	found, err := bc.store.Find(query)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	bc.renderer.render(c, http.StatusOK, "index.html", gin.H{
		"Title":         "Home",
		"Books":         found,
		"Query":         query,
		"User":          auth.CurrentUser(c),
		"Authenticated": auth.IsAuthenticated(c),
		"Flash":         bc.sessionManager.PopFlash(c.Request),
		"CSRFToken":     auth.GetCSRFToken(c),
	})
}

// Library renders the signed-in library view. Route-level middleware
// guarantees an authenticated user.
func (bc *BooksController) Library(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))

	found, err := bc.store.Find(query)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	bc.renderer.render(c, http.StatusOK, "books.html", gin.H{
		"Title":         "Library",
		"Books":         found,
		"Query":         query,
		"User":          auth.CurrentUser(c),
		"Authenticated": true,
		"Flash":         bc.sessionManager.PopFlash(c.Request),
		"CSRFToken":     auth.GetCSRFToken(c),
	})
}

// Detail renders a single book page. Anonymous visitors see the page
// without the download link.
func (bc *BooksController) Detail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, books.ErrNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	user := auth.CurrentUser(c)
	isAdmin := user != nil && user.IsAdmin

	bc.renderer.render(c, http.StatusOK, "book.html", gin.H{
		"Title":         book.Title,
		"Book":          book,
		"User":          user,
		"Authenticated": auth.IsAuthenticated(c),
		"IsAdmin":       isAdmin,
		"Flash":         bc.sessionManager.PopFlash(c.Request),
		"CSRFToken":     auth.GetCSRFToken(c),
	})
}
