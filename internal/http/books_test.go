package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ebookshelf/internal/entities"
)

func seedBook(t *testing.T, app *testApp, title string) *entities.Book {
	t.Helper()
	user, err := app.users.GetByUsername("admin")
	require.NoError(t, err)

	book := &entities.Book{
		Title:         title,
		Author:        "Author",
		CoverFilename: title + ".jpg",
		PDFFilename:   title + ".pdf",
		UploaderID:    user.ID,
	}
	require.NoError(t, app.books.Create(book))
	return book
}

func TestBooksPages(t *testing.T) {
	app := setupTestApp(t)
	app.createUser(t, "admin", "admin@example.com", "password123", true)

	seedBook(t, app, "Abcdef")
	seedBook(t, app, "Zebra")
	seedBook(t, app, "ABCD")

	t.Run("home lists the catalog", func(t *testing.T) {
		w := app.do("GET", "/", nil, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Abcdef")
		assert.Contains(t, w.Body.String(), "Zebra")
	})

	t.Run("home filters by title", func(t *testing.T) {
		w := app.do("GET", "/?q=abc", nil, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Abcdef")
		assert.Contains(t, w.Body.String(), "ABCD")
		assert.NotContains(t, w.Body.String(), "Zebra")
	})

	t.Run("detail shows a single book", func(t *testing.T) {
		book := seedBook(t, app, "Detailed")

		w := app.do("GET", fmt.Sprintf("/book/%d", book.ID), nil, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Detailed")
	})

	t.Run("unknown book is a 404", func(t *testing.T) {
		w := app.do("GET", "/book/9999", nil, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id is a 400", func(t *testing.T) {
		w := app.do("GET", "/book/not-a-number", nil, "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("library requires a session", func(t *testing.T) {
		w := app.do("GET", "/books", nil, "", nil)
		assert.Equal(t, http.StatusFound, w.Code)

		cookies := app.login(t, "admin@example.com", "password123")
		w = app.do("GET", "/books", nil, "", cookies)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Zebra")
	})
}
