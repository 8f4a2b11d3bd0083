package http

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ebookshelf/internal/auth"
	"ebookshelf/internal/entities"
	"ebookshelf/internal/storage"
)

const (
	maxTitleLength  = 100
	maxAuthorLength = 100
)

// UploadController handles admin book uploads: a cover image and a PDF
// are stored on disk before the catalog record referencing them is created.
type UploadController struct {
	store          BookStore
	assets         AssetStore
	sessionManager *auth.SessionManager
	renderer       *renderer
}

func NewUploadController(store BookStore, assets AssetStore, sessionManager *auth.SessionManager, renderer *renderer) *UploadController {
	return &UploadController{
		store:          store,
		assets:         assets,
		sessionManager: sessionManager,
		renderer:       renderer,
	}
}

// UploadPage renders the upload form.
func (uc *UploadController) UploadPage(c *gin.Context) {
	uc.renderer.render(c, http.StatusOK, "upload.html", gin.H{
		"Title":     "Upload Book",
		"User":      auth.CurrentUser(c),
		"Flash":     uc.sessionManager.PopFlash(c.Request),
		"CSRFToken": auth.GetCSRFToken(c),
	})
}

// Upload handles the upload form submission. Files are written first so a
// failed catalog insert can remove them again; a catalog record never
// references a file that was not stored.
func (uc *UploadController) Upload(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))
	author := strings.TrimSpace(c.PostForm("author"))
	description := strings.TrimSpace(c.PostForm("description"))

	if msg := validateBookForm(title, author); msg != "" {
		uc.renderUploadError(c, http.StatusBadRequest, title, author, description, msg)
		return
	}

	coverHeader, err := c.FormFile("cover")
	if err != nil {
		uc.renderUploadError(c, http.StatusBadRequest, title, author, description, "A cover image is required.")
		return
	}
	pdfHeader, err := c.FormFile("pdf")
	if err != nil {
		uc.renderUploadError(c, http.StatusBadRequest, title, author, description, "A PDF file is required.")
		return
	}

	coverRef, err := uc.saveUpload(storage.KindCover, coverHeader)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidFileType) {
			uc.renderUploadError(c, http.StatusBadRequest, title, author, description, "Cover must be a JPG or PNG image.")
			return
		}
		respondInternalError(c, err, "store cover")
		return
	}

	pdfRef, err := uc.saveUpload(storage.KindPDF, pdfHeader)
	if err != nil {
		uc.removeAsset(storage.KindCover, coverRef)
		if errors.Is(err, storage.ErrInvalidFileType) {
			uc.renderUploadError(c, http.StatusBadRequest, title, author, description, "Book file must be a PDF.")
			return
		}
		respondInternalError(c, err, "store pdf")
		return
	}

	user := auth.CurrentUser(c)
	book := &entities.Book{
		Title:         title,
		Author:        author,
		Description:   description,
		CoverFilename: coverRef,
		PDFFilename:   pdfRef,
		UploaderID:    user.ID,
	}

	if err := uc.store.Create(book); err != nil {
		uc.removeAsset(storage.KindCover, coverRef)
		uc.removeAsset(storage.KindPDF, pdfRef)
		respondInternalError(c, err, "create book")
		return
	}

	uc.sessionManager.PutFlash(c.Request, "Book uploaded successfully!")

	if wantsJSON(c) {
		c.JSON(http.StatusCreated, book)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/book/%d", book.ID))
}

func (uc *UploadController) saveUpload(kind storage.Kind, header *multipart.FileHeader) (string, error) {
	f, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded file: %w", err)
	}
	defer f.Close()

	return uc.assets.Save(kind, f, header.Filename)
}

// removeAsset is cleanup after a partial upload; failures are logged only.
func (uc *UploadController) removeAsset(kind storage.Kind, ref string) {
	if err := uc.assets.Delete(kind, ref); err != nil {
		log.Printf("Failed to remove %s asset %q after failed upload: %v", kind, ref, err)
	}
}

func validateBookForm(title, author string) string {
	if title == "" {
		return "Title is required."
	}
	if len(title) > maxTitleLength {
		return fmt.Sprintf("Title must be at most %d characters.", maxTitleLength)
	}
	if author == "" {
		return "Author is required."
	}
	if len(author) > maxAuthorLength {
		return fmt.Sprintf("Author must be at most %d characters.", maxAuthorLength)
	}
	return ""
}

func (uc *UploadController) renderUploadError(c *gin.Context, status int, title, author, description, message string) {
	uc.renderer.render(c, status, "upload.html", gin.H{
		"Title":       "Upload Book",
		"Error":       message,
		"FormTitle":   title,
		"FormAuthor":  author,
		"Description": description,
		"User":        auth.CurrentUser(c),
		"CSRFToken":   auth.GetCSRFToken(c),
	})
}
