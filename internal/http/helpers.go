package http

import (
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// wantsJSON reports whether the client prefers a JSON response over HTML.
func wantsJSON(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

// --- Template Rendering ---

// renderer renders HTML templates with a JSON fallback when no templates
// are loaded, which keeps handlers testable without template files on disk.
type renderer struct {
	templates *template.Template
}

// newRenderer parses templates from the given directory. A missing or empty
// directory is tolerated; rendering falls back to JSON.
func newRenderer(templatesPath string) *renderer {
	tmpl, err := template.ParseGlob(filepath.Join(templatesPath, "*.html"))
	if err != nil {
		tmpl = nil
	}
	return &renderer{templates: tmpl}
}

func (r *renderer) render(c *gin.Context, status int, name string, data gin.H) {
	if r.templates != nil && r.templates.Lookup(name) != nil {
		c.Status(status)
		c.Header("Content-Type", "text/html; charset=utf-8")
		if err := r.templates.ExecuteTemplate(c.Writer, name, data); err != nil {
			log.Printf("Template render error (%s): %v", name, err)
		}
		return
	}
	c.JSON(status, data)
}
