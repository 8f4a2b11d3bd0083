package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ebookshelf/internal/database"
)

// Counter reports row counts for a catalog table.
type Counter interface {
	Count() (int64, error)
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
	Catalog map[string]int64  `json:"catalog,omitempty"`
}

type HealthController struct {
	db      *database.Database
	books   Counter
	users   Counter
	version string
}

func NewHealthController(db *database.Database, books, users Counter, version string) *HealthController {
	return &HealthController{
		db:      db,
		books:   books,
		users:   users,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		sqlDB, err := h.db.DB.DB()
		if err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else if err := sqlDB.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	catalog := make(map[string]int64)
	if h.books != nil {
		if n, err := h.books.Count(); err == nil {
			catalog["books"] = n
		}
	}
	if h.users != nil {
		if n, err := h.users.Count(); err == nil {
			catalog["users"] = n
		}
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
		Catalog: catalog,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
