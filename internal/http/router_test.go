package http

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"ebookshelf/internal/auth"
	"ebookshelf/internal/config"
	"ebookshelf/internal/database"
	"ebookshelf/internal/database/books"
	"ebookshelf/internal/database/users"
	"ebookshelf/internal/storage"
)

// testApp wires a full router over a temporary database and storage roots.
type testApp struct {
	router *gin.Engine
	db     *database.Database
	users  *users.Repository
	books  *books.Repository
	assets *storage.Store
	auth   *auth.Service
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	db, err := database.NewDatabase(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	userRepo := users.NewRepository(db.DB)
	bookRepo := books.NewRepository(db.DB)

	assetStore, err := storage.NewStore(filepath.Join(dir, "covers"), filepath.Join(dir, "books"))
	require.NoError(t, err)

	authCfg := config.Auth{BcryptCost: 4, SessionLifetime: time.Hour}
	authService := auth.NewService(userRepo, authCfg)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sessionManager, err := auth.NewSessionManager(sqlDB, authCfg)
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Database:       db,
		BookStore:      bookRepo,
		AssetStore:     assetStore,
		BookCounter:    bookRepo,
		UserCounter:    userRepo,
		AuthService:    authService,
		AuthMiddleware: auth.NewMiddleware(authService, sessionManager),
		AuthController: auth.NewController(authService, sessionManager, filepath.Join(dir, "no-templates")),
		SessionManager: sessionManager,
		TemplatesPath:  filepath.Join(dir, "no-templates"),
		Version:        "test",
	})

	return &testApp{
		router: router,
		db:     db,
		users:  userRepo,
		books:  bookRepo,
		assets: assetStore,
		auth:   authService,
	}
}

// createUser registers an account directly, optionally promoting it to admin.
func (app *testApp) createUser(t *testing.T, username, email, password string, admin bool) {
	t.Helper()
	user, err := app.auth.Register(username, email, password)
	require.NoError(t, err)
	if admin {
		require.NoError(t, app.users.SetAdmin(user.ID, true))
	}
}

// login performs the login form flow and returns the session cookies.
func (app *testApp) login(t *testing.T, email, password string) []*http.Cookie {
	t.Helper()

	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	app.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code, "login failed: %s", w.Body.String())
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

// do performs a request with optional session cookies.
func (app *testApp) do(method, path string, body io.Reader, contentType string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	app.router.ServeHTTP(w, req)
	return w
}

// multipartBody builds a multipart form with text fields and file parts.
func multipartBody(t *testing.T, fields map[string]string, files map[string][2]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	for field, file := range files {
		part, err := writer.CreateFormFile(field, file[0])
		require.NoError(t, err)
		_, err = part.Write([]byte(file[1]))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestRouter_AuthGates(t *testing.T) {
	app := setupTestApp(t)
	app.createUser(t, "reader", "reader@example.com", "password123", false)

	t.Run("anonymous browser is redirected to login", func(t *testing.T) {
		w := app.do("GET", "/books", nil, "", nil)
		require.Equal(t, http.StatusFound, w.Code)
		require.Equal(t, "/login?next=/books", w.Header().Get("Location"))
	})

	t.Run("anonymous API client gets 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/download/1", nil)
		req.Header.Set("Accept", "application/json")
		app.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("regular user cannot reach admin pages", func(t *testing.T) {
		cookies := app.login(t, "reader@example.com", "password123")

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/upload", nil)
		req.Header.Set("Accept", "application/json")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		app.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("signed-in user reaches the library", func(t *testing.T) {
		cookies := app.login(t, "reader@example.com", "password123")
		w := app.do("GET", "/books", nil, "", cookies)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("home and book pages stay public", func(t *testing.T) {
		w := app.do("GET", "/", nil, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRouter_Health(t *testing.T) {
	app := setupTestApp(t)

	w := app.do("GET", "/health", nil, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status": "healthy"`)

	w = app.do("GET", "/ping", nil, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
