package auth

import (
	"errors"
	"html/template"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"ebookshelf/internal/database/users"
)

// isLocalPath validates that a redirect path is local to prevent open
// redirect attacks.
func isLocalPath(path string) bool {
	if path == "" {
		return false
	}
	if !strings.HasPrefix(path, "/") {
		return false
	}
	// Reject protocol-relative URLs (//evil.com)
	if strings.HasPrefix(path, "//") {
		return false
	}
	if strings.Contains(path, "://") {
		return false
	}
	if strings.Contains(path, "\\") {
		return false
	}
	return true
}

// sanitizeRedirectPath returns a safe redirect path, defaulting to "/" if invalid.
func sanitizeRedirectPath(path string) string {
	if isLocalPath(path) {
		return path
	}
	return "/"
}

// Controller handles registration, login and logout endpoints.
type Controller struct {
	service        *Service
	sessionManager *SessionManager
	templates      *template.Template
}

// NewController creates a new authentication controller. Missing templates
// are tolerated; responses fall back to JSON, which the tests rely on.
func NewController(service *Service, sessionManager *SessionManager, templatesPath string) *Controller {
	pattern := filepath.Join(templatesPath, "*.html")
	tmpl, err := template.ParseGlob(pattern)
	if err != nil {
		tmpl = nil
	}

	return &Controller{
		service:        service,
		sessionManager: sessionManager,
		templates:      tmpl,
	}
}

// RegisterRoutes registers authentication routes on the router. The logout
// routes sit behind requireAuth since only a signed-in user has a session
// to destroy.
func (ac *Controller) RegisterRoutes(router *gin.Engine, requireAuth gin.HandlerFunc) {
	router.GET("/register", ac.RegisterPage)
	router.POST("/register", ac.Register)
	router.GET("/login", ac.LoginPage)
	router.POST("/login", ac.Login)
	router.POST("/logout", requireAuth, ac.Logout)
	router.GET("/logout", requireAuth, ac.Logout) // Support GET for simple logout links
}

// RegisterPage renders the registration form.
func (ac *Controller) RegisterPage(c *gin.Context) {
	if ac.sessionManager.IsAuthenticated(c.Request) {
		c.Redirect(http.StatusFound, "/")
		return
	}

	ac.renderTemplate(c, http.StatusOK, "register.html", gin.H{
		"Title":     "Register",
		"CSRFToken": GetCSRFToken(c),
		"Flash":     ac.sessionManager.PopFlash(c.Request),
	})
}

// Register handles the registration form submission. On success the user is
// sent to the login page; a duplicate username or email is flashed back to
// the form without creating a row.
func (ac *Controller) Register(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	confirmPassword := c.PostForm("confirm_password")

	if confirmPassword != "" && password != confirmPassword {
		ac.renderRegisterError(c, username, email, "Passwords do not match")
		return
	}

	_, err := ac.service.Register(username, email, password)
	if err != nil {
		ac.renderRegisterError(c, username, email, registerErrorMessage(err))
		return
	}

	ac.sessionManager.PutFlash(c.Request, "Registration successful! Please log in.")
	c.Redirect(http.StatusFound, "/login")
}

func registerErrorMessage(err error) string {
	switch {
	case errors.Is(err, users.ErrEmailTaken):
		return "Email already registered."
	case errors.Is(err, users.ErrUsernameTaken):
		return "Username already taken."
	case errors.Is(err, ErrUsernameRequired):
		return "Username is required."
	case errors.Is(err, ErrUsernameInvalid):
		return "Username must be 3-150 characters."
	case errors.Is(err, ErrEmailRequired):
		return "Email is required."
	case errors.Is(err, ErrEmailInvalid):
		return "Please enter a valid email address."
	case errors.Is(err, ErrPasswordRequired):
		return "Password is required."
	case errors.Is(err, ErrPasswordTooShort):
		return "Password must be at least 6 characters."
	case errors.Is(err, ErrPasswordTooLong):
		return "Password exceeds maximum length of 72 characters."
	}
	return "Registration failed. Please try again."
}

func (ac *Controller) renderRegisterError(c *gin.Context, username, email, message string) {
	ac.renderTemplate(c, http.StatusBadRequest, "register.html", gin.H{
		"Title":     "Register",
		"Username":  username,
		"Email":     email,
		"CSRFToken": GetCSRFToken(c),
		"Error":     message,
	})
}

// LoginPage renders the login form.
func (ac *Controller) LoginPage(c *gin.Context) {
	if ac.sessionManager.IsAuthenticated(c.Request) {
		c.Redirect(http.StatusFound, "/")
		return
	}

	next := sanitizeRedirectPath(c.Query("next"))

	ac.renderTemplate(c, http.StatusOK, "login.html", gin.H{
		"Title":     "Login",
		"Next":      next,
		"CSRFToken": GetCSRFToken(c),
		"Flash":     ac.sessionManager.PopFlash(c.Request),
	})
}

// Login handles the login form submission.
func (ac *Controller) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	remember := c.PostForm("remember") == "on"
	next := sanitizeRedirectPath(c.PostForm("next"))

	user, err := ac.service.Authenticate(email, password)
	if err != nil {
		ac.renderTemplate(c, http.StatusUnauthorized, "login.html", gin.H{
			"Title":     "Login",
			"Next":      next,
			"Email":     email,
			"CSRFToken": GetCSRFToken(c),
			"Error":     "Invalid credentials.",
		})
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, user, remember); err != nil {
		ac.renderTemplate(c, http.StatusInternalServerError, "login.html", gin.H{
			"Title":     "Login",
			"Next":      next,
			"Email":     email,
			"CSRFToken": GetCSRFToken(c),
			"Error":     "Failed to create session.",
		})
		return
	}

	ac.sessionManager.PutFlash(c.Request, "Login successful!")
	c.Redirect(http.StatusFound, next)
}

// Logout destroys the session and redirects to login. Logging out without a
// session is harmless.
func (ac *Controller) Logout(c *gin.Context) {
	_ = ac.sessionManager.DestroySession(c.Request)
	c.Redirect(http.StatusFound, "/login")
}

// renderTemplate renders an auth template or falls back to JSON.
func (ac *Controller) renderTemplate(c *gin.Context, status int, name string, data gin.H) {
	if ac.templates == nil || ac.templates.Lookup(name) == nil {
		c.JSON(status, data)
		return
	}

	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := ac.templates.ExecuteTemplate(c.Writer, name, data); err != nil {
		c.String(http.StatusInternalServerError, "Template error: %v", err)
	}
}
