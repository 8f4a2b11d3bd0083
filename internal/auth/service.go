package auth

import (
	"errors"
	"fmt"
	"regexp"

	"ebookshelf/internal/config"
	"ebookshelf/internal/database/users"
	"ebookshelf/internal/entities"
)

// Validation patterns
var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_. -]{3,150}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUsernameRequired   = errors.New("username is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrUsernameInvalid    = errors.New("username must be 3-150 characters")
	ErrEmailInvalid       = errors.New("invalid email format")
)

// UserStore defines the user persistence operations the auth service needs.
// Implemented by users.Repository.
type UserStore interface {
	Create(username, email, passwordHash string) (*entities.User, error)
	GetByEmail(email string) (*entities.User, error)
	GetByID(id uint) (*entities.User, error)
}

// Service handles registration and credential verification.
type Service struct {
	store  UserStore
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(store UserStore, cfg config.Auth) *Service {
	return &Service{
		store:  store,
		config: cfg,
	}
}

// Register validates input, hashes the password and creates the user.
// Duplicate username/email surfaces as users.ErrUsernameTaken or
// users.ErrEmailTaken from the repository's unique constraints.
func (s *Service) Register(username, email, password string) (*entities.User, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	if !usernamePattern.MatchString(username) {
		return nil, ErrUsernameInvalid
	}

	// Validate email format and length (RFC 5321 limit is 254)
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, ErrEmailInvalid
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Create(username, email, passwordHash)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate validates credentials and returns the user. A missing user
// and a wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(email, password string) (*entities.User, error) {
	user, err := s.store.GetByEmail(email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	user, err := s.store.GetByID(id)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
