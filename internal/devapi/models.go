package devapi

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrPostNotFound     = errors.New("post not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrUserNameTaken    = errors.New("username already taken")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidLogin     = errors.New("invalid email or password")
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrSigningNotConfig = errors.New("token signing secret not configured")
)

// user is a stored account
type user struct {
	ID           int64
	Email        string
	FirstName    string
	LastName     string
	UserName     string
	PasswordHash []byte
	CreatedAt    time.Time
}

// post is a stored post; counts and viewer state are derived on read
type post struct {
	ID        int64
	Title     string
	Content   string
	AuthorID  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// comment is a stored comment
type comment struct {
	ID        int64
	PostID    int64
	AuthorID  int64
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ErrorResponse is the body of a failed request
type ErrorResponse struct {
	Status     string            `json:"status,omitempty"`
	Message    string            `json:"message"`
	Errors     map[string]string `json:"errors,omitempty"`
	Error      string            `json:"error,omitempty"`
	StatusCode int               `json:"statusCode,omitempty"`
}

// EnvelopeResponse is the body of a successful auth request
type EnvelopeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// MessageResponse acknowledges a request without returning state
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status string `json:"status"`
	Users  int    `json:"users"`
	Posts  int    `json:"posts"`
}
