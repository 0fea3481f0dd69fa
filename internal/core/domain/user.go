package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// AnonymousUsername is the permanent fallback owner of orphaned messages.
// The account is seeded at bootstrap, cannot log in, and cannot be deleted.
const AnonymousUsername = "anonymous"

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidRole = errors.New("invalid role")
var ErrCannotDeleteAnonymous = errors.New("anonymous user cannot be deleted")
var ErrAnonymousMissing = errors.New("anonymous user not found")

// User models an account in the shared channel.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValidRole reports whether role is one of the known role constants.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// UserStats aggregates a single user's messaging activity. Timestamps are
// absent (nil) and LastMessageContent empty when the user has no messages.
type UserStats struct {
	Username             string     `json:"username"`
	MessageCount         int64      `json:"message_count"`
	FirstMessageAt       *time.Time `json:"first_message_at,omitempty"`
	LastMessageAt        *time.Time `json:"last_message_at,omitempty"`
	AverageContentLength float64    `json:"average_content_length"`
	LastMessageContent   string     `json:"last_message_content"`
}
