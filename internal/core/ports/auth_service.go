package ports

import (
	"context"

	"github.com/chatstack/chat-api/internal/core/domain"
)

// AuthService validates credentials and issues tokens.
type AuthService interface {
	// Login returns ErrInvalidCredentials for an unknown username as well as
	// a wrong password; callers cannot distinguish the two.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
