package ports

import (
	"context"

	"github.com/chatstack/chat-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// List returns every user ordered ascending by username.
	List(ctx context.Context) ([]*domain.User, error)
	Delete(ctx context.Context, id string) error
}
