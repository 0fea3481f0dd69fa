package ports

import (
	"context"

	"github.com/chatstack/chat-api/internal/core/domain"
)

// UserService owns user provisioning, the delete-with-reassignment
// transaction, and the statistics aggregation.
type UserService interface {
	Register(ctx context.Context, username, password, role string) (*domain.User, error)
	// Delete reassigns every message of the named user to anonymous and then
	// removes the user, atomically. Deleting anonymous is rejected before
	// any mutation.
	Delete(ctx context.Context, username string) error
	// Statistics returns one entry per user, ordered ascending by username.
	Statistics(ctx context.Context) ([]domain.UserStats, error)
}
