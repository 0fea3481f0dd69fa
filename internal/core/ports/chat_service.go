package ports

import (
	"context"

	"github.com/chatstack/chat-api/internal/core/domain"
)

// ChatService orchestrates message creation and listing over the two stores.
type ChatService interface {
	// Post persists a message authored by the named user with a server-side
	// timestamp. Empty or whitespace-only content yields ErrEmptyContent.
	Post(ctx context.Context, username, content string) (*domain.MessageView, error)
	// List returns every message newest-first with author usernames resolved
	// at read time; authors that no longer exist render as anonymous.
	List(ctx context.Context) ([]*domain.MessageView, error)
}
