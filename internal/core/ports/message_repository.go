package ports

import (
	"context"

	"github.com/chatstack/chat-api/internal/core/domain"
)

// MessageRepository defines persistence operations for chat messages.
type MessageRepository interface {
	Insert(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	// ListAll returns every message ordered by timestamp descending, ties
	// broken by insertion order (newest-inserted first).
	ListAll(ctx context.Context) ([]*domain.Message, error)
	// ReassignAuthor repoints every message owned by fromID to toID and
	// returns the number of messages moved.
	ReassignAuthor(ctx context.Context, fromID, toID string) (int64, error)
	// StatsByAuthor computes per-author aggregates (count, first/last
	// timestamp, average content length, last content) in one pass.
	StatsByAuthor(ctx context.Context) (map[string]domain.MessageAggregate, error)
}
