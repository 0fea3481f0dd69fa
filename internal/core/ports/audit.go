package ports

import (
	"context"

	"github.com/chatstack/chat-api/internal/core/domain"
)

// AuditSink accepts audit entries for asynchronous persistence. Enqueue must
// not block the request path beyond channel buffering.
type AuditSink interface {
	Enqueue(entry domain.AuditEntry)
}

// AuditRepository persists and reads the audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
	// ListRecent returns the newest entries first, at most limit of them.
	ListRecent(ctx context.Context, limit int64) ([]*domain.AuditEntry, error)
}
