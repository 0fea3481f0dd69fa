package ports

import (
	"context"

	"github.com/chatstack/chat-api/internal/core/domain"
)

// StatsCache is a short-lived cache for the statistics aggregation. A failed
// lookup is reported as a miss, never as an error: callers always fall back
// to recomputation.
type StatsCache interface {
	Get(ctx context.Context) ([]domain.UserStats, bool)
	Set(ctx context.Context, stats []domain.UserStats)
	Invalidate(ctx context.Context)
}
