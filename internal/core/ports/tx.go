package ports

import "context"

// TxRunner executes fn inside a single all-or-nothing transaction. Every
// repository call made with the ctx passed to fn joins that transaction.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
