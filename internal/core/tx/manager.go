// Package tx defines the transaction management contract used by domain services.
package tx

import "context"

// Manager runs functions within database transactions.
// Implementations carry the active transaction in the context so that
// repositories called inside fn participate in the same transaction.
type Manager interface {
	// RunInTransaction executes fn within a read-write transaction.
	// If a transaction already exists in ctx, it is reused.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// ReadOnly executes fn in a read-only transaction.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
