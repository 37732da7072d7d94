// Package stock provides the stock accumulation register.
//
// Movements are the append-only ledger; balances are the materialized
// on-hand view the repository keeps in step with the movements it writes.
package stock

import (
	"context"
	"time"

	"bookstock/internal/core/entity"
	"bookstock/internal/core/id"
	"bookstock/internal/core/itemkey"
)

// Repository defines operations for the stock register.
type Repository interface {
	// Movement operations

	// CreateMovements batch inserts movement rows (used during posting,
	// inside the caller's transaction). Balance effects are applied
	// separately via IncrementBalance/TryDecrement.
	CreateMovements(ctx context.Context, movements []entity.StockMovement) error

	// DeleteMovementsByRecorder removes a document's movement rows.
	// Balance effects are reversed by the service before the delete.
	DeleteMovementsByRecorder(ctx context.Context, recorderID id.ID) error

	// GetMovementsByRecorder retrieves all movements for a document
	GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error)

	// Balance operations

	// IncrementBalance adds qty to an item's balance (upsert).
	IncrementBalance(ctx context.Context, itemID id.ID, qty int, at time.Time) error

	// TryDecrement conditionally subtracts qty from an item's balance.
	// Returns the available quantity and false when the balance is short;
	// nothing is changed in that case.
	TryDecrement(ctx context.Context, itemID id.ID, qty int) (available int, ok bool, err error)

	// GetBalance returns the current balance for one item
	GetBalance(ctx context.Context, itemID id.ID) (entity.StockBalance, error)

	// ListBalances returns all balances joined with item names
	ListBalances(ctx context.Context, filter BalanceFilter) ([]BalanceRow, error)

	// Maintenance

	// RecalculateBalances rebuilds the balance table from movements
	RecalculateBalances(ctx context.Context, itemID *id.ID) error
}

// BalanceFilter for filtering balance queries.
type BalanceFilter struct {
	ItemIDs     []id.ID
	ExcludeZero bool
}

// BalanceRow is a balance joined with its item for display and matching.
type BalanceRow struct {
	ItemID         id.ID       `db:"item_id" json:"itemId"`
	ItemName       string      `db:"item_name" json:"itemName"`
	Key            itemkey.Key `db:"item_key" json:"-"`
	Quantity       int         `db:"quantity" json:"quantity"`
	LastMovementAt *time.Time  `db:"last_movement_at" json:"lastMovementAt,omitempty"`
}
