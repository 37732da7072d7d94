package item

import (
	"context"

	"bookstock/internal/core/id"
	"bookstock/internal/core/itemkey"
	"bookstock/internal/domain"
)

// Repository defines the interface for Item persistence.
type Repository interface {
	// Create inserts a new item.
	Create(ctx context.Context, it *Item) error

	// GetByID retrieves an item by ID.
	GetByID(ctx context.Context, itemID id.ID) (*Item, error)

	// GetByKey retrieves an item by its normalized matching key.
	GetByKey(ctx context.Context, key itemkey.Key) (*Item, error)

	// GetByIDs retrieves multiple items at once.
	GetByIDs(ctx context.Context, ids []id.ID) ([]*Item, error)

	// Update modifies an existing item (optimistic locking on version).
	Update(ctx context.Context, it *Item) error

	// SetDeletionMark sets or clears the soft-delete mark.
	SetDeletionMark(ctx context.Context, itemID id.ID, marked bool) error

	// List retrieves items with filtering and pagination.
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Item], error)

	// ExistsByKey checks if an item with the given key exists.
	ExistsByKey(ctx context.Context, key itemkey.Key) (bool, error)
}
