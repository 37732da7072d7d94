// Package item provides the item master catalog (books and materials).
//
// Each item carries a canonical UUID identity; the normalized-name key is a
// matching attribute, unique across the catalog, so free-text names from
// setup, purchase and distribution entry all resolve to the same item.
package item

import (
	"context"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/entity"
	"bookstock/internal/core/itemkey"
)

// Category classifies items for reporting.
type Category string

const (
	CategoryBook       Category = "book"
	CategoryNotebook   Category = "notebook"
	CategoryUniform    Category = "uniform"
	CategoryStationery Category = "stationery"
	CategoryOther      Category = "other"
)

// Item represents one book or material handled by the school store.
type Item struct {
	entity.BaseCatalog

	// Name is the display name as entered by the operator
	Name string `db:"name" json:"name"`

	// Key is the normalized matching key (unique across the catalog)
	Key itemkey.Key `db:"item_key" json:"itemKey"`

	// Unit of measure (e.g. "pcs", "set")
	Unit string `db:"unit" json:"unit"`

	// Category for reporting rollups
	Category Category `db:"category" json:"category"`

	// Description is an optional long description
	Description *string `db:"description" json:"description,omitempty"`
}

// NewItem creates a new Item with its key derived from the name.
func NewItem(name, unit string, category Category) *Item {
	return &Item{
		BaseCatalog: entity.NewBaseCatalog(),
		Name:        name,
		Key:         itemkey.Normalize(name),
		Unit:        unit,
		Category:    category,
	}
}

// Rename updates the display name and re-derives the matching key.
func (i *Item) Rename(name string) {
	i.Name = name
	i.Key = itemkey.Normalize(name)
}

// Validate implements entity.Validatable.
func (i *Item) Validate(ctx context.Context) error {
	if i.Key.IsEmpty() {
		return apperror.NewValidation("item name is required").
			WithDetail("field", "name")
	}

	if !isValidCategory(i.Category) {
		return apperror.NewValidation("invalid item category").
			WithDetail("field", "category").
			WithDetail("value", string(i.Category))
	}

	return nil
}

func isValidCategory(c Category) bool {
	switch c {
	case CategoryBook, CategoryNotebook, CategoryUniform, CategoryStationery, CategoryOther:
		return true
	}
	return false
}
