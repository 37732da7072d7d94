package dto

import (
	"bookstock/internal/domain/catalogs/item"
)

// --- Request DTOs ---

// CreateItemRequest represents a request to create an item.
type CreateItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Unit        string  `json:"unit,omitempty"`
	Category    string  `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ToEntity converts request to domain entity.
func (r *CreateItemRequest) ToEntity() *item.Item {
	unit := r.Unit
	if unit == "" {
		unit = "pcs"
	}
	category := item.Category(r.Category)
	if category == "" {
		category = item.CategoryBook
	}

	it := item.NewItem(r.Name, unit, category)
	it.Description = r.Description
	return it
}

// UpdateItemRequest represents a request to update an item.
type UpdateItemRequest struct {
	Name        *string `json:"name,omitempty"`
	Unit        *string `json:"unit,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
	Version     int     `json:"version" binding:"required,min=1"`
}

// ApplyTo applies updates to an existing entity.
func (r *UpdateItemRequest) ApplyTo(it *item.Item) {
	if r.Name != nil {
		it.Rename(*r.Name)
	}
	if r.Unit != nil {
		it.Unit = *r.Unit
	}
	if r.Category != nil {
		it.Category = item.Category(*r.Category)
	}
	if r.Description != nil {
		it.Description = r.Description
	}
	it.Version = r.Version
}

// --- Response DTOs ---

// ItemResponse represents an item in API responses.
type ItemResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ItemKey      string  `json:"itemKey"`
	Unit         string  `json:"unit"`
	Category     string  `json:"category"`
	Description  *string `json:"description,omitempty"`
	DeletionMark bool    `json:"deletionMark"`
	Version      int     `json:"version"`
}

// FromItem creates ItemResponse from a domain entity.
func FromItem(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:           it.ID.String(),
		Name:         it.Name,
		ItemKey:      it.Key.String(),
		Unit:         it.Unit,
		Category:     string(it.Category),
		Description:  it.Description,
		DeletionMark: it.DeletionMark,
		Version:      it.Version,
	}
}

// FromItems converts a slice of items.
func FromItems(items []*item.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, FromItem(it))
	}
	return out
}
