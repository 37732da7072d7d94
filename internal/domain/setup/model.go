// Package setup defines book requirement lists per standard and academic year.
//
// A setup line names an item, its required quantity per student, and its unit
// price. The distribution workflow reads these lines to decide what each
// student should still receive.
package setup

import (
	"context"
	"strings"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/entity"
	"bookstock/internal/core/id"
	"bookstock/internal/core/itemkey"
	"bookstock/internal/core/types"
)

// SetupItem is one line of a standard's requirement list.
type SetupItem struct {
	entity.BaseCatalog

	// Standard this requirement applies to (e.g. "5", "10A")
	Standard string `db:"standard" json:"standard"`

	// AcademicYear of the requirement (e.g. "2025-26")
	AcademicYear string `db:"academic_year" json:"academicYear"`

	// ItemID references the item master
	ItemID id.ID `db:"item_id" json:"itemId"`

	// ItemName is the display name captured at setup time
	ItemName string `db:"item_name" json:"itemName"`

	// Key is the normalized matching key of the item name
	Key itemkey.Key `db:"item_key" json:"itemKey"`

	// RequiredQty per student
	RequiredQty int `db:"required_qty" json:"requiredQty"`

	// Amount is the unit price
	Amount types.Money `db:"amount" json:"amount"`

	// Position preserves the order lines were entered in
	Position int `db:"position" json:"position"`
}

// NewSetupItem creates a requirement line with the key derived from the name.
func NewSetupItem(standard, academicYear string, itemID id.ID, itemName string, requiredQty int, amount types.Money) *SetupItem {
	return &SetupItem{
		BaseCatalog:  entity.NewBaseCatalog(),
		Standard:     strings.TrimSpace(standard),
		AcademicYear: academicYear,
		ItemID:       itemID,
		ItemName:     itemName,
		Key:          itemkey.Normalize(itemName),
		RequiredQty:  requiredQty,
		Amount:       amount,
	}
}

// Validate implements entity.Validatable.
func (s *SetupItem) Validate(ctx context.Context) error {
	if strings.TrimSpace(s.Standard) == "" {
		return apperror.NewValidation("standard is required").
			WithDetail("field", "standard")
	}

	if s.AcademicYear == "" {
		return apperror.NewValidation("academic year is required").
			WithDetail("field", "academicYear")
	}

	if s.Key.IsEmpty() {
		return apperror.NewValidation("item name is required").
			WithDetail("field", "itemName")
	}

	if s.RequiredQty <= 0 {
		return apperror.NewValidation("required quantity must be positive").
			WithDetail("field", "requiredQty").
			WithDetail("value", s.RequiredQty)
	}

	if s.Amount.IsNegative() {
		return apperror.NewValidation("amount must not be negative").
			WithDetail("field", "amount")
	}

	return nil
}
