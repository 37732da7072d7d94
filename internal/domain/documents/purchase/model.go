// Package purchase provides the PurchaseEntry document.
//
// A purchase entry records books and materials bought from a vendor.
// Posting it writes receipt movements into the stock register.
package purchase

import (
	"context"
	"strings"
	"time"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/entity"
	"bookstock/internal/core/id"
	"bookstock/internal/core/itemkey"
	"bookstock/internal/core/types"
)

// PurchaseEntry represents one vendor purchase.
type PurchaseEntry struct {
	entity.Document

	// VendorName is free text; purchases do not maintain a vendor catalog
	VendorName string `db:"vendor_name" json:"vendorName"`

	// InvoiceNo is the vendor's invoice reference
	InvoiceNo string `db:"invoice_no" json:"invoiceNo,omitempty"`

	// Totals (calculated from lines)
	TotalQuantity int         `db:"total_quantity" json:"totalQuantity"`
	TotalAmount   types.Money `db:"total_amount" json:"totalAmount"`

	// Table part: purchased items
	Lines []PurchaseLine `db:"-" json:"lines"`
}

// PurchaseLine represents a line in the purchase entry.
type PurchaseLine struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	// ItemID references the item master
	ItemID id.ID `db:"item_id" json:"itemId"`

	// ItemName as entered, kept for display
	ItemName string `db:"item_name" json:"itemName"`

	// Key is the normalized matching key of the item name
	Key itemkey.Key `db:"item_key" json:"-"`

	Quantity  int         `db:"quantity" json:"quantity"`
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
	Amount    types.Money `db:"amount" json:"amount"`
}

// NewPurchaseEntry creates a new purchase document.
func NewPurchaseEntry(academicYear, vendorName string, date time.Time) *PurchaseEntry {
	doc := &PurchaseEntry{
		Document:    entity.NewDocument(academicYear),
		VendorName:  strings.TrimSpace(vendorName),
		TotalAmount: types.ZeroMoney(),
		Lines:       make([]PurchaseLine, 0),
	}
	if !date.IsZero() {
		doc.Date = date
	}
	return doc
}

// AddLine adds a line and recalculates totals.
func (p *PurchaseEntry) AddLine(itemID id.ID, itemName string, quantity int, unitPrice types.Money) {
	line := PurchaseLine{
		LineID:    id.New(),
		LineNo:    len(p.Lines) + 1,
		ItemID:    itemID,
		ItemName:  itemName,
		Key:       itemkey.Normalize(itemName),
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Amount:    types.MulQty(unitPrice, quantity),
	}

	p.Lines = append(p.Lines, line)
	p.recalculateTotals()
}

func (p *PurchaseEntry) recalculateTotals() {
	p.TotalQuantity = 0
	p.TotalAmount = types.ZeroMoney()

	for _, line := range p.Lines {
		p.TotalQuantity += line.Quantity
		p.TotalAmount = p.TotalAmount.Add(line.Amount)
	}
}

// Validate implements entity.Validatable.
func (p *PurchaseEntry) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}

	if strings.TrimSpace(p.VendorName) == "" {
		return apperror.NewValidation("vendor name is required").
			WithDetail("field", "vendorName")
	}

	if len(p.Lines) == 0 {
		return apperror.NewValidation("purchase must have at least one line").
			WithDetail("field", "lines")
	}

	for i, line := range p.Lines {
		if itemkey.Normalize(line.ItemName).IsEmpty() {
			return apperror.NewValidation("line item name is required").
				WithDetail("line", i+1)
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation("line quantity must be positive").
				WithDetail("line", i+1).
				WithDetail("value", line.Quantity)
		}
		if line.UnitPrice.IsNegative() {
			return apperror.NewValidation("line unit price must not be negative").
				WithDetail("line", i+1)
		}
	}

	return nil
}
