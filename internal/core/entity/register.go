// Package entity provides core domain entities.
package entity

import (
	"time"

	"bookstock/internal/core/id"
)

// RecordType defines movement direction for the stock register.
type RecordType string

const (
	// RecordTypeReceipt increases on-hand stock (purchase posting)
	RecordTypeReceipt RecordType = "receipt"
	// RecordTypeExpense decreases on-hand stock (distribution to a student)
	RecordTypeExpense RecordType = "expense"
)

// StockMovement is one row in the stock register.
// Movements are immutable - they are never updated, only deleted and recreated
// when the recording document is reposted.
type StockMovement struct {
	// LineID is unique identifier for this movement line (UUIDv7)
	LineID id.ID `db:"line_id" json:"lineId"`

	// RecorderID is the document that created this movement
	RecorderID id.ID `db:"recorder_id" json:"recorderId"`

	// RecorderType is the document type (e.g. "PurchaseEntry", "DistributionBill")
	RecorderType string `db:"recorder_type" json:"recorderType"`

	// RecorderVersion tracks which posting iteration created this movement.
	// Allows efficient cleanup: DELETE WHERE recorder_id = X AND recorder_version < Y
	RecorderVersion int `db:"recorder_version" json:"recorderVersion"`

	// Period is the business date for the movement (for period-based queries)
	Period time.Time `db:"period" json:"period"`

	// RecordType: receipt or expense
	RecordType RecordType `db:"record_type" json:"recordType"`

	// ItemID is the book/material being moved
	ItemID id.ID `db:"item_id" json:"itemId"`

	// Quantity is the whole number of units moved (always positive;
	// direction comes from RecordType)
	Quantity int `db:"quantity" json:"quantity"`

	// CreatedAt is when the movement was recorded
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewStockMovement creates a new stock movement.
func NewStockMovement(
	recorderID id.ID,
	recorderType string,
	recorderVersion int,
	period time.Time,
	recordType RecordType,
	itemID id.ID,
	quantity int,
) StockMovement {
	return StockMovement{
		LineID:          id.New(),
		RecorderID:      recorderID,
		RecorderType:    recorderType,
		RecorderVersion: recorderVersion,
		Period:          period,
		RecordType:      recordType,
		ItemID:          itemID,
		Quantity:        quantity,
		CreatedAt:       time.Now().UTC(),
	}
}

// StockBalance represents current on-hand quantity for one item.
// This is a materialized view for fast balance queries; the issuance path
// decrements it with a conditional UPDATE so stock can never go negative.
type StockBalance struct {
	ItemID id.ID `db:"item_id" json:"itemId"`

	Quantity int `db:"quantity" json:"quantity"`

	LastMovementAt time.Time `db:"last_movement_at" json:"lastMovementAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}
