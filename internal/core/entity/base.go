// Package entity defines the base types catalogs, documents and register
// records build on: identity, soft deletion, optimistic locking and audit
// timestamps.
package entity

import (
	"context"
	"time"

	"bookstock/internal/core/id"
)

// Validatable is implemented by entities that check their own invariants.
// Validation never touches the database; cross-record rules live in services.
type Validatable interface {
	Validate(ctx context.Context) error
}

// BaseEntity carries the fields every persisted entity shares.
type BaseEntity struct {
	ID id.ID `db:"id" json:"id"`

	// DeletionMark hides the record from normal lists without losing the
	// rows that reference it.
	DeletionMark bool `db:"deletion_mark" json:"deletionMark"`

	// Version backs optimistic locking; repositories bump it on update.
	Version int `db:"version" json:"version"`
}

// NewBaseEntity returns a BaseEntity with a fresh ID at version 1.
func NewBaseEntity() BaseEntity {
	return BaseEntity{
		ID:      id.New(),
		Version: 1,
	}
}

// Touch increments the version.
func (b *BaseEntity) Touch() {
	b.Version++
}

// BaseDocument extends BaseEntity with audit fields. Documents record who
// changed what and when; catalogs do not.
type BaseDocument struct {
	BaseEntity

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
	UpdatedBy string    `db:"updated_by" json:"updatedBy,omitempty"`
}

// NewBaseDocument returns a BaseDocument with generated ID and timestamps.
func NewBaseDocument() BaseDocument {
	now := time.Now().UTC()
	return BaseDocument{
		BaseEntity: NewBaseEntity(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Touch refreshes UpdatedAt and increments the version.
func (b *BaseDocument) Touch() {
	b.UpdatedAt = time.Now().UTC()
	b.BaseEntity.Touch()
}

// BaseCatalog is BaseEntity under a name that marks the entity as catalog
// data (items, students) rather than a document.
type BaseCatalog struct {
	BaseEntity
}

// NewBaseCatalog returns a BaseCatalog with a generated ID.
func NewBaseCatalog() BaseCatalog {
	return BaseCatalog{
		BaseEntity: NewBaseEntity(),
	}
}
