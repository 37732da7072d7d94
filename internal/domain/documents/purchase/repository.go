package purchase

import (
	"context"
	"time"

	"bookstock/internal/core/id"
	"bookstock/internal/domain"
)

// Repository defines operations for purchase documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *PurchaseEntry) error
	GetByID(ctx context.Context, docID id.ID) (*PurchaseEntry, error)
	GetByNumber(ctx context.Context, number string) (*PurchaseEntry, error)
	Update(ctx context.Context, doc *PurchaseEntry) error
	Delete(ctx context.Context, docID id.ID) error

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]PurchaseLine, error)
	SaveLines(ctx context.Context, docID id.ID, lines []PurchaseLine) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseEntry], error)

	// ListLines returns posted purchase lines joined with document dates,
	// the raw feed for the stock report.
	ListLines(ctx context.Context, filter LineFilter) ([]LedgerLine, error)
}

// ListFilter for filtering purchase entries.
type ListFilter struct {
	domain.ListFilter

	AcademicYear string
	VendorName   string
	Posted       *bool
	DateFrom     *time.Time
	DateTo       *time.Time
}

// LineFilter bounds the ledger line feed.
type LineFilter struct {
	AcademicYear string
	ItemID       *id.ID
	DateFrom     *time.Time
	DateTo       *time.Time
}

// LedgerLine is one posted purchase line with its document date.
type LedgerLine struct {
	DocID    id.ID     `db:"doc_id" json:"docId"`
	Date     time.Time `db:"date" json:"date"`
	ItemID   id.ID     `db:"item_id" json:"itemId"`
	ItemName string    `db:"item_name" json:"itemName"`
	Quantity int       `db:"quantity" json:"quantity"`
}
