package distribution

import (
	"context"
	"time"

	"bookstock/internal/core/id"
	"bookstock/internal/domain"
)

// Repository defines operations for distribution bills.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *DistributionBill) error
	GetByID(ctx context.Context, docID id.ID) (*DistributionBill, error)
	GetByNumber(ctx context.Context, number string) (*DistributionBill, error)

	// GetByClientTxID retrieves a bill by its idempotency key.
	// Returns NOT_FOUND when no bill carries the key.
	GetByClientTxID(ctx context.Context, clientTxID string) (*DistributionBill, error)

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]BillLine, error)
	SaveLines(ctx context.Context, docID id.ID, lines []BillLine) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*DistributionBill], error)

	// HistoryByStudent returns all issued lines for one student in a year,
	// across all of their bills.
	HistoryByStudent(ctx context.Context, admissionNo, academicYear string) ([]HistoryRow, error)

	// ListLines returns posted bill lines joined with document dates,
	// the raw feed for the stock report.
	ListLines(ctx context.Context, filter LineFilter) ([]LedgerLine, error)
}

// ListFilter for filtering bills.
type ListFilter struct {
	domain.ListFilter

	AcademicYear string
	AdmissionNo  string
	Standard     string
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

// HistoryRow is one previously issued line for a student.
type HistoryRow struct {
	BillID     id.ID     `db:"bill_id" json:"billId"`
	BillNumber string    `db:"bill_number" json:"billNumber"`
	Date       time.Time `db:"date" json:"date"`
	ItemID     id.ID     `db:"item_id" json:"itemId"`
	ItemName   string    `db:"item_name" json:"itemName"`
	Quantity   int       `db:"quantity" json:"quantity"`
}

// LedgerLine is one posted bill line with its document date and standard.
type LedgerLine struct {
	DocID    id.ID     `db:"doc_id" json:"docId"`
	Date     time.Time `db:"date" json:"date"`
	Standard string    `db:"standard" json:"standard"`
	ItemID   id.ID     `db:"item_id" json:"itemId"`
	ItemName string    `db:"item_name" json:"itemName"`
	Quantity int       `db:"quantity" json:"quantity"`
}
