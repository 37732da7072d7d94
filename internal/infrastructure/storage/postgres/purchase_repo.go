package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/id"
	"bookstock/internal/domain"
	"bookstock/internal/domain/documents/purchase"
)

const (
	purchaseTable     = "doc_purchases"
	purchaseLineTable = "doc_purchase_lines"
)

var purchaseColumns = []string{
	"id", "deletion_mark", "version",
	"created_at", "updated_at", "created_by", "updated_by",
	"number", "date", "posted", "posted_version", "academic_year", "comment",
	"vendor_name", "invoice_no", "total_quantity", "total_amount",
}

var purchaseLineColumns = []string{
	"doc_id", "line_id", "line_no",
	"item_id", "item_name", "item_key", "quantity", "unit_price", "amount",
}

// PurchaseRepo implements purchase.Repository.
type PurchaseRepo struct {
	txManager *TxManager
	batch     *BatchInserter
}

var _ purchase.Repository = (*PurchaseRepo)(nil)

// NewPurchaseRepo creates a new purchase repository.
func NewPurchaseRepo(txManager *TxManager) *PurchaseRepo {
	return &PurchaseRepo{
		txManager: txManager,
		batch:     NewBatchInserter(txManager),
	}
}

func (r *PurchaseRepo) baseSelect() squirrel.SelectBuilder {
	return builder().Select(purchaseColumns...).From(purchaseTable)
}

// Create inserts the document header.
func (r *PurchaseRepo) Create(ctx context.Context, doc *purchase.PurchaseEntry) error {
	q := builder().
		Insert(purchaseTable).
		Columns(purchaseColumns...).
		Values(doc.ID, doc.DeletionMark, doc.Version,
			doc.CreatedAt, doc.UpdatedAt, doc.CreatedBy, doc.UpdatedBy,
			doc.Number, doc.Date, doc.Posted, doc.PostedVersion, doc.AcademicYear, doc.Comment,
			doc.VendorName, doc.InvoiceNo, doc.TotalQuantity, doc.TotalAmount)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("purchase", "number", doc.Number)
		}
		return apperror.NewDatabase(err)
	}
	return nil
}

// GetByID retrieves the document header.
func (r *PurchaseRepo) GetByID(ctx context.Context, docID id.ID) (*purchase.PurchaseEntry, error) {
	return r.getOne(ctx, r.baseSelect().Where(squirrel.Eq{"id": docID}), docID.String())
}

// GetByNumber retrieves the document header by number.
func (r *PurchaseRepo) GetByNumber(ctx context.Context, number string) (*purchase.PurchaseEntry, error) {
	return r.getOne(ctx, r.baseSelect().Where(squirrel.Eq{"number": number}), number)
}

// Update modifies the header with optimistic locking.
func (r *PurchaseRepo) Update(ctx context.Context, doc *purchase.PurchaseEntry) error {
	q := builder().
		Update(purchaseTable).
		Set("updated_at", doc.UpdatedAt).
		Set("updated_by", doc.UpdatedBy).
		Set("date", doc.Date).
		Set("posted", doc.Posted).
		Set("posted_version", doc.PostedVersion).
		Set("academic_year", doc.AcademicYear).
		Set("comment", doc.Comment).
		Set("vendor_name", doc.VendorName).
		Set("invoice_no", doc.InvoiceNo).
		Set("total_quantity", doc.TotalQuantity).
		Set("total_amount", doc.TotalAmount).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": doc.ID}).
		Where(squirrel.Eq{"version": doc.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("purchase", doc.ID.String())
	}

	doc.Version++
	return nil
}

// Delete soft-deletes the document.
func (r *PurchaseRepo) Delete(ctx context.Context, docID id.ID) error {
	q := builder().
		Update(purchaseTable).
		Set("deletion_mark", true).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": docID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("purchase", docID.String())
	}
	return nil
}

// GetLines retrieves the document's lines in order.
func (r *PurchaseRepo) GetLines(ctx context.Context, docID id.ID) ([]purchase.PurchaseLine, error) {
	q := builder().
		Select("line_id", "line_no", "item_id", "item_name", "item_key", "quantity", "unit_price", "amount").
		From(purchaseLineTable).
		Where(squirrel.Eq{"doc_id": docID}).
		OrderBy("line_no ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []purchase.PurchaseLine
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, apperror.NewDatabase(err)
	}
	return lines, nil
}

// SaveLines replaces the document's lines. Must run inside a transaction.
func (r *PurchaseRepo) SaveLines(ctx context.Context, docID id.ID, lines []purchase.PurchaseLine) error {
	if r.txManager.GetTx(ctx) == nil {
		return fmt.Errorf("SaveLines requires transaction context")
	}

	delSQL, delArgs, err := builder().
		Delete(purchaseLineTable).
		Where(squirrel.Eq{"doc_id": docID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, delSQL, delArgs...); err != nil {
		return apperror.NewDatabase(err)
	}

	rows := make([][]any, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, []any{
			docID, line.LineID, line.LineNo,
			line.ItemID, line.ItemName, line.Key, line.Quantity, line.UnitPrice, line.Amount,
		})
	}

	if _, err := r.batch.CopyFromSlice(ctx, purchaseLineTable, purchaseLineColumns, rows); err != nil {
		return apperror.NewDatabase(err)
	}
	return nil
}

// List retrieves purchases with filtering.
func (r *PurchaseRepo) List(ctx context.Context, filter purchase.ListFilter) (domain.ListResult[*purchase.PurchaseEntry], error) {
	result := domain.ListResult[*purchase.PurchaseEntry]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	applyWhere := func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if !filter.IncludeDeleted {
			q = q.Where(squirrel.Eq{"deletion_mark": false})
		}
		if filter.AcademicYear != "" {
			q = q.Where(squirrel.Eq{"academic_year": filter.AcademicYear})
		}
		if filter.VendorName != "" {
			q = q.Where(squirrel.ILike{"vendor_name": "%" + filter.VendorName + "%"})
		}
		if filter.Posted != nil {
			q = q.Where(squirrel.Eq{"posted": *filter.Posted})
		}
		if filter.DateFrom != nil {
			q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
		}
		if filter.DateTo != nil {
			q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
		}
		return q
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "date DESC, number DESC"
	}

	q := applyWhere(r.baseSelect()).OrderBy(orderBy)
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, apperror.NewDatabase(err)
	}

	countQ := applyWhere(builder().Select("COUNT(*)").From(purchaseTable))
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, apperror.NewDatabase(err)
	}

	return result, nil
}

// ListLines returns posted purchase lines joined with document dates.
func (r *PurchaseRepo) ListLines(ctx context.Context, filter purchase.LineFilter) ([]purchase.LedgerLine, error) {
	q := builder().
		Select("l.doc_id", "d.date", "l.item_id", "l.item_name", "l.quantity").
		From(purchaseLineTable + " l").
		Join(purchaseTable + " d ON d.id = l.doc_id").
		Where(squirrel.Eq{"d.posted": true}).
		Where(squirrel.Eq{"d.deletion_mark": false})

	if filter.AcademicYear != "" {
		q = q.Where(squirrel.Eq{"d.academic_year": filter.AcademicYear})
	}
	if filter.ItemID != nil {
		q = q.Where(squirrel.Eq{"l.item_id": *filter.ItemID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"d.date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"d.date": *filter.DateTo})
	}
	q = q.OrderBy("d.date ASC, l.line_no ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []purchase.LedgerLine
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, apperror.NewDatabase(err)
	}
	return lines, nil
}

func (r *PurchaseRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, ref string) (*purchase.PurchaseEntry, error) {
	sql, args, err := q.Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var doc purchase.PurchaseEntry
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("purchase", ref)
		}
		return nil, apperror.NewDatabase(err)
	}
	return &doc, nil
}
