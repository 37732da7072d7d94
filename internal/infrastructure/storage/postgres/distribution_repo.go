package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/id"
	"bookstock/internal/domain"
	"bookstock/internal/domain/documents/distribution"
)

const (
	billTable     = "doc_distribution_bills"
	billLineTable = "doc_distribution_lines"
)

var billColumns = []string{
	"id", "deletion_mark", "version",
	"created_at", "updated_at", "created_by", "updated_by",
	"number", "date", "posted", "posted_version", "academic_year", "comment",
	"student_id", "admission_no", "student_name", "standard",
	"track_pricing", "pay_mode", "pay_reference", "total_amount", "client_tx_id",
}

var billLineColumns = []string{
	"doc_id", "line_id", "line_no",
	"item_id", "item_name", "item_key", "quantity", "unit_price", "amount",
}

// DistributionRepo implements distribution.Repository.
type DistributionRepo struct {
	txManager *TxManager
	batch     *BatchInserter
}

var _ distribution.Repository = (*DistributionRepo)(nil)

// NewDistributionRepo creates a new distribution repository.
func NewDistributionRepo(txManager *TxManager) *DistributionRepo {
	return &DistributionRepo{
		txManager: txManager,
		batch:     NewBatchInserter(txManager),
	}
}

func (r *DistributionRepo) baseSelect() squirrel.SelectBuilder {
	return builder().Select(billColumns...).From(billTable)
}

// Create inserts the bill header.
func (r *DistributionRepo) Create(ctx context.Context, doc *distribution.DistributionBill) error {
	q := builder().
		Insert(billTable).
		Columns(billColumns...).
		Values(doc.ID, doc.DeletionMark, doc.Version,
			doc.CreatedAt, doc.UpdatedAt, doc.CreatedBy, doc.UpdatedBy,
			doc.Number, doc.Date, doc.Posted, doc.PostedVersion, doc.AcademicYear, doc.Comment,
			doc.StudentID, doc.AdmissionNo, doc.StudentName, doc.Standard,
			doc.TrackPricing, doc.PayMode, doc.PayReference, doc.TotalAmount, doc.ClientTxID)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("distribution_bill", "client_tx_id", doc.ClientTxID)
		}
		return apperror.NewDatabase(err)
	}
	return nil
}

// GetByID retrieves the bill header.
func (r *DistributionRepo) GetByID(ctx context.Context, docID id.ID) (*distribution.DistributionBill, error) {
	return r.getOne(ctx, r.baseSelect().Where(squirrel.Eq{"id": docID}), docID.String())
}

// GetByNumber retrieves the bill header by bill number.
func (r *DistributionRepo) GetByNumber(ctx context.Context, number string) (*distribution.DistributionBill, error) {
	return r.getOne(ctx, r.baseSelect().Where(squirrel.Eq{"number": number}), number)
}

// GetByClientTxID retrieves a bill by its idempotency key.
func (r *DistributionRepo) GetByClientTxID(ctx context.Context, clientTxID string) (*distribution.DistributionBill, error) {
	return r.getOne(ctx, r.baseSelect().Where(squirrel.Eq{"client_tx_id": clientTxID}), clientTxID)
}

// GetLines retrieves the bill's lines in order.
func (r *DistributionRepo) GetLines(ctx context.Context, docID id.ID) ([]distribution.BillLine, error) {
	q := builder().
		Select("line_id", "line_no", "item_id", "item_name", "item_key", "quantity", "unit_price", "amount").
		From(billLineTable).
		Where(squirrel.Eq{"doc_id": docID}).
		OrderBy("line_no ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []distribution.BillLine
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, apperror.NewDatabase(err)
	}
	return lines, nil
}

// SaveLines replaces the bill's lines. Must run inside a transaction.
func (r *DistributionRepo) SaveLines(ctx context.Context, docID id.ID, lines []distribution.BillLine) error {
	if r.txManager.GetTx(ctx) == nil {
		return fmt.Errorf("SaveLines requires transaction context")
	}

	delSQL, delArgs, err := builder().
		Delete(billLineTable).
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

	if _, err := r.batch.CopyFromSlice(ctx, billLineTable, billLineColumns, rows); err != nil {
		return apperror.NewDatabase(err)
	}
	return nil
}

// List retrieves bills with filtering.
func (r *DistributionRepo) List(ctx context.Context, filter distribution.ListFilter) (domain.ListResult[*distribution.DistributionBill], error) {
	result := domain.ListResult[*distribution.DistributionBill]{
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
		if filter.AdmissionNo != "" {
			q = q.Where(squirrel.Eq{"admission_no": filter.AdmissionNo})
		}
		if filter.Standard != "" {
			q = q.Where(squirrel.Eq{"standard": filter.Standard})
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

	countQ := applyWhere(builder().Select("COUNT(*)").From(billTable))
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, apperror.NewDatabase(err)
	}

	return result, nil
}

// HistoryByStudent returns all issued lines for one student in a year.
func (r *DistributionRepo) HistoryByStudent(ctx context.Context, admissionNo, academicYear string) ([]distribution.HistoryRow, error) {
	q := builder().
		Select("l.doc_id AS bill_id", "d.number AS bill_number", "d.date",
			"l.item_id", "l.item_name", "l.quantity").
		From(billLineTable + " l").
		Join(billTable + " d ON d.id = l.doc_id").
		Where(squirrel.Eq{"d.admission_no": admissionNo}).
		Where(squirrel.Eq{"d.academic_year": academicYear}).
		Where(squirrel.Eq{"d.deletion_mark": false}).
		OrderBy("d.date ASC, l.line_no ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []distribution.HistoryRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, apperror.NewDatabase(err)
	}
	return rows, nil
}

// ListLines returns posted bill lines joined with document dates.
func (r *DistributionRepo) ListLines(ctx context.Context, filter distribution.LineFilter) ([]distribution.LedgerLine, error) {
	q := builder().
		Select("l.doc_id", "d.date", "d.standard", "l.item_id", "l.item_name", "l.quantity").
		From(billLineTable + " l").
		Join(billTable + " d ON d.id = l.doc_id").
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

	var lines []distribution.LedgerLine
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, apperror.NewDatabase(err)
	}
	return lines, nil
}

func (r *DistributionRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, ref string) (*distribution.DistributionBill, error) {
	sql, args, err := q.Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var doc distribution.DistributionBill
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("distribution_bill", ref)
		}
		return nil, apperror.NewDatabase(err)
	}
	return &doc, nil
}
