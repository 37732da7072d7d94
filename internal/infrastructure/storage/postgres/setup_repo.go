package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/id"
	"bookstock/internal/domain/setup"
)

const setupTable = "reg_setup_items"

var setupColumns = []string{
	"id", "deletion_mark", "version",
	"standard", "academic_year", "item_id", "item_name", "item_key",
	"required_qty", "amount", "position",
}

// SetupRepo implements setup.Repository.
type SetupRepo struct {
	txManager *TxManager
	batch     *BatchInserter
}

var _ setup.Repository = (*SetupRepo)(nil)

// NewSetupRepo creates a new setup repository.
func NewSetupRepo(txManager *TxManager) *SetupRepo {
	return &SetupRepo{
		txManager: txManager,
		batch:     NewBatchInserter(txManager),
	}
}

// ReplaceForStandard atomically replaces the requirement list.
// Must run inside a transaction (the setup service provides one).
func (r *SetupRepo) ReplaceForStandard(ctx context.Context, standard, academicYear string, lines []*setup.SetupItem) error {
	if r.txManager.GetTx(ctx) == nil {
		return fmt.Errorf("ReplaceForStandard requires transaction context")
	}

	if err := r.DeleteForStandard(ctx, standard, academicYear); err != nil {
		return err
	}

	rows := make([][]any, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, []any{
			line.ID, line.DeletionMark, line.Version,
			line.Standard, line.AcademicYear, line.ItemID, line.ItemName, line.Key,
			line.RequiredQty, line.Amount, line.Position,
		})
	}

	if _, err := r.batch.CopyFromSlice(ctx, setupTable, setupColumns, rows); err != nil {
		return apperror.NewDatabase(err)
	}
	return nil
}

// ListByStandard returns the requirement lines in entry order.
func (r *SetupRepo) ListByStandard(ctx context.Context, standard, academicYear string) ([]*setup.SetupItem, error) {
	q := builder().
		Select(setupColumns...).
		From(setupTable).
		Where(squirrel.Eq{"standard": standard}).
		Where(squirrel.Eq{"academic_year": academicYear}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("position ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []*setup.SetupItem
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, apperror.NewDatabase(err)
	}
	return lines, nil
}

// ListStandards returns the distinct standards configured for a year.
func (r *SetupRepo) ListStandards(ctx context.Context, academicYear string) ([]string, error) {
	q := builder().
		Select("DISTINCT standard").
		From(setupTable).
		Where(squirrel.Eq{"academic_year": academicYear}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("standard ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var standards []string
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &standards, sql, args...); err != nil {
		return nil, apperror.NewDatabase(err)
	}
	return standards, nil
}

// GetByID retrieves a single requirement line.
func (r *SetupRepo) GetByID(ctx context.Context, lineID id.ID) (*setup.SetupItem, error) {
	q := builder().
		Select(setupColumns...).
		From(setupTable).
		Where(squirrel.Eq{"id": lineID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var line setup.SetupItem
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &line, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("setup_item", lineID.String())
		}
		return nil, apperror.NewDatabase(err)
	}
	return &line, nil
}

// DeleteForStandard removes the whole requirement list for a standard/year.
func (r *SetupRepo) DeleteForStandard(ctx context.Context, standard, academicYear string) error {
	q := builder().
		Delete(setupTable).
		Where(squirrel.Eq{"standard": standard}).
		Where(squirrel.Eq{"academic_year": academicYear})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewDatabase(err)
	}
	return nil
}
