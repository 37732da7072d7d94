package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/entity"
	"bookstock/internal/core/id"
	"bookstock/internal/domain/registers/stock"
)

const (
	movementTable = "reg_stock_movements"
	balanceTable  = "reg_stock_balances"
)

var movementColumns = []string{
	"line_id", "recorder_id", "recorder_type", "recorder_version",
	"period", "record_type", "item_id", "quantity", "created_at",
}

// StockRepo implements stock.Repository.
type StockRepo struct {
	txManager *TxManager
	batch     *BatchInserter
}

var _ stock.Repository = (*StockRepo)(nil)

// NewStockRepo creates a new stock register repository.
func NewStockRepo(txManager *TxManager) *StockRepo {
	return &StockRepo{
		txManager: txManager,
		batch:     NewBatchInserter(txManager),
	}
}

// CreateMovements batch inserts movement rows via COPY.
func (r *StockRepo) CreateMovements(ctx context.Context, movements []entity.StockMovement) error {
	rows := make([][]any, 0, len(movements))
	for _, m := range movements {
		rows = append(rows, []any{
			m.LineID, m.RecorderID, m.RecorderType, m.RecorderVersion,
			m.Period, m.RecordType, m.ItemID, m.Quantity, m.CreatedAt,
		})
	}

	if _, err := r.batch.CopyFromSlice(ctx, movementTable, movementColumns, rows); err != nil {
		return apperror.NewDatabase(err)
	}
	return nil
}

// DeleteMovementsByRecorder removes a document's movement rows. The balance
// effect is reversed by the service before the delete, through the guarded
// decrement for receipts.
func (r *StockRepo) DeleteMovementsByRecorder(ctx context.Context, recorderID id.ID) error {
	sql, args, err := builder().
		Delete(movementTable).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return apperror.NewDatabase(err)
	}
	return nil
}

// GetMovementsByRecorder retrieves all movements for a document.
func (r *StockRepo) GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error) {
	q := builder().
		Select(movementColumns...).
		From(movementTable).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		OrderBy("created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.StockMovement
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, apperror.NewDatabase(err)
	}
	return movements, nil
}

// IncrementBalance adds qty to an item's balance (upsert).
func (r *StockRepo) IncrementBalance(ctx context.Context, itemID id.ID, qty int, at time.Time) error {
	return r.applyDelta(ctx, itemID, qty, at)
}

func (r *StockRepo) applyDelta(ctx context.Context, itemID id.ID, delta int, at time.Time) error {
	const sql = `
		INSERT INTO reg_stock_balances (item_id, quantity, last_movement_at, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (item_id) DO UPDATE
		SET quantity = reg_stock_balances.quantity + EXCLUDED.quantity,
		    last_movement_at = GREATEST(reg_stock_balances.last_movement_at, EXCLUDED.last_movement_at),
		    updated_at = now()`

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, itemID, delta, at); err != nil {
		return apperror.NewDatabase(err)
	}
	return nil
}

// TryDecrement conditionally subtracts qty from an item's balance.
// The WHERE clause is the whole point: two concurrent issuances for the same
// item serialize on the row, and the one that would drive it negative
// changes nothing.
func (r *StockRepo) TryDecrement(ctx context.Context, itemID id.ID, qty int) (int, bool, error) {
	const sql = `
		UPDATE reg_stock_balances
		SET quantity = quantity - $2, updated_at = now()
		WHERE item_id = $1 AND quantity >= $2
		RETURNING quantity`

	querier := r.txManager.GetQuerier(ctx)

	var remaining int
	err := querier.QueryRow(ctx, sql, itemID, qty).Scan(&remaining)
	if err == nil {
		return remaining + qty, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, apperror.NewDatabase(err)
	}

	// Short or missing row: report what is actually available
	var available int
	err = querier.QueryRow(ctx,
		`SELECT quantity FROM reg_stock_balances WHERE item_id = $1`, itemID).Scan(&available)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, apperror.NewDatabase(err)
	}
	return available, false, nil
}

// GetBalance returns the current balance for one item.
func (r *StockRepo) GetBalance(ctx context.Context, itemID id.ID) (entity.StockBalance, error) {
	q := builder().
		Select("item_id", "quantity", "last_movement_at", "updated_at").
		From(balanceTable).
		Where(squirrel.Eq{"item_id": itemID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return entity.StockBalance{}, fmt.Errorf("build query: %w", err)
	}

	var balance entity.StockBalance
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &balance, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity.StockBalance{}, apperror.NewNotFound("stock_balance", itemID.String())
		}
		return entity.StockBalance{}, apperror.NewDatabase(err)
	}
	return balance, nil
}

// ListBalances returns all balances joined with item names.
func (r *StockRepo) ListBalances(ctx context.Context, filter stock.BalanceFilter) ([]stock.BalanceRow, error) {
	q := builder().
		Select("b.item_id", "i.name AS item_name", "i.item_key", "b.quantity", "b.last_movement_at").
		From(balanceTable + " b").
		Join(itemTable + " i ON i.id = b.item_id")

	if len(filter.ItemIDs) > 0 {
		q = q.Where(squirrel.Eq{"b.item_id": filter.ItemIDs})
	}
	if filter.ExcludeZero {
		q = q.Where(squirrel.NotEq{"b.quantity": 0})
	}
	q = q.OrderBy("i.name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []stock.BalanceRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, apperror.NewDatabase(err)
	}
	return rows, nil
}

// RecalculateBalances rebuilds the balance table from movements.
func (r *StockRepo) RecalculateBalances(ctx context.Context, itemID *id.ID) error {
	return r.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		querier := r.txManager.GetQuerier(txCtx)

		deleteSQL := "DELETE FROM reg_stock_balances"
		var deleteArgs []any
		if itemID != nil {
			deleteSQL += " WHERE item_id = $1"
			deleteArgs = append(deleteArgs, *itemID)
		}
		if _, err := querier.Exec(txCtx, deleteSQL, deleteArgs...); err != nil {
			return apperror.NewDatabase(err)
		}

		rebuildSQL := `
			INSERT INTO reg_stock_balances (item_id, quantity, last_movement_at, updated_at)
			SELECT item_id,
			       SUM(CASE WHEN record_type = 'receipt' THEN quantity ELSE -quantity END),
			       MAX(period),
			       now()
			FROM reg_stock_movements`
		var rebuildArgs []any
		if itemID != nil {
			rebuildSQL += " WHERE item_id = $1"
			rebuildArgs = append(rebuildArgs, *itemID)
		}
		rebuildSQL += " GROUP BY item_id"

		if _, err := querier.Exec(txCtx, rebuildSQL, rebuildArgs...); err != nil {
			return apperror.NewDatabase(err)
		}
		return nil
	})
}
