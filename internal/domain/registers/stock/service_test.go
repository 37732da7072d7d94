package stock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/entity"
	"bookstock/internal/core/id"
)

type fakeStockRepo struct {
	balances  map[id.ID]int
	movements []entity.StockMovement

	created [][]entity.StockMovement
	deleted []id.ID
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{balances: make(map[id.ID]int)}
}

func (f *fakeStockRepo) CreateMovements(_ context.Context, movements []entity.StockMovement) error {
	f.created = append(f.created, movements)
	return nil
}

func (f *fakeStockRepo) DeleteMovementsByRecorder(_ context.Context, recorderID id.ID) error {
	f.deleted = append(f.deleted, recorderID)
	return nil
}

func (f *fakeStockRepo) GetMovementsByRecorder(_ context.Context, recorderID id.ID) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	for _, m := range f.movements {
		if m.RecorderID == recorderID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStockRepo) IncrementBalance(_ context.Context, itemID id.ID, qty int, _ time.Time) error {
	f.balances[itemID] += qty
	return nil
}

func (f *fakeStockRepo) TryDecrement(_ context.Context, itemID id.ID, qty int) (int, bool, error) {
	available := f.balances[itemID]
	if available < qty {
		return available, false, nil
	}
	f.balances[itemID] = available - qty
	return available, true, nil
}

func (f *fakeStockRepo) GetBalance(_ context.Context, itemID id.ID) (entity.StockBalance, error) {
	qty, ok := f.balances[itemID]
	if !ok {
		return entity.StockBalance{}, apperror.NewNotFound("stock_balance", itemID.String())
	}
	return entity.StockBalance{ItemID: itemID, Quantity: qty}, nil
}

func (f *fakeStockRepo) ListBalances(_ context.Context, _ BalanceFilter) ([]BalanceRow, error) {
	return nil, nil
}

func (f *fakeStockRepo) RecalculateBalances(_ context.Context, _ *id.ID) error {
	return nil
}

var _ Repository = (*fakeStockRepo)(nil)

func receiptMovement(recorderID, itemID id.ID, qty int) entity.StockMovement {
	return entity.NewStockMovement(recorderID, "PurchaseEntry", 1,
		time.Now().UTC(), entity.RecordTypeReceipt, itemID, qty)
}

func expenseMovement(recorderID, itemID id.ID, qty int) entity.StockMovement {
	return entity.NewStockMovement(recorderID, "DistributionBill", 1,
		time.Now().UTC(), entity.RecordTypeExpense, itemID, qty)
}

func TestIssueStock_FailsWhenShort(t *testing.T) {
	repo := newFakeStockRepo()
	svc := NewService(repo)

	itemID := id.New()
	repo.balances[itemID] = 3

	err := svc.IssueStock(context.Background(), []entity.StockMovement{
		expenseMovement(id.New(), itemID, 5),
	})

	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))
	assert.Equal(t, 3, repo.balances[itemID], "short issuance must not change the balance")
	assert.Empty(t, repo.created, "no movements recorded on failure")
}

func TestReverseMovements_GuardsReceiptReversal(t *testing.T) {
	repo := newFakeStockRepo()
	svc := NewService(repo)

	recorderID := id.New()
	itemID := id.New()
	repo.movements = []entity.StockMovement{receiptMovement(recorderID, itemID, 5)}

	// Of the 5 received, 3 were already distributed to students.
	repo.balances[itemID] = 2

	err := svc.ReverseMovements(context.Background(), recorderID)

	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))
	assert.Equal(t, 2, repo.balances[itemID], "balance must never go negative")
	assert.Empty(t, repo.deleted, "movements stay in place when the reversal is refused")
}

func TestReverseMovements_ReceiptTakenBackOut(t *testing.T) {
	repo := newFakeStockRepo()
	svc := NewService(repo)

	recorderID := id.New()
	itemID := id.New()
	repo.movements = []entity.StockMovement{receiptMovement(recorderID, itemID, 5)}
	repo.balances[itemID] = 8

	err := svc.ReverseMovements(context.Background(), recorderID)

	require.NoError(t, err)
	assert.Equal(t, 3, repo.balances[itemID])
	assert.Equal(t, []id.ID{recorderID}, repo.deleted)
}

func TestReverseMovements_ExpenseAddedBack(t *testing.T) {
	repo := newFakeStockRepo()
	svc := NewService(repo)

	recorderID := id.New()
	itemID := id.New()
	repo.movements = []entity.StockMovement{expenseMovement(recorderID, itemID, 4)}
	repo.balances[itemID] = 1

	err := svc.ReverseMovements(context.Background(), recorderID)

	require.NoError(t, err)
	assert.Equal(t, 5, repo.balances[itemID])
	assert.Equal(t, []id.ID{recorderID}, repo.deleted)
}
