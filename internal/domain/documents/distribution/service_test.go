package distribution

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/entity"
	"bookstock/internal/core/id"
	"bookstock/internal/core/types"
	"bookstock/internal/domain"
	"bookstock/internal/domain/catalogs/item"
	"bookstock/internal/domain/reconcile"
	"bookstock/internal/domain/registers/stock"
	"bookstock/internal/domain/setup"
	"bookstock/pkg/numerator"
)

type fakeBillRepo struct {
	byClientTxID map[string]*DistributionBill
	history      []HistoryRow

	created []*DistributionBill
}

func newFakeBillRepo() *fakeBillRepo {
	return &fakeBillRepo{byClientTxID: make(map[string]*DistributionBill)}
}

func (f *fakeBillRepo) Create(_ context.Context, doc *DistributionBill) error {
	f.created = append(f.created, doc)
	f.byClientTxID[doc.ClientTxID] = doc
	return nil
}

func (f *fakeBillRepo) GetByID(_ context.Context, docID id.ID) (*DistributionBill, error) {
	for _, b := range f.created {
		if b.ID == docID {
			return b, nil
		}
	}
	return nil, apperror.NewNotFound("distribution_bill", docID.String())
}

func (f *fakeBillRepo) GetByNumber(_ context.Context, number string) (*DistributionBill, error) {
	return nil, apperror.NewNotFound("distribution_bill", number)
}

func (f *fakeBillRepo) GetByClientTxID(_ context.Context, clientTxID string) (*DistributionBill, error) {
	if b, ok := f.byClientTxID[clientTxID]; ok {
		return b, nil
	}
	return nil, apperror.NewNotFound("distribution_bill", clientTxID)
}

func (f *fakeBillRepo) GetLines(_ context.Context, _ id.ID) ([]BillLine, error) {
	return nil, nil
}

func (f *fakeBillRepo) SaveLines(_ context.Context, _ id.ID, _ []BillLine) error {
	return nil
}

func (f *fakeBillRepo) List(_ context.Context, _ ListFilter) (domain.ListResult[*DistributionBill], error) {
	return domain.ListResult[*DistributionBill]{}, nil
}

func (f *fakeBillRepo) HistoryByStudent(_ context.Context, _, _ string) ([]HistoryRow, error) {
	return f.history, nil
}

func (f *fakeBillRepo) ListLines(_ context.Context, _ LineFilter) ([]LedgerLine, error) {
	return nil, nil
}

var _ Repository = (*fakeBillRepo)(nil)

type fakeSetupList struct {
	lines []*setup.SetupItem
}

func (f *fakeSetupList) ListByStandard(_ context.Context, _, _ string) ([]*setup.SetupItem, error) {
	return f.lines, nil
}

type fakeItemLookup struct {
	items []*item.Item
}

func (f *fakeItemLookup) GetByIDs(_ context.Context, _ []id.ID) ([]*item.Item, error) {
	return f.items, nil
}

type fakeStockRepo struct {
	balances map[id.ID]int
	rows     []stock.BalanceRow
}

func (f *fakeStockRepo) CreateMovements(_ context.Context, _ []entity.StockMovement) error {
	return nil
}

func (f *fakeStockRepo) DeleteMovementsByRecorder(_ context.Context, _ id.ID) error {
	return nil
}

func (f *fakeStockRepo) GetMovementsByRecorder(_ context.Context, _ id.ID) ([]entity.StockMovement, error) {
	return nil, nil
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
	return entity.StockBalance{ItemID: itemID, Quantity: f.balances[itemID]}, nil
}

func (f *fakeStockRepo) ListBalances(_ context.Context, _ stock.BalanceFilter) ([]stock.BalanceRow, error) {
	return f.rows, nil
}

func (f *fakeStockRepo) RecalculateBalances(_ context.Context, _ *id.ID) error {
	return nil
}

var _ stock.Repository = (*fakeStockRepo)(nil)

// inTxKey marks contexts the fake tx manager hands to its callback, so
// tests can assert a call happened inside the transaction.
type inTxKey struct{}

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(context.WithValue(ctx, inTxKey{}, true))
}

func (fakeTxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(inTxKey{}).(bool)
	return v
}

type billFixture struct {
	repo      *fakeBillRepo
	setup     *fakeSetupList
	stockRepo *fakeStockRepo
	items     *fakeItemLookup
	gen       *numerator.MockGenerator
	svc       *Service
}

func newBillFixture() *billFixture {
	f := &billFixture{
		repo:      newFakeBillRepo(),
		setup:     &fakeSetupList{},
		stockRepo: &fakeStockRepo{balances: make(map[id.ID]int)},
		items:     &fakeItemLookup{},
		gen:       &numerator.MockGenerator{},
	}
	f.svc = NewService(f.repo, f.setup, stock.NewService(f.stockRepo),
		f.items, f.gen, fakeTxManager{})
	return f
}

func testBill(clientTxID string, itemID id.ID, qty int) *DistributionBill {
	bill := NewDistributionBill("2026-27", id.New(), "ADM-001", "Asha Verma", "5")
	bill.ClientTxID = clientTxID
	bill.AddLine(itemID, "Maths Workbook", qty, types.ZeroMoney())
	return bill
}

func TestSave_GeneratesNumberInsideTransaction(t *testing.T) {
	f := newBillFixture()
	itemID := id.New()
	f.stockRepo.balances[itemID] = 10

	var genCtx context.Context
	f.gen.GetNextNumberFunc = func(ctx context.Context, _ numerator.Config, _ *numerator.Options, _ time.Time) (string, error) {
		genCtx = ctx
		return "BILL-2026-00007", nil
	}

	saved, err := f.svc.Save(context.Background(), testBill("tx-1", itemID, 2))

	require.NoError(t, err)
	assert.Equal(t, "BILL-2026-00007", saved.Number)
	require.NotNil(t, genCtx, "number must be generated")
	assert.True(t, inTx(genCtx), "number must be generated inside the save transaction")
	assert.Equal(t, 8, f.stockRepo.balances[itemID])
}

func TestSave_InsufficientStockCreatesNothing(t *testing.T) {
	f := newBillFixture()
	itemID := id.New()
	f.stockRepo.balances[itemID] = 1

	_, err := f.svc.Save(context.Background(), testBill("tx-2", itemID, 3))

	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))
	assert.Empty(t, f.repo.created)
	assert.Equal(t, 1, f.stockRepo.balances[itemID])
}

func TestSave_ReplaysByClientTxID(t *testing.T) {
	f := newBillFixture()
	itemID := id.New()
	f.stockRepo.balances[itemID] = 10

	stored := testBill("tx-3", itemID, 2)
	stored.Number = "BILL-2026-00001"
	f.repo.byClientTxID["tx-3"] = stored

	generated := false
	f.gen.GetNextNumberFunc = func(_ context.Context, _ numerator.Config, _ *numerator.Options, _ time.Time) (string, error) {
		generated = true
		return "BILL-2026-00002", nil
	}

	saved, err := f.svc.Save(context.Background(), testBill("tx-3", itemID, 2))

	require.NoError(t, err)
	assert.Equal(t, "BILL-2026-00001", saved.Number)
	assert.False(t, generated, "a replayed save must not consume a number")
	assert.Equal(t, 10, f.stockRepo.balances[itemID], "a replayed save must not issue stock again")
}

func TestPrepareVisit_FillsUnitsFromItemMaster(t *testing.T) {
	f := newBillFixture()

	workbook := item.NewItem("Maths Workbook", "set", item.CategoryBook)
	f.items.items = []*item.Item{workbook}
	f.setup.lines = []*setup.SetupItem{
		setup.NewSetupItem("5", "2026-27", workbook.ID, "Maths Workbook", 2, types.ZeroMoney()),
	}
	f.stockRepo.rows = []stock.BalanceRow{
		{ItemID: workbook.ID, ItemName: "Maths Workbook", Key: workbook.Key, Quantity: 6},
	}

	res, err := f.svc.PrepareVisit(context.Background(), "ADM-001", "5", "2026-27", reconcile.Options{})

	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "set", res.Items[0].Unit)
	assert.Equal(t, 2, res.Items[0].IssueQty)
}
