package setup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/id"
	"bookstock/internal/core/itemkey"
	"bookstock/internal/core/types"
	"bookstock/internal/domain/catalogs/item"
)

type fakeRepo struct {
	saved     []*SetupItem
	standards []string
	lines     []*SetupItem
}

func (f *fakeRepo) ReplaceForStandard(_ context.Context, _, _ string, lines []*SetupItem) error {
	f.saved = lines
	return nil
}

func (f *fakeRepo) ListByStandard(_ context.Context, _, _ string) ([]*SetupItem, error) {
	return f.lines, nil
}

func (f *fakeRepo) ListStandards(_ context.Context, _ string) ([]string, error) {
	return f.standards, nil
}

func (f *fakeRepo) GetByID(_ context.Context, _ id.ID) (*SetupItem, error) {
	return nil, apperror.NewNotFound("setup_item", "")
}

func (f *fakeRepo) DeleteForStandard(_ context.Context, _, _ string) error {
	return nil
}

type fakeCatalog struct {
	known   map[itemkey.Key]*item.Item
	created []*item.Item
}

func (f *fakeCatalog) Resolve(_ context.Context, name string) (*item.Item, error) {
	if it, ok := f.known[itemkey.Normalize(name)]; ok {
		return it, nil
	}
	return nil, apperror.NewNotFound("item", name)
}

func (f *fakeCatalog) Create(_ context.Context, it *item.Item) error {
	f.created = append(f.created, it)
	f.known[it.Key] = it
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(repo *fakeRepo, catalog *fakeCatalog) *Service {
	return NewService(repo, catalog, fakeTxManager{})
}

func line(name string, qty int, amount string) *SetupItem {
	return NewSetupItem("5", "2026-27", id.Nil(), name, qty, types.MustMoney(amount))
}

func TestSaveRejectsDuplicateItems(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakeCatalog{known: map[itemkey.Key]*item.Item{}})

	_, err := svc.Save(context.Background(), "5", "2026-27", []*SetupItem{
		line("Maths Workbook", 2, "95"),
		line("maths  WORKBOOK", 1, "95"),
	}, DuplicateReject)

	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeDuplicateSetupItem))
}

func TestSaveMergesDuplicateItems(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeCatalog{known: map[itemkey.Key]*item.Item{}})

	saved, err := svc.Save(context.Background(), "5", "2026-27", []*SetupItem{
		line("English Reader", 1, "120"),
		line("Maths Workbook", 2, "95"),
		line("maths workbook", 3, "95"),
	}, DuplicateMerge)

	require.NoError(t, err)
	require.Len(t, saved, 2)

	// first occurrence wins the slot, quantities add up
	assert.Equal(t, "English Reader", saved[0].ItemName)
	assert.Equal(t, "Maths Workbook", saved[1].ItemName)
	assert.Equal(t, 5, saved[1].RequiredQty)
	assert.Equal(t, 1, saved[1].Position)
	assert.Equal(t, repo.saved, saved)
}

func TestSaveRegistersUnknownItems(t *testing.T) {
	existing := item.NewItem("English Reader", "pcs", item.CategoryBook)
	catalog := &fakeCatalog{known: map[itemkey.Key]*item.Item{existing.Key: existing}}
	svc := newTestService(&fakeRepo{}, catalog)

	saved, err := svc.Save(context.Background(), "5", "2026-27", []*SetupItem{
		line("English Reader", 1, "120"),
		line("Science Activity Book", 1, "150"),
	}, DuplicateReject)

	require.NoError(t, err)
	require.Len(t, catalog.created, 1)
	assert.Equal(t, "Science Activity Book", catalog.created[0].Name)

	// resolved lines carry the canonical item identity
	assert.Equal(t, existing.ID, saved[0].ItemID)
	assert.Equal(t, catalog.created[0].ID, saved[1].ItemID)
}

func TestSaveRejectsNonPositiveQuantity(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakeCatalog{known: map[itemkey.Key]*item.Item{}})

	_, err := svc.Save(context.Background(), "5", "2026-27", []*SetupItem{
		line("English Reader", 0, "120"),
	}, DuplicateReject)

	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestListByStandardNotConfigured(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakeCatalog{known: map[itemkey.Key]*item.Item{}})

	_, err := svc.ListByStandard(context.Background(), "9", "2026-27")

	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotConfigured))
}
