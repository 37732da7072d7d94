package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstock/internal/core/id"
	"bookstock/internal/core/itemkey"
	"bookstock/internal/core/types"
	"bookstock/internal/domain/setup"
)

func setupLine(name string, required int, amount string) *setup.SetupItem {
	return setup.NewSetupItem("5", "2025-26", id.New(), name, required, types.MustMoney(amount))
}

func stockFor(name string, qty int) map[itemkey.Key]int {
	return map[itemkey.Key]int{itemkey.Normalize(name): qty}
}

func TestCompute_FullFill(t *testing.T) {
	lines := []*setup.SetupItem{setupLine("Math Book", 2, "150")}

	res := Compute(lines, nil, stockFor("Math Book", 5), Options{TrackPricing: true})

	require.Len(t, res.Items, 1)
	p := res.Items[0]
	assert.Equal(t, "Math Book", p.Name)
	assert.Equal(t, 2, p.Remaining)
	assert.Equal(t, 2, p.IssueQty)
	assert.False(t, p.OutOfStock)
	assert.True(t, p.Total.Equal(types.MustMoney("300")), "total = %s", p.Total)
	assert.True(t, res.TotalAmount.Equal(types.MustMoney("300")))
	assert.False(t, res.FullyDistributed)
}

func TestCompute_PartialFill(t *testing.T) {
	lines := []*setup.SetupItem{setupLine("Math Book", 2, "150")}

	res := Compute(lines, nil, stockFor("Math Book", 1), Options{TrackPricing: true})

	require.Len(t, res.Items, 1)
	p := res.Items[0]
	assert.Equal(t, 1, p.IssueQty)
	assert.False(t, p.OutOfStock, "partial fill is not out of stock")
	assert.True(t, p.Total.Equal(types.MustMoney("150")))
}

func TestCompute_OutOfStock(t *testing.T) {
	lines := []*setup.SetupItem{setupLine("Math Book", 2, "150")}

	res := Compute(lines, nil, stockFor("Math Book", 0), Options{TrackPricing: true})

	require.Len(t, res.Items, 1)
	p := res.Items[0]
	assert.Equal(t, 0, p.IssueQty)
	assert.True(t, p.OutOfStock)
	assert.True(t, p.Total.IsZero())
	assert.False(t, res.FullyDistributed, "out-of-stock lines still count as pending")
}

func TestCompute_SatisfiedItemOmitted(t *testing.T) {
	lines := []*setup.SetupItem{setupLine("Math Book", 2, "150")}
	history := []HistoryLine{{ItemName: "Math Book", Quantity: 2}}

	res := Compute(lines, history, stockFor("Math Book", 5), Options{TrackPricing: true})

	assert.Empty(t, res.Items)
	assert.True(t, res.FullyDistributed)
	assert.True(t, res.TotalAmount.IsZero())
}

func TestCompute_OverDistributedClampsToOmitted(t *testing.T) {
	lines := []*setup.SetupItem{setupLine("Math Book", 2, "150")}
	history := []HistoryLine{{ItemName: "Math Book", Quantity: 3}}

	res := Compute(lines, history, stockFor("Math Book", 5), Options{TrackPricing: true})

	assert.Empty(t, res.Items)
	assert.True(t, res.FullyDistributed)
}

func TestCompute_HistoryMatchesAcrossSpellings(t *testing.T) {
	lines := []*setup.SetupItem{setupLine("Math Book", 2, "150")}
	history := []HistoryLine{{ItemName: "  math   BOOK ", Quantity: 1}}

	res := Compute(lines, history, stockFor("Math Book", 5), Options{TrackPricing: true})

	require.Len(t, res.Items, 1)
	assert.Equal(t, 1, res.Items[0].Distributed)
	assert.Equal(t, 1, res.Items[0].Remaining)
	assert.Equal(t, 1, res.Items[0].IssueQty)
}

func TestCompute_PricingDisabledZeroesAmountsOnly(t *testing.T) {
	lines := []*setup.SetupItem{setupLine("Math Book", 2, "150")}

	res := Compute(lines, nil, stockFor("Math Book", 5), Options{TrackPricing: false})

	require.Len(t, res.Items, 1)
	p := res.Items[0]
	assert.Equal(t, 2, p.IssueQty, "quantity math unaffected by pricing toggle")
	assert.True(t, p.UnitPrice.IsZero())
	assert.True(t, p.Total.IsZero())
	assert.True(t, res.TotalAmount.IsZero())
}

func TestCompute_PreservesSetupOrder(t *testing.T) {
	lines := []*setup.SetupItem{
		setupLine("Science Book", 1, "200"),
		setupLine("Math Book", 1, "150"),
		setupLine("Notebook", 4, "30"),
	}
	stock := map[itemkey.Key]int{
		itemkey.Normalize("Science Book"): 10,
		itemkey.Normalize("Math Book"):    10,
		itemkey.Normalize("Notebook"):     10,
	}

	res := Compute(lines, nil, stock, Options{TrackPricing: true})

	require.Len(t, res.Items, 3)
	assert.Equal(t, "Science Book", res.Items[0].Name)
	assert.Equal(t, "Math Book", res.Items[1].Name)
	assert.Equal(t, "Notebook", res.Items[2].Name)
}

func TestCompute_EmptySetupIsNotFullyDistributed(t *testing.T) {
	res := Compute(nil, nil, nil, Options{})

	assert.Empty(t, res.Items)
	assert.False(t, res.FullyDistributed, "no setup means not configured, not done")
}

func TestCompute_NegativeStockTreatedAsZero(t *testing.T) {
	lines := []*setup.SetupItem{setupLine("Math Book", 2, "150")}

	res := Compute(lines, nil, stockFor("Math Book", -3), Options{TrackPricing: true})

	require.Len(t, res.Items, 1)
	assert.Equal(t, 0, res.Items[0].IssueQty)
	assert.True(t, res.Items[0].OutOfStock)
}

func TestCompute_Idempotent(t *testing.T) {
	lines := []*setup.SetupItem{
		setupLine("Math Book", 2, "150"),
		setupLine("Notebook", 6, "30"),
	}
	history := []HistoryLine{{ItemName: "Notebook", Quantity: 2}}
	stock := map[itemkey.Key]int{
		itemkey.Normalize("Math Book"): 1,
		itemkey.Normalize("Notebook"):  100,
	}

	first := Compute(lines, history, stock, Options{TrackPricing: true})
	second := Compute(lines, history, stock, Options{TrackPricing: true})

	assert.Equal(t, first, second)
}
