package stockreport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/itemkey"
)

func day(d int) time.Time {
	return time.Date(2026, time.January, d, 10, 30, 0, 0, time.UTC)
}

func entry(name string, d, qty int) LedgerEntry {
	return LedgerEntry{ItemName: name, Date: day(d), Quantity: qty}
}

func TestBuild_OverallMode(t *testing.T) {
	purchases := []LedgerEntry{
		entry("Math Book", 1, 60),
		entry("Math Book", 15, 40),
	}
	issues := []LedgerEntry{
		entry("Math Book", 2, 20),
		entry("math book", 20, 15),
	}

	rep, err := Build(purchases, issues, nil, Filter{Mode: ModeOverall})
	require.NoError(t, err)

	require.Len(t, rep.Flat, 1)
	row := rep.Flat[0]
	assert.Equal(t, 0, row.Opening)
	assert.Equal(t, 100, row.Purchased)
	assert.Equal(t, 35, row.Issued)
	assert.Equal(t, 65, row.Balance)
	assert.Equal(t, 65, row.Closing)
}

func TestBuild_DateWiseOpening(t *testing.T) {
	purchases := []LedgerEntry{
		entry("Math Book", 1, 50),
		entry("Math Book", 10, 30),
	}
	issues := []LedgerEntry{
		entry("Math Book", 3, 10),
		entry("Math Book", 12, 5),
	}

	rep, err := Build(purchases, issues, nil, DateWiseFilter(day(10), day(20)))
	require.NoError(t, err)

	require.Len(t, rep.Flat, 1)
	row := rep.Flat[0]
	assert.Equal(t, 40, row.Opening, "purchases minus issues strictly before the window")
	assert.Equal(t, 30, row.Purchased)
	assert.Equal(t, 5, row.Issued)
	assert.Equal(t, 65, row.Closing)
}

func TestBuild_WindowBoundsInclusive(t *testing.T) {
	purchases := []LedgerEntry{
		entry("Notebook", 10, 7),
		entry("Notebook", 20, 3),
	}

	rep, err := Build(purchases, nil, nil, DateWiseFilter(day(10), day(20)))
	require.NoError(t, err)

	require.Len(t, rep.Flat, 1)
	assert.Equal(t, 10, rep.Flat[0].Purchased, "both boundary days count")
}

func TestBuild_InvalidDateRange(t *testing.T) {
	t.Run("reversed", func(t *testing.T) {
		_, err := Build(nil, nil, nil, DateWiseFilter(day(20), day(10)))
		require.Error(t, err)
		assert.True(t, apperror.IsCode(err, apperror.CodeInvalidDateRange))
	})

	t.Run("missing bound", func(t *testing.T) {
		_, err := Build(nil, nil, nil, Filter{Mode: ModeDateWise, From: day(1)})
		require.Error(t, err)
		assert.True(t, apperror.IsCode(err, apperror.CodeInvalidDateRange))
	})
}

func TestBuild_ClosingConsistency(t *testing.T) {
	purchases := []LedgerEntry{
		entry("Math Book", 1, 50),
		entry("Notebook", 5, 80),
		entry("Science Book", 8, 20),
	}
	issues := []LedgerEntry{
		entry("Math Book", 6, 12),
		entry("Notebook", 9, 30),
	}

	for _, f := range []Filter{{Mode: ModeOverall}, DateWiseFilter(day(5), day(25))} {
		rep, err := Build(purchases, issues, nil, f)
		require.NoError(t, err)

		for _, row := range rep.Flat {
			assert.Equal(t, row.Opening+row.Purchased-row.Issued, row.Closing,
				"row %s in mode %s", row.Description, f.Mode)
		}
		assert.Equal(t, rep.Totals.Opening+rep.Totals.Purchased-rep.Totals.Issued, rep.Totals.Closing)

		for _, g := range rep.Groups {
			assert.Equal(t, g.Totals.Opening+g.Totals.Purchased-g.Totals.Issued, g.Totals.Closing)
		}
	}
}

func TestBuild_WindowAdditivity(t *testing.T) {
	purchases := []LedgerEntry{
		entry("Math Book", 2, 10),
		entry("Math Book", 12, 20),
		entry("Math Book", 22, 30),
	}
	issues := []LedgerEntry{
		entry("Math Book", 4, 5),
		entry("Math Book", 14, 8),
		entry("Math Book", 24, 2),
	}

	first, err := Build(purchases, issues, nil, DateWiseFilter(day(1), day(15)))
	require.NoError(t, err)
	second, err := Build(purchases, issues, nil, DateWiseFilter(day(16), day(28)))
	require.NoError(t, err)
	whole, err := Build(purchases, issues, nil, DateWiseFilter(day(1), day(28)))
	require.NoError(t, err)

	assert.Equal(t, whole.Totals.Purchased, first.Totals.Purchased+second.Totals.Purchased)
	assert.Equal(t, whole.Totals.Issued, first.Totals.Issued+second.Totals.Issued)
	assert.Equal(t, whole.Flat[0].Closing, second.Flat[0].Closing,
		"second window's closing continues from the whole range")
}

func TestBuild_GroupingByStandard(t *testing.T) {
	meta := map[itemkey.Key]ItemMeta{
		itemkey.Normalize("Math Book"):    {Description: "Math Book", Standard: "10"},
		itemkey.Normalize("Notebook"):     {Description: "Notebook", Standard: "2"},
		itemkey.Normalize("Science Book"): {Description: "Science Book", Standard: "2"},
	}
	purchases := []LedgerEntry{
		entry("Math Book", 1, 5),
		entry("Science Book", 1, 6),
		entry("Notebook", 1, 7),
	}

	rep, err := Build(purchases, nil, meta, Filter{Mode: ModeOverall})
	require.NoError(t, err)

	require.Len(t, rep.Groups, 2)
	assert.Equal(t, "2", rep.Groups[0].Standard, "standard 2 sorts before 10")
	assert.Equal(t, "10", rep.Groups[1].Standard)

	require.Len(t, rep.Groups[0].Rows, 2)
	assert.Equal(t, "Notebook", rep.Groups[0].Rows[0].Description, "rows sorted by description")
	assert.Equal(t, 13, rep.Groups[0].Totals.Purchased)
}

func TestBuild_SingleItemFilter(t *testing.T) {
	purchases := []LedgerEntry{
		entry("Math Book", 1, 5),
		entry("Notebook", 1, 7),
	}

	rep, err := Build(purchases, nil, nil, Filter{
		Mode:    ModeOverall,
		ItemKey: itemkey.Normalize("  MATH   book"),
	})
	require.NoError(t, err)

	require.Len(t, rep.Flat, 1)
	assert.Equal(t, "Math Book", rep.Flat[0].Description)
}

func TestBuild_AllZeroRowsDropped(t *testing.T) {
	purchases := []LedgerEntry{entry("Math Book", 25, 5)}

	rep, err := Build(purchases, nil, nil, DateWiseFilter(day(1), day(10)))
	require.NoError(t, err)

	assert.Empty(t, rep.Flat, "activity entirely after the window produces no rows")
}

func TestBuild_EmptyLedgersIsValidEmptyResult(t *testing.T) {
	rep, err := Build(nil, nil, nil, Filter{Mode: ModeOverall})
	require.NoError(t, err)
	assert.Empty(t, rep.Flat)
	assert.Empty(t, rep.Groups)
	assert.Equal(t, Totals{}, rep.Totals)
}

func TestNaturalLess(t *testing.T) {
	assert.True(t, naturalLess("2", "10"))
	assert.True(t, naturalLess("9", "10A"))
	assert.True(t, naturalLess("10A", "10B"))
	assert.False(t, naturalLess("10", "2"))
	assert.True(t, naturalLess("", "1"))
}
