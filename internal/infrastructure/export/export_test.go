package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"bookstock/internal/core/id"
	"bookstock/internal/core/types"
	"bookstock/internal/domain/reconcile"
	"bookstock/internal/domain/stockreport"
)

func sampleReport() *stockreport.Report {
	row := stockreport.StockRow{
		ItemID:      id.New(),
		Description: "English Reader",
		Unit:        "pcs",
		Category:    "book",
		Standard:    "5",
		Opening:     10,
		Purchased:   100,
		Issued:      35,
		Balance:     65,
		Closing:     75,
	}

	totals := stockreport.Totals{
		Opening: 10, Purchased: 100, Issued: 35, Balance: 65, Closing: 75,
	}

	return &stockreport.Report{
		Mode: stockreport.ModeOverall,
		Groups: []stockreport.Group{
			{Standard: "5", Rows: []stockreport.StockRow{row}, Totals: totals},
		},
		Flat:   []stockreport.StockRow{row},
		Totals: totals,
	}
}

func TestWriteStockReportXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStockReportXLSX(&buf, sampleReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(reportSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Standard", header)

	name, err := f.GetCellValue(reportSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "English Reader", name)

	purchased, err := f.GetCellValue(reportSheet, "F2")
	require.NoError(t, err)
	assert.Equal(t, "100", purchased)

	// row 2 item, row 3 group subtotal, row 4 grand total
	total, err := f.GetCellValue(reportSheet, "A4")
	require.NoError(t, err)
	assert.Equal(t, "Grand total", total)
}

func TestWriteStockReportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStockReportCSV(&buf, sampleReport()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, stockHeader, records[0])
	assert.Equal(t, "English Reader", records[1][1])
	assert.Equal(t, "35", records[1][6])
	assert.Equal(t, "Grand total", records[2][0])
}

func samplePending() *reconcile.Result {
	return &reconcile.Result{
		Items: []reconcile.PendingItem{
			{
				ItemID:       id.New(),
				Name:         "Science Workbook",
				Unit:         "pcs",
				Required:     2,
				Distributed:  1,
				Remaining:    1,
				CurrentStock: 4,
				IssueQty:     1,
				UnitPrice:    types.MustMoney("120"),
				Total:        types.MustMoney("120"),
			},
		},
		TotalAmount: types.MustMoney("120"),
	}
}

func TestWritePendingXLSX(t *testing.T) {
	res := samplePending()

	var buf bytes.Buffer
	require.NoError(t, WritePendingXLSX(&buf, res))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue(pendingSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Science Workbook", name)

	issue, err := f.GetCellValue(pendingSheet, "G2")
	require.NoError(t, err)
	assert.Equal(t, "1", issue)
}

func TestWritePendingCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePendingCSV(&buf, samplePending()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, pendingHeader, records[0])
	assert.Equal(t, "Science Workbook", records[1][0])
	assert.Equal(t, "pcs", records[1][1])
	assert.Equal(t, "1", records[1][6])
	assert.Equal(t, "120", records[1][7])
}
