package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"bookstock/internal/domain/reconcile"
	"bookstock/internal/domain/stockreport"
)

// WriteStockReportCSV renders the flat view of the report, one row per item,
// with a trailing totals row. Groups are not repeated in CSV output.
func WriteStockReportCSV(w io.Writer, rep *stockreport.Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(stockHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range rep.Flat {
		record := []string{
			r.Standard, r.Description, r.Unit, r.Category,
			strconv.Itoa(r.Opening), strconv.Itoa(r.Purchased),
			strconv.Itoa(r.Issued), strconv.Itoa(r.Balance),
			strconv.Itoa(r.Closing),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	totals := []string{
		"Grand total", "", "", "",
		strconv.Itoa(rep.Totals.Opening), strconv.Itoa(rep.Totals.Purchased),
		strconv.Itoa(rep.Totals.Issued), strconv.Itoa(rep.Totals.Balance),
		strconv.Itoa(rep.Totals.Closing),
	}
	if err := cw.Write(totals); err != nil {
		return fmt.Errorf("write totals: %w", err)
	}

	cw.Flush()
	return cw.Error()
}

// WritePendingCSV renders a student's pending-item list, one row per line.
func WritePendingCSV(w io.Writer, res *reconcile.Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(pendingHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, it := range res.Items {
		record := []string{
			it.Name, it.Unit,
			strconv.Itoa(it.Required), strconv.Itoa(it.Distributed),
			strconv.Itoa(it.Remaining), strconv.Itoa(it.CurrentStock),
			strconv.Itoa(it.IssueQty),
			it.UnitPrice.String(), it.Total.String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
