// Package export renders stock reports and pending-item lists into
// downloadable XLSX and CSV files. It is format-only: all numbers come in
// already computed.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"bookstock/internal/domain/reconcile"
	"bookstock/internal/domain/stockreport"
)

const reportSheet = "Stock Report"

var stockHeader = []string{
	"Standard", "Item", "Unit", "Category",
	"Opening", "Purchased", "Issued", "Balance", "Closing",
}

// WriteStockReportXLSX renders the report grouped by standard, one row per
// item plus a subtotal row per group and a grand total at the bottom.
func WriteStockReportXLSX(w io.Writer, rep *stockreport.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(reportSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	if err := setRow(f, 1, toAny(stockHeader)); err != nil {
		return err
	}

	row := 2
	for _, g := range rep.Groups {
		for _, r := range g.Rows {
			if err := setRow(f, row, stockRowCells(r)); err != nil {
				return err
			}
			row++
		}
		cells := []any{
			g.Standard + " total", "", "", "",
			g.Totals.Opening, g.Totals.Purchased, g.Totals.Issued,
			g.Totals.Balance, g.Totals.Closing,
		}
		if err := setRow(f, row, cells); err != nil {
			return err
		}
		row++
	}

	total := []any{
		"Grand total", "", "", "",
		rep.Totals.Opening, rep.Totals.Purchased, rep.Totals.Issued,
		rep.Totals.Balance, rep.Totals.Closing,
	}
	if err := setRow(f, row, total); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

const pendingSheet = "Pending Items"

var pendingHeader = []string{
	"Item", "Unit", "Required", "Distributed", "Remaining",
	"In Stock", "To Issue", "Unit Price", "Total",
}

// WritePendingXLSX renders a student's pending-item list.
func WritePendingXLSX(w io.Writer, res *reconcile.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(pendingSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	if err := setRowIn(f, pendingSheet, 1, toAny(pendingHeader)); err != nil {
		return err
	}

	for i, it := range res.Items {
		cells := []any{
			it.Name, it.Unit, it.Required, it.Distributed, it.Remaining,
			it.CurrentStock, it.IssueQty, it.UnitPrice.String(), it.Total.String(),
		}
		if err := setRowIn(f, pendingSheet, i+2, cells); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func stockRowCells(r stockreport.StockRow) []any {
	return []any{
		r.Standard, r.Description, r.Unit, r.Category,
		r.Opening, r.Purchased, r.Issued, r.Balance, r.Closing,
	}
}

func setRow(f *excelize.File, row int, cells []any) error {
	return setRowIn(f, reportSheet, row, cells)
}

func setRowIn(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("set row %d: %w", row, err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
