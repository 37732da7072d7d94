package dto

import (
	"time"

	"bookstock/internal/core/itemkey"
	"bookstock/internal/domain/registers/stock"
	"bookstock/internal/domain/stockreport"
)

// --- Request DTOs ---

// StockReportQuery selects the report mode, window and optional item.
type StockReportQuery struct {
	AcademicYear string `form:"academicYear" binding:"required"`
	Mode         string `form:"mode"`
	From         string `form:"from"`
	To           string `form:"to"`
	ItemName     string `form:"itemName"`
}

// ToFilter converts query to a report filter. Dates use YYYY-MM-DD.
func (q *StockReportQuery) ToFilter() (stockreport.Filter, error) {
	f := stockreport.Filter{Mode: stockreport.ModeOverall}
	if q.Mode != "" {
		f.Mode = stockreport.Mode(q.Mode)
	}
	if q.ItemName != "" {
		f.ItemKey = itemkey.Normalize(q.ItemName)
	}

	if q.From != "" {
		from, err := time.Parse("2006-01-02", q.From)
		if err != nil {
			return f, err
		}
		f.From = from
	}
	if q.To != "" {
		to, err := time.Parse("2006-01-02", q.To)
		if err != nil {
			return f, err
		}
		f.To = to
	}

	return f, nil
}

// --- Response DTOs ---

// StockRowResponse is one item's balance line.
type StockRowResponse struct {
	ItemID         string `json:"itemId"`
	Description    string `json:"description"`
	Unit           string `json:"unit,omitempty"`
	Category       string `json:"category,omitempty"`
	Standard       string `json:"standard"`
	OpeningBalance int    `json:"openingBalance"`
	PurchaseQty    int    `json:"purchaseQty"`
	IssuedQty      int    `json:"issuedQty"`
	BalanceQty     int    `json:"balanceQty"`
	ClosingBalance int    `json:"closingBalance"`
}

// StockTotalsResponse sums each numeric column.
type StockTotalsResponse struct {
	OpeningBalance int `json:"openingBalance"`
	PurchaseQty    int `json:"purchaseQty"`
	IssuedQty      int `json:"issuedQty"`
	BalanceQty     int `json:"balanceQty"`
	ClosingBalance int `json:"closingBalance"`
}

// StockGroupResponse is the rows of one standard with their subtotal.
type StockGroupResponse struct {
	Standard string              `json:"standard"`
	Rows     []StockRowResponse  `json:"rows"`
	Totals   StockTotalsResponse `json:"totals"`
}

// StockReportResponse is the full report payload.
type StockReportResponse struct {
	Mode   string               `json:"mode"`
	From   *time.Time           `json:"from,omitempty"`
	To     *time.Time           `json:"to,omitempty"`
	Groups []StockGroupResponse `json:"groups"`
	Rows   []StockRowResponse   `json:"rows"`
	Totals StockTotalsResponse  `json:"totals"`
}

func fromStockRow(r stockreport.StockRow) StockRowResponse {
	return StockRowResponse{
		ItemID:         r.ItemID.String(),
		Description:    r.Description,
		Unit:           r.Unit,
		Category:       r.Category,
		Standard:       r.Standard,
		OpeningBalance: r.Opening,
		PurchaseQty:    r.Purchased,
		IssuedQty:      r.Issued,
		BalanceQty:     r.Balance,
		ClosingBalance: r.Closing,
	}
}

func fromStockTotals(t stockreport.Totals) StockTotalsResponse {
	return StockTotalsResponse{
		OpeningBalance: t.Opening,
		PurchaseQty:    t.Purchased,
		IssuedQty:      t.Issued,
		BalanceQty:     t.Balance,
		ClosingBalance: t.Closing,
	}
}

// FromStockReport creates the response payload from a domain report.
func FromStockReport(rep *stockreport.Report) StockReportResponse {
	resp := StockReportResponse{
		Mode:   string(rep.Mode),
		From:   rep.From,
		To:     rep.To,
		Groups: make([]StockGroupResponse, 0, len(rep.Groups)),
		Rows:   make([]StockRowResponse, 0, len(rep.Flat)),
		Totals: fromStockTotals(rep.Totals),
	}

	for _, g := range rep.Groups {
		group := StockGroupResponse{
			Standard: g.Standard,
			Rows:     make([]StockRowResponse, 0, len(g.Rows)),
			Totals:   fromStockTotals(g.Totals),
		}
		for _, r := range g.Rows {
			group.Rows = append(group.Rows, fromStockRow(r))
		}
		resp.Groups = append(resp.Groups, group)
	}

	for _, r := range rep.Flat {
		resp.Rows = append(resp.Rows, fromStockRow(r))
	}

	return resp
}

// BalanceQuery filters the on-hand balance list.
type BalanceQuery struct {
	ExcludeZero bool `form:"excludeZero"`
}

// ToFilter converts query to a domain filter.
func (q *BalanceQuery) ToFilter() stock.BalanceFilter {
	return stock.BalanceFilter{ExcludeZero: q.ExcludeZero}
}

// BalanceResponse is one item's on-hand quantity.
type BalanceResponse struct {
	ItemID         string     `json:"itemId"`
	ItemName       string     `json:"itemName"`
	Quantity       int        `json:"quantity"`
	LastMovementAt *time.Time `json:"lastMovementAt,omitempty"`
}

// FromBalances creates responses from domain rows.
func FromBalances(rows []stock.BalanceRow) []BalanceResponse {
	result := make([]BalanceResponse, len(rows))
	for i, r := range rows {
		result[i] = BalanceResponse{
			ItemID:         r.ItemID.String(),
			ItemName:       r.ItemName,
			Quantity:       r.Quantity,
			LastMovementAt: r.LastMovementAt,
		}
	}
	return result
}
