// Package stockreport computes opening/purchase/issued/closing balance
// tables over the purchase and distribution ledgers.
//
// The aggregator is pure: callers fetch the ledger lines and item metadata,
// the aggregator only sums and groups.
package stockreport

import (
	"time"

	"bookstock/internal/core/id"
	"bookstock/internal/core/itemkey"
)

// Mode selects the balance window.
type Mode string

const (
	// ModeOverall sums both ledgers with no date bound; opening is zero.
	ModeOverall Mode = "overall"

	// ModeDateWise bounds period sums to [From, To] and carries the
	// cumulative balance before From as the opening.
	ModeDateWise Mode = "datewise"
)

// LedgerEntry is one purchase or issuance line as the aggregator sees it.
type LedgerEntry struct {
	ItemName string
	Date     time.Time
	Quantity int
}

// ItemMeta carries display attributes and the standard an item is
// attributed to (from the setup registry).
type ItemMeta struct {
	ItemID      id.ID
	Description string
	Unit        string
	Category    string
	Standard    string
}

// Filter selects mode, window and an optional single item.
type Filter struct {
	Mode Mode

	// From/To bound date-wise reports (inclusive, date precision).
	// Both are required in date-wise mode and ignored in overall mode.
	From time.Time
	To   time.Time

	// ItemKey restricts both ledgers to one item before grouping.
	ItemKey itemkey.Key
}

// StockRow is one item's balance line.
type StockRow struct {
	ItemID      id.ID       `json:"itemId"`
	Key         itemkey.Key `json:"-"`
	Description string      `json:"description"`
	Unit        string      `json:"unit,omitempty"`
	Category    string      `json:"category,omitempty"`
	Standard    string      `json:"standard"`

	Opening   int `json:"openingBalance"`
	Purchased int `json:"purchaseQty"`
	Issued    int `json:"issuedQty"`

	// Balance = Purchased - Issued (period delta)
	Balance int `json:"balanceQty"`

	// Closing = Opening + Balance
	Closing int `json:"closingBalance"`
}

// Totals sums each numeric column of a view.
type Totals struct {
	Opening   int `json:"openingBalance"`
	Purchased int `json:"purchaseQty"`
	Issued    int `json:"issuedQty"`
	Balance   int `json:"balanceQty"`
	Closing   int `json:"closingBalance"`
}

func (t *Totals) add(r StockRow) {
	t.Opening += r.Opening
	t.Purchased += r.Purchased
	t.Issued += r.Issued
	t.Balance += r.Balance
	t.Closing += r.Closing
}

// Group is the rows of one standard with their subtotal.
type Group struct {
	Standard string     `json:"standard"`
	Rows     []StockRow `json:"rows"`
	Totals   Totals     `json:"totals"`
}

// Report is the full result: grouped and flat views share the same rows.
type Report struct {
	Mode   Mode       `json:"mode"`
	From   *time.Time `json:"from,omitempty"`
	To     *time.Time `json:"to,omitempty"`
	Groups []Group    `json:"groups"`
	Flat   []StockRow `json:"rows"`
	Totals Totals     `json:"totals"`
}
