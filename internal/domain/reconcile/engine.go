// Package reconcile computes what a student still has to receive.
//
// The engine is pure: it takes the requirement list, the student's
// distribution history and the current stock snapshot, and produces the
// issuable lines for one counter visit. Persistence and stock locking stay
// with the callers.
package reconcile

import (
	"bookstock/internal/core/id"
	"bookstock/internal/core/itemkey"
	"bookstock/internal/core/types"
	"bookstock/internal/domain/setup"
)

// HistoryLine is one previously distributed quantity for the student.
type HistoryLine struct {
	ItemName string
	Quantity int
}

// Options tune a single computation.
type Options struct {
	// TrackPricing controls whether monetary columns are filled.
	// Quantity math is identical either way.
	TrackPricing bool
}

// PendingItem is one line the student is still owed.
type PendingItem struct {
	ItemID   id.ID       `json:"itemId"`
	Name     string      `json:"name"`
	Key      itemkey.Key `json:"-"`
	Unit     string      `json:"unit,omitempty"`
	Required int         `json:"requiredQty"`

	// Distributed is what the student already received across all visits
	Distributed int `json:"distributedQty"`

	// Remaining = Required - Distributed, never negative
	Remaining int `json:"remainingQty"`

	// CurrentStock is the on-hand quantity at computation time
	CurrentStock int `json:"currentStock"`

	// IssueQty = min(Remaining, CurrentStock)
	IssueQty int `json:"issueQty"`

	// OutOfStock marks lines that cannot be served at all right now
	OutOfStock bool `json:"outOfStock"`

	UnitPrice types.Money `json:"unitPrice"`
	Total     types.Money `json:"total"`
}

// Result is the outcome of one reconciliation pass.
type Result struct {
	// Items lists what can or should be issued, in setup order.
	// Fully satisfied requirements are omitted.
	Items []PendingItem `json:"items"`

	// FullyDistributed is true when the setup exists but nothing remains.
	FullyDistributed bool `json:"fullyDistributed"`

	// TotalAmount sums the line totals (zero when pricing is off).
	TotalAmount types.Money `json:"totalAmount"`
}

// Compute reconciles the requirement list against history and stock.
//
// The setup lines must already be duplicate-free (the setup service enforces
// its duplicate policy on save). History lines are matched by normalized name
// so spelling variants collapse onto the same requirement.
func Compute(setupLines []*setup.SetupItem, history []HistoryLine, stock map[itemkey.Key]int, opts Options) Result {
	distributed := make(map[itemkey.Key]int, len(history))
	for _, h := range history {
		distributed[itemkey.Normalize(h.ItemName)] += h.Quantity
	}

	res := Result{
		Items:       make([]PendingItem, 0, len(setupLines)),
		TotalAmount: types.ZeroMoney(),
	}

	for _, line := range setupLines {
		key := line.Key
		if key.IsEmpty() {
			key = itemkey.Normalize(line.ItemName)
		}

		remaining := line.RequiredQty - distributed[key]
		if remaining <= 0 {
			continue
		}

		onHand := stock[key]
		if onHand < 0 {
			onHand = 0
		}

		issue := remaining
		if onHand < issue {
			issue = onHand
		}

		p := PendingItem{
			ItemID:       line.ItemID,
			Name:         line.ItemName,
			Key:          key,
			Required:     line.RequiredQty,
			Distributed:  distributed[key],
			Remaining:    remaining,
			CurrentStock: onHand,
			IssueQty:     issue,
			OutOfStock:   issue == 0,
			UnitPrice:    types.ZeroMoney(),
			Total:        types.ZeroMoney(),
		}

		if opts.TrackPricing {
			p.UnitPrice = line.Amount
			p.Total = types.MulQty(line.Amount, issue)
			res.TotalAmount = res.TotalAmount.Add(p.Total)
		}

		res.Items = append(res.Items, p)
	}

	res.FullyDistributed = len(res.Items) == 0 && len(setupLines) > 0
	return res
}
