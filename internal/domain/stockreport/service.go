package stockreport

import (
	"context"
	"fmt"
	"sort"
	"time"

	"bookstock/internal/core/id"
	"bookstock/internal/core/itemkey"
	"bookstock/internal/domain/catalogs/item"
	"bookstock/internal/domain/documents/distribution"
	"bookstock/internal/domain/documents/purchase"
	"bookstock/internal/domain/setup"
)

// PurchaseLedger feeds posted purchase lines.
type PurchaseLedger interface {
	ListLines(ctx context.Context, filter purchase.LineFilter) ([]purchase.LedgerLine, error)
}

// DistributionLedger feeds posted bill lines.
type DistributionLedger interface {
	ListLines(ctx context.Context, filter distribution.LineFilter) ([]distribution.LedgerLine, error)
}

// ItemLookup resolves item display attributes.
type ItemLookup interface {
	GetByIDs(ctx context.Context, ids []id.ID) ([]*item.Item, error)
}

// Service fetches both ledgers and runs the aggregator.
type Service struct {
	purchases PurchaseLedger
	bills     DistributionLedger
	setup     setup.Repository
	items     ItemLookup
}

// NewService creates a new report service.
func NewService(purchases PurchaseLedger, bills DistributionLedger, setupRepo setup.Repository, items ItemLookup) *Service {
	return &Service{
		purchases: purchases,
		bills:     bills,
		setup:     setupRepo,
		items:     items,
	}
}

// StockReport builds the balance report for one academic year.
func (s *Service) StockReport(ctx context.Context, academicYear string, f Filter) (*Report, error) {
	// Date-wise opening balances reach before the window, so the ledger
	// fetch is never date-bounded here; the aggregator assigns each line
	// to opening or period itself.
	var itemID *id.ID

	meta, err := s.buildMeta(ctx, academicYear)
	if err != nil {
		return nil, err
	}

	if !f.ItemKey.IsEmpty() {
		if m, ok := meta[f.ItemKey]; ok && !id.IsNil(m.ItemID) {
			filterID := m.ItemID
			itemID = &filterID
		}
	}

	purchaseLines, err := s.purchases.ListLines(ctx, purchase.LineFilter{
		AcademicYear: academicYear,
		ItemID:       itemID,
	})
	if err != nil {
		return nil, fmt.Errorf("load purchase lines: %w", err)
	}

	billLines, err := s.bills.ListLines(ctx, distribution.LineFilter{
		AcademicYear: academicYear,
		ItemID:       itemID,
	})
	if err != nil {
		return nil, fmt.Errorf("load distribution lines: %w", err)
	}

	purchases := make([]LedgerEntry, 0, len(purchaseLines))
	for _, l := range purchaseLines {
		purchases = append(purchases, LedgerEntry{
			ItemName: l.ItemName,
			Date:     l.Date,
			Quantity: l.Quantity,
		})
	}

	issues := make([]LedgerEntry, 0, len(billLines))
	for _, l := range billLines {
		issues = append(issues, LedgerEntry{
			ItemName: l.ItemName,
			Date:     l.Date,
			Quantity: l.Quantity,
		})
	}

	return Build(purchases, issues, meta, f)
}

// buildMeta attributes each item to the first standard (in natural order)
// whose setup list contains it, and fills display attributes from the item
// master.
func (s *Service) buildMeta(ctx context.Context, academicYear string) (map[itemkey.Key]ItemMeta, error) {
	standards, err := s.setup.ListStandards(ctx, academicYear)
	if err != nil {
		return nil, fmt.Errorf("list standards: %w", err)
	}
	sort.Slice(standards, func(i, j int) bool { return naturalLess(standards[i], standards[j]) })

	meta := make(map[itemkey.Key]ItemMeta)
	itemIDs := make([]id.ID, 0)

	for _, std := range standards {
		lines, err := s.setup.ListByStandard(ctx, std, academicYear)
		if err != nil {
			return nil, fmt.Errorf("list setup for %s: %w", std, err)
		}
		for _, line := range lines {
			if _, ok := meta[line.Key]; ok {
				continue
			}
			meta[line.Key] = ItemMeta{
				ItemID:      line.ItemID,
				Description: line.ItemName,
				Standard:    std,
			}
			itemIDs = append(itemIDs, line.ItemID)
		}
	}

	if len(itemIDs) == 0 {
		return meta, nil
	}

	items, err := s.items.GetByIDs(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}

	byID := make(map[id.ID]*item.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	for key, m := range meta {
		if it, ok := byID[m.ItemID]; ok {
			m.Description = it.Name
			m.Unit = it.Unit
			m.Category = string(it.Category)
			meta[key] = m
		}
	}

	return meta, nil
}

// DateWiseFilter is a convenience constructor with range validation left to
// the aggregator.
func DateWiseFilter(from, to time.Time) Filter {
	return Filter{Mode: ModeDateWise, From: from, To: to}
}
