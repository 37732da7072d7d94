package distribution

import (
	"context"
	"fmt"
	"strings"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/entity"
	"bookstock/internal/core/id"
	"bookstock/internal/core/tx"
	"bookstock/internal/core/types"
	"bookstock/internal/domain"
	"bookstock/internal/domain/catalogs/item"
	"bookstock/internal/domain/reconcile"
	"bookstock/internal/domain/registers/stock"
	"bookstock/internal/domain/setup"
	"bookstock/pkg/logger"
	"bookstock/pkg/numerator"
)

// NumberPrefix for bill numbers.
const NumberPrefix = "BILL"

// RecorderType identifies bill movements in the stock register.
const RecorderType = "DistributionBill"

// SetupList is the slice of the setup service this workflow needs.
type SetupList interface {
	ListByStandard(ctx context.Context, standard, academicYear string) ([]*setup.SetupItem, error)
}

// ItemLookup resolves item master attributes for display.
type ItemLookup interface {
	GetByIDs(ctx context.Context, ids []id.ID) ([]*item.Item, error)
}

// Service provides business operations for distribution bills.
type Service struct {
	repo      Repository
	setup     SetupList
	stock     *stock.Service
	items     ItemLookup
	numerator numerator.Generator
	txManager tx.Manager
}

// NewService creates a new distribution service.
func NewService(
	repo Repository,
	setupSvc SetupList,
	stockSvc *stock.Service,
	items ItemLookup,
	gen numerator.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		setup:     setupSvc,
		stock:     stockSvc,
		items:     items,
		numerator: gen,
		txManager: txManager,
	}
}

// PrepareVisit computes what a student should receive at the counter.
// Returns NOT_CONFIGURED when the standard has no requirement list.
func (s *Service) PrepareVisit(ctx context.Context, admissionNo, standard, academicYear string, opts reconcile.Options) (*reconcile.Result, error) {
	setupLines, err := s.setup.ListByStandard(ctx, standard, academicYear)
	if err != nil {
		return nil, err
	}

	historyRows, err := s.repo.HistoryByStudent(ctx, admissionNo, academicYear)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	history := make([]reconcile.HistoryLine, 0, len(historyRows))
	for _, h := range historyRows {
		history = append(history, reconcile.HistoryLine{
			ItemName: h.ItemName,
			Quantity: h.Quantity,
		})
	}

	onHand, err := s.stock.OnHandByKey(ctx)
	if err != nil {
		return nil, err
	}

	res := reconcile.Compute(setupLines, history, onHand, opts)

	if err := s.fillUnits(ctx, res.Items); err != nil {
		return nil, err
	}
	return &res, nil
}

// fillUnits copies units of measure from the item master onto pending
// lines. The setup register only stores names and quantities.
func (s *Service) fillUnits(ctx context.Context, pending []reconcile.PendingItem) error {
	itemIDs := make([]id.ID, 0, len(pending))
	for _, p := range pending {
		if !id.IsNil(p.ItemID) {
			itemIDs = append(itemIDs, p.ItemID)
		}
	}
	if len(itemIDs) == 0 {
		return nil
	}

	items, err := s.items.GetByIDs(ctx, itemIDs)
	if err != nil {
		return fmt.Errorf("load items: %w", err)
	}

	units := make(map[id.ID]string, len(items))
	for _, it := range items {
		units[it.ID] = it.Unit
	}
	for i := range pending {
		pending[i].Unit = units[pending[i].ItemID]
	}
	return nil
}

// Save posts a bill: it issues stock and records the bill in one
// transaction. Stock is decremented conditionally per line, so the save
// fails with INSUFFICIENT_STOCK when another counter got there first.
//
// Save is idempotent on ClientTxID: retrying a save whose transaction
// already committed returns the stored bill with its original number.
func (s *Service) Save(ctx context.Context, bill *DistributionBill) (*DistributionBill, error) {
	if !bill.TrackPricing {
		s.zeroAmounts(bill)
	}

	if err := bill.Validate(ctx); err != nil {
		return nil, err
	}

	existing, err := s.getByClientTxID(ctx, bill.ClientTxID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		logger.Info(ctx, "bill save replayed",
			"client_tx_id", bill.ClientTxID,
			"number", existing.Number,
		)
		return existing, nil
	}

	bill.MarkPosted()

	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		// The strict sequence update joins this transaction: a save that
		// fails on stock or a duplicate rolls the number back instead of
		// leaving a gap in the bill series.
		if bill.Number == "" {
			number, err := s.numerator.GetNextNumber(txCtx,
				numerator.DefaultConfig(NumberPrefix),
				&numerator.Options{Strategy: numerator.StrategyStrict},
				bill.Date,
			)
			if err != nil {
				return fmt.Errorf("generate bill number: %w", err)
			}
			bill.Number = number
		}

		movements := make([]entity.StockMovement, 0, len(bill.Lines))
		for _, line := range bill.Lines {
			movements = append(movements, entity.NewStockMovement(
				bill.ID, RecorderType, bill.PostedVersion,
				bill.Date, entity.RecordTypeExpense,
				line.ItemID, line.Quantity,
			))
		}

		if err := s.stock.IssueStock(txCtx, movements); err != nil {
			return err
		}

		if err := s.repo.Create(txCtx, bill); err != nil {
			return fmt.Errorf("create bill: %w", err)
		}
		return s.repo.SaveLines(txCtx, bill.ID, bill.Lines)
	})
	if err != nil {
		// Two concurrent saves with the same ClientTxID race to the unique
		// index; the loser replays the winner's bill.
		if apperror.IsCode(err, apperror.CodeDuplicate) {
			if stored, lookupErr := s.getByClientTxID(ctx, bill.ClientTxID); lookupErr == nil && stored != nil {
				return stored, nil
			}
		}
		return nil, err
	}

	logger.Info(ctx, "bill saved",
		"id", bill.ID,
		"number", bill.Number,
		"admission_no", bill.AdmissionNo,
		"lines", len(bill.Lines),
		"total", bill.TotalAmount,
	)
	return bill, nil
}

// GetByID retrieves a bill with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*DistributionBill, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// History returns all issued lines for a student in a year.
func (s *Service) History(ctx context.Context, admissionNo, academicYear string) ([]HistoryRow, error) {
	admissionNo = strings.TrimSpace(admissionNo)
	if admissionNo == "" {
		return nil, apperror.NewValidation("admission number is required").
			WithDetail("field", "admissionNo")
	}
	return s.repo.HistoryByStudent(ctx, admissionNo, academicYear)
}

// List retrieves bills with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*DistributionBill], error) {
	return s.repo.List(ctx, filter)
}

// ListLines returns posted bill lines for reporting.
func (s *Service) ListLines(ctx context.Context, filter LineFilter) ([]LedgerLine, error) {
	return s.repo.ListLines(ctx, filter)
}

func (s *Service) getByClientTxID(ctx context.Context, clientTxID string) (*DistributionBill, error) {
	stored, err := s.repo.GetByClientTxID(ctx, clientTxID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("check client tx id: %w", err)
	}

	lines, err := s.repo.GetLines(ctx, stored.ID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	stored.Lines = lines
	return stored, nil
}

// zeroAmounts clears monetary fields when pricing is not tracked.
// Quantities are untouched.
func (s *Service) zeroAmounts(bill *DistributionBill) {
	for i := range bill.Lines {
		bill.Lines[i].UnitPrice = types.ZeroMoney()
		bill.Lines[i].Amount = types.ZeroMoney()
	}
	bill.TotalAmount = types.ZeroMoney()
	bill.PayMode = PayModeNone
	bill.PayReference = ""
}
