package stock

import (
	"context"
	"fmt"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/entity"
	"bookstock/internal/core/id"
	"bookstock/internal/core/itemkey"
	"bookstock/pkg/logger"
)

// Service provides business operations for the stock register.
// Transactions are managed by the caller (document posting).
type Service struct {
	repo Repository
}

// NewService creates a new stock register service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RecordReceipts records receipt movements from a purchase posting.
func (s *Service) RecordReceipts(ctx context.Context, movements []entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	for i, m := range movements {
		if m.RecordType != entity.RecordTypeReceipt {
			return apperror.NewValidation(fmt.Sprintf("movement %d: expected receipt record type", i))
		}
		if err := validateMovement(i, m); err != nil {
			return err
		}
	}

	for _, m := range movements {
		if err := s.repo.IncrementBalance(ctx, m.ItemID, m.Quantity, m.Period); err != nil {
			return fmt.Errorf("increment balance for %s: %w", m.ItemID, err)
		}
	}

	if err := s.repo.CreateMovements(ctx, movements); err != nil {
		return fmt.Errorf("create movements: %w", err)
	}

	logger.Info(ctx, "recorded stock receipts",
		"count", len(movements),
		"recorder_id", movements[0].RecorderID,
	)
	return nil
}

// IssueStock decrements balances and records expense movements for a
// distribution. Each decrement is conditional: when on-hand is short the
// whole call fails with INSUFFICIENT_STOCK and the caller's transaction
// rolls back, so a bill can never oversell what two counters saw at once.
func (s *Service) IssueStock(ctx context.Context, movements []entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	for i, m := range movements {
		if m.RecordType != entity.RecordTypeExpense {
			return apperror.NewValidation(fmt.Sprintf("movement %d: expected expense record type", i))
		}
		if err := validateMovement(i, m); err != nil {
			return err
		}
	}

	for _, m := range movements {
		available, ok, err := s.repo.TryDecrement(ctx, m.ItemID, m.Quantity)
		if err != nil {
			return fmt.Errorf("decrement stock for %s: %w", m.ItemID, err)
		}
		if !ok {
			return apperror.NewInsufficientStock(m.ItemID.String(), m.Quantity, available)
		}
	}

	if err := s.repo.CreateMovements(ctx, movements); err != nil {
		return fmt.Errorf("create movements: %w", err)
	}

	logger.Info(ctx, "issued stock",
		"count", len(movements),
		"recorder_id", movements[0].RecorderID,
	)
	return nil
}

// ReverseMovements undoes a document's balance effect and removes its
// movements (used during unposting). Reversing a receipt takes stock back
// out, so it runs through the same conditional decrement as an issuance
// and fails with INSUFFICIENT_STOCK when the received quantities were
// already distributed. A plain read-then-subtract would let a concurrent
// bill drive the balance negative between the check and the update.
func (s *Service) ReverseMovements(ctx context.Context, recorderID id.ID) error {
	movements, err := s.repo.GetMovementsByRecorder(ctx, recorderID)
	if err != nil {
		return fmt.Errorf("load movements: %w", err)
	}

	for _, m := range movements {
		switch m.RecordType {
		case entity.RecordTypeReceipt:
			available, ok, err := s.repo.TryDecrement(ctx, m.ItemID, m.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock for %s: %w", m.ItemID, err)
			}
			if !ok {
				return apperror.NewInsufficientStock(m.ItemID.String(), m.Quantity, available)
			}
		case entity.RecordTypeExpense:
			if err := s.repo.IncrementBalance(ctx, m.ItemID, m.Quantity, m.Period); err != nil {
				return fmt.Errorf("increment balance for %s: %w", m.ItemID, err)
			}
		}
	}

	if err := s.repo.DeleteMovementsByRecorder(ctx, recorderID); err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}

	logger.Info(ctx, "reversed stock movements",
		"recorder_id", recorderID,
		"count", len(movements),
	)
	return nil
}

// GetBalance returns the on-hand quantity for one item.
func (s *Service) GetBalance(ctx context.Context, itemID id.ID) (entity.StockBalance, error) {
	return s.repo.GetBalance(ctx, itemID)
}

// ListBalances returns all balances with item names.
func (s *Service) ListBalances(ctx context.Context, filter BalanceFilter) ([]BalanceRow, error) {
	return s.repo.ListBalances(ctx, filter)
}

// OnHandByKey returns a snapshot of on-hand quantities keyed by normalized
// item name, the shape the reconciliation engine consumes.
func (s *Service) OnHandByKey(ctx context.Context) (map[itemkey.Key]int, error) {
	rows, err := s.repo.ListBalances(ctx, BalanceFilter{})
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}

	snapshot := make(map[itemkey.Key]int, len(rows))
	for _, r := range rows {
		snapshot[r.Key] = r.Quantity
	}
	return snapshot, nil
}

// Recalculate rebuilds balances from the movement ledger.
func (s *Service) Recalculate(ctx context.Context, itemID *id.ID) error {
	return s.repo.RecalculateBalances(ctx, itemID)
}

func validateMovement(i int, m entity.StockMovement) error {
	if m.Quantity <= 0 {
		return apperror.NewValidation(fmt.Sprintf("movement %d: quantity must be positive", i))
	}
	if id.IsNil(m.RecorderID) {
		return apperror.NewValidation(fmt.Sprintf("movement %d: recorder_id is required", i))
	}
	if id.IsNil(m.ItemID) {
		return apperror.NewValidation(fmt.Sprintf("movement %d: item_id is required", i))
	}
	return nil
}
