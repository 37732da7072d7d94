package purchase

import (
	"context"
	"fmt"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/entity"
	"bookstock/internal/core/id"
	"bookstock/internal/core/tx"
	"bookstock/internal/domain"
	"bookstock/internal/domain/catalogs/item"
	"bookstock/internal/domain/registers/stock"
	"bookstock/pkg/logger"
	"bookstock/pkg/numerator"
)

// NumberPrefix for purchase document numbers.
const NumberPrefix = "PUR"

// RecorderType identifies purchase movements in the stock register.
const RecorderType = "PurchaseEntry"

// ItemCatalog is the slice of the item master the purchase workflow needs.
type ItemCatalog interface {
	Resolve(ctx context.Context, name string) (*item.Item, error)
	Create(ctx context.Context, it *item.Item) error
}

// Service provides business operations for purchase documents.
type Service struct {
	repo      Repository
	stock     *stock.Service
	items     ItemCatalog
	numerator numerator.Generator
	txManager tx.Manager
}

// NewService creates a new purchase service.
func NewService(
	repo Repository,
	stockSvc *stock.Service,
	items ItemCatalog,
	gen numerator.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		stock:     stockSvc,
		items:     items,
		numerator: gen,
		txManager: txManager,
	}
}

// Create creates a new purchase document (unposted).
// Line item names are resolved against the item master; unknown names
// register new items.
func (s *Service) Create(ctx context.Context, doc *PurchaseEntry) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	if doc.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx,
			numerator.DefaultConfig(NumberPrefix),
			&numerator.Options{Strategy: numerator.StrategyCached},
			doc.Date,
		)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.Number = number
	}

	err := s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.resolveLines(txCtx, doc); err != nil {
			return err
		}

		if err := s.repo.Create(txCtx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		if err := s.repo.SaveLines(txCtx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "purchase created", "id", doc.ID, "number", doc.Number)
	return nil
}

// GetByID retrieves a purchase with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*PurchaseEntry, error) {
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

// Update updates an unposted purchase.
func (s *Service) Update(ctx context.Context, doc *PurchaseEntry) error {
	if err := doc.CanModify(); err != nil {
		return err
	}
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.resolveLines(txCtx, doc); err != nil {
			return err
		}

		if err := s.repo.Update(txCtx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.repo.SaveLines(txCtx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}
		return nil
	})
}

// Delete soft-deletes an unposted purchase.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if doc.Posted {
		return doc.CanModify()
	}
	return s.repo.Delete(ctx, docID)
}

// Post records receipt movements in the stock register.
// Reposting replaces the previous movements.
func (s *Service) Post(ctx context.Context, docID id.ID) error {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if doc.Posted {
			if err := s.stock.ReverseMovements(txCtx, doc.ID); err != nil {
				return err
			}
		}

		doc.MarkPosted()

		movements := make([]entity.StockMovement, 0, len(doc.Lines))
		for _, line := range doc.Lines {
			movements = append(movements, entity.NewStockMovement(
				doc.ID, RecorderType, doc.PostedVersion,
				doc.Date, entity.RecordTypeReceipt,
				line.ItemID, line.Quantity,
			))
		}

		if err := s.stock.RecordReceipts(txCtx, movements); err != nil {
			return err
		}
		return s.repo.Update(txCtx, doc)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "purchase posted", "id", doc.ID, "number", doc.Number)
	return nil
}

// Unpost reverses the document's movements.
// Fails with INSUFFICIENT_STOCK when the received quantities were already
// distributed.
func (s *Service) Unpost(ctx context.Context, docID id.ID) error {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return err
	}
	if !doc.Posted {
		return nil
	}

	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		// Unposting a receipt takes stock back out. The reversal runs
		// through the same conditional decrement as an issuance, so a
		// concurrent bill cannot slip in between a check and the update.
		if err := s.stock.ReverseMovements(txCtx, doc.ID); err != nil {
			return err
		}

		doc.MarkUnposted()
		return s.repo.Update(txCtx, doc)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "purchase unposted", "id", doc.ID, "number", doc.Number)
	return nil
}

// List retrieves purchases with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseEntry], error) {
	return s.repo.List(ctx, filter)
}

// ListLines returns posted purchase lines for reporting.
func (s *Service) ListLines(ctx context.Context, filter LineFilter) ([]LedgerLine, error) {
	return s.repo.ListLines(ctx, filter)
}

func (s *Service) resolveLines(ctx context.Context, doc *PurchaseEntry) error {
	for i := range doc.Lines {
		line := &doc.Lines[i]
		if !id.IsNil(line.ItemID) {
			continue
		}

		existing, err := s.items.Resolve(ctx, line.ItemName)
		if err != nil && !apperror.IsNotFound(err) {
			return fmt.Errorf("resolve item %q: %w", line.ItemName, err)
		}

		if existing != nil {
			line.ItemID = existing.ID
			line.Key = existing.Key
			continue
		}

		it := item.NewItem(line.ItemName, "pcs", item.CategoryBook)
		if err := s.items.Create(ctx, it); err != nil {
			return fmt.Errorf("register item %q: %w", line.ItemName, err)
		}
		line.ItemID = it.ID
		line.Key = it.Key
	}
	return nil
}
