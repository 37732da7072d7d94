package setup

import (
	"context"
	"fmt"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/itemkey"
	"bookstock/internal/core/tx"
	"bookstock/internal/domain/catalogs/item"
	"bookstock/pkg/logger"
)

// DuplicatePolicy controls how repeated items in one submitted list are handled.
type DuplicatePolicy string

const (
	// DuplicateReject fails the save when the same item appears twice.
	DuplicateReject DuplicatePolicy = "reject"

	// DuplicateMerge keeps the first line and adds later quantities into it.
	DuplicateMerge DuplicatePolicy = "merge"
)

// ItemCatalog is the slice of the item master the setup workflow needs.
type ItemCatalog interface {
	Resolve(ctx context.Context, name string) (*item.Item, error)
	Create(ctx context.Context, it *item.Item) error
}

// Service manages requirement lists per standard and academic year.
type Service struct {
	repo      Repository
	items     ItemCatalog
	txManager tx.Manager
}

// NewService creates a new setup service.
func NewService(repo Repository, items ItemCatalog, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		items:     items,
		txManager: txManager,
	}
}

// Save replaces the requirement list for a standard/year. Item names are
// resolved against the item master; unknown names register new items so the
// list and the stock ledger share one identity per item.
func (s *Service) Save(ctx context.Context, standard, academicYear string, lines []*SetupItem, policy DuplicatePolicy) ([]*SetupItem, error) {
	if policy == "" {
		policy = DuplicateReject
	}

	merged, err := collapseDuplicates(lines, policy)
	if err != nil {
		return nil, err
	}

	for i, line := range merged {
		line.Standard = standard
		line.AcademicYear = academicYear
		line.Position = i

		if err := line.Validate(ctx); err != nil {
			return nil, err
		}
	}

	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		for _, line := range merged {
			if err := s.resolveItem(txCtx, line); err != nil {
				return err
			}
		}
		return s.repo.ReplaceForStandard(txCtx, standard, academicYear, merged)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "setup saved",
		"standard", standard,
		"academic_year", academicYear,
		"lines", len(merged),
	)
	return merged, nil
}

// ListByStandard returns the requirement lines for a standard/year.
// Returns NOT_CONFIGURED when no list exists.
func (s *Service) ListByStandard(ctx context.Context, standard, academicYear string) ([]*SetupItem, error) {
	lines, err := s.repo.ListByStandard(ctx, standard, academicYear)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, apperror.NewNotConfigured(standard, academicYear)
	}
	return lines, nil
}

// ListStandards returns the standards configured for a year.
func (s *Service) ListStandards(ctx context.Context, academicYear string) ([]string, error) {
	return s.repo.ListStandards(ctx, academicYear)
}

// Delete removes the requirement list for a standard/year.
func (s *Service) Delete(ctx context.Context, standard, academicYear string) error {
	return s.repo.DeleteForStandard(ctx, standard, academicYear)
}

// resolveItem binds the line to a canonical item, registering a new one when
// the name is unknown.
func (s *Service) resolveItem(ctx context.Context, line *SetupItem) error {
	existing, err := s.items.Resolve(ctx, line.ItemName)
	if err != nil && !apperror.IsNotFound(err) {
		return fmt.Errorf("resolve item %q: %w", line.ItemName, err)
	}

	if existing != nil {
		line.ItemID = existing.ID
		line.Key = existing.Key
		return nil
	}

	it := item.NewItem(line.ItemName, "pcs", item.CategoryBook)
	if err := s.items.Create(ctx, it); err != nil {
		return fmt.Errorf("register item %q: %w", line.ItemName, err)
	}

	line.ItemID = it.ID
	line.Key = it.Key
	return nil
}

// collapseDuplicates applies the duplicate policy, keeping first-seen order.
func collapseDuplicates(lines []*SetupItem, policy DuplicatePolicy) ([]*SetupItem, error) {
	seen := make(map[itemkey.Key]*SetupItem, len(lines))
	out := make([]*SetupItem, 0, len(lines))

	for _, line := range lines {
		key := itemkey.Normalize(line.ItemName)
		line.Key = key

		first, ok := seen[key]
		if !ok {
			seen[key] = line
			out = append(out, line)
			continue
		}

		if policy == DuplicateReject {
			return nil, apperror.NewDuplicateSetupItem(key.String())
		}
		first.RequiredQty += line.RequiredQty
	}

	return out, nil
}
