package item

import (
	"context"
	"fmt"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/id"
	"bookstock/internal/core/itemkey"
	"bookstock/internal/domain"
	"bookstock/pkg/logger"
)

// Service provides business logic for the item master.
type Service struct {
	repo Repository
}

// NewService creates a new item service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new item. The normalized name key must be unique:
// a second spelling of an existing item is a conflict, not a new item.
func (s *Service) Create(ctx context.Context, it *Item) error {
	if err := it.Validate(ctx); err != nil {
		return err
	}

	exists, err := s.repo.ExistsByKey(ctx, it.Key)
	if err != nil {
		return fmt.Errorf("check item key: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("item", "name", it.Name)
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return fmt.Errorf("create item: %w", err)
	}

	logger.Info(ctx, "item created", "id", it.ID, "name", it.Name)
	return nil
}

// Update modifies an item. Renames keep key uniqueness.
func (s *Service) Update(ctx context.Context, it *Item) error {
	if err := it.Validate(ctx); err != nil {
		return err
	}

	existing, err := s.repo.GetByKey(ctx, it.Key)
	if err != nil && !apperror.IsNotFound(err) {
		return fmt.Errorf("check item key: %w", err)
	}
	if existing != nil && existing.ID != it.ID {
		return apperror.NewDuplicate("item", "name", it.Name)
	}

	return s.repo.Update(ctx, it)
}

// GetByID retrieves an item.
func (s *Service) GetByID(ctx context.Context, itemID id.ID) (*Item, error) {
	return s.repo.GetByID(ctx, itemID)
}

// GetByKey retrieves an item by normalized name.
func (s *Service) GetByKey(ctx context.Context, key itemkey.Key) (*Item, error) {
	return s.repo.GetByKey(ctx, key)
}

// Resolve finds the item matching a free-text name.
func (s *Service) Resolve(ctx context.Context, name string) (*Item, error) {
	return s.repo.GetByKey(ctx, itemkey.Normalize(name))
}

// List retrieves items with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Item], error) {
	return s.repo.List(ctx, filter)
}

// SetDeletionMark soft-deletes or restores an item.
func (s *Service) SetDeletionMark(ctx context.Context, itemID id.ID, marked bool) error {
	return s.repo.SetDeletionMark(ctx, itemID, marked)
}
