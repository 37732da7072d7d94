package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/id"
	"bookstock/internal/core/itemkey"
	"bookstock/internal/domain"
	"bookstock/internal/domain/catalogs/item"
)

const itemTable = "cat_items"

var itemColumns = []string{
	"id", "deletion_mark", "version",
	"name", "item_key", "unit", "category", "description",
}

// ItemRepo implements item.Repository.
type ItemRepo struct {
	txManager *TxManager
}

var _ item.Repository = (*ItemRepo)(nil)

// NewItemRepo creates a new item repository.
func NewItemRepo(txManager *TxManager) *ItemRepo {
	return &ItemRepo{txManager: txManager}
}

func (r *ItemRepo) baseSelect() squirrel.SelectBuilder {
	return builder().Select(itemColumns...).From(itemTable)
}

// Create inserts a new item.
func (r *ItemRepo) Create(ctx context.Context, it *item.Item) error {
	q := builder().
		Insert(itemTable).
		Columns(itemColumns...).
		Values(it.ID, it.DeletionMark, it.Version,
			it.Name, it.Key, it.Unit, it.Category, it.Description)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("item", "name", it.Name)
		}
		return apperror.NewDatabase(err)
	}
	return nil
}

// GetByID retrieves an item by ID.
func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*item.Item, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": itemID}).Limit(1)
	return r.getOne(ctx, q, itemID.String())
}

// GetByKey retrieves an item by its normalized matching key.
func (r *ItemRepo) GetByKey(ctx context.Context, key itemkey.Key) (*item.Item, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"item_key": key}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)
	return r.getOne(ctx, q, key.String())
}

// GetByIDs retrieves multiple items at once.
func (r *ItemRepo) GetByIDs(ctx context.Context, ids []id.ID) ([]*item.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	q := r.baseSelect().Where(squirrel.Eq{"id": ids})
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*item.Item
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, apperror.NewDatabase(err)
	}
	return items, nil
}

// Update modifies an item with optimistic locking.
func (r *ItemRepo) Update(ctx context.Context, it *item.Item) error {
	q := builder().
		Update(itemTable).
		Set("name", it.Name).
		Set("item_key", it.Key).
		Set("unit", it.Unit).
		Set("category", it.Category).
		Set("description", it.Description).
		Set("deletion_mark", it.DeletionMark).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": it.ID}).
		Where(squirrel.Eq{"version": it.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewDuplicate("item", "name", it.Name)
		}
		return apperror.NewDatabase(err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("item", it.ID.String())
	}

	it.Version++
	return nil
}

// SetDeletionMark sets or clears the soft-delete mark.
func (r *ItemRepo) SetDeletionMark(ctx context.Context, itemID id.ID, marked bool) error {
	q := builder().
		Update(itemTable).
		Set("deletion_mark", marked).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase(err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("item", itemID.String())
	}
	return nil
}

// List retrieves items with filtering and pagination.
func (r *ItemRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*item.Item], error) {
	result := domain.ListResult[*item.Item]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()
	countQ := builder().Select("COUNT(*)").From(itemTable)

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
		countQ = countQ.Where(squirrel.Eq{"deletion_mark": false})
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where(squirrel.ILike{"name": like})
		countQ = countQ.Where(squirrel.ILike{"name": like})
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "name"
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, apperror.NewDatabase(err)
	}

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, apperror.NewDatabase(err)
	}

	return result, nil
}

// ExistsByKey checks if an item with the given key exists.
func (r *ItemRepo) ExistsByKey(ctx context.Context, key itemkey.Key) (bool, error) {
	q := builder().
		Select("1").
		From(itemTable).
		Where(squirrel.Eq{"item_key": key}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, apperror.NewDatabase(err)
	}
	return true, nil
}

func (r *ItemRepo) getOne(ctx context.Context, q squirrel.SelectBuilder, ref string) (*item.Item, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var it item.Item
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &it, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("item", ref)
		}
		return nil, apperror.NewDatabase(err)
	}
	return &it, nil
}
