package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gestionale/backend/internal/domain/inventory"
	"github.com/gestionale/backend/internal/domain/shared"
)

// GormStockItemRepository implements inventory.StockItemRepository using GORM
type GormStockItemRepository struct {
	db *gorm.DB
}

// NewGormStockItemRepository creates a new stock item repository
func NewGormStockItemRepository(db *gorm.DB) *GormStockItemRepository {
	return &GormStockItemRepository{db: db}
}

var _ inventory.StockItemRepository = (*GormStockItemRepository)(nil)

// FindByID finds a stock item by ID
func (r *GormStockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockItem, error) {
	var item inventory.StockItem
	if err := dbFromContext(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByIDs loads a batch of items in one query, keyed by id
func (r *GormStockItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*inventory.StockItem, error) {
	result := make(map[uuid.UUID]*inventory.StockItem, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var items []inventory.StockItem
	if err := dbFromContext(ctx, r.db).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for i := range items {
		result[items[i].ID] = &items[i]
	}
	return result, nil
}

// FindByCode finds a stock item by its code
func (r *GormStockItemRepository) FindByCode(ctx context.Context, code string) (*inventory.StockItem, error) {
	var item inventory.StockItem
	if err := dbFromContext(ctx, r.db).First(&item, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindLowStock finds items at or below the given threshold
func (r *GormStockItemRepository) FindLowStock(ctx context.Context, threshold decimal.Decimal) ([]inventory.StockItem, error) {
	var items []inventory.StockItem
	err := dbFromContext(ctx, r.db).
		Where("quantity <= ?", threshold).
		Order("quantity ASC, name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindAll finds all stock items matching the filter
func (r *GormStockItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockItem, error) {
	var items []inventory.StockItem
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&inventory.StockItem{}), filter)
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save creates or updates a stock item
func (r *GormStockItemRepository) Save(ctx context.Context, item *inventory.StockItem) error {
	return dbFromContext(ctx, r.db).Save(item).Error
}

// Delete deletes a stock item
func (r *GormStockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&inventory.StockItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts stock items matching the filter
func (r *GormStockItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(dbFromContext(ctx, r.db).Model(&inventory.StockItem{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormStockItemRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, StockItemSortFields, "name")
	orderDir := ValidateSortOrder(filter.OrderDir, "asc")
	return query.Order(orderBy + " " + orderDir)
}

func (r *GormStockItemRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR code LIKE ? OR description LIKE ?",
			pattern, pattern, pattern)
	}
	return query
}
