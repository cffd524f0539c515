package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gestionale/backend/internal/domain/shared"
)

// StockItemRepository defines the persistence interface for stock items
type StockItemRepository interface {
	shared.Repository[StockItem]
	// FindByIDs loads a batch of items in one query, keyed by id
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*StockItem, error)
	// FindByCode finds a stock item by its code
	FindByCode(ctx context.Context, code string) (*StockItem, error)
	// FindLowStock finds items at or below the given threshold
	FindLowStock(ctx context.Context, threshold decimal.Decimal) ([]StockItem, error)
}
