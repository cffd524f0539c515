package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gestionale/backend/internal/domain/inventory"
)

// CreateStockItemRequest represents a request to create a stock item
type CreateStockItemRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=200"`
	Code          string          `json:"code" binding:"max=50"`
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Supplier      string          `json:"supplier" binding:"max=200"`
}

// UpdateStockItemRequest carries the descriptive fields of a stock item.
// Quantity is deliberately absent; it only moves through adjustments.
type UpdateStockItemRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=200"`
	Code          string          `json:"code" binding:"max=50"`
	Description   string          `json:"description"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Supplier      string          `json:"supplier" binding:"max=200"`
}

// AdjustStockRequest represents a signed stock adjustment
type AdjustStockRequest struct {
	Delta decimal.Decimal `json:"delta" binding:"required"`
}

// StockItemListFilter carries list query options
type StockItemListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// StockItemResponse represents a stock item in API responses
type StockItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Code          string          `json:"code"`
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice string          `json:"purchase_price"`
	TotalValue    string          `json:"total_value"`
	Supplier      string          `json:"supplier"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToStockItemResponse converts a domain stock item into its API representation
func ToStockItemResponse(item *inventory.StockItem) StockItemResponse {
	return StockItemResponse{
		ID:            item.ID,
		Name:          item.Name,
		Code:          item.Code,
		Description:   item.Description,
		Quantity:      item.Quantity,
		PurchasePrice: item.PurchasePrice.StringFixed(2),
		TotalValue:    item.TotalValue().StringFixed(2),
		Supplier:      item.Supplier,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

// ToStockItemResponses converts a slice of stock items
func ToStockItemResponses(items []inventory.StockItem) []StockItemResponse {
	responses := make([]StockItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToStockItemResponse(&items[i]))
	}
	return responses
}
