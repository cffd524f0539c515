package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/gestionale/backend/internal/domain/shared"
)

// Aggregate type constant
const (
	AggregateTypeStockItem = "StockItem"
)

// Event type constants
const (
	EventTypeStockItemCreated = "inventory.stock_item.created"
	EventTypeStockAdjusted    = "inventory.stock_item.adjusted"
	EventTypeStockItemDeleted = "inventory.stock_item.deleted"
)

// StockItemCreatedEvent is published when a stock item is created
type StockItemCreatedEvent struct {
	shared.BaseDomainEvent
	Name     string          `json:"name"`
	Code     string          `json:"code"`
	Quantity decimal.Decimal `json:"quantity"`
}

// NewStockItemCreatedEvent creates a new StockItemCreatedEvent
func NewStockItemCreatedEvent(item *StockItem) *StockItemCreatedEvent {
	return &StockItemCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockItemCreated, AggregateTypeStockItem, item.ID),
		Name:            item.Name,
		Code:            item.Code,
		Quantity:        item.Quantity,
	}
}

// StockAdjustedEvent is published whenever the quantity changes
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	Name        string          `json:"name"`
	Delta       decimal.Decimal `json:"delta"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
}

// NewStockAdjustedEvent creates a new StockAdjustedEvent
func NewStockAdjustedEvent(item *StockItem, delta decimal.Decimal) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeStockItem, item.ID),
		Name:            item.Name,
		Delta:           delta,
		NewQuantity:     item.Quantity,
	}
}

// StockItemDeletedEvent is published when a stock item is removed
type StockItemDeletedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewStockItemDeletedEvent creates a new StockItemDeletedEvent
func NewStockItemDeletedEvent(item *StockItem) *StockItemDeletedEvent {
	return &StockItemDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockItemDeleted, AggregateTypeStockItem, item.ID),
		Name:            item.Name,
	}
}
