package inventory

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/gestionale/backend/internal/domain/shared/valueobject"
)

// StockItem is the warehouse aggregate root. Quantity is an exact decimal
// (fractional stock such as cable metres is allowed) and only moves through
// AdjustStock; descriptive updates never touch it.
type StockItem struct {
	shared.BaseAggregateRoot
	Name          string            `json:"name" gorm:"not null;index"`
	Code          string            `json:"code" gorm:"index"`
	Description   string            `json:"description"`
	Quantity      decimal.Decimal   `json:"quantity" gorm:"type:decimal(14,3);not null;default:0"`
	PurchasePrice valueobject.Money `json:"purchase_price" gorm:"type:text"`
	Supplier      string            `json:"supplier"`
}

// TableName returns the table name for GORM
func (StockItem) TableName() string {
	return "stock_items"
}

// NewStockItem creates a new stock item with an opening quantity
func NewStockItem(name, code string, quantity decimal.Decimal, purchasePrice valueobject.Money) (*StockItem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Stock item name cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Opening quantity cannot be negative")
	}
	if purchasePrice.IsNegative() {
		return nil, shared.ErrInvalidAmount
	}

	item := &StockItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Code:              strings.TrimSpace(code),
		Quantity:          quantity,
		PurchasePrice:     purchasePrice,
	}

	item.AddDomainEvent(NewStockItemCreatedEvent(item))

	return item, nil
}

// UpdateDetails replaces the descriptive fields. Quantity is deliberately
// not part of the signature.
func (s *StockItem) UpdateDetails(name, code, description, supplier string, purchasePrice valueobject.Money) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Stock item name cannot be empty")
	}
	if purchasePrice.IsNegative() {
		return shared.ErrInvalidAmount
	}

	s.Name = strings.TrimSpace(name)
	s.Code = strings.TrimSpace(code)
	s.Description = description
	s.Supplier = supplier
	s.PurchasePrice = purchasePrice
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// AdjustStock applies a signed delta to the quantity. It is the only way
// quantity changes and rejects any adjustment that would leave the item
// with negative stock.
func (s *StockItem) AdjustStock(delta decimal.Decimal) error {
	newQuantity := s.Quantity.Add(delta)
	if newQuantity.IsNegative() {
		return shared.NewDomainErrorf("INSUFFICIENT_STOCK",
			"Insufficient stock for %s: have %s, requested %s", s.Name, s.Quantity.String(), delta.Neg().String())
	}

	s.Quantity = newQuantity
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStockAdjustedEvent(s, delta))

	return nil
}

// CanFulfill reports whether the item has enough stock for the quantity
func (s *StockItem) CanFulfill(quantity decimal.Decimal) bool {
	return !quantity.IsNegative() && s.Quantity.GreaterThanOrEqual(quantity)
}

// TotalValue returns quantity times purchase price
func (s *StockItem) TotalValue() valueobject.Money {
	return s.PurchasePrice.Multiply(s.Quantity)
}
