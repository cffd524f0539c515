package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestionale/backend/internal/domain/shared/valueobject"
)

func newTestItem(t *testing.T, quantity string) *StockItem {
	t.Helper()
	price, err := valueobject.NewMoneyEURFromString("12.50")
	require.NoError(t, err)
	item, err := NewStockItem("Ethernet cable", "CAB-ETH", decimal.RequireFromString(quantity), price)
	require.NoError(t, err)
	item.ClearDomainEvents()
	return item
}

func TestNewStockItem(t *testing.T) {
	t.Run("valid item", func(t *testing.T) {
		price, err := valueobject.NewMoneyEURFromString("12.50")
		require.NoError(t, err)
		item, err := NewStockItem("Ethernet cable", "CAB-ETH", decimal.NewFromInt(10), price)
		require.NoError(t, err)
		assert.True(t, item.Quantity.Equal(decimal.NewFromInt(10)))
		assert.Len(t, item.GetDomainEvents(), 1)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := NewStockItem("", "CAB-ETH", decimal.NewFromInt(10), valueobject.ZeroEUR())
		assert.Error(t, err)
	})

	t.Run("negative opening quantity rejected", func(t *testing.T) {
		_, err := NewStockItem("Ethernet cable", "", decimal.NewFromInt(-1), valueobject.ZeroEUR())
		assert.Error(t, err)
	})
}

func TestStockItem_AdjustStock(t *testing.T) {
	t.Run("positive delta increases quantity", func(t *testing.T) {
		item := newTestItem(t, "10")
		require.NoError(t, item.AdjustStock(decimal.NewFromInt(5)))
		assert.True(t, item.Quantity.Equal(decimal.NewFromInt(15)))
		assert.Len(t, item.GetDomainEvents(), 1)
	})

	t.Run("negative delta decreases quantity", func(t *testing.T) {
		item := newTestItem(t, "10")
		require.NoError(t, item.AdjustStock(decimal.NewFromInt(-10)))
		assert.True(t, item.Quantity.IsZero())
	})

	t.Run("fractional deltas are supported", func(t *testing.T) {
		item := newTestItem(t, "2.5")
		require.NoError(t, item.AdjustStock(decimal.RequireFromString("-1.25")))
		assert.Equal(t, "1.25", item.Quantity.String())
	})

	t.Run("delta below zero rejected without mutation", func(t *testing.T) {
		item := newTestItem(t, "10")
		err := item.AdjustStock(decimal.NewFromInt(-11))
		require.Error(t, err)
		assert.True(t, item.Quantity.Equal(decimal.NewFromInt(10)))
		assert.Empty(t, item.GetDomainEvents())
	})
}

func TestStockItem_UpdateDetails(t *testing.T) {
	item := newTestItem(t, "10")
	price, err := valueobject.NewMoneyEURFromString("14.00")
	require.NoError(t, err)

	require.NoError(t, item.UpdateDetails("Ethernet cable Cat6", "CAB-ETH-6", "Cat6 UTP", "Forniture SRL", price))
	assert.Equal(t, "Ethernet cable Cat6", item.Name)
	assert.Equal(t, "Forniture SRL", item.Supplier)
	// quantity is untouchable through descriptive updates
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(10)))
}

func TestStockItem_CanFulfill(t *testing.T) {
	item := newTestItem(t, "3")
	assert.True(t, item.CanFulfill(decimal.NewFromInt(3)))
	assert.True(t, item.CanFulfill(decimal.Zero))
	assert.False(t, item.CanFulfill(decimal.NewFromInt(4)))
	assert.False(t, item.CanFulfill(decimal.NewFromInt(-1)))
}

func TestStockItem_TotalValue(t *testing.T) {
	item := newTestItem(t, "4")
	assert.Equal(t, "50", item.TotalValue().String())
}
