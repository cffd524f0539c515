package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inventoryapp "github.com/gestionale/backend/internal/application/inventory"
	"github.com/gestionale/backend/internal/domain/inventory"
	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/gestionale/backend/internal/domain/shared/valueobject"
	"github.com/gestionale/backend/internal/interfaces/http/dto"
)

type mockStockItemRepository struct {
	items     map[uuid.UUID]*inventory.StockItem
	returnErr error
}

func newMockStockItemRepository() *mockStockItemRepository {
	return &mockStockItemRepository{items: make(map[uuid.UUID]*inventory.StockItem)}
}

func (m *mockStockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockItem, error) {
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	if item, ok := m.items[id]; ok {
		return item, nil
	}
	return nil, shared.ErrNotFound
}

func (m *mockStockItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.StockItem, error) {
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	items := make([]inventory.StockItem, 0, len(m.items))
	for _, item := range m.items {
		items = append(items, *item)
	}
	return items, nil
}

func (m *mockStockItemRepository) Save(ctx context.Context, item *inventory.StockItem) error {
	if m.returnErr != nil {
		return m.returnErr
	}
	m.items[item.ID] = item
	return nil
}

func (m *mockStockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.returnErr != nil {
		return m.returnErr
	}
	if _, ok := m.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockStockItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(m.items)), nil
}

func (m *mockStockItemRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*inventory.StockItem, error) {
	result := make(map[uuid.UUID]*inventory.StockItem, len(ids))
	for _, id := range ids {
		if item, ok := m.items[id]; ok {
			result[id] = item
		}
	}
	return result, nil
}

func (m *mockStockItemRepository) FindByCode(ctx context.Context, code string) (*inventory.StockItem, error) {
	for _, item := range m.items {
		if item.Code == code {
			return item, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockStockItemRepository) FindLowStock(ctx context.Context, threshold decimal.Decimal) ([]inventory.StockItem, error) {
	var items []inventory.StockItem
	for _, item := range m.items {
		if item.Quantity.LessThanOrEqual(threshold) {
			items = append(items, *item)
		}
	}
	return items, nil
}

func setupStockRouter(repo *mockStockItemRepository) *gin.Engine {
	engine := gin.New()
	service := inventoryapp.NewStockService(repo, nil)
	handler := NewStockItemHandler(service)
	api := engine.Group("/api/v1")
	handler.RegisterRoutes(api)
	return engine
}

func mustNewStockItem(t *testing.T, name string, quantity int64) *inventory.StockItem {
	t.Helper()
	item, err := inventory.NewStockItem(name, "", decimal.NewFromInt(quantity), valueobject.NewMoneyEUR(decimal.NewFromInt(10)))
	require.NoError(t, err)
	return item
}

func TestStockItemHandlerCreate(t *testing.T) {
	repo := newMockStockItemRepository()
	engine := setupStockRouter(repo)

	body, _ := json.Marshal(map[string]interface{}{
		"name":           "Ethernet cable",
		"code":           "ETH-5",
		"quantity":       "20",
		"purchase_price": "3.50",
	})
	req := httptest.NewRequest("POST", "/api/v1/stock-items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, repo.items, 1)
}

func TestStockItemHandlerCreateInvalidName(t *testing.T) {
	repo := newMockStockItemRepository()
	engine := setupStockRouter(repo)

	body, _ := json.Marshal(map[string]interface{}{"quantity": "1"})
	req := httptest.NewRequest("POST", "/api/v1/stock-items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStockItemHandlerGetByID(t *testing.T) {
	repo := newMockStockItemRepository()
	item := mustNewStockItem(t, "Router", 4)
	repo.items[item.ID] = item
	engine := setupStockRouter(repo)

	req := httptest.NewRequest("GET", "/api/v1/stock-items/"+item.ID.String(), nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestStockItemHandlerGetByIDNotFound(t *testing.T) {
	repo := newMockStockItemRepository()
	engine := setupStockRouter(repo)

	req := httptest.NewRequest("GET", "/api/v1/stock-items/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStockItemHandlerAdjust(t *testing.T) {
	repo := newMockStockItemRepository()
	item := mustNewStockItem(t, "Router", 4)
	repo.items[item.ID] = item
	engine := setupStockRouter(repo)

	body, _ := json.Marshal(map[string]interface{}{"delta": "-3"})
	req := httptest.NewRequest("POST", "/api/v1/stock-items/"+item.ID.String()+"/adjust", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, repo.items[item.ID].Quantity.Equal(decimal.NewFromInt(1)))
}

func TestStockItemHandlerAdjustInsufficientStock(t *testing.T) {
	repo := newMockStockItemRepository()
	item := mustNewStockItem(t, "Router", 2)
	repo.items[item.ID] = item
	engine := setupStockRouter(repo)

	body, _ := json.Marshal(map[string]interface{}{"delta": "-5"})
	req := httptest.NewRequest("POST", "/api/v1/stock-items/"+item.ID.String()+"/adjust", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INSUFFICIENT_STOCK", resp.Error.Code)
	// quantity unchanged
	assert.True(t, repo.items[item.ID].Quantity.Equal(decimal.NewFromInt(2)))
}

func TestStockItemHandlerDelete(t *testing.T) {
	repo := newMockStockItemRepository()
	item := mustNewStockItem(t, "Router", 4)
	repo.items[item.ID] = item
	engine := setupStockRouter(repo)

	req := httptest.NewRequest("DELETE", "/api/v1/stock-items/"+item.ID.String(), nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, repo.items)
}
