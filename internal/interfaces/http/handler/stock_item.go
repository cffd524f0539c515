package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/gestionale/backend/internal/application/inventory"
)

// StockItemHandler handles inventory API endpoints
type StockItemHandler struct {
	BaseHandler
	stockService *inventory.StockService
}

// NewStockItemHandler creates a new StockItemHandler
func NewStockItemHandler(stockService *inventory.StockService) *StockItemHandler {
	return &StockItemHandler{stockService: stockService}
}

// RegisterRoutes registers the stock item routes
func (h *StockItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/stock-items")
	{
		items.POST("", h.Create)
		items.GET("", h.List)
		items.GET("/low-stock", h.LowStock)
		items.GET("/:id", h.GetByID)
		items.PUT("/:id", h.Update)
		items.POST("/:id/adjust", h.Adjust)
		items.DELETE("/:id", h.Delete)
	}
}

// Create creates a new stock item
func (h *StockItemHandler) Create(c *gin.Context) {
	var req inventory.CreateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	item, err := h.stockService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, item)
}

// GetByID returns one stock item
func (h *StockItemHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	item, err := h.stockService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, item)
}

// List returns stock items matching the query filters
func (h *StockItemHandler) List(c *gin.Context) {
	var filter inventory.StockItemListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.stockService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// LowStock returns items at or below the given threshold
func (h *StockItemHandler) LowStock(c *gin.Context) {
	threshold := decimal.NewFromInt(5)
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			h.BadRequest(c, "Invalid threshold")
			return
		}
		threshold = parsed
	}

	items, err := h.stockService.LowStock(c.Request.Context(), threshold)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, items)
}

// Update updates a stock item's descriptive fields
func (h *StockItemHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req inventory.UpdateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	item, err := h.stockService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, item)
}

// Adjust applies a signed quantity adjustment
func (h *StockItemHandler) Adjust(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req inventory.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	quantity, err := h.stockService.AdjustStock(c.Request.Context(), id, req.Delta)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, gin.H{"quantity": quantity})
}

// Delete deletes a stock item
func (h *StockItemHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.stockService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
