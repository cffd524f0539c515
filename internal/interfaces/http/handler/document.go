package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	billingapp "github.com/gestionale/backend/internal/application/billing"
	"github.com/gestionale/backend/internal/interfaces/http/dto"
)

// DocumentHandler handles quote and invoice API endpoints
type DocumentHandler struct {
	BaseHandler
	documentService *billingapp.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *billingapp.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// RegisterRoutes registers the document routes
func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	documents := rg.Group("/documents")
	{
		documents.POST("/quotes", h.CreateQuote)
		documents.POST("/invoices", h.CreateInvoice)
		documents.POST("/quotes/:id/convert", h.ConvertQuote)
		documents.GET("", h.List)
		documents.GET("/stats", h.AnnualStats)
		documents.GET("/:id", h.GetByID)
		documents.PUT("/:id/status", h.UpdateStatus)
		documents.DELETE("/:id", h.Delete)
	}
}

// CreateQuote creates a new quote
func (h *DocumentHandler) CreateQuote(c *gin.Context) {
	var req billingapp.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	doc, err := h.documentService.CreateQuote(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, doc)
}

// CreateInvoice creates a new invoice, debiting linked stock
func (h *DocumentHandler) CreateInvoice(c *gin.Context) {
	var req billingapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	doc, err := h.documentService.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, doc)
}

// ConvertQuote converts an accepted quote into a new invoice
func (h *DocumentHandler) ConvertQuote(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req billingapp.ConvertQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	invoice, err := h.documentService.ConvertQuoteToInvoice(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, invoice)
}

// GetByID returns one document
func (h *DocumentHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	doc, err := h.documentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, doc)
}

// List returns documents matching the query filters
func (h *DocumentHandler) List(c *gin.Context) {
	var filter billingapp.DocumentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.documentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// UpdateStatus moves a document to a new status
func (h *DocumentHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req billingapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	doc, err := h.documentService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, doc)
}

// Delete deletes a document
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// AnnualStats returns per-year billing aggregates
func (h *DocumentHandler) AnnualStats(c *gin.Context) {
	year, ok := parseYearParam(c)
	if !ok {
		return
	}

	stats, err := h.documentService.AnnualStats(c.Request.Context(), year)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, stats)
}

// parseYearParam parses the year query parameter, defaulting to the current year
func parseYearParam(c *gin.Context) (int, bool) {
	raw := c.Query("year")
	if raw == "" {
		return time.Now().Year(), true
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 2000 || year > 2200 {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, "Invalid year parameter"))
		return 0, false
	}
	return year, true
}
