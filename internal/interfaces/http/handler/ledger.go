package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	ledgerapp "github.com/gestionale/backend/internal/application/ledger"
)

// MovementExporter writes ledger movements in a download format
type MovementExporter interface {
	Write(w io.Writer, movements []ledgerapp.MovementResponse) error
	ContentType() string
	FileName(year int) string
}

// LedgerHandler handles income/expense ledger API endpoints
type LedgerHandler struct {
	BaseHandler
	ledgerService *ledgerapp.LedgerService
	csvExporter   MovementExporter
	excelExporter MovementExporter
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *ledgerapp.LedgerService, csvExporter, excelExporter MovementExporter) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
		csvExporter:   csvExporter,
		excelExporter: excelExporter,
	}
}

// RegisterRoutes registers the ledger routes
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ledger := rg.Group("/ledger")
	{
		ledger.POST("/movements", h.CreateMovement)
		ledger.POST("/payments", h.RecordPayment)
		ledger.GET("/movements", h.List)
		ledger.GET("/movements/export", h.Export)
		ledger.GET("/movements/:id", h.GetByID)
		ledger.PUT("/movements/:id", h.UpdateMovement)
		ledger.DELETE("/movements/:id", h.DeleteMovement)
		ledger.GET("/monthly", h.MonthlyAggregate)
	}
}

// CreateMovement records a manual ledger entry
func (h *LedgerHandler) CreateMovement(c *gin.Context) {
	var req ledgerapp.CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	movement, err := h.ledgerService.CreateMovement(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, movement)
}

// RecordPayment marks an invoice paid and records the income movement
func (h *LedgerHandler) RecordPayment(c *gin.Context) {
	var req ledgerapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	movement, err := h.ledgerService.RecordPayment(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, movement)
}

// GetByID returns one movement
func (h *LedgerHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	movement, err := h.ledgerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, movement)
}

// List returns movements matching the query filters
func (h *LedgerHandler) List(c *gin.Context) {
	var filter ledgerapp.MovementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	movements, err := h.ledgerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, movements)
}

// UpdateMovement edits a manual ledger entry
func (h *LedgerHandler) UpdateMovement(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req ledgerapp.UpdateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	movement, err := h.ledgerService.UpdateMovement(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, movement)
}

// DeleteMovement deletes a movement, reverting a linked invoice to pending
func (h *LedgerHandler) DeleteMovement(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.ledgerService.DeleteMovement(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// MonthlyAggregate returns the month-by-month income/expense table
func (h *LedgerHandler) MonthlyAggregate(c *gin.Context) {
	year, ok := parseYearParam(c)
	if !ok {
		return
	}

	aggregate, err := h.ledgerService.MonthlyAggregate(c.Request.Context(), year)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, aggregate)
}

// Export downloads a year of movements for the accountant, as CSV or xlsx
func (h *LedgerHandler) Export(c *gin.Context) {
	year, ok := parseYearParam(c)
	if !ok {
		return
	}

	exporter := h.csvExporter
	if c.DefaultQuery("format", "csv") == "xlsx" {
		exporter = h.excelExporter
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	movements, err := h.ledgerService.List(c.Request.Context(), ledgerapp.MovementListFilter{From: &from, To: &to})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.Header("Content-Type", exporter.ContentType())
	c.Header("Content-Disposition", `attachment; filename="`+exporter.FileName(year)+`"`)
	if err := exporter.Write(c.Writer, movements); err != nil {
		h.HandleDomainError(c, err)
	}
}
