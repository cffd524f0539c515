package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	taxapp "github.com/gestionale/backend/internal/application/tax"
	"github.com/gestionale/backend/internal/interfaces/http/dto"
)

// TaxHandler handles tax estimation API endpoints
type TaxHandler struct {
	BaseHandler
	taxService *taxapp.TaxService
}

// NewTaxHandler creates a new TaxHandler
func NewTaxHandler(taxService *taxapp.TaxService) *TaxHandler {
	return &TaxHandler{taxService: taxService}
}

// RegisterRoutes registers the tax routes
func (h *TaxHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tax := rg.Group("/tax")
	{
		tax.GET("/vat", h.QuarterlyVAT)
		tax.GET("/contributions", h.Contributions)
		tax.GET("/estimate", h.Estimate)
	}
}

// QuarterlyVAT returns the VAT balance for one quarter
func (h *TaxHandler) QuarterlyVAT(c *gin.Context) {
	year, ok := parseYearParam(c)
	if !ok {
		return
	}
	quarter, err := strconv.Atoi(c.Query("quarter"))
	if err != nil || quarter < 1 || quarter > 4 {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, "Invalid quarter parameter"))
		return
	}

	vat, err := h.taxService.QuarterlyVAT(c.Request.Context(), year, quarter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, vat)
}

// Contributions returns the year-to-date social contribution estimate
func (h *TaxHandler) Contributions(c *gin.Context) {
	year, ok := parseYearParam(c)
	if !ok {
		return
	}

	contributions, err := h.taxService.YTDContributions(c.Request.Context(), year)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, contributions)
}

// Estimate returns the full year tax estimate
func (h *TaxHandler) Estimate(c *gin.Context) {
	year, ok := parseYearParam(c)
	if !ok {
		return
	}

	estimate, err := h.taxService.FullEstimate(c.Request.Context(), year)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, estimate)
}
