package handler

import (
	"github.com/gin-gonic/gin"

	settingsapp "github.com/gestionale/backend/internal/application/settings"
)

// SettingsHandler handles application settings API endpoints
type SettingsHandler struct {
	BaseHandler
	settingsService *settingsapp.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *settingsapp.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// RegisterRoutes registers the settings routes
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	settings := rg.Group("/settings")
	{
		settings.GET("", h.Get)
		settings.PUT("/smtp", h.UpdateSMTP)
		settings.PUT("/tax", h.UpdateTax)
		settings.PUT("/letterhead", h.UpdateLetterhead)
	}
}

// Get returns the current settings, with the SMTP password redacted
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, settings)
}

// UpdateSMTP replaces the outgoing mail configuration
func (h *SettingsHandler) UpdateSMTP(c *gin.Context) {
	var req settingsapp.UpdateSMTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	settings, err := h.settingsService.UpdateSMTP(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, settings)
}

// UpdateTax replaces the tax estimation percentages
func (h *SettingsHandler) UpdateTax(c *gin.Context) {
	var req settingsapp.UpdateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	settings, err := h.settingsService.UpdateTax(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, settings)
}

// UpdateLetterhead replaces the letterhead printed on documents
func (h *SettingsHandler) UpdateLetterhead(c *gin.Context) {
	var req settingsapp.UpdateLetterheadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	settings, err := h.settingsService.UpdateLetterhead(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, settings)
}
