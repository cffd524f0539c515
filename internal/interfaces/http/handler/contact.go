package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gestionale/backend/internal/application/addressbook"
)

// ContactHandler handles address-book API endpoints
type ContactHandler struct {
	BaseHandler
	contactService *addressbook.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService *addressbook.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// RegisterRoutes registers the contact routes
func (h *ContactHandler) RegisterRoutes(rg *gin.RouterGroup) {
	contacts := rg.Group("/contacts")
	{
		contacts.POST("", h.Create)
		contacts.GET("", h.List)
		contacts.GET("/search", h.Search)
		contacts.GET("/export", h.ExportCSV)
		contacts.POST("/import", h.ImportCSV)
		contacts.GET("/:id", h.GetByID)
		contacts.PUT("/:id", h.Update)
		contacts.DELETE("/:id", h.Delete)
	}
}

// Create creates a new contact
func (h *ContactHandler) Create(c *gin.Context) {
	var req addressbook.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	contact, err := h.contactService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, contact)
}

// GetByID returns one contact
func (h *ContactHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	contact, err := h.contactService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, contact)
}

// List returns contacts matching the query filters
func (h *ContactHandler) List(c *gin.Context) {
	var filter addressbook.ContactListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.contactService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Search returns contacts matching a free-text query
func (h *ContactHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		h.BadRequest(c, "Missing query parameter q")
		return
	}

	contacts, err := h.contactService.Search(c.Request.Context(), query)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, contacts)
}

// Update updates a contact
func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req addressbook.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	contact, err := h.contactService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, contact)
}

// Delete deletes a contact
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.contactService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// ExportCSV streams the whole address book as a CSV download
func (h *ContactHandler) ExportCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="contacts.csv"`)
	if err := h.contactService.ExportCSV(c.Request.Context(), c.Writer); err != nil {
		// Headers may already be out; log-and-abort is the best we can do
		c.Status(http.StatusInternalServerError)
	}
}

// ImportCSV imports contacts from an uploaded CSV body
func (h *ContactHandler) ImportCSV(c *gin.Context) {
	imported, err := h.contactService.ImportCSV(c.Request.Context(), c.Request.Body)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, gin.H{"imported": imported})
}
