package handler

import (
	"github.com/gin-gonic/gin"

	calendarapp "github.com/gestionale/backend/internal/application/calendar"
)

// CalendarHandler handles calendar event API endpoints
type CalendarHandler struct {
	BaseHandler
	calendarService *calendarapp.CalendarService
}

// NewCalendarHandler creates a new CalendarHandler
func NewCalendarHandler(calendarService *calendarapp.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService}
}

// RegisterRoutes registers the calendar routes
func (h *CalendarHandler) RegisterRoutes(rg *gin.RouterGroup) {
	events := rg.Group("/events")
	{
		events.POST("", h.Create)
		events.GET("", h.List)
		events.POST("/regenerate", h.Regenerate)
		events.POST("/reminders", h.SendReminders)
		events.GET("/:id", h.GetByID)
		events.PUT("/:id", h.Update)
		events.DELETE("/:id", h.Delete)
	}
}

// Create creates a manual calendar event
func (h *CalendarHandler) Create(c *gin.Context) {
	var req calendarapp.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	event, err := h.calendarService.CreateEvent(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, event)
}

// GetByID returns one event
func (h *CalendarHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	event, err := h.calendarService.GetEvent(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, event)
}

// List returns events matching the query filters
func (h *CalendarHandler) List(c *gin.Context) {
	var filter calendarapp.EventListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	events, err := h.calendarService.ListEvents(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, events)
}

// Update edits a manual event
func (h *CalendarHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req calendarapp.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	event, err := h.calendarService.UpdateEvent(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, event)
}

// Delete deletes a manual event
func (h *CalendarHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.calendarService.DeleteEvent(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Regenerate rebuilds the automatic events from project and invoice deadlines
func (h *CalendarHandler) Regenerate(c *gin.Context) {
	if err := h.calendarService.RegenerateAutomaticEvents(c.Request.Context()); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

type sendRemindersRequest struct {
	DaysAhead int `json:"days_ahead" binding:"omitempty,min=0,max=90"`
}

// SendReminders emails reminders for upcoming events
func (h *CalendarHandler) SendReminders(c *gin.Context) {
	req := sendRemindersRequest{DaysAhead: 3}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
		if req.DaysAhead == 0 {
			req.DaysAhead = 3
		}
	}

	sent, err := h.calendarService.SendDueReminders(c.Request.Context(), req.DaysAhead)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, gin.H{"sent": sent})
}
