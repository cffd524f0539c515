package calendar

import (
	"time"

	"github.com/google/uuid"

	"github.com/gestionale/backend/internal/domain/calendar"
)

// CreateEventRequest represents a request to create a manual event
type CreateEventRequest struct {
	Date        time.Time `json:"date" binding:"required"`
	Title       string    `json:"title" binding:"required,min=1,max=200"`
	Description string    `json:"description"`
}

// UpdateEventRequest edits a manual event
type UpdateEventRequest struct {
	Date        time.Time `json:"date" binding:"required"`
	Title       string    `json:"title" binding:"required,min=1,max=200"`
	Description string    `json:"description"`
}

// EventListFilter carries list query options
type EventListFilter struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
	Kind string     `form:"kind" binding:"omitempty,oneof=MANUAL AUTO_PROJECT AUTO_INVOICE"`
}

// EventResponse represents a calendar event in API responses
type EventResponse struct {
	ID          uuid.UUID  `json:"id"`
	Date        time.Time  `json:"date"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Kind        string     `json:"kind"`
	SourceID    *uuid.UUID `json:"source_id,omitempty"`
}

// ToEventResponse converts a domain event into its API representation
func ToEventResponse(e *calendar.Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Date:        e.Date,
		Title:       e.Title,
		Description: e.Description,
		Kind:        string(e.Kind),
		SourceID:    e.SourceID,
	}
}

// ToEventResponses converts a slice of events
func ToEventResponses(events []calendar.Event) []EventResponse {
	responses := make([]EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, ToEventResponse(&events[i]))
	}
	return responses
}
