package calendar

import (
	"context"

	"go.uber.org/zap"

	"github.com/gestionale/backend/internal/domain/billing"
	"github.com/gestionale/backend/internal/domain/project"
	"github.com/gestionale/backend/internal/domain/shared"
)

// RegenerationHandler listens for the domain events that can move a deadline
// and triggers a full rebuild of the automatic calendar events. Regeneration
// is idempotent, so reacting to every matching event is safe.
type RegenerationHandler struct {
	service *CalendarService
	logger  *zap.Logger
}

// NewRegenerationHandler creates a handler bound to the calendar service
func NewRegenerationHandler(service *CalendarService, logger *zap.Logger) *RegenerationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegenerationHandler{service: service, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *RegenerationHandler) EventTypes() []string {
	return []string{
		project.EventTypeProjectCreated,
		project.EventTypeProjectStatusChanged,
		project.EventTypeProjectPhasesChanged,
		project.EventTypeProjectDeleted,
		billing.EventTypeDocumentCreated,
		billing.EventTypeDocumentStatusChanged,
		billing.EventTypeDocumentDeleted,
		billing.EventTypeQuoteConverted,
	}
}

// Handle rebuilds the automatic events. A failed rebuild is logged but not
// propagated: the next mutation or the daily job will retry it.
func (h *RegenerationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.service.RegenerateAutomaticEvents(ctx); err != nil {
		h.logger.Warn("calendar regeneration failed",
			zap.String("trigger", event.EventType()),
			zap.Error(err))
	}
	return nil
}
