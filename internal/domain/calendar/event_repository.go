package calendar

import (
	"context"
	"time"

	"github.com/gestionale/backend/internal/domain/shared"
)

// EventRepository defines the persistence interface for calendar events
type EventRepository interface {
	shared.Repository[Event]
	// FindByKind finds all events of one kind
	FindByKind(ctx context.Context, kind EventKind) ([]Event, error)
	// FindBetween finds events dated in [from, to), ordered by date
	FindBetween(ctx context.Context, from, to time.Time) ([]Event, error)
	// FindDueOn finds events falling on the given calendar day
	FindDueOn(ctx context.Context, day time.Time) ([]Event, error)
	// DeleteAutomatic removes every AutoProject/AutoInvoice event, the first
	// half of a regeneration pass
	DeleteAutomatic(ctx context.Context) error
	// SaveBatch persists a set of events in one transaction
	SaveBatch(ctx context.Context, events []*Event) error
}
