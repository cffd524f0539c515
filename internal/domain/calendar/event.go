package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gestionale/backend/internal/domain/shared"
)

// EventKind distinguishes user-authored events from mechanically derived ones
type EventKind string

const (
	EventKindManual      EventKind = "MANUAL"
	EventKindAutoProject EventKind = "AUTO_PROJECT"
	EventKindAutoInvoice EventKind = "AUTO_INVOICE"
)

// IsValid checks if the event kind is valid
func (k EventKind) IsValid() bool {
	switch k {
	case EventKindManual, EventKindAutoProject, EventKindAutoInvoice:
		return true
	}
	return false
}

// IsAutomatic reports whether the event is regenerated wholesale
func (k EventKind) IsAutomatic() bool {
	return k == EventKindAutoProject || k == EventKindAutoInvoice
}

// autoEventNamespace seeds the deterministic ids of automatic events so a
// regeneration pass with unchanged inputs reproduces the same ids.
var autoEventNamespace = uuid.MustParse("7c9e6f3a-2b41-4c8d-9e5f-1a6b3c8d2e4f")

// Event is a calendar entry. Manual events are owned by the user; automatic
// events are derived from project phases and invoice due dates and rebuilt
// on every regeneration pass.
type Event struct {
	shared.BaseAggregateRoot
	Date        time.Time  `json:"date" gorm:"not null;index"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	Kind        EventKind  `json:"kind" gorm:"not null;index"`
	SourceID    *uuid.UUID `json:"source_id,omitempty" gorm:"type:text;index"`
}

// TableName returns the table name for GORM
func (Event) TableName() string {
	return "calendar_events"
}

// NewManualEvent creates a user-authored calendar entry
func NewManualEvent(date time.Time, title, description string) (*Event, error) {
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Event title cannot be empty")
	}

	return &Event{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Date:              date,
		Title:             strings.TrimSpace(title),
		Description:       description,
		Kind:              EventKindManual,
	}, nil
}

// NewAutoEvent creates a derived calendar entry. The id is a SHA1 uuid over
// (kind, source id, discriminator, date) so regeneration with unchanged
// inputs yields the same id and external references stay stable.
func NewAutoEvent(kind EventKind, date time.Time, title, description string, sourceID uuid.UUID, discriminator string) *Event {
	name := fmt.Sprintf("%s|%s|%s|%s", kind, sourceID, discriminator, date.Format("2006-01-02"))

	e := &Event{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Date:              date,
		Title:             title,
		Description:       description,
		Kind:              kind,
		SourceID:          &sourceID,
	}
	e.ID = uuid.NewSHA1(autoEventNamespace, []byte(name))

	return e
}

// UpdateDetails edits a manual event. Automatic events cannot be edited;
// they are rebuilt from their sources.
func (e *Event) UpdateDetails(date time.Time, title, description string) error {
	if e.Kind.IsAutomatic() {
		return shared.NewDomainError("INVALID_STATE", "Automatic events cannot be edited")
	}
	if strings.TrimSpace(title) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Event title cannot be empty")
	}

	e.Date = date
	e.Title = strings.TrimSpace(title)
	e.Description = description
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// IsDueOn reports whether the event falls on the given calendar day
func (e *Event) IsDueOn(day time.Time) bool {
	y1, m1, d1 := e.Date.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
