package partner

import (
	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeContact = "Contact"

// Event type constants
const (
	EventTypeContactCreated = "ContactCreated"
	EventTypeContactUpdated = "ContactUpdated"
	EventTypeContactDeleted = "ContactDeleted"
)

// ContactCreatedEvent is published when a new contact is created
type ContactCreatedEvent struct {
	shared.BaseDomainEvent
	ContactID uuid.UUID   `json:"contact_id"`
	Name      string      `json:"name"`
	Type      ContactType `json:"type"`
}

// NewContactCreatedEvent creates a new ContactCreatedEvent
func NewContactCreatedEvent(contact *Contact) *ContactCreatedEvent {
	return &ContactCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContactCreated, AggregateTypeContact, contact.ID),
		ContactID:       contact.ID,
		Name:            contact.Name,
		Type:            contact.Type,
	}
}

// ContactUpdatedEvent is published when a contact is updated
type ContactUpdatedEvent struct {
	shared.BaseDomainEvent
	ContactID uuid.UUID `json:"contact_id"`
	Name      string    `json:"name"`
}

// NewContactUpdatedEvent creates a new ContactUpdatedEvent
func NewContactUpdatedEvent(contact *Contact) *ContactUpdatedEvent {
	return &ContactUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContactUpdated, AggregateTypeContact, contact.ID),
		ContactID:       contact.ID,
		Name:            contact.Name,
	}
}

// ContactDeletedEvent is published when a contact is deleted
type ContactDeletedEvent struct {
	shared.BaseDomainEvent
	ContactID uuid.UUID `json:"contact_id"`
	Name      string    `json:"name"`
}

// NewContactDeletedEvent creates a new ContactDeletedEvent
func NewContactDeletedEvent(contact *Contact) *ContactDeletedEvent {
	return &ContactDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContactDeleted, AggregateTypeContact, contact.ID),
		ContactID:       contact.ID,
		Name:            contact.Name,
	}
}
