package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gestionale/backend/internal/domain/shared"
)

// Aggregate type constant
const (
	AggregateTypeMovement = "Movement"
)

// Event type constants
const (
	EventTypeMovementRecorded = "ledger.movement.recorded"
	EventTypeMovementDeleted  = "ledger.movement.deleted"
)

// MovementRecordedEvent is published when a ledger entry is created
type MovementRecordedEvent struct {
	shared.BaseDomainEvent
	MovementType    MovementType    `json:"movement_type"`
	AmountTotal     decimal.Decimal `json:"amount_total"`
	LinkedInvoiceID *uuid.UUID      `json:"linked_invoice_id,omitempty"`
}

// NewMovementRecordedEvent creates a new MovementRecordedEvent
func NewMovementRecordedEvent(m *Movement) *MovementRecordedEvent {
	return &MovementRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMovementRecorded, AggregateTypeMovement, m.ID),
		MovementType:    m.Type,
		AmountTotal:     m.AmountTotal,
		LinkedInvoiceID: m.LinkedInvoiceID,
	}
}

// MovementDeletedEvent is published when a ledger entry is removed
type MovementDeletedEvent struct {
	shared.BaseDomainEvent
	MovementType    MovementType `json:"movement_type"`
	LinkedInvoiceID *uuid.UUID   `json:"linked_invoice_id,omitempty"`
}

// NewMovementDeletedEvent creates a new MovementDeletedEvent
func NewMovementDeletedEvent(m *Movement) *MovementDeletedEvent {
	return &MovementDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMovementDeleted, AggregateTypeMovement, m.ID),
		MovementType:    m.Type,
		LinkedInvoiceID: m.LinkedInvoiceID,
	}
}
