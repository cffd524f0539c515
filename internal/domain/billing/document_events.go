package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gestionale/backend/internal/domain/shared"
)

// Aggregate type constant
const (
	AggregateTypeDocument = "Document"
)

// Event type constants
const (
	EventTypeDocumentCreated       = "billing.document.created"
	EventTypeDocumentStatusChanged = "billing.document.status_changed"
	EventTypeDocumentDeleted       = "billing.document.deleted"
	EventTypeQuoteConverted        = "billing.quote.converted"
)

// DocumentCreatedEvent is published when a quote or invoice is created
type DocumentCreatedEvent struct {
	shared.BaseDomainEvent
	DocumentType DocumentType    `json:"document_type"`
	Number       string          `json:"number"`
	ClientID     uuid.UUID       `json:"client_id"`
	NetPayable   decimal.Decimal `json:"net_payable"`
}

// NewDocumentCreatedEvent creates a new DocumentCreatedEvent
func NewDocumentCreatedEvent(d *Document) *DocumentCreatedEvent {
	return &DocumentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentCreated, AggregateTypeDocument, d.ID),
		DocumentType:    d.Type,
		Number:          d.Number,
		ClientID:        d.ClientID,
		NetPayable:      d.NetPayable,
	}
}

// DocumentStatusChangedEvent is published on every status transition. The
// calendar listens for it to rebuild invoice deadline events.
type DocumentStatusChangedEvent struct {
	shared.BaseDomainEvent
	DocumentType DocumentType   `json:"document_type"`
	Number       string         `json:"number"`
	Status       DocumentStatus `json:"status"`
}

// NewDocumentStatusChangedEvent creates a new DocumentStatusChangedEvent
func NewDocumentStatusChangedEvent(d *Document) *DocumentStatusChangedEvent {
	return &DocumentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentStatusChanged, AggregateTypeDocument, d.ID),
		DocumentType:    d.Type,
		Number:          d.Number,
		Status:          d.Status,
	}
}

// DocumentDeletedEvent is published when a document is removed
type DocumentDeletedEvent struct {
	shared.BaseDomainEvent
	DocumentType DocumentType `json:"document_type"`
	Number       string       `json:"number"`
}

// NewDocumentDeletedEvent creates a new DocumentDeletedEvent
func NewDocumentDeletedEvent(d *Document) *DocumentDeletedEvent {
	return &DocumentDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentDeleted, AggregateTypeDocument, d.ID),
		DocumentType:    d.Type,
		Number:          d.Number,
	}
}

// QuoteConvertedEvent is published when a quote is converted into an invoice
type QuoteConvertedEvent struct {
	shared.BaseDomainEvent
	QuoteNumber   string    `json:"quote_number"`
	InvoiceID     uuid.UUID `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
}

// NewQuoteConvertedEvent creates a new QuoteConvertedEvent
func NewQuoteConvertedEvent(quote, invoice *Document) *QuoteConvertedEvent {
	return &QuoteConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteConverted, AggregateTypeDocument, quote.ID),
		QuoteNumber:     quote.Number,
		InvoiceID:       invoice.ID,
		InvoiceNumber:   invoice.Number,
	}
}
