package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gestionale/backend/internal/domain/shared"
)

// DocumentRepository defines the persistence interface for quotes and invoices
type DocumentRepository interface {
	shared.Repository[Document]
	// FindByType finds all documents of the given type
	FindByType(ctx context.Context, docType DocumentType, filter shared.Filter) ([]Document, error)
	// FindByTypeAndStatus finds documents of a type in any of the given statuses
	FindByTypeAndStatus(ctx context.Context, docType DocumentType, statuses ...DocumentStatus) ([]Document, error)
	// FindByNumber finds a document by its sequential number
	FindByNumber(ctx context.Context, number string) (*Document, error)
	// FindByClient finds all documents for a client
	FindByClient(ctx context.Context, clientID uuid.UUID) ([]Document, error)
	// FindIssuedBetween finds documents of a type issued in [from, to)
	FindIssuedBetween(ctx context.Context, docType DocumentType, from, to time.Time) ([]Document, error)
}
