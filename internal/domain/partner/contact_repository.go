package partner

import (
	"context"

	"github.com/gestionale/backend/internal/domain/shared"
)

// ContactRepository defines the persistence interface for contacts
type ContactRepository interface {
	shared.Repository[Contact]
	// FindByType finds all contacts of the given type
	FindByType(ctx context.Context, contactType ContactType, filter shared.Filter) ([]Contact, error)
	// Search finds contacts matching a case-insensitive query over
	// name, company, tax id and email
	Search(ctx context.Context, query string) ([]Contact, error)
}
