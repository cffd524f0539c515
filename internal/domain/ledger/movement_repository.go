package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gestionale/backend/internal/domain/shared"
)

// MovementRepository defines the persistence interface for ledger movements
type MovementRepository interface {
	shared.Repository[Movement]
	// FindBetween finds movements dated in [from, to), newest first
	FindBetween(ctx context.Context, from, to time.Time) ([]Movement, error)
	// FindByInvoice finds the payment movement linked to an invoice, if any
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) (*Movement, error)
	// FindByTypeBetween finds movements of one type dated in [from, to)
	FindByTypeBetween(ctx context.Context, movementType MovementType, from, to time.Time) ([]Movement, error)
}
