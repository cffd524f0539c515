package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gestionale/backend/internal/domain/billing"
	"github.com/gestionale/backend/internal/domain/ledger"
	"github.com/gestionale/backend/internal/domain/shared"
)

// LedgerService handles the cash-basis financial log
type LedgerService struct {
	movementRepo ledger.MovementRepository
	documentRepo billing.DocumentRepository
	txManager    shared.TransactionManager
	eventBus     shared.EventPublisher
	logger       *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	movementRepo ledger.MovementRepository,
	documentRepo billing.DocumentRepository,
	txManager shared.TransactionManager,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{
		movementRepo: movementRepo,
		documentRepo: documentRepo,
		txManager:    txManager,
		eventBus:     eventBus,
		logger:       logger,
	}
}

// RecordPayment marks an invoice as paid and writes the mirroring Income
// movement. Both writes share one transaction, so a Paid invoice without a
// ledger entry can never be observed.
func (s *LedgerService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*MovementResponse, error) {
	invoice, err := s.documentRepo.FindByID(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}

	var movement *ledger.Movement
	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := invoice.MarkPaid(); err != nil {
			return err
		}
		if err := s.documentRepo.Save(txCtx, invoice); err != nil {
			return shared.WrapStorageError(err)
		}

		movement, err = ledger.NewMovementFromInvoice(invoice, req.PaymentDate)
		if err != nil {
			return err
		}
		return shared.WrapStorageError(s.movementRepo.Save(txCtx, movement))
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, movement)
	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, invoice.GetDomainEvents()...)
		invoice.ClearDomainEvents()
	}

	response := ToMovementResponse(movement)
	return &response, nil
}

// CreateMovement records a manual entry with free-form amounts
func (s *LedgerService) CreateMovement(ctx context.Context, req CreateMovementRequest) (*MovementResponse, error) {
	movement, err := ledger.NewMovement(req.Date, ledger.MovementType(req.Type), req.Description,
		req.AmountNet, req.AmountVAT, req.AmountWithholding, req.AmountTotal, req.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.movementRepo.Save(ctx, movement); err != nil {
		return nil, shared.WrapStorageError(err)
	}
	s.publishEvents(ctx, movement)

	response := ToMovementResponse(movement)
	return &response, nil
}

// UpdateMovement edits a manual entry
func (s *LedgerService) UpdateMovement(ctx context.Context, id uuid.UUID, req UpdateMovementRequest) (*MovementResponse, error) {
	movement, err := s.movementRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := movement.UpdateDetails(req.Date, ledger.MovementType(req.Type), req.Description,
		req.AmountNet, req.AmountVAT, req.AmountWithholding, req.AmountTotal, req.Notes); err != nil {
		return nil, err
	}

	if err := s.movementRepo.Save(ctx, movement); err != nil {
		return nil, shared.WrapStorageError(err)
	}

	response := ToMovementResponse(movement)
	return &response, nil
}

// DeleteMovement removes a ledger entry. When the entry records an invoice
// payment, the invoice is reverted to Pending best-effort: a failed revert
// (for instance a deleted invoice) is logged and swallowed, and the movement
// is removed regardless.
func (s *LedgerService) DeleteMovement(ctx context.Context, id uuid.UUID) error {
	movement, err := s.movementRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if movement.LinkedInvoiceID != nil {
		if err := s.revertInvoice(ctx, *movement.LinkedInvoiceID); err != nil {
			s.logger.Warn("could not revert invoice after movement deletion",
				zap.String("movement_id", movement.ID.String()),
				zap.String("invoice_id", movement.LinkedInvoiceID.String()),
				zap.Error(err))
		}
	}

	if err := s.movementRepo.Delete(ctx, id); err != nil {
		return shared.WrapStorageError(err)
	}

	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, ledger.NewMovementDeletedEvent(movement))
	}

	return nil
}

func (s *LedgerService) revertInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	invoice, err := s.documentRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if err := invoice.RevertToPending(); err != nil {
		return err
	}
	if err := s.documentRepo.Save(ctx, invoice); err != nil {
		return shared.WrapStorageError(err)
	}
	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, invoice.GetDomainEvents()...)
		invoice.ClearDomainEvents()
	}
	return nil
}

// GetByID retrieves a movement by id
func (s *LedgerService) GetByID(ctx context.Context, id uuid.UUID) (*MovementResponse, error) {
	movement, err := s.movementRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToMovementResponse(movement)
	return &response, nil
}

// List retrieves movements, optionally restricted to a date range and type
func (s *LedgerService) List(ctx context.Context, filter MovementListFilter) ([]MovementResponse, error) {
	from := time.Time{}
	to := time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)
	if filter.From != nil {
		from = *filter.From
	}
	if filter.To != nil {
		to = *filter.To
	}

	var movements []ledger.Movement
	var err error
	if filter.Type != "" {
		movements, err = s.movementRepo.FindByTypeBetween(ctx, ledger.MovementType(filter.Type), from, to)
	} else {
		movements, err = s.movementRepo.FindBetween(ctx, from, to)
	}
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}

	return ToMovementResponses(movements), nil
}

// MonthlyAggregate builds the month-by-month income/expense table for a year
func (s *LedgerService) MonthlyAggregate(ctx context.Context, year int) (*MonthlyAggregateResponse, error) {
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	movements, err := s.movementRepo.FindBetween(ctx, from, to)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}

	var income, expense [13]decimal.Decimal
	for i := range movements {
		m := &movements[i]
		month := m.Date.Month()
		if m.Type == ledger.MovementTypeIncome {
			income[month] = income[month].Add(m.AmountTotal)
		} else {
			expense[month] = expense[month].Add(m.AmountTotal)
		}
	}

	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	months := make([]MonthlyRow, 0, 12)
	for month := time.January; month <= time.December; month++ {
		totalIncome = totalIncome.Add(income[month])
		totalExpense = totalExpense.Add(expense[month])
		months = append(months, MonthlyRow{
			Month:   month,
			Income:  income[month].StringFixed(2),
			Expense: expense[month].StringFixed(2),
			Net:     income[month].Sub(expense[month]).StringFixed(2),
		})
	}

	return &MonthlyAggregateResponse{
		Year:         year,
		Months:       months,
		TotalIncome:  totalIncome.StringFixed(2),
		TotalExpense: totalExpense.StringFixed(2),
		TotalNet:     totalIncome.Sub(totalExpense).StringFixed(2),
	}, nil
}

func (s *LedgerService) publishEvents(ctx context.Context, movement *ledger.Movement) {
	if s.eventBus == nil || movement == nil {
		return
	}
	_ = s.eventBus.Publish(ctx, movement.GetDomainEvents()...)
	movement.ClearDomainEvents()
}
