package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gestionale/backend/internal/domain/billing"
	"github.com/gestionale/backend/internal/domain/shared"
)

// MovementType distinguishes income from expense entries
type MovementType string

const (
	MovementTypeIncome  MovementType = "INCOME"
	MovementTypeExpense MovementType = "EXPENSE"
)

// IsValid checks if the movement type is valid
func (t MovementType) IsValid() bool {
	return t == MovementTypeIncome || t == MovementTypeExpense
}

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// Movement is one cash-basis ledger entry. Entries derived from invoice
// payments carry the invoice id and mirror its tax breakdown; manual entries
// are free-form.
type Movement struct {
	shared.BaseAggregateRoot
	Date              time.Time       `json:"date" gorm:"not null;index"`
	Type              MovementType    `json:"type" gorm:"not null;index"`
	Description       string          `json:"description" gorm:"not null"`
	AmountNet         decimal.Decimal `json:"amount_net" gorm:"type:decimal(14,2)"`
	AmountVAT         decimal.Decimal `json:"amount_vat" gorm:"type:decimal(14,2)"`
	AmountWithholding decimal.Decimal `json:"amount_withholding" gorm:"type:decimal(14,2)"`
	AmountTotal       decimal.Decimal `json:"amount_total" gorm:"type:decimal(14,2)"`
	LinkedInvoiceID   *uuid.UUID      `json:"linked_invoice_id,omitempty" gorm:"type:text;index"`
	Notes             string          `json:"notes"`
}

// TableName returns the table name for GORM
func (Movement) TableName() string {
	return "movements"
}

// NewMovement creates a manual ledger entry with free-form amounts
func NewMovement(date time.Time, movementType MovementType, description string, net, vat, withholding, total decimal.Decimal, notes string) (*Movement, error) {
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Movement type must be INCOME or EXPENSE")
	}
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Movement description cannot be empty")
	}

	m := &Movement{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Date:              date,
		Type:              movementType,
		Description:       strings.TrimSpace(description),
		AmountNet:         net,
		AmountVAT:         vat,
		AmountWithholding: withholding,
		AmountTotal:       total,
		Notes:             notes,
	}

	m.AddDomainEvent(NewMovementRecordedEvent(m))

	return m, nil
}

// NewMovementFromInvoice creates the Income entry that records an invoice's
// full payment. Net, VAT and withholding mirror the invoice's taxable, VAT
// and withholding amounts; the total mirrors its net payable.
func NewMovementFromInvoice(invoice *billing.Document, paymentDate time.Time) (*Movement, error) {
	if !invoice.IsInvoice() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Payments can only be recorded against invoices")
	}

	invoiceID := invoice.ID
	m := &Movement{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Date:              paymentDate,
		Type:              MovementTypeIncome,
		Description:       "Payment of invoice " + invoice.Number,
		AmountNet:         invoice.TaxableAmount,
		AmountVAT:         invoice.VATAmount,
		AmountWithholding: invoice.WithholdingAmount,
		AmountTotal:       invoice.NetPayable,
		LinkedInvoiceID:   &invoiceID,
	}

	m.AddDomainEvent(NewMovementRecordedEvent(m))

	return m, nil
}

// UpdateDetails replaces a manual entry's fields. Entries linked to an
// invoice are immutable; they can only be deleted.
func (m *Movement) UpdateDetails(date time.Time, movementType MovementType, description string, net, vat, withholding, total decimal.Decimal, notes string) error {
	if m.LinkedInvoiceID != nil {
		return shared.NewDomainError("INVALID_STATE", "Payment movements cannot be edited, delete and re-record instead")
	}
	if !movementType.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Movement type must be INCOME or EXPENSE")
	}
	if strings.TrimSpace(description) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Movement description cannot be empty")
	}

	m.Date = date
	m.Type = movementType
	m.Description = strings.TrimSpace(description)
	m.AmountNet = net
	m.AmountVAT = vat
	m.AmountWithholding = withholding
	m.AmountTotal = total
	m.Notes = notes
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	return nil
}

// IsPayment reports whether the movement records an invoice payment
func (m *Movement) IsPayment() bool {
	return m.LinkedInvoiceID != nil
}

// SignedTotal returns the total with expenses negated, for net aggregation
func (m *Movement) SignedTotal() decimal.Decimal {
	if m.Type == MovementTypeExpense {
		return m.AmountTotal.Neg()
	}
	return m.AmountTotal
}
