package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gestionale/backend/internal/domain/ledger"
)

// RecordPaymentRequest records an invoice's full payment
type RecordPaymentRequest struct {
	InvoiceID   uuid.UUID `json:"invoice_id" binding:"required"`
	PaymentDate time.Time `json:"payment_date" binding:"required"`
}

// CreateMovementRequest represents a manual ledger entry
type CreateMovementRequest struct {
	Date              time.Time       `json:"date" binding:"required"`
	Type              string          `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Description       string          `json:"description" binding:"required,min=1,max=500"`
	AmountNet         decimal.Decimal `json:"amount_net"`
	AmountVAT         decimal.Decimal `json:"amount_vat"`
	AmountWithholding decimal.Decimal `json:"amount_withholding"`
	AmountTotal       decimal.Decimal `json:"amount_total"`
	Notes             string          `json:"notes"`
}

// UpdateMovementRequest edits a manual ledger entry
type UpdateMovementRequest struct {
	Date              time.Time       `json:"date" binding:"required"`
	Type              string          `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Description       string          `json:"description" binding:"required,min=1,max=500"`
	AmountNet         decimal.Decimal `json:"amount_net"`
	AmountVAT         decimal.Decimal `json:"amount_vat"`
	AmountWithholding decimal.Decimal `json:"amount_withholding"`
	AmountTotal       decimal.Decimal `json:"amount_total"`
	Notes             string          `json:"notes"`
}

// MovementListFilter carries list query options
type MovementListFilter struct {
	Type     string     `form:"type" binding:"omitempty,oneof=INCOME EXPENSE"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page"`
	PageSize int        `form:"page_size"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// MovementResponse represents a ledger entry in API responses
type MovementResponse struct {
	ID                uuid.UUID  `json:"id"`
	Date              time.Time  `json:"date"`
	Type              string     `json:"type"`
	Description       string     `json:"description"`
	AmountNet         string     `json:"amount_net"`
	AmountVAT         string     `json:"amount_vat"`
	AmountWithholding string     `json:"amount_withholding"`
	AmountTotal       string     `json:"amount_total"`
	LinkedInvoiceID   *uuid.UUID `json:"linked_invoice_id,omitempty"`
	Notes             string     `json:"notes"`
	CreatedAt         time.Time  `json:"created_at"`
}

// ToMovementResponse converts a domain movement into its API representation
func ToMovementResponse(m *ledger.Movement) MovementResponse {
	return MovementResponse{
		ID:                m.ID,
		Date:              m.Date,
		Type:              m.Type.String(),
		Description:       m.Description,
		AmountNet:         m.AmountNet.StringFixed(2),
		AmountVAT:         m.AmountVAT.StringFixed(2),
		AmountWithholding: m.AmountWithholding.StringFixed(2),
		AmountTotal:       m.AmountTotal.StringFixed(2),
		LinkedInvoiceID:   m.LinkedInvoiceID,
		Notes:             m.Notes,
		CreatedAt:         m.CreatedAt,
	}
}

// ToMovementResponses converts a slice of movements
func ToMovementResponses(movements []ledger.Movement) []MovementResponse {
	responses := make([]MovementResponse, 0, len(movements))
	for i := range movements {
		responses = append(responses, ToMovementResponse(&movements[i]))
	}
	return responses
}

// MonthlyRow is one month of the year aggregate
type MonthlyRow struct {
	Month   time.Month `json:"month"`
	Income  string     `json:"income"`
	Expense string     `json:"expense"`
	Net     string     `json:"net"`
}

// MonthlyAggregateResponse is the month-by-month income/expense table
type MonthlyAggregateResponse struct {
	Year         int          `json:"year"`
	Months       []MonthlyRow `json:"months"`
	TotalIncome  string       `json:"total_income"`
	TotalExpense string       `json:"total_expense"`
	TotalNet     string       `json:"total_net"`
}
