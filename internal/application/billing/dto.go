package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gestionale/backend/internal/domain/billing"
)

// LineItemRequest represents one billed row in a create request
type LineItemRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	StockItemID *uuid.UUID      `json:"stock_item_id"`
}

// CreateQuoteRequest represents a request to create a quote
type CreateQuoteRequest struct {
	ClientID    uuid.UUID         `json:"client_id" binding:"required"`
	ProjectID   *uuid.UUID        `json:"project_id"`
	Items       []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	DiscountPct decimal.Decimal   `json:"discount_pct"`
	VATPct      decimal.Decimal   `json:"vat_pct"`
	Notes       string            `json:"notes"`
}

// CreateInvoiceRequest represents a request to create an invoice
type CreateInvoiceRequest struct {
	ClientID       uuid.UUID         `json:"client_id" binding:"required"`
	ProjectID      *uuid.UUID        `json:"project_id"`
	Items          []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	DiscountPct    decimal.Decimal   `json:"discount_pct"`
	VATPct         decimal.Decimal   `json:"vat_pct"`
	WithholdingPct decimal.Decimal   `json:"withholding_pct"`
	DueDate        *time.Time        `json:"due_date"`
	Notes          string            `json:"notes"`
}

// ConvertQuoteRequest represents a request to convert a quote into an invoice
type ConvertQuoteRequest struct {
	DueDate        *time.Time      `json:"due_date"`
	WithholdingPct decimal.Decimal `json:"withholding_pct"`
}

// UpdateStatusRequest moves a document to a new status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// DocumentListFilter carries list query options
type DocumentListFilter struct {
	Type     string `form:"type" binding:"omitempty,oneof=QUOTE INVOICE"`
	Status   string `form:"status"`
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// LineItemResponse represents a line item in API responses
type LineItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	StockItemID *uuid.UUID      `json:"stock_item_id,omitempty"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// DocumentResponse represents a quote or invoice in API responses
type DocumentResponse struct {
	ID                uuid.UUID          `json:"id"`
	Type              string             `json:"type"`
	Number            string             `json:"number"`
	IssueDate         time.Time          `json:"issue_date"`
	ClientID          uuid.UUID          `json:"client_id"`
	ProjectID         *uuid.UUID         `json:"project_id,omitempty"`
	Status            string             `json:"status"`
	Items             []LineItemResponse `json:"items"`
	DiscountPct       decimal.Decimal    `json:"discount_pct"`
	VATPct            decimal.Decimal    `json:"vat_pct"`
	WithholdingPct    decimal.Decimal    `json:"withholding_pct"`
	DueDate           *time.Time         `json:"due_date,omitempty"`
	Notes             string             `json:"notes"`
	Subtotal          string             `json:"subtotal"`
	DiscountAmount    string             `json:"discount_amount"`
	TaxableAmount     string             `json:"taxable_amount"`
	VATAmount         string             `json:"vat_amount"`
	GrossTotal        string             `json:"gross_total"`
	WithholdingAmount string             `json:"withholding_amount"`
	NetPayable        string             `json:"net_payable"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// ToDocumentResponse converts a domain document into its API representation
func ToDocumentResponse(d *billing.Document) DocumentResponse {
	items := make([]LineItemResponse, 0, len(d.LineItems))
	for _, item := range d.LineItems {
		items = append(items, LineItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			StockItemID: item.StockItemID,
			LineTotal:   item.LineTotal,
		})
	}

	return DocumentResponse{
		ID:                d.ID,
		Type:              d.Type.String(),
		Number:            d.Number,
		IssueDate:         d.IssueDate,
		ClientID:          d.ClientID,
		ProjectID:         d.ProjectID,
		Status:            d.Status.String(),
		Items:             items,
		DiscountPct:       d.DiscountPct,
		VATPct:            d.VATPct,
		WithholdingPct:    d.WithholdingPct,
		DueDate:           d.DueDate,
		Notes:             d.Notes,
		Subtotal:          d.Subtotal.StringFixed(2),
		DiscountAmount:    d.DiscountAmount.StringFixed(2),
		TaxableAmount:     d.TaxableAmount.StringFixed(2),
		VATAmount:         d.VATAmount.StringFixed(2),
		GrossTotal:        d.GrossTotal.StringFixed(2),
		WithholdingAmount: d.WithholdingAmount.StringFixed(2),
		NetPayable:        d.NetPayable.StringFixed(2),
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

// ToDocumentResponses converts a slice of documents
func ToDocumentResponses(documents []billing.Document) []DocumentResponse {
	responses := make([]DocumentResponse, 0, len(documents))
	for i := range documents {
		responses = append(responses, ToDocumentResponse(&documents[i]))
	}
	return responses
}

// ClientRevenue is one row of the annual ranking
type ClientRevenue struct {
	ClientID uuid.UUID `json:"client_id"`
	Revenue  string    `json:"revenue"`
	Invoices int       `json:"invoices"`
}

// AnnualStatsResponse summarizes a year's paid invoices
type AnnualStatsResponse struct {
	Year         int             `json:"year"`
	InvoiceCount int             `json:"invoice_count"`
	PaidCount    int             `json:"paid_count"`
	Revenue      string          `json:"revenue"`
	VATCollected string          `json:"vat_collected"`
	TopClients   []ClientRevenue `json:"top_clients"`
}
