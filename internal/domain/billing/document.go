package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/gestionale/backend/internal/domain/shared/valueobject"
)

// DocumentType distinguishes quotes from invoices
type DocumentType string

const (
	DocumentTypeQuote   DocumentType = "QUOTE"
	DocumentTypeInvoice DocumentType = "INVOICE"
)

// IsValid checks if the document type is valid
func (t DocumentType) IsValid() bool {
	return t == DocumentTypeQuote || t == DocumentTypeInvoice
}

// String returns the string representation of DocumentType
func (t DocumentType) String() string {
	return string(t)
}

// DocumentStatus is the lifecycle status of a quote or invoice. The allowed
// set depends on the document type.
type DocumentStatus string

const (
	// quote statuses
	QuoteStatusDraft    DocumentStatus = "DRAFT"
	QuoteStatusSent     DocumentStatus = "SENT"
	QuoteStatusAccepted DocumentStatus = "ACCEPTED"
	QuoteStatusRejected DocumentStatus = "REJECTED"
	QuoteStatusInvoiced DocumentStatus = "INVOICED"

	// invoice statuses
	InvoiceStatusPending   DocumentStatus = "PENDING"
	InvoiceStatusPaid      DocumentStatus = "PAID"
	InvoiceStatusOverdue   DocumentStatus = "OVERDUE"
	InvoiceStatusCancelled DocumentStatus = "CANCELLED"
)

// ValidStatusesFor returns the allowed status set for a document type
func ValidStatusesFor(docType DocumentType) []DocumentStatus {
	if docType == DocumentTypeQuote {
		return []DocumentStatus{QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusInvoiced}
	}
	return []DocumentStatus{InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled}
}

// IsValidFor checks whether the status belongs to the document type's set
func (s DocumentStatus) IsValidFor(docType DocumentType) bool {
	for _, valid := range ValidStatusesFor(docType) {
		if s == valid {
			return true
		}
	}
	return false
}

// String returns the string representation of DocumentStatus
func (s DocumentStatus) String() string {
	return string(s)
}

// LineItem is one billed row. It is a value object stored inside the
// Document aggregate as JSON. LineTotal is quantity times unit price, exact.
type LineItem struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	StockItemID *uuid.UUID      `json:"stock_item_id,omitempty"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// NewLineItem builds a line item and computes its total
func NewLineItem(description string, quantity, unitPrice decimal.Decimal, stockItemID *uuid.UUID) (LineItem, error) {
	if strings.TrimSpace(description) == "" {
		return LineItem{}, shared.NewDomainError("INVALID_INPUT", "Line item description cannot be empty")
	}
	if quantity.IsNegative() || unitPrice.IsNegative() {
		return LineItem{}, shared.ErrInvalidAmount
	}

	return LineItem{
		ID:          uuid.New(),
		Description: strings.TrimSpace(description),
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		StockItemID: stockItemID,
		LineTotal:   quantity.Mul(unitPrice),
	}, nil
}

// LineItems is a slice of LineItem that implements GORM Scanner/Valuer for JSON storage
type LineItems []LineItem

// Value implements driver.Valuer for GORM
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for GORM
func (l *LineItems) Scan(value interface{}) error {
	if value == nil {
		*l = LineItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan LineItems: unsupported type")
	}

	if len(bytes) == 0 {
		*l = LineItems{}
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// FinancialBreakdown holds the derived financial fields of a document.
// Discount, VAT and withholding amounts are each rounded half-up to 2
// decimal places independently; the sums are exact sums of rounded parts.
type FinancialBreakdown struct {
	Subtotal          decimal.Decimal `json:"subtotal"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
	TaxableAmount     decimal.Decimal `json:"taxable_amount"`
	VATAmount         decimal.Decimal `json:"vat_amount"`
	GrossTotal        decimal.Decimal `json:"gross_total"`
	WithholdingAmount decimal.Decimal `json:"withholding_amount"`
	NetPayable        decimal.Decimal `json:"net_payable"`
}

// CalculateTotals computes the full financial breakdown for a set of line
// items and percentage triple. Pure function; money never touches floats.
func CalculateTotals(items LineItems, discountPct, vatPct, withholdingPct valueobject.Percent) FinancialBreakdown {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal)
	}

	subtotalMoney := valueobject.NewMoneyEUR(subtotal)
	discount := subtotalMoney.PercentageOf(discountPct.Value())
	taxable := subtotalMoney.MustSubtract(discount)
	vat := taxable.PercentageOf(vatPct.Value())
	gross := taxable.MustAdd(vat)
	withholding := taxable.PercentageOf(withholdingPct.Value())
	net := gross.MustSubtract(withholding)

	return FinancialBreakdown{
		Subtotal:          subtotal,
		DiscountAmount:    discount.Amount(),
		TaxableAmount:     taxable.Amount(),
		VATAmount:         vat.Amount(),
		GrossTotal:        gross.Amount(),
		WithholdingAmount: withholding.Amount(),
		NetPayable:        net.Amount(),
	}
}

// Document is the quote/invoice aggregate root. Both document types share
// one shape; the type tag selects the status enum and whether withholding
// and due date apply.
type Document struct {
	shared.BaseAggregateRoot
	Type           DocumentType    `json:"type" gorm:"not null;index"`
	Number         string          `json:"number" gorm:"not null;uniqueIndex"`
	IssueDate      time.Time       `json:"issue_date" gorm:"not null;index"`
	ClientID       uuid.UUID       `json:"client_id" gorm:"type:text;not null;index"`
	ProjectID      *uuid.UUID      `json:"project_id,omitempty" gorm:"type:text;index"`
	Status         DocumentStatus  `json:"status" gorm:"not null;index"`
	LineItems      LineItems       `json:"line_items" gorm:"type:text"`
	DiscountPct    decimal.Decimal `json:"discount_pct" gorm:"type:decimal(7,4)"`
	VATPct         decimal.Decimal `json:"vat_pct" gorm:"type:decimal(7,4)"`
	WithholdingPct decimal.Decimal `json:"withholding_pct" gorm:"type:decimal(7,4)"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	Notes          string          `json:"notes"`

	// derived, recomputed on every item/percentage change
	Subtotal          decimal.Decimal `json:"subtotal" gorm:"type:decimal(14,2)"`
	DiscountAmount    decimal.Decimal `json:"discount_amount" gorm:"type:decimal(14,2)"`
	TaxableAmount     decimal.Decimal `json:"taxable_amount" gorm:"type:decimal(14,2)"`
	VATAmount         decimal.Decimal `json:"vat_amount" gorm:"type:decimal(14,2)"`
	GrossTotal        decimal.Decimal `json:"gross_total" gorm:"type:decimal(14,2)"`
	WithholdingAmount decimal.Decimal `json:"withholding_amount" gorm:"type:decimal(14,2)"`
	NetPayable        decimal.Decimal `json:"net_payable" gorm:"type:decimal(14,2)"`
}

// TableName returns the table name for GORM
func (Document) TableName() string {
	return "documents"
}

// NewQuote creates a quote in Draft status. Withholding is forced to zero;
// quotes never carry it.
func NewQuote(number string, clientID uuid.UUID, projectID *uuid.UUID, items LineItems, discountPct, vatPct valueobject.Percent, notes string) (*Document, error) {
	doc, err := newDocument(DocumentTypeQuote, number, clientID, projectID, items, discountPct, vatPct, valueobject.ZeroPercent(), notes)
	if err != nil {
		return nil, err
	}
	doc.Status = QuoteStatusDraft
	doc.AddDomainEvent(NewDocumentCreatedEvent(doc))
	return doc, nil
}

// NewInvoice creates an invoice in Pending status
func NewInvoice(number string, clientID uuid.UUID, projectID *uuid.UUID, items LineItems, discountPct, vatPct, withholdingPct valueobject.Percent, dueDate *time.Time, notes string) (*Document, error) {
	doc, err := newDocument(DocumentTypeInvoice, number, clientID, projectID, items, discountPct, vatPct, withholdingPct, notes)
	if err != nil {
		return nil, err
	}
	doc.Status = InvoiceStatusPending
	doc.DueDate = dueDate
	doc.AddDomainEvent(NewDocumentCreatedEvent(doc))
	return doc, nil
}

func newDocument(docType DocumentType, number string, clientID uuid.UUID, projectID *uuid.UUID, items LineItems, discountPct, vatPct, withholdingPct valueobject.Percent, notes string) (*Document, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Document number cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Document requires a client")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Document requires at least one line item")
	}

	doc := &Document{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              docType,
		Number:            number,
		IssueDate:         time.Now(),
		ClientID:          clientID,
		ProjectID:         projectID,
		LineItems:         items,
		DiscountPct:       discountPct.Value(),
		VATPct:            vatPct.Value(),
		WithholdingPct:    withholdingPct.Value(),
		Notes:             notes,
	}
	doc.recalculate()

	return doc, nil
}

func (d *Document) recalculate() {
	discount, _ := valueobject.NewPercent(d.DiscountPct)
	vat, _ := valueobject.NewPercent(d.VATPct)
	withholding, _ := valueobject.NewPercent(d.WithholdingPct)
	breakdown := CalculateTotals(d.LineItems, discount, vat, withholding)
	d.Subtotal = breakdown.Subtotal
	d.DiscountAmount = breakdown.DiscountAmount
	d.TaxableAmount = breakdown.TaxableAmount
	d.VATAmount = breakdown.VATAmount
	d.GrossTotal = breakdown.GrossTotal
	d.WithholdingAmount = breakdown.WithholdingAmount
	d.NetPayable = breakdown.NetPayable
}

// IsQuote reports whether the document is a quote
func (d *Document) IsQuote() bool {
	return d.Type == DocumentTypeQuote
}

// IsInvoice reports whether the document is an invoice
func (d *Document) IsInvoice() bool {
	return d.Type == DocumentTypeInvoice
}

// IsMutable reports whether items and financials may still change. An
// invoiced quote is frozen forever.
func (d *Document) IsMutable() bool {
	return !(d.IsQuote() && d.Status == QuoteStatusInvoiced)
}

// UpdateContents replaces items, percentages and notes, then recomputes the
// financial breakdown. Fails on an invoiced quote.
func (d *Document) UpdateContents(items LineItems, discountPct, vatPct, withholdingPct valueobject.Percent, notes string) error {
	if !d.IsMutable() {
		return shared.ErrAlreadyConverted
	}
	if len(items) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "Document requires at least one line item")
	}
	if d.IsQuote() && !withholdingPct.IsZero() {
		return shared.NewDomainError("INVALID_INPUT", "Quotes cannot carry withholding tax")
	}

	d.LineItems = items
	d.DiscountPct = discountPct.Value()
	d.VATPct = vatPct.Value()
	d.WithholdingPct = withholdingPct.Value()
	d.Notes = notes
	d.recalculate()
	d.touch()

	return nil
}

// ChangeStatus moves the document to a new status, validated against the
// set allowed for its type.
func (d *Document) ChangeStatus(status DocumentStatus) error {
	if !status.IsValidFor(d.Type) {
		return shared.NewDomainErrorf("INVALID_STATUS", "Invalid status %s for %s", status, d.Type)
	}

	d.Status = status
	d.touch()
	d.AddDomainEvent(NewDocumentStatusChangedEvent(d))

	return nil
}

// MarkInvoiced flips a quote to Invoiced. One-shot: a second call fails with
// AlreadyConverted.
func (d *Document) MarkInvoiced() error {
	if !d.IsQuote() {
		return shared.NewDomainError("INVALID_STATUS", "Only quotes can be marked invoiced")
	}
	if d.Status == QuoteStatusInvoiced {
		return shared.ErrAlreadyConverted
	}

	d.Status = QuoteStatusInvoiced
	d.touch()
	d.AddDomainEvent(NewDocumentStatusChangedEvent(d))

	return nil
}

// MarkPaid flips a pending or overdue invoice to Paid. A second call fails
// with AlreadyPaid.
func (d *Document) MarkPaid() error {
	if !d.IsInvoice() {
		return shared.NewDomainError("INVALID_STATUS", "Only invoices can be paid")
	}
	if d.Status == InvoiceStatusPaid {
		return shared.ErrAlreadyPaid
	}

	d.Status = InvoiceStatusPaid
	d.touch()
	d.AddDomainEvent(NewDocumentStatusChangedEvent(d))

	return nil
}

// RevertToPending returns a paid invoice to Pending, used when the matching
// ledger movement is deleted.
func (d *Document) RevertToPending() error {
	if !d.IsInvoice() {
		return shared.NewDomainError("INVALID_STATUS", "Only invoices can revert to pending")
	}

	d.Status = InvoiceStatusPending
	d.touch()
	d.AddDomainEvent(NewDocumentStatusChangedEvent(d))

	return nil
}

// IsOpen reports whether an invoice still awaits payment
func (d *Document) IsOpen() bool {
	return d.IsInvoice() && (d.Status == InvoiceStatusPending || d.Status == InvoiceStatusOverdue)
}

// StockLines returns the line items that reference a stock item
func (d *Document) StockLines() []LineItem {
	var lines []LineItem
	for _, item := range d.LineItems {
		if item.StockItemID != nil {
			lines = append(lines, item)
		}
	}
	return lines
}

func (d *Document) touch() {
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}
