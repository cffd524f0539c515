package billing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gestionale/backend/internal/domain/billing"
	"github.com/gestionale/backend/internal/domain/inventory"
	"github.com/gestionale/backend/internal/domain/partner"
	"github.com/gestionale/backend/internal/domain/settings"
	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/gestionale/backend/internal/domain/shared/valueobject"
)

// DocumentService handles quote and invoice operations
type DocumentService struct {
	documentRepo billing.DocumentRepository
	contactRepo  partner.ContactRepository
	stockRepo    inventory.StockItemRepository
	settingsRepo settings.SettingsRepository
	txManager    shared.TransactionManager
	eventBus     shared.EventPublisher
	now          func() time.Time
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	documentRepo billing.DocumentRepository,
	contactRepo partner.ContactRepository,
	stockRepo inventory.StockItemRepository,
	settingsRepo settings.SettingsRepository,
	txManager shared.TransactionManager,
	eventBus shared.EventPublisher,
) *DocumentService {
	return &DocumentService{
		documentRepo: documentRepo,
		contactRepo:  contactRepo,
		stockRepo:    stockRepo,
		settingsRepo: settingsRepo,
		txManager:    txManager,
		eventBus:     eventBus,
		now:          time.Now,
	}
}

// CreateQuote creates a quote. Withholding is always zero on quotes.
func (s *DocumentService) CreateQuote(ctx context.Context, req CreateQuoteRequest) (*DocumentResponse, error) {
	if _, err := s.contactRepo.FindByID(ctx, req.ClientID); err != nil {
		return nil, err
	}

	items, err := buildLineItems(req.Items)
	if err != nil {
		return nil, err
	}
	discount, vat, _, err := parsePercentages(req.DiscountPct, req.VATPct, decimal.Zero)
	if err != nil {
		return nil, err
	}

	var quote *billing.Document
	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		number, err := s.allocateNumber(txCtx, settings.DocumentKindQuote)
		if err != nil {
			return err
		}

		quote, err = billing.NewQuote(number, req.ClientID, req.ProjectID, items, discount, vat, req.Notes)
		if err != nil {
			return err
		}

		return shared.WrapStorageError(s.documentRepo.Save(txCtx, quote))
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, quote)

	response := ToDocumentResponse(quote)
	return &response, nil
}

// CreateInvoice creates an invoice, debiting stock for every line that
// references a stock item. Availability is validated for all lines before
// any mutation; on any shortage the whole operation fails with a
// STOCK_UPDATE_FAILED error listing every failing line, and neither stock
// nor the invoice is written. Number allocation, stock debits and the
// invoice insert share one transaction.
func (s *DocumentService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*DocumentResponse, error) {
	if _, err := s.contactRepo.FindByID(ctx, req.ClientID); err != nil {
		return nil, err
	}

	items, err := buildLineItems(req.Items)
	if err != nil {
		return nil, err
	}
	discount, vat, withholding, err := parsePercentages(req.DiscountPct, req.VATPct, req.WithholdingPct)
	if err != nil {
		return nil, err
	}

	var invoice *billing.Document
	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		stockItems, err := s.validateStock(txCtx, items)
		if err != nil {
			return err
		}

		number, err := s.allocateNumber(txCtx, settings.DocumentKindInvoice)
		if err != nil {
			return err
		}

		invoice, err = billing.NewInvoice(number, req.ClientID, req.ProjectID, items, discount, vat, withholding, req.DueDate, req.Notes)
		if err != nil {
			return err
		}

		if err := s.applyStockDebits(txCtx, items, stockItems); err != nil {
			return err
		}

		return shared.WrapStorageError(s.documentRepo.Save(txCtx, invoice))
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, invoice)

	response := ToDocumentResponse(invoice)
	return &response, nil
}

// ConvertQuoteToInvoice creates an invoice from a quote, reusing its client,
// items, discount and VAT. The quote flips to Invoiced only when the invoice
// path, including stock debits, succeeds; both writes share one transaction.
func (s *DocumentService) ConvertQuoteToInvoice(ctx context.Context, quoteID uuid.UUID, req ConvertQuoteRequest) (*DocumentResponse, error) {
	quote, err := s.documentRepo.FindByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if !quote.IsQuote() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Document is not a quote")
	}
	if quote.Status == billing.QuoteStatusInvoiced {
		return nil, shared.ErrAlreadyConverted
	}

	_, _, withholding, err := parsePercentages(decimal.Zero, decimal.Zero, req.WithholdingPct)
	if err != nil {
		return nil, err
	}
	discount, _ := valueobject.NewPercent(quote.DiscountPct)
	vat, _ := valueobject.NewPercent(quote.VATPct)

	// fresh item ids so the invoice owns its rows
	items := make(billing.LineItems, 0, len(quote.LineItems))
	for _, item := range quote.LineItems {
		line, err := billing.NewLineItem(item.Description, item.Quantity, item.UnitPrice, item.StockItemID)
		if err != nil {
			return nil, err
		}
		items = append(items, line)
	}

	var invoice *billing.Document
	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		stockItems, err := s.validateStock(txCtx, items)
		if err != nil {
			return err
		}

		number, err := s.allocateNumber(txCtx, settings.DocumentKindInvoice)
		if err != nil {
			return err
		}

		invoice, err = billing.NewInvoice(number, quote.ClientID, quote.ProjectID, items, discount, vat, withholding, req.DueDate, quote.Notes)
		if err != nil {
			return err
		}

		if err := s.applyStockDebits(txCtx, items, stockItems); err != nil {
			return err
		}

		if err := s.documentRepo.Save(txCtx, invoice); err != nil {
			return shared.WrapStorageError(err)
		}

		if err := quote.MarkInvoiced(); err != nil {
			return err
		}
		quote.AddDomainEvent(billing.NewQuoteConvertedEvent(quote, invoice))

		return shared.WrapStorageError(s.documentRepo.Save(txCtx, quote))
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, invoice)
	s.publishEvents(ctx, quote)

	response := ToDocumentResponse(invoice)
	return &response, nil
}

// GetByID retrieves a document by id
func (s *DocumentService) GetByID(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.documentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToDocumentResponse(doc)
	return &response, nil
}

// List retrieves documents with filtering and pagination
func (s *DocumentService) List(ctx context.Context, filter DocumentListFilter) (*shared.Paginated[DocumentResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.ClientID != "" {
		domainFilter.Filters["client_id"] = filter.ClientID
	}

	documents, err := s.documentRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}
	total, err := s.documentRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}

	page := shared.NewPaginated(ToDocumentResponses(documents), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// UpdateStatus moves a document to a new status, validated against the enum
// for its type.
func (s *DocumentService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*DocumentResponse, error) {
	doc, err := s.documentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := doc.ChangeStatus(billing.DocumentStatus(req.Status)); err != nil {
		return nil, err
	}

	if err := s.documentRepo.Save(ctx, doc); err != nil {
		return nil, shared.WrapStorageError(err)
	}
	s.publishEvents(ctx, doc)

	response := ToDocumentResponse(doc)
	return &response, nil
}

// Delete removes a document
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.documentRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.documentRepo.Delete(ctx, id); err != nil {
		return shared.WrapStorageError(err)
	}

	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, billing.NewDocumentDeletedEvent(doc))
	}

	return nil
}

// AnnualStats summarizes a year's invoices: paid revenue, collected VAT and
// a per-client ranking.
func (s *DocumentService) AnnualStats(ctx context.Context, year int) (*AnnualStatsResponse, error) {
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	invoices, err := s.documentRepo.FindIssuedBetween(ctx, billing.DocumentTypeInvoice, from, to)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}

	revenue := decimal.Zero
	vat := decimal.Zero
	paid := 0
	type clientTotal struct {
		revenue  decimal.Decimal
		invoices int
	}
	perClient := make(map[uuid.UUID]clientTotal)

	for i := range invoices {
		inv := &invoices[i]
		if inv.Status != billing.InvoiceStatusPaid {
			continue
		}
		paid++
		revenue = revenue.Add(inv.TaxableAmount)
		vat = vat.Add(inv.VATAmount)
		t := perClient[inv.ClientID]
		t.revenue = t.revenue.Add(inv.TaxableAmount)
		t.invoices++
		perClient[inv.ClientID] = t
	}

	ranking := make([]ClientRevenue, 0, len(perClient))
	for clientID, t := range perClient {
		ranking = append(ranking, ClientRevenue{ClientID: clientID, Revenue: t.revenue.StringFixed(2), Invoices: t.invoices})
	}
	sort.Slice(ranking, func(i, j int) bool {
		a, _ := decimal.NewFromString(ranking[i].Revenue)
		b, _ := decimal.NewFromString(ranking[j].Revenue)
		return a.GreaterThan(b)
	})

	return &AnnualStatsResponse{
		Year:         year,
		InvoiceCount: len(invoices),
		PaidCount:    paid,
		Revenue:      revenue.StringFixed(2),
		VATCollected: vat.StringFixed(2),
		TopClients:   ranking,
	}, nil
}

// validateStock loads every referenced stock item and checks availability
// for all lines before anything mutates. Failures aggregate into one error.
func (s *DocumentService) validateStock(ctx context.Context, items billing.LineItems) (map[uuid.UUID]*inventory.StockItem, error) {
	// Lines may reference the same stock item more than once; availability is
	// checked against the summed quantity, not per line.
	requested := make(map[uuid.UUID]decimal.Decimal)
	descriptions := make(map[uuid.UUID]string)
	var ids []uuid.UUID
	for _, item := range items {
		if item.StockItemID == nil {
			continue
		}
		id := *item.StockItemID
		if _, seen := requested[id]; !seen {
			ids = append(ids, id)
			descriptions[id] = item.Description
		}
		requested[id] = requested[id].Add(item.Quantity)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	stockItems, err := s.stockRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}

	var failures []string
	for _, id := range ids {
		stockItem, ok := stockItems[id]
		if !ok {
			failures = append(failures, fmt.Sprintf("%s: stock item not found", descriptions[id]))
			continue
		}
		if !stockItem.CanFulfill(requested[id]) {
			failures = append(failures, fmt.Sprintf("%s: have %s, requested %s", stockItem.Name, stockItem.Quantity, requested[id]))
		}
	}
	if len(failures) > 0 {
		return nil, shared.NewDomainErrorf("STOCK_UPDATE_FAILED", "Stock update failed: %s", strings.Join(failures, "; "))
	}

	return stockItems, nil
}

// applyStockDebits decrements stock for every linked line. Availability was
// already validated, so a failure here is unexpected and aborts the
// transaction.
func (s *DocumentService) applyStockDebits(ctx context.Context, items billing.LineItems, stockItems map[uuid.UUID]*inventory.StockItem) error {
	for _, item := range items {
		if item.StockItemID == nil {
			continue
		}
		stockItem := stockItems[*item.StockItemID]
		if err := stockItem.AdjustStock(item.Quantity.Neg()); err != nil {
			return err
		}
		if err := s.stockRepo.Save(ctx, stockItem); err != nil {
			return shared.WrapStorageError(err)
		}
	}
	return nil
}

// allocateNumber advances the per-kind document counter. The repository runs
// the allocation transactionally; called inside an outer transaction it joins
// it, so a failed document write also rolls the counter back.
func (s *DocumentService) allocateNumber(ctx context.Context, kind settings.DocumentKind) (string, error) {
	number, err := s.settingsRepo.AllocateNextNumber(ctx, kind, s.now())
	if err != nil {
		return "", shared.WrapStorageError(err)
	}
	return number, nil
}

func buildLineItems(requests []LineItemRequest) (billing.LineItems, error) {
	items := make(billing.LineItems, 0, len(requests))
	for _, req := range requests {
		item, err := billing.NewLineItem(req.Description, req.Quantity, req.UnitPrice, req.StockItemID)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func parsePercentages(discountPct, vatPct, withholdingPct decimal.Decimal) (discount, vat, withholding valueobject.Percent, err error) {
	if discount, err = valueobject.NewPercent(discountPct); err != nil {
		return
	}
	if vat, err = valueobject.NewPercent(vatPct); err != nil {
		return
	}
	withholding, err = valueobject.NewPercent(withholdingPct)
	return
}

func (s *DocumentService) publishEvents(ctx context.Context, doc *billing.Document) {
	if s.eventBus == nil || doc == nil {
		return
	}
	_ = s.eventBus.Publish(ctx, doc.GetDomainEvents()...)
	doc.ClearDomainEvents()
}
