package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gestionale/backend/internal/domain/inventory"
	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/gestionale/backend/internal/domain/shared/valueobject"
)

// StockService handles warehouse operations
type StockService struct {
	itemRepo inventory.StockItemRepository
	eventBus shared.EventPublisher
}

// NewStockService creates a new StockService
func NewStockService(itemRepo inventory.StockItemRepository, eventBus shared.EventPublisher) *StockService {
	return &StockService{
		itemRepo: itemRepo,
		eventBus: eventBus,
	}
}

// Create creates a new stock item
func (s *StockService) Create(ctx context.Context, req CreateStockItemRequest) (*StockItemResponse, error) {
	price, err := valueobject.NewMoney(req.PurchasePrice, valueobject.EUR)
	if err != nil {
		return nil, err
	}

	item, err := inventory.NewStockItem(req.Name, req.Code, req.Quantity, price)
	if err != nil {
		return nil, err
	}
	item.Description = req.Description
	item.Supplier = req.Supplier

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, shared.WrapStorageError(err)
	}
	s.publishEvents(ctx, item)

	response := ToStockItemResponse(item)
	return &response, nil
}

// GetByID retrieves a stock item by id
func (s *StockService) GetByID(ctx context.Context, id uuid.UUID) (*StockItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToStockItemResponse(item)
	return &response, nil
}

// List retrieves stock items with filtering and pagination
func (s *StockService) List(ctx context.Context, filter StockItemListFilter) (*shared.Paginated[StockItemResponse], error) {
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
	domainFilter.Search = filter.Search

	items, err := s.itemRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}
	total, err := s.itemRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}

	page := shared.NewPaginated(ToStockItemResponses(items), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// Update updates a stock item's descriptive fields
func (s *StockService) Update(ctx context.Context, id uuid.UUID, req UpdateStockItemRequest) (*StockItemResponse, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	price, err := valueobject.NewMoney(req.PurchasePrice, valueobject.EUR)
	if err != nil {
		return nil, err
	}

	if err := item.UpdateDetails(req.Name, req.Code, req.Description, req.Supplier, price); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return nil, shared.WrapStorageError(err)
	}

	response := ToStockItemResponse(item)
	return &response, nil
}

// AdjustStock applies a signed quantity delta and returns the new quantity.
// This is the single choke point for stock mutation.
func (s *StockService) AdjustStock(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}

	if err := item.AdjustStock(delta); err != nil {
		return decimal.Zero, err
	}

	if err := s.itemRepo.Save(ctx, item); err != nil {
		return decimal.Zero, shared.WrapStorageError(err)
	}
	s.publishEvents(ctx, item)

	return item.Quantity, nil
}

// Delete removes a stock item
func (s *StockService) Delete(ctx context.Context, id uuid.UUID) error {
	item, err := s.itemRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return shared.WrapStorageError(err)
	}

	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, inventory.NewStockItemDeletedEvent(item))
	}

	return nil
}

// LowStock lists items at or below the threshold
func (s *StockService) LowStock(ctx context.Context, threshold decimal.Decimal) ([]StockItemResponse, error) {
	items, err := s.itemRepo.FindLowStock(ctx, threshold)
	if err != nil {
		return nil, shared.WrapStorageError(err)
	}
	return ToStockItemResponses(items), nil
}

func (s *StockService) publishEvents(ctx context.Context, item *inventory.StockItem) {
	if s.eventBus == nil {
		return
	}
	_ = s.eventBus.Publish(ctx, item.GetDomainEvents()...)
	item.ClearDomainEvents()
}
