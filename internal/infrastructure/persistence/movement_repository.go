package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestionale/backend/internal/domain/ledger"
	"github.com/gestionale/backend/internal/domain/shared"
)

// GormMovementRepository implements ledger.MovementRepository using GORM
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new movement repository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

var _ ledger.MovementRepository = (*GormMovementRepository)(nil)

// FindByID finds a movement by ID
func (r *GormMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Movement, error) {
	var m ledger.Movement
	if err := dbFromContext(ctx, r.db).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindAll finds all movements matching the filter
func (r *GormMovementRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.Movement, error) {
	var movements []ledger.Movement
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&ledger.Movement{}), filter)
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// FindBetween finds movements dated in [from, to), newest first
func (r *GormMovementRepository) FindBetween(ctx context.Context, from, to time.Time) ([]ledger.Movement, error) {
	var movements []ledger.Movement
	err := dbFromContext(ctx, r.db).
		Where("date >= ? AND date < ?", from, to).
		Order("date DESC").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// FindByInvoice finds the payment movement linked to an invoice, if any
func (r *GormMovementRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) (*ledger.Movement, error) {
	var m ledger.Movement
	if err := dbFromContext(ctx, r.db).First(&m, "linked_invoice_id = ?", invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindByTypeBetween finds movements of one type dated in [from, to)
func (r *GormMovementRepository) FindByTypeBetween(ctx context.Context, movementType ledger.MovementType, from, to time.Time) ([]ledger.Movement, error) {
	var movements []ledger.Movement
	err := dbFromContext(ctx, r.db).
		Where("type = ? AND date >= ? AND date < ?", movementType, from, to).
		Order("date ASC").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// Save creates or updates a movement
func (r *GormMovementRepository) Save(ctx context.Context, m *ledger.Movement) error {
	return dbFromContext(ctx, r.db).Save(m).Error
}

// Delete deletes a movement
func (r *GormMovementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&ledger.Movement{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts movements matching the filter
func (r *GormMovementRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(dbFromContext(ctx, r.db).Model(&ledger.Movement{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormMovementRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, MovementSortFields, "date")
	orderDir := ValidateSortOrder(filter.OrderDir, "desc")
	return query.Order(orderBy + " " + orderDir)
}

func (r *GormMovementRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("description LIKE ? OR notes LIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		}
	}

	return query
}
