package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestionale/backend/internal/domain/billing"
	"github.com/gestionale/backend/internal/domain/shared"
)

// GormDocumentRepository implements billing.DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new document repository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

var _ billing.DocumentRepository = (*GormDocumentRepository)(nil)

// FindByID finds a document by ID
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Document, error) {
	var doc billing.Document
	if err := dbFromContext(ctx, r.db).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindAll finds all documents matching the filter
func (r *GormDocumentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Document, error) {
	var docs []billing.Document
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&billing.Document{}), filter)
	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// FindByType finds all documents of the given type
func (r *GormDocumentRepository) FindByType(ctx context.Context, docType billing.DocumentType, filter shared.Filter) ([]billing.Document, error) {
	var docs []billing.Document
	query := r.applyFilter(
		dbFromContext(ctx, r.db).Model(&billing.Document{}).Where("type = ?", docType),
		filter,
	)
	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// FindByTypeAndStatus finds documents of a type in any of the given statuses
func (r *GormDocumentRepository) FindByTypeAndStatus(ctx context.Context, docType billing.DocumentType, statuses ...billing.DocumentStatus) ([]billing.Document, error) {
	var docs []billing.Document
	err := dbFromContext(ctx, r.db).
		Where("type = ? AND status IN ?", docType, statuses).
		Order("issue_date DESC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// FindByNumber finds a document by its sequential number
func (r *GormDocumentRepository) FindByNumber(ctx context.Context, number string) (*billing.Document, error) {
	var doc billing.Document
	if err := dbFromContext(ctx, r.db).First(&doc, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByClient finds all documents for a client
func (r *GormDocumentRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]billing.Document, error) {
	var docs []billing.Document
	err := dbFromContext(ctx, r.db).
		Where("client_id = ?", clientID).
		Order("issue_date DESC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// FindIssuedBetween finds documents of a type issued in [from, to)
func (r *GormDocumentRepository) FindIssuedBetween(ctx context.Context, docType billing.DocumentType, from, to time.Time) ([]billing.Document, error) {
	var docs []billing.Document
	err := dbFromContext(ctx, r.db).
		Where("type = ? AND issue_date >= ? AND issue_date < ?", docType, from, to).
		Order("issue_date ASC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Save creates or updates a document
func (r *GormDocumentRepository) Save(ctx context.Context, doc *billing.Document) error {
	return dbFromContext(ctx, r.db).Save(doc).Error
}

// Delete deletes a document
func (r *GormDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&billing.Document{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts documents matching the filter
func (r *GormDocumentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(dbFromContext(ctx, r.db).Model(&billing.Document{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormDocumentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, DocumentSortFields, "issue_date")
	orderDir := ValidateSortOrder(filter.OrderDir, "desc")
	return query.Order(orderBy + " " + orderDir)
}

func (r *GormDocumentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("number LIKE ? OR notes LIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "project_id":
			query = query.Where("project_id = ?", value)
		}
	}

	return query
}
