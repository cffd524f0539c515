package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestionale/backend/internal/domain/partner"
	"github.com/gestionale/backend/internal/domain/shared"
)

// GormContactRepository implements partner.ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new contact repository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

var _ partner.ContactRepository = (*GormContactRepository)(nil)

// FindByID finds a contact by ID
func (r *GormContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Contact, error) {
	var contact partner.Contact
	if err := dbFromContext(ctx, r.db).First(&contact, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &contact, nil
}

// FindAll finds all contacts matching the filter
func (r *GormContactRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Contact, error) {
	var contacts []partner.Contact
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&partner.Contact{}), filter)
	if err := query.Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

// FindByType finds all contacts of the given type
func (r *GormContactRepository) FindByType(ctx context.Context, contactType partner.ContactType, filter shared.Filter) ([]partner.Contact, error) {
	var contacts []partner.Contact
	query := r.applyFilter(
		dbFromContext(ctx, r.db).Model(&partner.Contact{}).Where("type = ?", contactType),
		filter,
	)
	if err := query.Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

// Search finds contacts matching the query over name, company, tax id and email
func (r *GormContactRepository) Search(ctx context.Context, query string) ([]partner.Contact, error) {
	var contacts []partner.Contact
	pattern := "%" + query + "%"
	err := dbFromContext(ctx, r.db).
		Where("name LIKE ? OR company LIKE ? OR tax_id LIKE ? OR email LIKE ?",
			pattern, pattern, pattern, pattern).
		Order("name ASC").
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

// Save creates or updates a contact
func (r *GormContactRepository) Save(ctx context.Context, contact *partner.Contact) error {
	return dbFromContext(ctx, r.db).Save(contact).Error
}

// Delete deletes a contact
func (r *GormContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&partner.Contact{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts contacts matching the filter
func (r *GormContactRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(dbFromContext(ctx, r.db).Model(&partner.Contact{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormContactRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ContactSortFields, "name")
	orderDir := ValidateSortOrder(filter.OrderDir, "asc")
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormContactRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR company LIKE ? OR tax_id LIKE ? OR email LIKE ?",
			pattern, pattern, pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		}
	}

	return query
}
