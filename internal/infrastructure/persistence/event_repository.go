package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gestionale/backend/internal/domain/calendar"
	"github.com/gestionale/backend/internal/domain/shared"
)

// GormEventRepository implements calendar.EventRepository using GORM
type GormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository creates a new calendar event repository
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

var _ calendar.EventRepository = (*GormEventRepository)(nil)

// FindByID finds an event by ID
func (r *GormEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*calendar.Event, error) {
	var event calendar.Event
	if err := dbFromContext(ctx, r.db).First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// FindAll finds all events matching the filter
func (r *GormEventRepository) FindAll(ctx context.Context, filter shared.Filter) ([]calendar.Event, error) {
	var events []calendar.Event
	query := r.applyFilter(dbFromContext(ctx, r.db).Model(&calendar.Event{}), filter)
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// FindByKind finds all events of one kind
func (r *GormEventRepository) FindByKind(ctx context.Context, kind calendar.EventKind) ([]calendar.Event, error) {
	var events []calendar.Event
	err := dbFromContext(ctx, r.db).
		Where("kind = ?", kind).
		Order("date ASC, title ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// FindBetween finds events dated in [from, to), ordered by date
func (r *GormEventRepository) FindBetween(ctx context.Context, from, to time.Time) ([]calendar.Event, error) {
	var events []calendar.Event
	err := dbFromContext(ctx, r.db).
		Where("date >= ? AND date < ?", from, to).
		Order("date ASC, title ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// FindDueOn finds events falling on the given calendar day
func (r *GormEventRepository) FindDueOn(ctx context.Context, day time.Time) ([]calendar.Event, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return r.FindBetween(ctx, start, start.AddDate(0, 0, 1))
}

// DeleteAutomatic removes every automatically derived event
func (r *GormEventRepository) DeleteAutomatic(ctx context.Context) error {
	return dbFromContext(ctx, r.db).
		Where("kind IN ?", []calendar.EventKind{calendar.EventKindAutoProject, calendar.EventKindAutoInvoice}).
		Delete(&calendar.Event{}).Error
}

// SaveBatch persists a set of events in one statement
func (r *GormEventRepository) SaveBatch(ctx context.Context, events []*calendar.Event) error {
	if len(events) == 0 {
		return nil
	}
	return dbFromContext(ctx, r.db).Save(events).Error
}

// Save creates or updates an event
func (r *GormEventRepository) Save(ctx context.Context, event *calendar.Event) error {
	return dbFromContext(ctx, r.db).Save(event).Error
}

// Delete deletes an event
func (r *GormEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&calendar.Event{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts events matching the filter
func (r *GormEventRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(dbFromContext(ctx, r.db).Model(&calendar.Event{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormEventRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, EventSortFields, "date")
	orderDir := ValidateSortOrder(filter.OrderDir, "asc")
	return query.Order(orderBy + " " + orderDir)
}

func (r *GormEventRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "kind":
			query = query.Where("kind = ?", value)
		}
	}

	return query
}
