package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/gestionale/backend/internal/domain/settings"
)

// GormSettingsRepository implements settings.SettingsRepository using GORM.
// The settings table holds a single row, lazily created on first access.
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new settings repository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

var _ settings.SettingsRepository = (*GormSettingsRepository)(nil)

// Load returns the settings, creating and persisting defaults on first access
func (r *GormSettingsRepository) Load(ctx context.Context) (*settings.Settings, error) {
	var s settings.Settings
	err := dbFromContext(ctx, r.db).Order("created_at ASC").First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := settings.DefaultSettings(time.Now())
		if err := dbFromContext(ctx, r.db).Create(defaults).Error; err != nil {
			return nil, err
		}
		return defaults, nil
	}
	if err != nil {
		return nil, err
	}
	s.MergeWithDefaults(time.Now())
	return &s, nil
}

// Save persists the settings
func (r *GormSettingsRepository) Save(ctx context.Context, s *settings.Settings) error {
	return dbFromContext(ctx, r.db).Save(s).Error
}

// AllocateNextNumber advances the counter for the given document kind and
// persists the mutated settings in one transaction, returning the formatted
// number. Two concurrent allocations never yield the same number.
func (r *GormSettingsRepository) AllocateNextNumber(ctx context.Context, kind settings.DocumentKind, now time.Time) (string, error) {
	var number string
	err := dbFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txContextKey{}, tx)
		s, err := r.Load(txCtx)
		if err != nil {
			return err
		}
		number, err = s.NextDocumentNumber(kind, now)
		if err != nil {
			return err
		}
		return r.Save(txCtx, s)
	})
	if err != nil {
		return "", err
	}
	return number, nil
}
