package settings

import (
	"context"
	"time"
)

// SettingsRepository manages the settings singleton
type SettingsRepository interface {
	// Load returns the settings, lazily creating and persisting defaults on
	// first access. The result is always merged with defaults.
	Load(ctx context.Context) (*Settings, error)
	// Save persists the settings
	Save(ctx context.Context, s *Settings) error
	// AllocateNextNumber runs the counter allocation and persists the
	// mutated settings atomically, returning the formatted number
	AllocateNextNumber(ctx context.Context, kind DocumentKind, now time.Time) (string, error)
}
