package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestionale/backend/internal/domain/settings"
)

func TestGormSettingsRepository_Load_CreatesDefaults(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormSettingsRepository(db)
	ctx := context.Background()

	s, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, s.InvoicePrefix)
	assert.True(t, s.Tax.INPSPct.Equal(settings.DefaultINPSPct))

	// Second load returns the same persisted row
	again, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&settings.Settings{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormSettingsRepository_SaveRoundTrip(t *testing.T) {
	repo := NewGormSettingsRepository(newTestDB(t))
	ctx := context.Background()

	s, err := repo.Load(ctx)
	require.NoError(t, err)

	s.UpdateSMTP(settings.SMTPConfig{
		Host: "smtp.example.com",
		Port: 587,
		From: "me@example.com",
	})
	require.NoError(t, repo.Save(ctx, s))

	found, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com", found.SMTP.Host)
	assert.True(t, found.SMTP.IsComplete())
}

func TestGormSettingsRepository_ZeroTaxRatesSurviveReload(t *testing.T) {
	repo := NewGormSettingsRepository(newTestDB(t))
	ctx := context.Background()

	s, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, s.UpdateTax(settings.TaxConfig{}))
	require.NoError(t, repo.Save(ctx, s))

	found, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found.Tax.INPSPct.IsZero())
	assert.True(t, found.Tax.IRPEFPct.IsZero())
}

func TestGormSettingsRepository_AllocateNextNumber(t *testing.T) {
	repo := NewGormSettingsRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	first, err := repo.AllocateNextNumber(ctx, settings.DocumentKindInvoice, now)
	require.NoError(t, err)
	assert.Equal(t, "F2025/001", first)

	second, err := repo.AllocateNextNumber(ctx, settings.DocumentKindInvoice, now)
	require.NoError(t, err)
	assert.Equal(t, "F2025/002", second)

	// Quote counter advances independently
	quote, err := repo.AllocateNextNumber(ctx, settings.DocumentKindQuote, now)
	require.NoError(t, err)
	assert.Equal(t, "P2025/001", quote)
}

func TestGormSettingsRepository_AllocateNextNumber_YearRollover(t *testing.T) {
	repo := NewGormSettingsRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.AllocateNextNumber(ctx, settings.DocumentKindInvoice, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// A new year resets the sequence and rewrites the prefix
	rolled, err := repo.AllocateNextNumber(ctx, settings.DocumentKindInvoice, time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "F2026/001", rolled)
}

func TestGormSettingsRepository_AllocateNextNumber_InvalidKind(t *testing.T) {
	repo := NewGormSettingsRepository(newTestDB(t))

	_, err := repo.AllocateNextNumber(context.Background(), settings.DocumentKind("unknown"), time.Now())
	assert.Error(t, err)
}
