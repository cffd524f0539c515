package settings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int) time.Time {
	return time.Date(year, 3, 15, 0, 0, 0, 0, time.UTC)
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings(date(2025))

	assert.Equal(t, "F2025/", s.InvoicePrefix)
	assert.Equal(t, "P2025/", s.QuotePrefix)
	assert.Equal(t, "26.07", s.Tax.INPSPct.String())
	assert.Equal(t, "23", s.Tax.IRPEFPct.String())
	assert.Equal(t, 0, s.LastInvoiceSeq)
}

func TestSettings_MergeWithDefaults(t *testing.T) {
	t.Run("fills missing fields", func(t *testing.T) {
		s := &Settings{LastInvoiceSeq: 41, InvoicePrefix: "F2025/"}
		s.MergeWithDefaults(date(2025))

		assert.Equal(t, "F2025/", s.InvoicePrefix)
		assert.Equal(t, "P2025/", s.QuotePrefix)
		assert.Equal(t, "26.07", s.Tax.INPSPct.String())
		assert.Equal(t, 41, s.LastInvoiceSeq)
	})

	t.Run("keeps populated fields", func(t *testing.T) {
		s := DefaultSettings(date(2025))
		require.NoError(t, s.UpdateTax(TaxConfig{INPSPct: s.Tax.INPSPct, IRPEFPct: s.Tax.IRPEFPct}))
		s.InvoicePrefix = "X2025/"
		s.MergeWithDefaults(date(2025))
		assert.Equal(t, "X2025/", s.InvoicePrefix)
	})

	t.Run("explicit zero rates survive the merge", func(t *testing.T) {
		s := DefaultSettings(date(2025))
		require.NoError(t, s.UpdateTax(TaxConfig{}))

		s.MergeWithDefaults(date(2025))

		assert.True(t, s.Tax.INPSPct.IsZero())
		assert.True(t, s.Tax.IRPEFPct.IsZero())
	})
}

func TestSettings_NextDocumentNumber(t *testing.T) {
	t.Run("increments within the year", func(t *testing.T) {
		s := &Settings{LastInvoiceSeq: 41, InvoicePrefix: "F2025/"}

		number, err := s.NextDocumentNumber(DocumentKindInvoice, date(2025))
		require.NoError(t, err)
		assert.Equal(t, "F2025/042", number)
		assert.Equal(t, 42, s.LastInvoiceSeq)
	})

	t.Run("year rollover resets the counter", func(t *testing.T) {
		s := &Settings{LastInvoiceSeq: 41, InvoicePrefix: "F2025/"}

		number, err := s.NextDocumentNumber(DocumentKindInvoice, date(2026))
		require.NoError(t, err)
		assert.Equal(t, "F2026/001", number)
		assert.Equal(t, 1, s.LastInvoiceSeq)
		assert.Equal(t, "F2026/", s.InvoicePrefix)
	})

	t.Run("quote counter is independent", func(t *testing.T) {
		s := DefaultSettings(date(2025))

		number, err := s.NextDocumentNumber(DocumentKindQuote, date(2025))
		require.NoError(t, err)
		assert.Equal(t, "P2025/001", number)
		assert.Equal(t, 0, s.LastInvoiceSeq)
	})

	t.Run("zero padding to three digits", func(t *testing.T) {
		s := &Settings{LastInvoiceSeq: 99, InvoicePrefix: "F2025/"}
		number, err := s.NextDocumentNumber(DocumentKindInvoice, date(2025))
		require.NoError(t, err)
		assert.Equal(t, "F2025/100", number)
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		s := DefaultSettings(date(2025))
		_, err := s.NextDocumentNumber(DocumentKind("receipt"), date(2025))
		assert.Error(t, err)
	})
}

func TestSMTPConfig_IsComplete(t *testing.T) {
	assert.False(t, SMTPConfig{}.IsComplete())
	assert.False(t, SMTPConfig{Host: "smtp.example.com", Port: 587}.IsComplete())
	assert.True(t, SMTPConfig{Host: "smtp.example.com", Port: 587, From: "me@example.com"}.IsComplete())
}
