package calendar

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManualEvent(t *testing.T) {
	day := time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)

	t.Run("valid event", func(t *testing.T) {
		e, err := NewManualEvent(day, "Call accountant", "quarterly VAT")
		require.NoError(t, err)
		assert.Equal(t, EventKindManual, e.Kind)
		assert.Nil(t, e.SourceID)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		_, err := NewManualEvent(day, " ", "")
		assert.Error(t, err)
	})
}

func TestNewAutoEvent_DeterministicID(t *testing.T) {
	day := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	sourceID := uuid.New()

	a := NewAutoEvent(EventKindAutoInvoice, day, "Invoice F2025/042 due", "", sourceID, "")
	b := NewAutoEvent(EventKindAutoInvoice, day, "Invoice F2025/042 due", "", sourceID, "")
	assert.Equal(t, a.ID, b.ID)

	t.Run("id changes with source", func(t *testing.T) {
		c := NewAutoEvent(EventKindAutoInvoice, day, "Invoice F2025/042 due", "", uuid.New(), "")
		assert.NotEqual(t, a.ID, c.ID)
	})

	t.Run("id changes with kind", func(t *testing.T) {
		c := NewAutoEvent(EventKindAutoProject, day, "Phase due", "", sourceID, "")
		assert.NotEqual(t, a.ID, c.ID)
	})

	t.Run("id changes with date", func(t *testing.T) {
		c := NewAutoEvent(EventKindAutoInvoice, day.AddDate(0, 0, 1), "Invoice F2025/042 due", "", sourceID, "")
		assert.NotEqual(t, a.ID, c.ID)
	})

	t.Run("id changes with discriminator", func(t *testing.T) {
		c := NewAutoEvent(EventKindAutoProject, day, "Phase due", "", sourceID, "phase-1")
		d := NewAutoEvent(EventKindAutoProject, day, "Phase due", "", sourceID, "phase-2")
		assert.NotEqual(t, c.ID, d.ID)
	})
}

func TestEvent_UpdateDetails(t *testing.T) {
	day := time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)

	t.Run("manual events are editable", func(t *testing.T) {
		e, err := NewManualEvent(day, "Call accountant", "")
		require.NoError(t, err)
		require.NoError(t, e.UpdateDetails(day.AddDate(0, 0, 1), "Call accountant", "rescheduled"))
		assert.Equal(t, "rescheduled", e.Description)
	})

	t.Run("automatic events are not", func(t *testing.T) {
		e := NewAutoEvent(EventKindAutoInvoice, day, "Invoice due", "", uuid.New(), "")
		assert.Error(t, e.UpdateDetails(day, "tweak", ""))
	})
}

func TestEvent_IsDueOn(t *testing.T) {
	e, err := NewManualEvent(time.Date(2025, 5, 12, 15, 30, 0, 0, time.UTC), "Call", "")
	require.NoError(t, err)

	assert.True(t, e.IsDueOn(time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)))
	assert.False(t, e.IsDueOn(time.Date(2025, 5, 13, 0, 0, 0, 0, time.UTC)))
}
