package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gestionale", cfg.App.Name)
	assert.Equal(t, "127.0.0.1", cfg.App.Host)
	assert.Equal(t, "8420", cfg.App.Port)
	assert.Equal(t, "gestionale.db", cfg.Database.Path)
	assert.Equal(t, 5*time.Second, cfg.Database.BusyTimeout)
	assert.Equal(t, "archive", cfg.Storage.ArchiveDir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Scheduler.ReminderHour)
	assert.Equal(t, 3, cfg.Scheduler.DaysAhead)
	assert.Equal(t, "127.0.0.1:8420", cfg.Addr())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("FREELANCE_APP_PORT", "9000")
	t.Setenv("FREELANCE_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	t.Run("bad reminder hour", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.Scheduler.ReminderHour = 24
		assert.Error(t, cfg.validate())
	})

	t.Run("negative days ahead", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.Scheduler.DaysAhead = -1
		assert.Error(t, cfg.validate())
	})
}
