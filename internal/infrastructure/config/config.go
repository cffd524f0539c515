package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all process configuration. Business settings (document
// counters, SMTP account, tax rates, letterhead) live in the database as the
// Settings aggregate, not here.
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Storage   StorageConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Scheduler SchedulerConfig
}

// AppConfig holds application-level settings
type AppConfig struct {
	Name string
	Env  string
	Host string
	Port string
}

// DatabaseConfig holds the sqlite database settings
type DatabaseConfig struct {
	Path        string // sqlite file path, ":memory:" for tests
	BusyTimeout time.Duration
}

// StorageConfig holds filesystem paths for project archives
type StorageConfig struct {
	ArchiveDir string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	MaxBodySize    int64
}

// SchedulerConfig holds the daily reminder job configuration
type SchedulerConfig struct {
	Enabled       bool
	ReminderHour  int // hour of day (0-23) the reminder job fires
	DaysAhead     int // how many days before a deadline to remind
	CheckInterval time.Duration
}

// Load reads the configuration from config.toml and the environment.
// Priority, highest first: FREELANCE_-prefixed env vars, config.toml,
// built-in defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.gestionale")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("FREELANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Host: v.GetString("app.host"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Path:        v.GetString("database.path"),
			BusyTimeout: v.GetDuration("database.busy_timeout"),
		},
		Storage: StorageConfig{
			ArchiveDir: v.GetString("storage.archive_dir"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
			MaxBodySize:    v.GetInt64("http.max_body_size"),
		},
		Scheduler: SchedulerConfig{
			Enabled:       v.GetBool("scheduler.enabled"),
			ReminderHour:  v.GetInt("scheduler.reminder_hour"),
			DaysAhead:     v.GetInt("scheduler.days_ahead"),
			CheckInterval: v.GetDuration("scheduler.check_interval"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "gestionale"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Host == "" {
		// single-user deployment, not exposed beyond the local machine
		cfg.App.Host = "127.0.0.1"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8420"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "gestionale.db"
	}
	if cfg.Database.BusyTimeout == 0 {
		cfg.Database.BusyTimeout = 5 * time.Second
	}
	if cfg.Storage.ArchiveDir == "" {
		cfg.Storage.ArchiveDir = "archive"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20
	}
	if cfg.Scheduler.ReminderHour == 0 {
		cfg.Scheduler.ReminderHour = 8
	}
	if cfg.Scheduler.DaysAhead == 0 {
		cfg.Scheduler.DaysAhead = 3
	}
	if cfg.Scheduler.CheckInterval == 0 {
		cfg.Scheduler.CheckInterval = time.Minute
	}
}

func (c *Config) validate() error {
	if c.Scheduler.ReminderHour < 0 || c.Scheduler.ReminderHour > 23 {
		return fmt.Errorf("scheduler.reminder_hour must be between 0 and 23, got %d", c.Scheduler.ReminderHour)
	}
	if c.Scheduler.DaysAhead < 0 {
		return fmt.Errorf("scheduler.days_ahead cannot be negative")
	}
	if c.HTTP.MaxBodySize <= 0 {
		return fmt.Errorf("http.max_body_size must be positive")
	}
	return nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.App.Host, c.App.Port)
}
