package config

import (
	"time"

	"github.com/kofadam/asahi-x-family/internal/domain/progression"
	"github.com/kofadam/asahi-x-family/internal/engine"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	Auth        AuthConfig        `mapstructure:"auth" validate:"required"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler"`
	Progression ProgressionConfig `mapstructure:"progression"`
	Reminder    ReminderConfig    `mapstructure:"reminder"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig contains all database-related configuration settings.
// For the sqlite driver URL is a file path or ":memory:".
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	URL          string `mapstructure:"url" validate:"required"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// SchedulerConfig tunes the review scheduler. Zero values keep the defaults.
type SchedulerConfig struct {
	RequestRetention float64 `mapstructure:"request_retention" validate:"gte=0,lt=1"`
	MaximumInterval  int     `mapstructure:"maximum_interval" validate:"gte=0"`
}

// ProgressionConfig overrides the XP table and the lesson catalog. An empty
// lesson list keeps the built-in catalog.
type ProgressionConfig struct {
	XP      engine.XPRules       `mapstructure:"xp"`
	Lessons []progression.Lesson `mapstructure:"lessons" validate:"dive"`
}

// ReminderConfig controls the due-review reminder job.
type ReminderConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval" validate:"omitempty,min=1m"`
}
