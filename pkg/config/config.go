package config

import "time"

// Config is the root configuration structure for the export service.
type Config struct {
	// Server contains HTTP server configuration.
	Server ServerConfig `yaml:"server"`

	// Store contains record-store backend configuration.
	Store StoreConfig `yaml:"store"`

	// Export contains defaults applied to export runs.
	Export ExportConfig `yaml:"export"`

	// Schedule contains the optional recurring-export configuration.
	Schedule ScheduleConfig `yaml:"schedule"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port". Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of
	// the response. Exports are generated in memory before the response
	// starts, so this bounds the whole request.
	// Default: 60s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown. Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StoreConfig contains configuration for the record store.
type StoreConfig struct {
	// Backend selects the store implementation: "sqlite" or "memory".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite configures the sqlite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// SQLiteConfig contains configuration for the SQLite backend.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/complie.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables Write-Ahead Logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is the wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// ExportConfig contains defaults for export runs.
type ExportConfig struct {
	// Title is the document title for PDF exports.
	// Default: "Complie Data Export"
	Title string `yaml:"title"`

	// OutputDir is where CLI and scheduled exports are written.
	// Default: "exports"
	OutputDir string `yaml:"output_dir"`

	// IncludeArchived includes archived records by default.
	// Default: false
	IncludeArchived bool `yaml:"include_archived"`
}

// ScheduleConfig contains the recurring-export configuration.
type ScheduleConfig struct {
	// Enabled turns scheduled exports on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Cron is the schedule expression (standard five-field cron).
	// Default: "0 3 * * *"
	Cron string `yaml:"cron"`

	// OwnerID is the identity whose records are exported on schedule.
	OwnerID string `yaml:"owner_id"`

	// Format is the export format for scheduled runs.
	// Default: "csv"
	Format string `yaml:"format"`

	// Kinds is the entity-kind selection for scheduled runs.
	// Default: ["all"]
	Kinds []string `yaml:"kinds"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the log output format ("json", "text").
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file:line in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics configuration.
type MetricsConfig struct {
	// Enabled exposes the /metrics endpoint.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the scrape endpoint path.
	// Default: "/metrics"
	Path string `yaml:"path"`
}
