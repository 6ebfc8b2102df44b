package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// The file is unmarshaled over a fully-defaulted configuration, so fields
// absent from the file keep their defaults and explicit false values in
// the file are preserved. The result is validated before it is returned.
// Environment variables are not consulted; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention COMPLIE_SECTION_FIELD (e.g., COMPLIE_SERVER_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file over defaults
// 2. Apply environment variable overrides
// 3. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format COMPLIE_SECTION_FIELD.
func ApplyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("COMPLIE_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("COMPLIE_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("COMPLIE_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("COMPLIE_SERVER_IDLE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.IdleTimeout = d
		}
	}
	if val := os.Getenv("COMPLIE_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}

	// Store overrides
	if val := os.Getenv("COMPLIE_STORE_BACKEND"); val != "" {
		cfg.Store.Backend = val
	}
	if val := os.Getenv("COMPLIE_STORE_SQLITE_PATH"); val != "" {
		cfg.Store.SQLite.Path = val
	}
	if val := os.Getenv("COMPLIE_STORE_SQLITE_MAX_OPEN_CONNS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Store.SQLite.MaxOpenConns = i
		}
	}
	if val := os.Getenv("COMPLIE_STORE_SQLITE_MAX_IDLE_CONNS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Store.SQLite.MaxIdleConns = i
		}
	}
	if val := os.Getenv("COMPLIE_STORE_SQLITE_WAL_MODE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Store.SQLite.WALMode = b
		}
	}
	if val := os.Getenv("COMPLIE_STORE_SQLITE_BUSY_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Store.SQLite.BusyTimeout = d
		}
	}

	// Export overrides
	if val := os.Getenv("COMPLIE_EXPORT_TITLE"); val != "" {
		cfg.Export.Title = val
	}
	if val := os.Getenv("COMPLIE_EXPORT_OUTPUT_DIR"); val != "" {
		cfg.Export.OutputDir = val
	}
	if val := os.Getenv("COMPLIE_EXPORT_INCLUDE_ARCHIVED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Export.IncludeArchived = b
		}
	}

	// Schedule overrides
	if val := os.Getenv("COMPLIE_SCHEDULE_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Schedule.Enabled = b
		}
	}
	if val := os.Getenv("COMPLIE_SCHEDULE_CRON"); val != "" {
		cfg.Schedule.Cron = val
	}
	if val := os.Getenv("COMPLIE_SCHEDULE_OWNER_ID"); val != "" {
		cfg.Schedule.OwnerID = val
	}
	if val := os.Getenv("COMPLIE_SCHEDULE_FORMAT"); val != "" {
		cfg.Schedule.Format = val
	}
	if val := os.Getenv("COMPLIE_SCHEDULE_KINDS"); val != "" {
		kinds := strings.Split(val, ",")
		for i := range kinds {
			kinds[i] = strings.TrimSpace(kinds[i])
		}
		cfg.Schedule.Kinds = kinds
	}

	// Telemetry overrides
	if val := os.Getenv("COMPLIE_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("COMPLIE_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("COMPLIE_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("COMPLIE_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
}
