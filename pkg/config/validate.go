package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateStore(&cfg.Store)...)
	errs = append(errs, validateExport(&cfg.Export)...)
	errs = append(errs, validateSchedule(&cfg.Schedule)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validFormats lists the export formats the encoder registry supports.
var validFormats = map[string]bool{
	"pdf":  true,
	"csv":  true,
	"xlsx": true,
}

// validKinds lists the entity kinds an export can include, plus the "all"
// shorthand accepted in schedule configuration.
var validKinds = map[string]bool{
	"all":      true,
	"projects": true,
	"tasks":    true,
	"clients":  true,
	"notes":    true,
}

// validateServer validates HTTP server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.idle_timeout",
			Message: "idle timeout must be positive",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout must be positive",
		})
	}

	return errs
}

// validateStore validates data store configuration.
func validateStore(cfg *StoreConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "sqlite", "memory":
	default:
		errs = append(errs, FieldError{
			Field:   "store.backend",
			Message: fmt.Sprintf("invalid backend %q, must be one of: sqlite, memory", cfg.Backend),
		})
	}

	if cfg.Backend == "sqlite" {
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{
				Field:   "store.sqlite.path",
				Message: "database path is required for sqlite backend",
			})
		}
		if cfg.SQLite.MaxOpenConns < 0 {
			errs = append(errs, FieldError{
				Field:   "store.sqlite.max_open_conns",
				Message: "max open connections must be non-negative",
			})
		}
		if cfg.SQLite.MaxIdleConns < 0 {
			errs = append(errs, FieldError{
				Field:   "store.sqlite.max_idle_conns",
				Message: "max idle connections must be non-negative",
			})
		}
		if cfg.SQLite.BusyTimeout < 0 {
			errs = append(errs, FieldError{
				Field:   "store.sqlite.busy_timeout",
				Message: "busy timeout must be positive",
			})
		}
	}

	return errs
}

// validateExport validates export defaults.
func validateExport(cfg *ExportConfig) []FieldError {
	var errs []FieldError

	if cfg.Title == "" {
		errs = append(errs, FieldError{
			Field:   "export.title",
			Message: "export title is required",
		})
	}
	if cfg.OutputDir == "" {
		errs = append(errs, FieldError{
			Field:   "export.output_dir",
			Message: "output directory is required",
		})
	}

	return errs
}

// validateSchedule validates scheduled export configuration. Most fields are
// only checked when scheduling is enabled, but a present cron expression must
// always parse so a typo is caught before the schedule is switched on.
func validateSchedule(cfg *ScheduleConfig) []FieldError {
	var errs []FieldError

	if cfg.Cron != "" {
		if _, err := cron.ParseStandard(cfg.Cron); err != nil {
			errs = append(errs, FieldError{
				Field:   "schedule.cron",
				Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.Cron, err),
			})
		}
	}

	if !cfg.Enabled {
		return errs
	}

	if cfg.Cron == "" {
		errs = append(errs, FieldError{
			Field:   "schedule.cron",
			Message: "cron expression is required when scheduling is enabled",
		})
	}
	if cfg.OwnerID == "" {
		errs = append(errs, FieldError{
			Field:   "schedule.owner_id",
			Message: "owner ID is required when scheduling is enabled",
		})
	}
	if !validFormats[cfg.Format] {
		errs = append(errs, FieldError{
			Field:   "schedule.format",
			Message: fmt.Sprintf("invalid format %q, must be one of: pdf, csv, xlsx", cfg.Format),
		})
	}
	for _, kind := range cfg.Kinds {
		if !validKinds[kind] {
			errs = append(errs, FieldError{
				Field:   "schedule.kinds",
				Message: fmt.Sprintf("invalid kind %q, must be one of: all, projects, tasks, clients, notes", kind),
			})
		}
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid level %q, must be one of: debug, info, warn, error", cfg.Logging.Level),
		})
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid format %q, must be one of: json, text", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Path == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "metrics path is required when metrics are enabled",
			})
		} else if !strings.HasPrefix(cfg.Metrics.Path, "/") {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "metrics path must start with /",
			})
		}
	}

	return errs
}
