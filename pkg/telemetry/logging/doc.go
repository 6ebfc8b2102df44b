// Package logging configures structured logging for the export service.
//
// It wraps log/slog: New builds a logger from the telemetry
// configuration (level, format, source annotation) and Init installs it
// as the process default so components can use
// slog.Default().With("component", ...).
package logging
