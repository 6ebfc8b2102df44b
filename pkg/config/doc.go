// Package config defines the YAML configuration for the Complie export
// service and its loading, defaulting, and validation rules.
//
// Configuration is loaded from a YAML file, defaults are applied for
// unset fields, environment variables of the form COMPLIE_SECTION_FIELD
// override file values, and the final result is validated as a whole so
// every problem is reported at once.
//
// In serve mode a Watcher can observe the config file and trigger a
// reload callback when it changes.
package config
