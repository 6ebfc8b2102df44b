// Package metrics exposes Prometheus metrics for the export service.
//
// Metrics:
//   - complie_export_runs_total: Completed runs by format and status
//   - complie_export_run_duration_seconds: Run duration histogram by format
//   - complie_export_rows_total: Rows exported by format
//   - complie_export_runs_in_flight: Currently executing runs
//
// A Collector owns its own registry, so tests and concurrent services
// never fight over global metric registration. Handler returns the
// /metrics scrape endpoint.
package metrics
