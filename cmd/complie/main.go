// Complie exports a freelancer's workspace data to portable files.
//
// It turns the projects, tasks, clients and notes stored for a user into
// PDF, CSV or XLSX documents, either on demand from the command line or
// through a small HTTP API:
//   - Per-user data scoping with a denylist for internal fields
//   - PDF, CSV and XLSX output with identical section ordering
//   - Scheduled recurring exports via cron expressions
//   - Prometheus metrics and structured logging
//
// Usage:
//
//	# Export everything for a user to the exports directory
//	complie export --user usr_123 --format pdf
//
//	# Export recent projects and tasks as a spreadsheet
//	complie export --user usr_123 --format xlsx --kinds projects,tasks --since 30d
//
//	# Start the export API server
//	complie serve --config /path/to/config.yaml
//
//	# Validate a configuration file
//	complie validate --config /path/to/config.yaml
//
//	# Show version information
//	complie version
package main

func main() {
	Execute()
}
