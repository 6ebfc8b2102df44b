// Package server provides the HTTP surface for on-demand exports.
//
// The server exposes three endpoints:
//
//   - POST /api/export  - run an export and stream the file back as an
//     attachment. The authenticated user is taken from the X-User-ID
//     header; the request body selects format, kinds and filters.
//   - GET /healthz      - liveness probe.
//   - GET /metrics      - Prometheus metrics (when enabled).
//
// Requests pass through a small middleware chain: panic recovery, request
// ID assignment and structured request logging.
package server
