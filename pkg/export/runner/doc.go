// Package runner drives one export run through its stages:
//
//	Idle → Fetching → Normalizing → Encoding → Delivering → Done
//
// with a single terminal Failed state reachable from any non-Idle
// stage. No stage is skipped. Progress is reported at stage boundaries
// as a monotonically non-decreasing percentage that reaches 100 only in
// Done. A stage failure aborts the run immediately: no partial artifact
// is delivered and nothing is retried; the returned RunError names the
// failing stage so callers can say which part of the export broke.
//
// A Runner is safe for concurrent use. Every run owns its request,
// table set, and artifact, so concurrent runs share no state.
package runner
