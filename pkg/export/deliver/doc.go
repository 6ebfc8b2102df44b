// Package deliver hands finished export artifacts to their destination.
//
// A Sink consumes one Artifact and either persists it (FileSink writes
// into a directory using the artifact's deterministic filename) or
// streams it to a waiting client (HTTPSink sets attachment headers on an
// http.ResponseWriter). Sink failures surface as DeliveryError, distinct
// from fetch and encode errors, so callers can report which stage of an
// export run failed.
package deliver
