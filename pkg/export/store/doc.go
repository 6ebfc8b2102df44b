// Package store provides the record backends behind the export
// pipeline's fetch stage.
//
// The Store interface hides the backend behind per-kind List queries
// scoped to an owner, with an optional inclusive creation-date lower
// bound and an archived filter. Two implementations ship:
//
//   - MemoryStore: in-memory backend for tests and development.
//   - SQLiteStore: embedded database backend with WAL mode.
//
// Records are held as typed rows (Project, Task, Client, Note) and
// lowered to export.RawRecord at the interface boundary, so callers
// never see backend-specific shapes.
//
// FetchAll issues the per-kind queries concurrently and joins them
// before returning; a single failed kind fails the whole fetch with a
// FetchError naming that kind.
package store
