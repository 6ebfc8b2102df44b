// Package normalize flattens raw entity records into display-safe string
// tables ready for any encoder.
//
// For each entity kind the column set is the union of field names across
// that kind's records, in first-seen order, minus the fixed denylist of
// internal fields (user_id, id, private). Values are coerced to strings:
// nil and missing become the empty string, dates and ISO-8601 date-like
// strings render as yyyy-MM-dd, everything else takes its natural string
// form. Rows are padded to the full column set so every table is
// rectangular. Kinds with zero records are dropped entirely.
//
// Normalize is a pure, total function: no I/O and no errors for any
// input.
package normalize
