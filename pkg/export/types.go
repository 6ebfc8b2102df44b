package export

import (
	"fmt"
	"time"
)

// Kind identifies one exportable entity category.
type Kind string

const (
	// KindProjects selects project records.
	KindProjects Kind = "projects"
	// KindTasks selects task records.
	KindTasks Kind = "tasks"
	// KindClients selects client records.
	KindClients Kind = "clients"
	// KindNotes selects note records.
	KindNotes Kind = "notes"
	// KindAll expands to every exportable kind.
	KindAll Kind = "all"
)

// KindOrder is the canonical section order used by every encoder so the
// three formats cannot diverge on ordering.
var KindOrder = []Kind{KindProjects, KindTasks, KindClients, KindNotes}

// ParseKind converts a string into a Kind. It accepts the four entity
// kinds plus "all".
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindProjects, KindTasks, KindClients, KindNotes, KindAll:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown entity kind %q", s)
}

// ExpandKinds resolves a kind selection into a concrete, deduplicated set
// in canonical order. "all" expands to the four entity kinds.
func ExpandKinds(kinds []Kind) []Kind {
	selected := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		if k == KindAll {
			for _, ek := range KindOrder {
				selected[ek] = true
			}
			continue
		}
		selected[k] = true
	}

	out := make([]Kind, 0, len(selected))
	for _, k := range KindOrder {
		if selected[k] {
			out = append(out, k)
		}
	}
	return out
}

// Format identifies an export output format.
type Format string

const (
	// FormatPDF produces a paginated, sectioned document.
	FormatPDF Format = "pdf"
	// FormatCSV produces section-labeled delimited text.
	FormatCSV Format = "csv"
	// FormatXLSX produces a workbook with one sheet per kind.
	FormatXLSX Format = "xlsx"
)

// ParseFormat converts a string into a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPDF, FormatCSV, FormatXLSX:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatCSV:
		return "text/csv;charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// Extension returns the file extension for the format, without a dot.
func (f Format) Extension() string {
	return string(f)
}

// Request describes one export run. It is immutable for the duration of
// the run; concurrent runs each own their own Request.
type Request struct {
	// OwnerID is the authenticated identity whose records are exported.
	// Identity is established upstream; this subsystem only scopes queries.
	OwnerID string `json:"owner_id"`

	// Format selects the encoder.
	Format Format `json:"format"`

	// Kinds is the requested entity-kind selection. "all" expands to the
	// four entity kinds. Must be non-empty after expansion.
	Kinds []Kind `json:"kinds"`

	// CreatedAfter, if set, restricts the fetch to records whose creation
	// timestamp is greater than or equal to this instant.
	CreatedAfter *time.Time `json:"created_after,omitempty"`

	// IncludeArchived includes records flagged as archived.
	IncludeArchived bool `json:"include_archived"`

	// Title is the document title used by the PDF encoder. Empty selects
	// the default title.
	Title string `json:"title,omitempty"`
}

// Validate checks the request invariants.
func (r *Request) Validate() error {
	if r.OwnerID == "" {
		return fmt.Errorf("owner id is required")
	}
	if _, err := ParseFormat(string(r.Format)); err != nil {
		return err
	}
	if len(ExpandKinds(r.Kinds)) == 0 {
		return fmt.Errorf("at least one entity kind is required")
	}
	for _, k := range r.Kinds {
		if _, err := ParseKind(string(k)); err != nil {
			return err
		}
	}
	return nil
}

// DataType returns the filename selector for the request: the single
// requested kind, or the literal "all" when more than one kind (or the
// "all" selector itself) was requested.
func (r *Request) DataType() string {
	expanded := ExpandKinds(r.Kinds)
	if len(expanded) == 1 {
		return string(expanded[0])
	}
	return string(KindAll)
}

// Field is one name/value pair of a raw record. Values are the mixed
// types the store produces: string, numeric, time.Time, bool, or nil.
type Field struct {
	Name  string
	Value any
}

// RawRecord is one entity record as fetched from the store, with field
// order preserved. It still contains internal fields (ids, ownership
// keys); the normalizer strips those before anything leaves the pipeline.
type RawRecord struct {
	Fields []Field
}

// Set appends a field, replacing the value in place if the name is
// already present.
func (r *RawRecord) Set(name string, value any) {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			r.Fields[i].Value = value
			return
		}
	}
	r.Fields = append(r.Fields, Field{Name: name, Value: value})
}

// Get returns the value for a field name and whether it was present.
func (r *RawRecord) Get(name string) (any, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Row is one normalized record keyed by display column name. Every value
// is a display-safe string; every key appears in the owning Table's
// Columns slice.
type Row map[string]string

// Table is the normalized form of one entity kind: the ordered column
// list plus one Row per source record, each padded to the full column
// set.
type Table struct {
	Columns []string
	Rows    []Row
}

// TableSet groups normalized tables by entity kind. Kinds that produced
// zero records are absent.
type TableSet map[Kind]Table

// Kinds returns the kinds present in the set, in canonical order.
func (ts TableSet) Kinds() []Kind {
	out := make([]Kind, 0, len(ts))
	for _, k := range KindOrder {
		if _, ok := ts[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// RowCount returns the total number of rows across all tables.
func (ts TableSet) RowCount() int {
	n := 0
	for _, t := range ts {
		n += len(t.Rows)
	}
	return n
}

// Artifact is the final product of an export run: the encoded payload
// plus the metadata a delivery sink needs.
type Artifact struct {
	// Filename follows the pattern {dataType}-export-{yyyy-MM-dd}.{ext}.
	Filename string

	// ContentType is the MIME type of Data.
	ContentType string

	// Data is the encoded payload.
	Data []byte
}

// Filename builds the deterministic artifact filename for a data-type
// selector, generation date, and format.
func Filename(dataType string, date time.Time, format Format) string {
	return fmt.Sprintf("%s-export-%s.%s", dataType, date.Format("2006-01-02"), format.Extension())
}
