package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"

	"complie-hq/tabula/pkg/export"
)

// denylist holds the internal field names stripped from every record
// before anything leaves the normalizer. Fixed, not configurable.
var denylist = map[string]bool{
	"user_id": true,
	"id":      true,
	"private": true,
}

// dateLayout is the display form for all date and timestamp values.
const dateLayout = "2006-01-02"

// Normalize converts raw records grouped by kind into a TableSet.
// Kinds with zero records are omitted from the result.
func Normalize(rawByKind map[export.Kind][]export.RawRecord) export.TableSet {
	out := make(export.TableSet, len(rawByKind))
	for kind, records := range rawByKind {
		if len(records) == 0 {
			continue
		}
		out[kind] = normalizeKind(records)
	}
	return out
}

func normalizeKind(records []export.RawRecord) export.Table {
	// Column set: first-seen order union of field names minus denylist.
	var fieldNames []string
	seen := make(map[string]bool)
	for _, record := range records {
		for _, f := range record.Fields {
			if denylist[f.Name] || seen[f.Name] {
				continue
			}
			seen[f.Name] = true
			fieldNames = append(fieldNames, f.Name)
		}
	}

	columns := make([]string, len(fieldNames))
	for i, name := range fieldNames {
		columns[i] = DisplayColumn(name)
	}

	rows := make([]export.Row, 0, len(records))
	for _, record := range records {
		row := make(export.Row, len(columns))
		for i, name := range fieldNames {
			value, ok := record.Get(name)
			if !ok {
				// Ragged source record: pad so the table stays rectangular.
				row[columns[i]] = ""
				continue
			}
			row[columns[i]] = Coerce(value)
		}
		rows = append(rows, row)
	}

	return export.Table{Columns: columns, Rows: rows}
}

// DisplayColumn converts a snake_case field name into its human-cased
// display form: "created_at" becomes "Created At".
func DisplayColumn(field string) string {
	words := strings.Split(field, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// Coerce renders one raw field value as a display-safe string. Nil
// becomes the empty string, dates render as yyyy-MM-dd, numbers drop
// trailing zero fractions, everything else takes its fmt form.
func Coerce(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return coerceString(v)
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format(dateLayout)
	case *time.Time:
		if v == nil || v.IsZero() {
			return ""
		}
		return v.Format(dateLayout)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return Coerce(float64(v))
	default:
		return fmt.Sprintf("%v", v)
	}
}

func coerceString(s string) string {
	if strfmt.IsDate(s) {
		return s
	}
	if strfmt.IsDateTime(s) {
		if dt, err := strfmt.ParseDateTime(s); err == nil {
			return time.Time(dt).Format(dateLayout)
		}
	}
	return s
}
