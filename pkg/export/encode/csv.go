package encode

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"complie-hq/tabula/pkg/export"
)

// CSVEncoder produces one UTF-8 text blob with a labeled CSV block per
// non-empty entity kind: a blank line, the upper-cased kind label on its
// own line, a header line, then one line per row. Quoting follows
// RFC 4180 via encoding/csv.
type CSVEncoder struct{}

// NewCSVEncoder creates a new CSV encoder.
func NewCSVEncoder() *CSVEncoder {
	return &CSVEncoder{}
}

// Format identifies the output format.
func (e *CSVEncoder) Format() export.Format {
	return export.FormatCSV
}

// Encode writes the table set as section-labeled CSV blocks. An empty
// table set produces an empty (still valid) text payload.
func (e *CSVEncoder) Encode(ctx context.Context, ts export.TableSet, w io.Writer) error {
	for _, kind := range ts.Kinds() {
		if err := ctx.Err(); err != nil {
			return export.NewEncodingError(export.FormatCSV, err)
		}
		table := ts[kind]

		if _, err := fmt.Fprintf(w, "\n%s\n", strings.ToUpper(string(kind))); err != nil {
			return export.NewEncodingError(export.FormatCSV, err)
		}

		cw := csv.NewWriter(w)
		if err := cw.Write(table.Columns); err != nil {
			return export.NewEncodingError(export.FormatCSV, err)
		}
		for _, row := range table.Rows {
			line := make([]string, len(table.Columns))
			for i, col := range table.Columns {
				line[i] = row[col]
			}
			if err := cw.Write(line); err != nil {
				return export.NewEncodingError(export.FormatCSV, err)
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return export.NewEncodingError(export.FormatCSV, err)
		}

		if _, err := io.WriteString(w, "\n"); err != nil {
			return export.NewEncodingError(export.FormatCSV, err)
		}
	}
	return nil
}
