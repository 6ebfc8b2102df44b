package encode

import (
	"context"
	"io"

	"github.com/xuri/excelize/v2"

	"complie-hq/tabula/pkg/export"
)

// maxSheetNameLen is the sheet-name length limit imposed by the XLSX
// format.
const maxSheetNameLen = 31

// XLSXEncoder produces a workbook with one sheet per non-empty entity
// kind: a header row of column names followed by one row per record.
type XLSXEncoder struct{}

// NewXLSXEncoder creates a new XLSX encoder.
func NewXLSXEncoder() *XLSXEncoder {
	return &XLSXEncoder{}
}

// Format identifies the output format.
func (e *XLSXEncoder) Format() export.Format {
	return export.FormatXLSX
}

// Encode writes the table set as an XLSX workbook. An empty table set
// produces a valid workbook with a single blank sheet.
func (e *XLSXEncoder) Encode(ctx context.Context, ts export.TableSet, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, kind := range ts.Kinds() {
		if err := ctx.Err(); err != nil {
			return export.NewEncodingError(export.FormatXLSX, err)
		}
		table := ts[kind]
		name := sheetName(kind)

		if i == 0 {
			// Rename the workbook's initial sheet instead of leaving a
			// blank "Sheet1" ahead of the data.
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return export.NewEncodingError(export.FormatXLSX, err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return export.NewEncodingError(export.FormatXLSX, err)
			}
		}

		header := make([]any, len(table.Columns))
		for c, col := range table.Columns {
			header[c] = col
		}
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return export.NewEncodingError(export.FormatXLSX, err)
		}

		for r, row := range table.Rows {
			cells := make([]any, len(table.Columns))
			for c, col := range table.Columns {
				cells[c] = row[col]
			}
			start, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return export.NewEncodingError(export.FormatXLSX, err)
			}
			if err := f.SetSheetRow(name, start, &cells); err != nil {
				return export.NewEncodingError(export.FormatXLSX, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return export.NewEncodingError(export.FormatXLSX, err)
	}
	return nil
}

// sheetName truncates a kind to the XLSX sheet-name limit.
func sheetName(kind export.Kind) string {
	s := string(kind)
	if len(s) > maxSheetNameLen {
		return s[:maxSheetNameLen]
	}
	return s
}
