package encode

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"complie-hq/tabula/pkg/export"
)

// DefaultPDFTitle is the document title when none is configured.
const DefaultPDFTitle = "Complie Data Export"

// sectionBreakRatio is the fraction of page height below which a new
// section heading is not started; the section moves to a fresh page so
// the heading is never separated from at least its header row.
const sectionBreakRatio = 0.9

// PDFEncoder produces a paginated document: a title, a generation-date
// subtitle, then one titled table per non-empty entity kind in canonical
// order. Header cells render upper-cased with underscores replaced by
// spaces.
type PDFEncoder struct {
	// Title is the document title. Empty selects DefaultPDFTitle.
	Title string

	// Now supplies the generation date for the subtitle. Nil means
	// time.Now; tests inject a fixed clock.
	Now func() time.Time
}

// NewPDFEncoder creates a new PDF encoder with the given title.
func NewPDFEncoder(title string) *PDFEncoder {
	return &PDFEncoder{Title: title}
}

// Format identifies the output format.
func (e *PDFEncoder) Format() export.Format {
	return export.FormatPDF
}

// WithTitle returns a copy of the encoder using the given title.
func (e *PDFEncoder) WithTitle(title string) Encoder {
	return &PDFEncoder{Title: title, Now: e.Now}
}

// Encode writes the table set as a PDF document. An empty table set
// produces a valid document with only the title block.
func (e *PDFEncoder) Encode(ctx context.Context, ts export.TableSet, w io.Writer) error {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	title := e.Title
	if title == "" {
		title = DefaultPDFTitle
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	// Uncompressed streams keep the documents greppable; exports are
	// small enough that size does not matter.
	pdf.SetCompression(false)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pageWidth, pageHeight := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usableWidth := pageWidth - left - right

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(usableWidth, 10, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(usableWidth, 6, "Generated "+now().Format("2006-01-02"), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	for _, kind := range ts.Kinds() {
		if err := ctx.Err(); err != nil {
			return export.NewEncodingError(export.FormatPDF, err)
		}
		table := ts[kind]

		// Keep the heading with at least its header row.
		if pdf.GetY() > pageHeight*sectionBreakRatio {
			pdf.AddPage()
		}

		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(usableWidth, 8, sectionTitle(kind), "", 1, "L", false, 0, "")

		colWidth := usableWidth
		if len(table.Columns) > 0 {
			colWidth = usableWidth / float64(len(table.Columns))
		}

		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(230, 230, 230)
		for _, col := range table.Columns {
			pdf.CellFormat(colWidth, 7, headerLabel(col), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 8)
		for _, row := range table.Rows {
			for _, col := range table.Columns {
				pdf.CellFormat(colWidth, 6, row[col], "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(6)
	}

	if err := pdf.Output(w); err != nil {
		return export.NewEncodingError(export.FormatPDF, err)
	}
	return nil
}

// sectionTitle renders a kind as a section heading ("projects" →
// "Projects").
func sectionTitle(kind export.Kind) string {
	s := string(kind)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// headerLabel renders a column name as a PDF table header cell:
// upper-cased with underscores replaced by spaces.
func headerLabel(col string) string {
	return strings.ToUpper(strings.ReplaceAll(col, "_", " "))
}
