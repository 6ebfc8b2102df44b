package encode

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"complie-hq/tabula/pkg/export"
)

func TestPDFEncoder_ValidDocument(t *testing.T) {
	var buf bytes.Buffer
	enc := NewPDFEncoder("Complie Data Export")
	enc.Now = func() time.Time { return time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC) }

	if err := enc.Encode(context.Background(), sampleTableSet(), &buf); err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected non-empty payload")
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Error("payload missing PDF header")
	}
}

func TestPDFEncoder_ContainsDataNotInternals(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPDFEncoder("").Encode(context.Background(), sampleTableSet(), &buf); err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}

	// Streams are uncompressed, so cell text is visible in the raw bytes.
	out := buf.String()
	if !strings.Contains(out, "Website") {
		t.Error("expected payload to contain cell value Website")
	}
	for _, banned := range []string{"(p1)", "(u1)"} {
		if strings.Contains(out, banned) {
			t.Errorf("output leaked internal value %q", banned)
		}
	}
}

func TestPDFEncoder_HeaderLabels(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPDFEncoder("").Encode(context.Background(), sampleTableSet(), &buf); err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	if !strings.Contains(buf.String(), "CREATED AT") {
		t.Error("header cells must render upper-cased with spaces")
	}
}

func TestPDFEncoder_EmptyTableSet(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPDFEncoder("").Encode(context.Background(), export.TableSet{}, &buf); err != nil {
		t.Fatalf("Encode() failed on empty set: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Error("empty set must still produce a valid document")
	}
	if !strings.Contains(buf.String(), DefaultPDFTitle) {
		t.Error("empty document should still carry the title")
	}
}

func TestPDFEncoder_ManyRowsPaginate(t *testing.T) {
	rows := make([]export.Row, 200)
	for i := range rows {
		rows[i] = export.Row{"Title": "Task", "Status": "todo"}
	}
	ts := export.TableSet{
		export.KindTasks: {Columns: []string{"Title", "Status"}, Rows: rows},
	}

	var buf bytes.Buffer
	if err := NewPDFEncoder("").Encode(context.Background(), ts, &buf); err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	// 200 rows cannot fit one A4 page; the page tree must hold more.
	if strings.Contains(buf.String(), "/Count 1") {
		t.Error("expected content to continue past the first page")
	}
}

func TestSectionTitleAndHeaderLabel(t *testing.T) {
	if got := sectionTitle(export.KindProjects); got != "Projects" {
		t.Errorf("sectionTitle = %q, want Projects", got)
	}
	if got := headerLabel("Created At"); got != "CREATED AT" {
		t.Errorf("headerLabel = %q, want CREATED AT", got)
	}
	if got := headerLabel("due_date"); got != "DUE DATE" {
		t.Errorf("headerLabel = %q, want DUE DATE", got)
	}
}

func TestPDFEncoder_WithTitle(t *testing.T) {
	base := NewPDFEncoder("")
	base.Now = func() time.Time { return time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC) }

	titled, ok := interface{}(base).(Titled)
	if !ok {
		t.Fatal("PDF encoder should implement Titled")
	}

	var buf bytes.Buffer
	if err := titled.WithTitle("Acme Books").Encode(context.Background(), sampleTableSet(), &buf); err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Acme Books") {
		t.Error("expected the override title in the document")
	}
	if base.Title != "" {
		t.Error("WithTitle must not mutate the registered encoder")
	}
}
