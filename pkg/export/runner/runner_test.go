package runner

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"complie-hq/tabula/pkg/export"
	"complie-hq/tabula/pkg/export/deliver"
	"complie-hq/tabula/pkg/export/encode"
	"complie-hq/tabula/pkg/export/store"
)

func seededStore() *store.MemoryStore {
	s := store.NewMemoryStore()
	s.AddProject(store.Project{
		ID:        "p1",
		UserID:    "u1",
		Name:      "Website",
		Status:    "active",
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	return s
}

// captureSink remembers the last delivered artifact.
type captureSink struct {
	mu       sync.Mutex
	artifact *export.Artifact
}

func (c *captureSink) Deliver(ctx context.Context, a *export.Artifact) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.artifact = a
	return nil
}

func (c *captureSink) last() *export.Artifact {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.artifact
}

func newTestRunner(s store.Store) *Runner {
	return New(Deps{
		Store:    s,
		Encoders: encode.DefaultRegistry(),
		Now:      func() time.Time { return time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC) },
	})
}

func TestRunner_EndToEndAllFormats(t *testing.T) {
	for _, format := range []export.Format{export.FormatCSV, export.FormatPDF, export.FormatXLSX} {
		t.Run(string(format), func(t *testing.T) {
			sink := &captureSink{}
			r := newTestRunner(seededStore())

			req := export.Request{
				OwnerID: "u1",
				Format:  format,
				Kinds:   []export.Kind{export.KindAll},
			}
			result, err := r.Run(context.Background(), req, sink, nil)
			if err != nil {
				t.Fatalf("Run() failed: %v", err)
			}

			artifact := sink.last()
			if artifact == nil || len(artifact.Data) == 0 {
				t.Fatal("expected a non-empty delivered artifact")
			}
			want := "all-export-2025-01-10." + string(format)
			if artifact.Filename != want {
				t.Errorf("filename = %q, want %q", artifact.Filename, want)
			}
			if artifact.ContentType != format.ContentType() {
				t.Errorf("content type = %q", artifact.ContentType)
			}
			if result.Rows != 1 {
				t.Errorf("rows = %d, want 1", result.Rows)
			}

			// Payloads carry the data but never the internal identifiers.
			// CSV and uncompressed PDF are checked byte-wise; XLSX stores
			// strings deflated, so only the id check applies raw.
			data := string(artifact.Data)
			if format != export.FormatXLSX && !strings.Contains(data, "Website") {
				t.Errorf("%s payload missing record data", format)
			}
			for _, banned := range []string{"p1)", ",p1", "u1)", ",u1"} {
				if strings.Contains(data, banned) {
					t.Errorf("%s payload leaked internal value %q", format, banned)
				}
			}
		})
	}
}

func TestRunner_SingleKindFilename(t *testing.T) {
	sink := &captureSink{}
	r := newTestRunner(seededStore())

	req := export.Request{OwnerID: "u1", Format: export.FormatPDF, Kinds: []export.Kind{export.KindProjects}}
	if _, err := r.Run(context.Background(), req, sink, nil); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if got := sink.last().Filename; got != "projects-export-2025-01-10.pdf" {
		t.Errorf("filename = %q, want projects-export-2025-01-10.pdf", got)
	}
}

func TestRunner_ProgressMonotonic(t *testing.T) {
	sink := &captureSink{}
	r := newTestRunner(seededStore())

	var reports []Progress
	req := export.Request{OwnerID: "u1", Format: export.FormatCSV, Kinds: []export.Kind{export.KindAll}}
	if _, err := r.Run(context.Background(), req, sink, func(p Progress) {
		reports = append(reports, p)
	}); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if len(reports) == 0 {
		t.Fatal("expected progress reports")
	}
	last := -1
	for i, p := range reports {
		if p.Percent < last {
			t.Errorf("progress went backwards at %d: %d -> %d", i, last, p.Percent)
		}
		if p.Percent == 100 && p.Stage != StageDone {
			t.Errorf("100%% reported outside Done: %+v", p)
		}
		last = p.Percent
	}
	final := reports[len(reports)-1]
	if final.Stage != StageDone || final.Percent != 100 {
		t.Errorf("final report = %+v, want Done/100", final)
	}
}

func TestRunner_InvalidRequest(t *testing.T) {
	r := newTestRunner(seededStore())
	req := export.Request{Format: export.FormatCSV, Kinds: []export.Kind{export.KindAll}}

	_, err := r.Run(context.Background(), req, &captureSink{}, nil)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var re *RunError
	if errors.As(err, &re) {
		t.Errorf("validation failures must not be staged run errors, got %+v", re)
	}
}

func TestRunner_FetchFailureNamesStageAndKind(t *testing.T) {
	cause := errors.New("timeout")
	s := &stubStore{err: cause}
	r := newTestRunner(s)

	var reports []Progress
	req := export.Request{OwnerID: "u1", Format: export.FormatCSV, Kinds: []export.Kind{export.KindTasks}}
	_, err := r.Run(context.Background(), req, &captureSink{}, func(p Progress) { reports = append(reports, p) })
	if err == nil {
		t.Fatal("expected run failure")
	}

	var re *RunError
	if !errors.As(err, &re) {
		t.Fatalf("expected RunError, got %T", err)
	}
	if re.Stage != StageFetching {
		t.Errorf("stage = %s, want fetching", re.Stage)
	}
	var fe *export.FetchError
	if !errors.As(err, &fe) || fe.Kind != export.KindTasks {
		t.Errorf("expected wrapped FetchError for tasks, got %v", err)
	}

	// Fail-fast: no report may claim completion.
	for _, p := range reports {
		if p.Percent >= 100 || p.Stage == StageDone {
			t.Errorf("failed run reported completion: %+v", p)
		}
	}
}

func TestRunner_DeliveryFailure(t *testing.T) {
	r := newTestRunner(seededStore())
	sink := deliver.SinkFunc(func(ctx context.Context, a *export.Artifact) error {
		return export.NewDeliveryError(errors.New("download blocked"))
	})

	req := export.Request{OwnerID: "u1", Format: export.FormatCSV, Kinds: []export.Kind{export.KindAll}}
	_, err := r.Run(context.Background(), req, sink, nil)

	var re *RunError
	if !errors.As(err, &re) || re.Stage != StageDelivering {
		t.Fatalf("expected delivering-stage RunError, got %v", err)
	}
	var de *export.DeliveryError
	if !errors.As(err, &de) {
		t.Error("expected wrapped DeliveryError")
	}
}

func TestRunner_CancelledBeforeDelivery(t *testing.T) {
	r := newTestRunner(seededStore())
	ctx, cancel := context.WithCancel(context.Background())

	delivered := false
	sink := deliver.SinkFunc(func(ctx context.Context, a *export.Artifact) error {
		delivered = true
		return nil
	})

	cancel()
	req := export.Request{OwnerID: "u1", Format: export.FormatCSV, Kinds: []export.Kind{export.KindAll}}
	_, err := r.Run(ctx, req, sink, nil)
	if err == nil {
		t.Fatal("expected failure for cancelled context")
	}
	if delivered {
		t.Error("cancelled run must not deliver an artifact")
	}
}

func TestRunner_ConcurrentRunsIndependent(t *testing.T) {
	s := seededStore()
	s.AddClient(store.Client{
		ID: "c1", UserID: "u1", Name: "Acme", Company: "Acme, Inc.",
		CreatedAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	})
	r := newTestRunner(s)

	type run struct {
		req  export.Request
		sink *captureSink
	}
	runs := []run{
		{export.Request{OwnerID: "u1", Format: export.FormatCSV, Kinds: []export.Kind{export.KindProjects}}, &captureSink{}},
		{export.Request{OwnerID: "u1", Format: export.FormatCSV, Kinds: []export.Kind{export.KindClients}}, &captureSink{}},
	}

	var wg sync.WaitGroup
	for i := range runs {
		wg.Add(1)
		go func(rn *run) {
			defer wg.Done()
			if _, err := r.Run(context.Background(), rn.req, rn.sink, nil); err != nil {
				t.Errorf("Run() failed: %v", err)
			}
		}(&runs[i])
	}
	wg.Wait()

	a, b := runs[0].sink.last(), runs[1].sink.last()
	if a == nil || b == nil {
		t.Fatal("both runs must deliver")
	}
	if a == b {
		t.Error("concurrent runs shared an artifact")
	}
	if !strings.Contains(string(a.Data), "Website") || strings.Contains(string(a.Data), "Acme") {
		t.Error("projects artifact has wrong contents")
	}
	if !strings.Contains(string(b.Data), "Acme") || strings.Contains(string(b.Data), "Website") {
		t.Error("clients artifact has wrong contents")
	}
	if a.Filename != "projects-export-2025-01-10.csv" || b.Filename != "clients-export-2025-01-10.csv" {
		t.Errorf("filenames = %q, %q", a.Filename, b.Filename)
	}
}

func TestRunner_EmptyKindsOmittedInOutput(t *testing.T) {
	sink := &captureSink{}
	r := newTestRunner(seededStore())

	// Tasks has no records; only projects may appear.
	req := export.Request{OwnerID: "u1", Format: export.FormatCSV, Kinds: []export.Kind{export.KindProjects, export.KindTasks}}
	if _, err := r.Run(context.Background(), req, sink, nil); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	out := string(sink.last().Data)
	if strings.Contains(out, "TASKS") {
		t.Errorf("empty kind rendered a section:\n%s", out)
	}
	if !strings.Contains(out, "PROJECTS") {
		t.Errorf("non-empty kind missing:\n%s", out)
	}
}

// stubStore fails every List call.
type stubStore struct{ err error }

func (s *stubStore) List(ctx context.Context, kind export.Kind, q store.Query) ([]export.RawRecord, error) {
	return nil, s.err
}

func (s *stubStore) Close() error { return nil }

func TestRunner_RequestTitleAppliedToPDF(t *testing.T) {
	r := newTestRunner(seededStore())
	sink := &captureSink{}

	_, err := r.Run(context.Background(), export.Request{
		OwnerID: "u1",
		Format:  export.FormatPDF,
		Kinds:   []export.Kind{export.KindProjects},
		Title:   "Quarterly Books",
	}, sink, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !strings.Contains(string(sink.last().Data), "Quarterly Books") {
		t.Error("expected the request title in the PDF output")
	}
}
