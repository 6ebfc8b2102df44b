package deliver

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"complie-hq/tabula/pkg/export"
)

func sampleArtifact() *export.Artifact {
	return &export.Artifact{
		Filename:    "projects-export-2025-01-10.csv",
		ContentType: "text/csv;charset=utf-8",
		Data:        []byte("Name,Status\nWebsite,active\n"),
	}
}

func TestFileSink_WritesArtifact(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir)
	artifact := sampleArtifact()

	if err := sink.Deliver(context.Background(), artifact); err != nil {
		t.Fatalf("Deliver() failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, artifact.Filename))
	if err != nil {
		t.Fatalf("reading delivered file failed: %v", err)
	}
	if string(data) != string(artifact.Data) {
		t.Errorf("file content = %q, want %q", data, artifact.Data)
	}

	// Rename-based write must not leave temp files behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected exactly one file in output dir, got %d", len(entries))
	}
}

func TestFileSink_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports", "nested")
	sink := NewFileSink(dir)

	if err := sink.Deliver(context.Background(), sampleArtifact()); err != nil {
		t.Fatalf("Deliver() failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, sampleArtifact().Filename)); err != nil {
		t.Errorf("expected artifact in created directory: %v", err)
	}
}

func TestFileSink_FailureIsDeliveryError(t *testing.T) {
	// A file path where the directory should be forces MkdirAll to fail.
	base := t.TempDir()
	blocker := filepath.Join(base, "blocked")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	sink := NewFileSink(filepath.Join(blocker, "sub"))
	err := sink.Deliver(context.Background(), sampleArtifact())
	if err == nil {
		t.Fatal("expected delivery failure")
	}
	var de *export.DeliveryError
	if !errors.As(err, &de) {
		t.Errorf("expected DeliveryError, got %T: %v", err, err)
	}
}

func TestFileSink_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := NewFileSink(t.TempDir())
	err := sink.Deliver(ctx, sampleArtifact())
	var de *export.DeliveryError
	if !errors.As(err, &de) {
		t.Errorf("expected DeliveryError for cancelled context, got %v", err)
	}
}

func TestHTTPSink_SetsDownloadHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	sink := NewHTTPSink(rec)
	artifact := sampleArtifact()

	if err := sink.Deliver(context.Background(), artifact); err != nil {
		t.Fatalf("Deliver() failed: %v", err)
	}

	if got := rec.Header().Get("Content-Type"); got != artifact.ContentType {
		t.Errorf("Content-Type = %q, want %q", got, artifact.ContentType)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, "attachment;") || !strings.Contains(cd, artifact.Filename) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if rec.Body.String() != string(artifact.Data) {
		t.Errorf("body = %q, want %q", rec.Body.String(), artifact.Data)
	}
}

func TestSinkFunc_Adapts(t *testing.T) {
	var delivered *export.Artifact
	sink := SinkFunc(func(ctx context.Context, a *export.Artifact) error {
		delivered = a
		return nil
	})
	if err := sink.Deliver(context.Background(), sampleArtifact()); err != nil {
		t.Fatalf("Deliver() failed: %v", err)
	}
	if delivered == nil || delivered.Filename != sampleArtifact().Filename {
		t.Error("SinkFunc did not receive the artifact")
	}
}
