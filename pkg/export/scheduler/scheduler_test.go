package scheduler

import (
	"context"
	"testing"
	"time"

	"complie-hq/tabula/pkg/export"
	"complie-hq/tabula/pkg/export/deliver"
	"complie-hq/tabula/pkg/export/encode"
	"complie-hq/tabula/pkg/export/runner"
	"complie-hq/tabula/pkg/export/store"
)

func newTestRunner(t *testing.T) *runner.Runner {
	t.Helper()

	st := store.NewMemoryStore()
	st.AddProject(store.Project{
		ID:        "p1",
		UserID:    "user-1",
		Name:      "Website",
		Status:    "active",
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	return runner.New(runner.Deps{
		Store:    st,
		Encoders: encode.DefaultRegistry(),
	})
}

func discardSink() deliver.Sink {
	return deliver.SinkFunc(func(ctx context.Context, artifact *export.Artifact) error {
		return nil
	})
}

func TestScheduler_Start(t *testing.T) {
	tests := []struct {
		name        string
		schedule    string
		wantRunning bool
		wantError   bool
	}{
		{
			name:        "valid daily schedule",
			schedule:    "0 3 * * *",
			wantRunning: true,
			wantError:   false,
		},
		{
			name:        "valid hourly schedule",
			schedule:    "0 * * * *",
			wantRunning: true,
			wantError:   false,
		},
		{
			name:        "empty schedule - no error, not running",
			schedule:    "",
			wantRunning: false,
			wantError:   false,
		},
		{
			name:        "invalid schedule",
			schedule:    "invalid cron",
			wantRunning: false,
			wantError:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Config{
				Cron:    tt.schedule,
				OwnerID: "user-1",
				Format:  "csv",
				Kinds:   []string{"all"},
			}, newTestRunner(t), discardSink())

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			err := s.Start(ctx)
			if (err != nil) != tt.wantError {
				t.Errorf("Start() error = %v, wantError %v", err, tt.wantError)
			}

			if s.IsRunning() != tt.wantRunning {
				t.Errorf("IsRunning() = %v, want %v", s.IsRunning(), tt.wantRunning)
			}

			if tt.wantRunning {
				next := s.NextRun()
				if next == nil {
					t.Error("NextRun() returned nil for running scheduler")
				} else if !next.After(time.Now()) {
					t.Errorf("NextRun() = %v, expected a future time", next)
				}
			}

			s.Stop()
		})
	}
}

func TestScheduler_Stop(t *testing.T) {
	s := New(Config{
		Cron:    "0 3 * * *",
		OwnerID: "user-1",
		Format:  "csv",
		Kinds:   []string{"projects"},
	}, newTestRunner(t), discardSink())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !s.IsRunning() {
		t.Fatal("scheduler should be running after Start")
	}

	s.Stop()
	if s.IsRunning() {
		t.Error("scheduler should not be running after Stop")
	}

	// Stop is idempotent.
	s.Stop()
}

func TestScheduler_ContextCancellationStops(t *testing.T) {
	s := New(Config{
		Cron:    "0 3 * * *",
		OwnerID: "user-1",
		Format:  "csv",
		Kinds:   []string{"projects"},
	}, newTestRunner(t), discardSink())

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for s.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if s.IsRunning() {
		t.Error("scheduler should stop when the context is cancelled")
	}
}

func TestScheduler_RunExportDeliversArtifact(t *testing.T) {
	delivered := make(chan *export.Artifact, 1)
	sink := deliver.SinkFunc(func(ctx context.Context, artifact *export.Artifact) error {
		select {
		case delivered <- artifact:
		default:
		}
		return nil
	})

	s := New(Config{
		Cron:    "0 3 * * *",
		OwnerID: "user-1",
		Format:  "csv",
		Kinds:   []string{"projects"},
	}, newTestRunner(t), sink)

	// Drive one cycle directly rather than waiting for cron to fire.
	s.runExport(context.Background())

	select {
	case artifact := <-delivered:
		if artifact.ContentType != "text/csv;charset=utf-8" {
			t.Errorf("unexpected content type %q", artifact.ContentType)
		}
		if len(artifact.Data) == 0 {
			t.Error("expected non-empty artifact data")
		}
	default:
		t.Fatal("expected the export cycle to deliver an artifact")
	}
}

func TestScheduler_RunExportMisconfigured(t *testing.T) {
	called := false
	sink := deliver.SinkFunc(func(ctx context.Context, artifact *export.Artifact) error {
		called = true
		return nil
	})

	s := New(Config{
		Cron:    "0 3 * * *",
		OwnerID: "user-1",
		Format:  "docx",
		Kinds:   []string{"projects"},
	}, newTestRunner(t), sink)

	s.runExport(context.Background())
	if called {
		t.Error("misconfigured schedule must not deliver anything")
	}
}

func TestScheduler_NextRunNotStarted(t *testing.T) {
	s := New(Config{Cron: "0 3 * * *"}, newTestRunner(t), discardSink())
	if next := s.NextRun(); next != nil {
		t.Errorf("NextRun() before Start should be nil, got %v", next)
	}
}
