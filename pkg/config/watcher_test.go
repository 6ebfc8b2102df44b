package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("export:\n  title: Before\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	w, err := NewWatcher(path, discardLogger())
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	updates := make(chan *Config, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func(cfg *Config) {
			select {
			case updates <- cfg:
			default:
			}
		})
	}()

	// Give the watcher a moment to register before changing the file.
	time.Sleep(200 * time.Millisecond)

	if err := os.WriteFile(path, []byte("export:\n  title: After\n"), 0o644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}

	select {
	case cfg := <-updates:
		if cfg.Export.Title != "After" {
			t.Errorf("expected reloaded title %q, got %q", "After", cfg.Export.Title)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for configuration reload")
	}

	if err := w.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}
}

func TestWatcher_InvalidReloadKeepsWatching(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	w, err := NewWatcher(path, discardLogger())
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func(*Config) { calls.Add(1) })
	}()

	time.Sleep(200 * time.Millisecond)

	// A broken file must not reach the update callback.
	if err := os.WriteFile(path, []byte("store: [broken"), 0o644); err != nil {
		t.Fatalf("failed to rewrite config: %v", err)
	}
	time.Sleep(500 * time.Millisecond)

	if got := calls.Load(); got != 0 {
		t.Errorf("expected no updates for invalid config, got %d", got)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}
}

func TestWatcher_StopBeforeWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	w, err := NewWatcher(path, discardLogger())
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Stop on idle watcher should be a no-op, got %v", err)
	}
}

func TestNewWatcher_EmptyPath(t *testing.T) {
	if _, err := NewWatcher("", discardLogger()); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestDebouncer_CollapsesBursts(t *testing.T) {
	d := newDebouncer(50 * time.Millisecond)
	defer d.stop()

	var calls atomic.Int32
	for i := 0; i < 10; i++ {
		d.trigger(func() { calls.Add(1) })
	}

	time.Sleep(200 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("expected a burst to collapse into 1 call, got %d", got)
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := newDebouncer(50 * time.Millisecond)

	var calls atomic.Int32
	d.trigger(func() { calls.Add(1) })
	d.stop()

	time.Sleep(150 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("expected stopped debouncer to drop pending call, got %d", got)
	}
}
