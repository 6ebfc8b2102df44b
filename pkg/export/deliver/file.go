package deliver

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"complie-hq/tabula/pkg/export"
)

// FileSink writes artifacts into a directory under their deterministic
// filename. The write goes through a temporary file and a rename so a
// failed run never leaves a partial artifact behind.
type FileSink struct {
	dir    string
	logger *slog.Logger
}

// NewFileSink creates a sink writing into dir. The directory is created
// on first delivery if it does not exist.
func NewFileSink(dir string) *FileSink {
	return &FileSink{
		dir:    dir,
		logger: slog.Default().With("component", "export.deliver.file"),
	}
}

// Deliver writes the artifact to disk.
func (s *FileSink) Deliver(ctx context.Context, artifact *export.Artifact) error {
	if err := ctx.Err(); err != nil {
		return export.NewDeliveryError(err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return export.NewDeliveryError(fmt.Errorf("create output directory: %w", err))
	}

	target := filepath.Join(s.dir, artifact.Filename)
	tmp, err := os.CreateTemp(s.dir, artifact.Filename+".tmp-*")
	if err != nil {
		return export.NewDeliveryError(fmt.Errorf("create temp file: %w", err))
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(artifact.Data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return export.NewDeliveryError(fmt.Errorf("write artifact: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return export.NewDeliveryError(fmt.Errorf("close artifact: %w", err))
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return export.NewDeliveryError(fmt.Errorf("finalize artifact: %w", err))
	}

	s.logger.Info("artifact written",
		"path", target,
		"bytes", len(artifact.Data),
	)
	return nil
}

// Path returns the destination path an artifact would be written to.
func (s *FileSink) Path(artifact *export.Artifact) string {
	return filepath.Join(s.dir, artifact.Filename)
}
