package runner

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"complie-hq/tabula/pkg/export"
	"complie-hq/tabula/pkg/export/deliver"
	"complie-hq/tabula/pkg/export/encode"
	"complie-hq/tabula/pkg/export/normalize"
	"complie-hq/tabula/pkg/export/store"
	"complie-hq/tabula/pkg/telemetry/metrics"
)

// Stage identifies one phase of an export run.
type Stage string

const (
	// StageFetching is the store-query phase.
	StageFetching Stage = "fetching"
	// StageNormalizing is the raw-record flattening phase.
	StageNormalizing Stage = "normalizing"
	// StageEncoding is the format-serialization phase.
	StageEncoding Stage = "encoding"
	// StageDelivering is the artifact hand-off phase.
	StageDelivering Stage = "delivering"
	// StageDone is the successful terminal state.
	StageDone Stage = "done"
)

// Progress checkpoints reported at stage boundaries. The exact values
// are a UX contract, not a correctness one; they only promise to be
// non-decreasing and to reach 100 in Done alone.
const (
	progressFetchStart   = 10
	progressFetchDone    = 40
	progressNormalized   = 55
	progressEncoded      = 80
	progressDeliverStart = 95
	progressDone         = 100
)

// Progress is one progress report.
type Progress struct {
	Stage   Stage
	Percent int
}

// ProgressFunc receives progress reports during a run. It is called
// synchronously; implementations should return quickly.
type ProgressFunc func(Progress)

// RunError wraps a stage error with the stage that produced it.
type RunError struct {
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (e *RunError) Error() string {
	return fmt.Sprintf("export failed while %s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying stage error.
func (e *RunError) Unwrap() error {
	return e.Err
}

// Deps holds the runner's collaborators.
type Deps struct {
	// Store backs the fetch stage. Required.
	Store store.Store

	// Encoders resolves the encoder for the requested format. Required.
	Encoders *encode.Registry

	// Metrics records run counters. Optional.
	Metrics *metrics.Collector

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Now supplies the generation date for artifact filenames. Nil means
	// time.Now; tests inject a fixed clock.
	Now func() time.Time
}

// Runner executes export runs.
type Runner struct {
	store    store.Store
	encoders *encode.Registry
	metrics  *metrics.Collector
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a runner from its dependencies.
func New(deps Deps) *Runner {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Runner{
		store:    deps.Store,
		encoders: deps.Encoders,
		metrics:  deps.Metrics,
		logger:   logger.With("component", "export.runner"),
		now:      now,
	}
}

// Result describes a completed run.
type Result struct {
	// RunID uniquely identifies the run in logs and metrics.
	RunID string

	// Artifact is the delivered payload.
	Artifact *export.Artifact

	// Rows is the number of normalized rows exported.
	Rows int

	// Duration is the wall-clock time of the run.
	Duration time.Duration
}

// Run executes one export: validate → fetch → normalize → encode →
// deliver. onProgress may be nil. The returned error is a *RunError for
// stage failures; request validation errors are returned as-is since no
// run was started.
func (r *Runner) Run(ctx context.Context, req export.Request, sink deliver.Sink, onProgress ProgressFunc) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid export request: %w", err)
	}

	runID := uuid.New().String()
	logger := r.logger.With("run_id", runID, "format", req.Format, "owner_id", req.OwnerID)
	started := time.Now()

	if r.metrics != nil {
		r.metrics.RunStarted()
	}

	report := func(stage Stage, percent int) {
		if onProgress != nil {
			onProgress(Progress{Stage: stage, Percent: percent})
		}
	}
	fail := func(stage Stage, err error) (*Result, error) {
		if r.metrics != nil {
			r.metrics.RunCompleted(string(req.Format), "failure", time.Since(started), 0)
		}
		logger.Error("export run failed", "stage", stage, "error", err)
		return nil, &RunError{Stage: stage, Err: err}
	}

	logger.Info("export run started", "kinds", req.Kinds)

	// Fetching
	report(StageFetching, progressFetchStart)
	rawByKind, err := store.FetchAll(ctx, r.store, req.Kinds, store.Query{
		OwnerID:         req.OwnerID,
		CreatedAfter:    req.CreatedAfter,
		IncludeArchived: req.IncludeArchived,
	})
	if err != nil {
		return fail(StageFetching, err)
	}
	report(StageFetching, progressFetchDone)

	// Normalizing. Normalize is total; the stage can only fail if a
	// strict validator is ever layered in front of it.
	report(StageNormalizing, progressFetchDone)
	tableSet := normalize.Normalize(rawByKind)
	report(StageNormalizing, progressNormalized)

	// Encoding
	report(StageEncoding, progressNormalized)
	encoder, ok := r.encoders.Get(req.Format)
	if !ok {
		return fail(StageEncoding, export.NewEncodingError(req.Format, fmt.Errorf("no encoder registered")))
	}
	if req.Title != "" {
		if titled, ok := encoder.(encode.Titled); ok {
			encoder = titled.WithTitle(req.Title)
		}
	}
	var buf bytes.Buffer
	if err := encoder.Encode(ctx, tableSet, &buf); err != nil {
		return fail(StageEncoding, err)
	}
	report(StageEncoding, progressEncoded)

	artifact := &export.Artifact{
		Filename:    export.Filename(req.DataType(), r.now(), req.Format),
		ContentType: req.Format.ContentType(),
		Data:        buf.Bytes(),
	}

	// Delivering. This is the run's only cancellation point: once the
	// bytes exist, finishing delivery is cheap, so cancellation is only
	// honored before the hand-off begins.
	if err := ctx.Err(); err != nil {
		return fail(StageDelivering, export.NewDeliveryError(err))
	}
	report(StageDelivering, progressDeliverStart)
	if err := sink.Deliver(ctx, artifact); err != nil {
		return fail(StageDelivering, err)
	}

	report(StageDone, progressDone)
	duration := time.Since(started)
	rows := tableSet.RowCount()
	if r.metrics != nil {
		r.metrics.RunCompleted(string(req.Format), "success", duration, rows)
	}
	logger.Info("export run complete",
		"filename", artifact.Filename,
		"rows", rows,
		"bytes", len(artifact.Data),
		"duration_ms", duration.Milliseconds(),
	)

	return &Result{
		RunID:    runID,
		Artifact: artifact,
		Rows:     rows,
		Duration: duration,
	}, nil
}
