// Package scheduler runs recurring exports on a cron schedule. A schedule
// names an owner, a format and a set of entity kinds; each firing produces
// a fresh export file in the configured output directory.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"complie-hq/tabula/pkg/export"
	"complie-hq/tabula/pkg/export/deliver"
	"complie-hq/tabula/pkg/export/runner"
)

// Config describes a recurring export.
type Config struct {
	// Cron is the schedule in standard five-field cron syntax.
	//
	// Common expressions:
	//   - "0 3 * * *"    - Daily at 3 AM
	//   - "0 */6 * * *"  - Every 6 hours
	//   - "0 0 * * 0"    - Weekly on Sunday at midnight
	Cron string

	// OwnerID is the user whose data is exported on each firing.
	OwnerID string

	// Format is the output format (pdf, csv or xlsx).
	Format string

	// Kinds is the list of entity kinds to include. "all" expands to
	// every kind.
	Kinds []string

	// IncludeArchived includes archived entities in scheduled exports.
	IncludeArchived bool

	// Title is the document title used by formats that render one.
	Title string
}

// Scheduler manages recurring exports. It runs the export pipeline at
// scheduled intervals using cron syntax.
type Scheduler struct {
	cfg    Config
	runner *runner.Runner
	sink   deliver.Sink

	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// New creates a scheduler that addresses finished exports to sink.
func New(cfg Config, r *runner.Runner, sink deliver.Sink) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		runner: r,
		sink:   sink,
		cron:   cron.New(),
		logger: slog.Default().With("component", "export.scheduler"),
	}
}

// Start begins scheduled exports based on the configured cron expression.
// If the expression is empty, the scheduler does nothing.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.Cron == "" {
		s.logger.Info("export schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.cfg.Cron); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.cfg.Cron, err)
	}

	if _, err := s.cron.AddFunc(s.cfg.Cron, func() {
		s.runExport(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule export: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("export scheduler started",
		"schedule", s.cfg.Cron,
		"owner_id", s.cfg.OwnerID,
		"format", s.cfg.Format,
		"kinds", s.cfg.Kinds,
	)

	// Wait for context cancellation in background
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runExport executes one scheduled export cycle.
func (s *Scheduler) runExport(ctx context.Context) {
	s.logger.Info("starting scheduled export")

	req, err := s.buildRequest()
	if err != nil {
		s.logger.Error("scheduled export misconfigured", "error", err)
		return
	}

	result, err := s.runner.Run(ctx, req, s.sink, nil)
	if err != nil {
		s.logger.Error("scheduled export failed", "error", err)
		return
	}

	s.logger.Info("scheduled export completed",
		"run_id", result.RunID,
		"filename", result.Artifact.Filename,
		"rows", result.Rows,
		"duration_ms", result.Duration.Milliseconds(),
	)
}

// buildRequest translates the schedule configuration into an export request.
func (s *Scheduler) buildRequest() (export.Request, error) {
	format, err := export.ParseFormat(s.cfg.Format)
	if err != nil {
		return export.Request{}, err
	}

	kinds := make([]export.Kind, 0, len(s.cfg.Kinds))
	for _, k := range s.cfg.Kinds {
		kind, err := export.ParseKind(k)
		if err != nil {
			return export.Request{}, err
		}
		kinds = append(kinds, kind)
	}

	req := export.Request{
		OwnerID:         s.cfg.OwnerID,
		Format:          format,
		Kinds:           kinds,
		IncludeArchived: s.cfg.IncludeArchived,
		Title:           s.cfg.Title,
	}
	return req, req.Validate()
}

// Stop stops the scheduler and waits for any running export to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done() // Wait for running jobs to finish
		s.running = false
		s.logger.Info("export scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled export time.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return nil
	}

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
