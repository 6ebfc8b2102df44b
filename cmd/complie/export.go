package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"complie-hq/tabula/pkg/cli"
	"complie-hq/tabula/pkg/export"
	"complie-hq/tabula/pkg/export/deliver"
	"complie-hq/tabula/pkg/export/encode"
	"complie-hq/tabula/pkg/export/runner"
	"complie-hq/tabula/pkg/telemetry/logging"
)

var exportFlags struct {
	user            string
	format          string
	kinds           []string
	since           string
	out             string
	includeArchived bool
	title           string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a user's data to a file",
	Long: `Run a one-shot export of a user's workspace data.

The export fetches the selected entity kinds for the user, flattens them
into tables, and writes a single file named
{kinds}-export-{date}.{format} into the output directory.

Examples:
  # Everything as a PDF
  complie export --user usr_123 --format pdf

  # Projects and tasks from the last 30 days as a spreadsheet
  complie export --user usr_123 --format xlsx --kinds projects,tasks --since 30d

  # Include archived records, custom output directory
  complie export --user usr_123 --format csv --include-archived --out /tmp/exports`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFlags.user, "user", "u", "", "user whose data is exported (required)")
	exportCmd.Flags().StringVarP(&exportFlags.format, "format", "f", "pdf", "output format: pdf, csv, xlsx")
	exportCmd.Flags().StringSliceVarP(&exportFlags.kinds, "kinds", "k", []string{"all"}, "entity kinds: all, projects, tasks, clients, notes")
	exportCmd.Flags().StringVar(&exportFlags.since, "since", "", "only records created in this window (e.g. 7d, 30d, 12h) or after a date (2025-01-01)")
	exportCmd.Flags().StringVarP(&exportFlags.out, "out", "o", "", "output directory (default from config)")
	exportCmd.Flags().BoolVar(&exportFlags.includeArchived, "include-archived", false, "include archived records")
	exportCmd.Flags().StringVar(&exportFlags.title, "title", "", "document title override")

	_ = exportCmd.MarkFlagRequired("user")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return cli.NewConfigError("", err.Error())
	}

	// Logs go to stderr so they never interleave with the progress bar
	// or any future stdout output.
	if _, err := logging.Init(logging.Config{
		Level:  cfg.Telemetry.Logging.Level,
		Format: "text",
		Writer: os.Stderr,
	}); err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	req, err := buildExportRequest(cfg.Export.Title)
	if err != nil {
		return err
	}

	st, err := newStore(cfg)
	if err != nil {
		return cli.NewCommandError("export", err)
	}
	defer st.Close()

	outDir := exportFlags.out
	if outDir == "" {
		outDir = cfg.Export.OutputDir
	}
	sink := deliver.NewFileSink(outDir)

	r := runner.New(runner.Deps{
		Store:    st,
		Encoders: encode.DefaultRegistry(),
	})

	progress := cli.NewExportProgress(os.Stderr)
	result, err := r.Run(cmd.Context(), req, sink, progress.Report)
	if err != nil {
		progress.Fail(err)
		return cli.NewCommandError("export", err)
	}

	fmt.Printf("Exported %d rows to %s\n", result.Rows, sink.Path(result.Artifact))
	return nil
}

// buildExportRequest translates the export flags into a request.
func buildExportRequest(defaultTitle string) (export.Request, error) {
	format, err := export.ParseFormat(exportFlags.format)
	if err != nil {
		return export.Request{}, err
	}

	kinds := make([]export.Kind, 0, len(exportFlags.kinds))
	for _, k := range exportFlags.kinds {
		kind, err := export.ParseKind(strings.TrimSpace(k))
		if err != nil {
			return export.Request{}, err
		}
		kinds = append(kinds, kind)
	}

	var createdAfter *time.Time
	if exportFlags.since != "" {
		t, err := parseSince(exportFlags.since, time.Now())
		if err != nil {
			return export.Request{}, err
		}
		createdAfter = &t
	}

	title := exportFlags.title
	if title == "" {
		title = defaultTitle
	}

	req := export.Request{
		OwnerID:         exportFlags.user,
		Format:          format,
		Kinds:           kinds,
		CreatedAfter:    createdAfter,
		IncludeArchived: exportFlags.includeArchived,
		Title:           title,
	}
	return req, req.Validate()
}

// parseSince interprets the --since value as either a look-back window
// ("7d", "12h", "90m") relative to now, or an absolute date ("2025-01-01")
// or RFC 3339 timestamp.
func parseSince(s string, now time.Time) (time.Time, error) {
	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err == nil && days > 0 {
			return now.AddDate(0, 0, -days), nil
		}
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return now.Add(-d), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid --since value %q (expected 7d, 12h, 2025-01-01 or RFC 3339)", s)
}
