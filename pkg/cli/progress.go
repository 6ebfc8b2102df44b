package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"complie-hq/tabula/pkg/export/runner"
)

// stageLabels maps pipeline stages to the labels shown next to the bar.
var stageLabels = map[runner.Stage]string{
	runner.StageFetching:    "Fetching records",
	runner.StageNormalizing: "Building tables",
	runner.StageEncoding:    "Encoding file",
	runner.StageDelivering:  "Writing output",
	runner.StageDone:        "Done",
}

// ExportProgress renders export pipeline progress as a single updating
// terminal line. Its Report method satisfies runner.ProgressFunc.
type ExportProgress struct {
	mu     sync.Mutex
	writer io.Writer
	done   bool
}

// NewExportProgress creates a progress renderer that writes to w.
// If w is nil, it defaults to os.Stderr so the bar never mixes with
// exported data on stdout.
func NewExportProgress(w io.Writer) *ExportProgress {
	if w == nil {
		w = os.Stderr
	}
	return &ExportProgress{writer: w}
}

// Report renders one progress update.
func (p *ExportProgress) Report(prog runner.Progress) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return
	}

	label, ok := stageLabels[prog.Stage]
	if !ok {
		label = string(prog.Stage)
	}

	barWidth := 30
	filled := barWidth * prog.Percent / 100
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	fmt.Fprintf(p.writer, "\r[%s] %3d%%  %-16s", bar, prog.Percent, label)

	if prog.Stage == runner.StageDone {
		fmt.Fprintln(p.writer)
		p.done = true
	}
}

// Fail ends the progress line with an error marker so the shell prompt
// does not land mid-line after a failed run.
func (p *ExportProgress) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return
	}
	fmt.Fprintf(p.writer, "\n✗ Export failed: %v\n", err)
	p.done = true
}
