// Package cli implements the notegraph command-line interface.
//
// Running notegraph with a directory (or none, for the working directory)
// opens the interactive graph view. Subcommands cover the headless uses of
// the same build pipeline. The CLI is built using cobra, the view with
// bubbletea, and logging uses the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - notegraph [dir]: Interactive view with live layout, pan, zoom and selection
//   - check: Report dangling links, self references and unreadable documents
//   - export: Write a settled layout as JSON, DOT, SVG, PNG or PDF
//   - serve: Expose the graph over a read-only HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. While the
// full-screen view is up, log output goes to --log-file or is dropped so it
// cannot corrupt the terminal.
//
// # Example
//
//	import "github.com/matzehuels/notegraph/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/notegraph/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Exported 3 files (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logHooks reports pipeline timings at debug level.
type logHooks struct {
	observability.NoopBuildHooks
	observability.NoopLayoutHooks
	logger *log.Logger
}

func (h *logHooks) OnBuildComplete(_ context.Context, root string, s observability.BuildStats, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("build failed", "root", root, "duration", d, "err", err)
		return
	}
	h.logger.Debug("build timing",
		"root", root,
		"documents", s.Documents,
		"nodes", s.Nodes,
		"edges", s.Edges,
		"diagnostics", s.Diagnostics,
		"duration", d)
}

func (h *logHooks) OnSettleComplete(_ context.Context, nodes, steps int, d time.Duration, err error) {
	h.logger.Debug("settle timing", "nodes", nodes, "steps", steps, "duration", d, "err", err)
}
