package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/notegraph/internal/server"
	"github.com/matzehuels/notegraph/pkg/cache"
	"github.com/matzehuels/notegraph/pkg/config"
)

// serveOpts holds options for the serve command. Zero values fall back to
// the [serve] section of the config.
type serveOpts struct {
	addr     string
	watch    bool
	debounce time.Duration
}

// serveCommand creates the serve command for the read-only HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Serve the graph, diagnostics and diagrams over HTTP",
		Long: `Serve builds and lays out the graph once, then answers read-only requests:

  GET /health/live
  GET /api/graph           positions, links and diagnostics as JSON
  GET /api/diagnostics     diagnostics, optionally ?kind=dangling-link
  GET /api/graph.dot       Graphviz source, optionally ?highlight=<note>
  GET /api/graph.svg       rendered diagram, optionally ?highlight=<note>

With --watch the graph is rebuilt whenever a note changes.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeDir,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), rootDir(args), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default "+config.DefaultAddr+")")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "rebuild when notes change")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 0, "wait this long after a change before rebuilding")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, dir string, opts serveOpts) error {
	cfg := c.Config.Serve
	if opts.addr != "" {
		cfg.Addr = opts.addr
	}
	if opts.watch {
		cfg.Watch = true
	}
	if opts.debounce > 0 {
		cfg.Debounce = opts.debounce
	}

	srv := server.New(c.newRunner(cache.NewMemory()), server.Options{
		Addr:     cfg.Addr,
		Build:    c.buildOptions(dir),
		Layout:   c.Config.Layout,
		Palette:  c.Config.View.Palette,
		Watch:    cfg.Watch,
		Debounce: cfg.Debounce,
	}, c.Logger)

	printInfo("Serving %s on http://%s", displayRoot(dir), cfg.Addr)
	if cfg.Watch {
		printDetail("watching for changes")
	}
	return srv.Run(ctx)
}
