package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/notegraph/pkg/buildinfo"
	"github.com/matzehuels/notegraph/pkg/cache"
	"github.com/matzehuels/notegraph/pkg/config"
	"github.com/matzehuels/notegraph/pkg/observability"
	"github.com/matzehuels/notegraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "notegraph"
)

// LogInfo is the default level passed to [New] by main.go. Verbose
// mode and the config file adjust it during setup.
const LogInfo = log.InfoLevel

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs.
	Config     *config.Config
	configPath string

	out     io.Writer // where the logger writes outside the full-screen view
	verbose bool
	logFile *os.File
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		out:    w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetVerbose forces debug logging regardless of the configured level.
func (c *CLI) SetVerbose(v bool) {
	c.verbose = v
}

// Close releases the log file, if one was opened.
func (c *CLI) Close() error {
	if c.logFile == nil {
		return nil
	}
	err := c.logFile.Close()
	c.logFile = nil
	return err
}

// RootCommand creates the root cobra command with all subcommands registered.
// Run without a subcommand it opens the interactive view.
func (c *CLI) RootCommand() *cobra.Command {
	var logPath string

	root := &cobra.Command{
		Use:   "notegraph [dir]",
		Short: "Notegraph draws a collection of linked notes as a live graph",
		Long: `Notegraph reads a directory of plain-text notes, follows their [[wiki-style]]
references, and shows the result as an interactive force-directed graph.

Drag to pan, scroll to zoom, click a note to highlight its links.`,
		Version:           buildinfo.Version,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeDir,
		SilenceUsage:      true,
		SilenceErrors:     true, // main prints the error once
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(logPath)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), rootDir(args))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default $"+config.EnvConfig+" or ~/.config/notegraph/config.toml)")
	root.PersistentFlags().StringVar(&logPath, "log-file", "", "write logs to this file")

	root.AddCommand(c.checkCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration, applies the log level and log file, and
// registers the logging hooks.
func (c *CLI) setup(logPath string) error {
	cfg, path, err := config.Resolve(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	level := cfg.Log.ParsedLevel()
	if c.verbose {
		level = log.DebugLevel
	}
	c.SetLogLevel(level)

	if logPath == "" {
		logPath = cfg.Log.File
	}
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		c.logFile = f
		c.out = f
		c.Logger.SetOutput(f)
	}

	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}

	hooks := &logHooks{logger: c.Logger}
	observability.SetBuildHooks(hooks)
	observability.SetLayoutHooks(hooks)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. One-shot commands pass
// [cache.NewNull]; the view and the server rebuild on change and keep a
// [cache.NewMemory] store.
func (c *CLI) newRunner(store cache.Cache) *pipeline.Runner {
	r := pipeline.NewRunner(c.Logger)
	r.Cache = store
	return r
}

// buildOptions returns pipeline options for dir from the loaded config.
func (c *CLI) buildOptions(dir string) pipeline.Options {
	return pipeline.Options{
		Root:      dir,
		Discovery: c.Config.Discovery.Options(),
		Workers:   c.Config.Discovery.Workers,
		FoldCase:  c.Config.Links.FoldCase,
	}
}

// buildNotes runs a build for dir behind a spinner on stderr. A build cut
// short by an interrupt reports the context error.
func (c *CLI) buildNotes(ctx context.Context, r *pipeline.Runner, dir string) (*pipeline.Result, error) {
	spinner := newSpinner(ctx, os.Stderr, "Reading notes...")
	spinner.Start()
	defer spinner.Stop()

	res, err := r.Build(ctx, c.buildOptions(dir))
	if err != nil && spinner.Cancelled() {
		return nil, ctx.Err()
	}
	return res, err
}

// =============================================================================
// Paths
// =============================================================================

// rootDir returns the notes directory named on the command line, or the
// working directory.
func rootDir(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return "."
}

// displayRoot shortens an absolute root for status lines.
func displayRoot(root string) string {
	if home, err := os.UserHomeDir(); err == nil {
		if rel, err := filepath.Rel(home, root); err == nil && rel != ".." && !filepath.IsAbs(rel) && !startsWithDotDot(rel) {
			return filepath.Join("~", rel)
		}
	}
	return root
}

func startsWithDotDot(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
