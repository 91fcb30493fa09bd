package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/notegraph/pkg/cache"
	"github.com/matzehuels/notegraph/pkg/errors"
	"github.com/matzehuels/notegraph/pkg/pipeline"
)

// exportOpts holds options for the export command.
type exportOpts struct {
	output    string
	formats   string
	highlight string
	noLabels  bool
	scale     float64
	steps     int
}

// exportCommand creates the export command for writing the settled graph
// to files.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOpts{}

	cmd := &cobra.Command{
		Use:   "export [dir]",
		Short: "Write the laid out graph as JSON, DOT, SVG, PNG or PDF",
		Long: `Export builds the graph, runs the layout until it settles and writes the
result in one or more formats.

PNG and PDF output require rsvg-convert (librsvg) on the PATH.`,
		Example: `  # SVG next to the current directory
  notegraph export ~/notes

  # Several formats share one base name
  notegraph export ~/notes -f svg,json -o out/notes

  # Highlight one note and its links
  notegraph export ~/notes --highlight index -o index.svg`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeDir,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), rootDir(args), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path (default notegraph.<format>)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.FormatSVG, "comma-separated formats: "+strings.Join(pipeline.ValidFormats, ", "))
	cmd.Flags().StringVar(&opts.highlight, "highlight", "", "note to draw as selected")
	cmd.Flags().BoolVar(&opts.noLabels, "no-labels", false, "omit note names")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultPNGScale, "PNG resolution multiplier")
	cmd.Flags().IntVar(&opts.steps, "steps", 0, "layout steps (default from config)")
	_ = cmd.RegisterFlagCompletionFunc("highlight", c.completeNoteNames)

	return cmd
}

func (c *CLI) runExport(ctx context.Context, dir string, opts exportOpts) error {
	formats, err := pipeline.ParseFormats(opts.formats)
	if err != nil {
		return err
	}
	if opts.steps < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "steps must be positive, got %d", opts.steps)
	}

	prog := newProgress(c.Logger)
	runner := c.newRunner(cache.NewNull())
	res, err := c.buildNotes(ctx, runner, dir)
	if err != nil {
		return err
	}
	runner.LogReport(res.Report)

	if opts.highlight != "" {
		if _, ok := res.Graph.Lookup(opts.highlight); !ok {
			return errors.New(errors.ErrCodeInvalidArgument, "no note named %q", opts.highlight)
		}
	}

	params := c.Config.Layout
	if opts.steps > 0 {
		params.MaxSteps = opts.steps
	}

	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Laying out %d notes...", res.Graph.NodeCount()))
	spinner.Start()
	defer spinner.Stop()

	engine, err := runner.Settle(ctx, res.Graph, params)
	if err != nil {
		return err
	}
	spinner.Update("Rendering " + strings.Join(formats, ", ") + "...")
	artifacts, err := pipeline.Export(ctx, res, engine, pipeline.ExportOptions{
		Formats:   formats,
		Palette:   c.Config.View.Palette,
		Highlight: opts.highlight,
		NoLabels:  opts.noLabels,
		PNGScale:  opts.scale,
	})
	if err != nil {
		return err
	}
	spinner.Stop()

	base := basePath(opts.output)
	var paths []string
	for _, format := range formats {
		path := base + pipeline.Extension(format)
		if err := writeArtifact(path, artifacts[format]); err != nil {
			return err
		}
		paths = append(paths, path)
	}
	prog.done("export complete")

	printSuccess("Exported %s", statsLine(res.Stats))
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// basePath returns the output path without a known format extension.
func basePath(output string) string {
	if output == "" {
		return appName
	}
	ext := filepath.Ext(output)
	if slices.Contains(pipeline.ValidFormats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifact writes data to path, creating parent directories.
func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
