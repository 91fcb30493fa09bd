package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/notegraph/pkg/errors"
	"github.com/matzehuels/notegraph/pkg/geom"
	"github.com/matzehuels/notegraph/pkg/interact"
	"github.com/matzehuels/notegraph/pkg/layout"
	"github.com/matzehuels/notegraph/pkg/render/nodelink"
	"github.com/matzehuels/notegraph/pkg/snapshot"
)

// ExportOptions configures [Export].
type ExportOptions struct {
	Formats   []string
	Palette   interact.Palette
	Highlight string  // note drawn as selected; empty for none
	NoLabels  bool    // omit note names from diagrams
	PNGScale  float64 // zero means DefaultPNGScale
}

// Export renders res in every requested format, keyed by format.
// Positions come from e; a nil engine places every node at the origin.
func Export(ctx context.Context, res *Result, e *layout.Engine, opts ExportOptions) (map[string][]byte, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	if opts.PNGScale == 0 {
		opts.PNGScale = DefaultPNGScale
	}

	var (
		positions []geom.Point
		steps     int
	)
	if e != nil {
		positions, steps = e.Positions(), e.Steps()
	}

	dot := nodelink.ToDOT(res.Graph, positions, nodelink.Options{
		Palette:   opts.Palette,
		Highlight: opts.Highlight,
		NoLabels:  opts.NoLabels,
	})

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)

		switch format {
		case FormatJSON:
			var buf bytes.Buffer
			err = snapshot.WriteJSON(snapshot.New(res.Root, res.Graph, positions, steps, res.Report), &buf)
			data = buf.Bytes()
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, opts.PNGScale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		default:
			err = errors.New(errors.ErrCodeInternal, "no renderer for %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
