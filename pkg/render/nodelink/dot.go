package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/notegraph/pkg/errors"
	"github.com/matzehuels/notegraph/pkg/geom"
	"github.com/matzehuels/notegraph/pkg/interact"
	"github.com/matzehuels/notegraph/pkg/notegraph"
	"github.com/matzehuels/notegraph/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Palette colours the diagram. Empty fields take the Nord defaults.
	Palette interact.Palette
	// Highlight names a note to draw as selected, together with its
	// neighbours. Empty means no selection.
	Highlight string
	// NoLabels drops note names from the output.
	NoLabels bool
}

// ToDOT converts a note graph to Graphviz DOT with every node pinned at its
// layout position. positions is indexed like the graph's nodes; nodes past
// its end sit at the origin. Layout y grows downward, so it is negated to
// match Graphviz's upward axis.
//
// The DOT is meant for the neato engine (see [RenderSVG]); with
// inputscale=72 the pinned coordinates are read as points.
func ToDOT(g *notegraph.Graph, positions []geom.Point, opts Options) string {
	pal := opts.Palette
	pal.SetDefaults()

	active, hasActive := -1, false
	if opts.Highlight != "" {
		active, hasActive = g.Lookup(opts.Highlight)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=false;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  forcelabels=true;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", pal.Background)
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, label=\"\", width=0.12, fixedsize=true, penwidth=0, fontname=\"Helvetica\", fontsize=10, fontcolor=%q];\n", pal.Text)
	fmt.Fprintf(&buf, "  edge [arrowsize=0.4, penwidth=0.8, color=%q];\n", pal.Blend(interact.Muted))
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		var p geom.Point
		if n.Index < len(positions) {
			p = positions[n.Index]
		}
		role := nodeRole(g, n.Index, active, hasActive)
		attrs := fmt.Sprintf("pos=\"%s,%s!\", fillcolor=%q", fmtCoord(p.X), fmtCoord(-p.Y), pal.Blend(role))
		if !opts.NoLabels {
			attrs += fmt.Sprintf(", xlabel=%q", n.Name)
		}
		if hasActive && n.Index == active {
			attrs += ", width=0.18"
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Name, attrs)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		from, to := g.Name(e.From), g.Name(e.To)
		if hasActive && e.Touches(active) {
			fmt.Fprintf(&buf, "  %q -> %q [color=%q];\n", from, to, pal.Blend(interact.Highlight))
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", from, to)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeRole(g *notegraph.Graph, i, active int, hasActive bool) interact.Role {
	switch {
	case !hasActive:
		return interact.Highlight
	case i == active:
		return interact.Marker
	case g.IsNeighbor(active, i):
		return interact.Highlight
	}
	return interact.Muted
}

func fmtCoord(v float64) string {
	if !geom.Pt(v, 0).IsFinite() {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RenderSVG renders a DOT graph to SVG with the neato engine, which keeps
// pinned node positions. Returns the SVG bytes ready for display or further
// conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a unitless
// viewBox of the same extent.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
