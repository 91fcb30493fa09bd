// Package nodelink exports note graphs as Graphviz node-link diagrams.
//
// # Overview
//
// Unlike a plain Graphviz run, the export does not let Graphviz place the
// nodes: every node is pinned at the position the force-directed layout
// settled on, so the exported picture matches what the interactive view
// shows. The neato engine honours pinned positions, which is why the
// generated DOT selects it.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, engine.Positions(), nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
//   - Palette: colours, Nord by default
//   - Highlight: a note drawn as selected, its neighbours emphasised and the
//     rest muted, as in the interactive view
//   - NoLabels: omit note names
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
