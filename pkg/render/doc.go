// Package render holds the output surfaces for note graphs.
//
// # Overview
//
//   - Format conversion from SVG to PDF or PNG (this package)
//   - Graphviz export with pinned layout positions (in [nodelink] subpackage)
//   - Braille terminal rasterizer for the interactive view (in [canvas] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// When rsvg-convert is missing the functions fail with an UNSUPPORTED
// error carrying install instructions; [Available] checks up front.
//
// [nodelink]: github.com/matzehuels/notegraph/pkg/render/nodelink
// [canvas]: github.com/matzehuels/notegraph/pkg/render/canvas
package render
