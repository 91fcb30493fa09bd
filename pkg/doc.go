// Package pkg provides the core libraries for notegraph.
//
// # Overview
//
// Notegraph reads a directory of plain-text notes, follows their
// [[wiki-style]] references and shows the result as a force-directed graph
// that settles while the user pans, zooms and clicks notes to highlight
// their links. The pkg directory is organized into four areas:
//
//  1. Domain: [links], [notegraph], [layout], [viewport], [interact]
//  2. Input: [discover], [watch], [cache], [config]
//  3. Output: [render], [render/canvas], [render/nodelink], [snapshot]
//  4. Orchestration: [pipeline], plus [errors], [observability], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	notes directory
//	      ↓
//	 [discover] package (walk, extension filter, ignore files)
//	      ↓
//	 [links] package (extract [[target]] mentions per document)
//	      ↓
//	 [notegraph] package (nodes, deduplicated edges, diagnostics)
//	      ↓
//	 [layout] package (force simulation, one step per tick)
//	      ↓
//	 [interact] package (viewport, picking, highlight) → terminal canvas
//	 [pipeline] package (settled layout)               → JSON/DOT/SVG/PNG/PDF
//
// # Quick Start
//
// Build a graph and lay it out without a display:
//
//	r := pipeline.NewRunner(nil)
//	res, err := r.Build(ctx, pipeline.Options{Root: "~/notes"})
//	if err != nil {
//	    return err // INVALID_PATH, NOT_A_DIRECTORY or NO_DOCUMENTS
//	}
//	e, err := r.Settle(ctx, res.Graph, layout.DefaultParams())
//	if err != nil {
//	    return err
//	}
//	artifacts, err := pipeline.Export(ctx, res, e, pipeline.ExportOptions{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//
// Drive the interactive model from any event source:
//
//	ctl := interact.New(res.Graph, layout.New(res.Graph, layout.DefaultParams()), nil, interact.Options{})
//	ctl.Resize(geom.Rect{W: 800, H: 600})
//	ctl.Handle(interact.PointerEvent{Kind: interact.Press, Button: interact.ButtonLeft, Pos: geom.Pt(400, 300)})
//	ctl.Tick()
//	scene := ctl.Frame() // lines, circles and labels in screen space
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/layout/...             # Specific package
//	go test -run Example ./pkg/...       # Examples only
package pkg
