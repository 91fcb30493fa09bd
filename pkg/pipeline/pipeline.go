// Package pipeline builds note graphs from a directory of documents.
//
// This package implements the discover → extract → build → settle pipeline
// shared by the interactive view, the check and export commands, and the
// HTTP server. Centralizing it keeps every entry point on the same
// semantics.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Discover: Walk the root directory for matching documents
//  2. Extract: Read every document and extract its references, concurrently
//  3. Build: Assemble the note graph and its diagnostics report
//  4. Settle: Optionally run the layout to convergence without a display
//
// Extraction runs on a bounded worker pool, but results are assembled in
// discovery order, so two builds of the same tree produce identical graphs.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Build(ctx, pipeline.Options{Root: "notes"})
//	if err != nil {
//	    log.Fatal(err) // INVALID_PATH, NOT_A_DIRECTORY or NO_DOCUMENTS
//	}
//	engine, err := runner.Settle(ctx, result.Graph, layout.DefaultParams())
//	artifacts, err := pipeline.Export(ctx, result, engine, pipeline.ExportOptions{
//	    Formats: []string{pipeline.FormatSVG},
//	})
package pipeline

import (
	"fmt"
	"runtime"
	"time"

	"github.com/matzehuels/notegraph/pkg/discover"
	"github.com/matzehuels/notegraph/pkg/errors"
	"github.com/matzehuels/notegraph/pkg/notegraph"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultWorkers caps concurrent document reads when Options.Workers is zero.
var DefaultWorkers = min(8, runtime.NumCPU())

// DefaultPNGScale is the resolution factor for PNG exports.
const DefaultPNGScale = 2.0

// Format constants for export formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats lists the supported export formats in canonical order.
var ValidFormats = []string{FormatJSON, FormatDOT, FormatSVG, FormatPNG, FormatPDF}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a build.
type Options struct {
	// Root is the directory holding the notes.
	Root string `json:"root"`

	// Discovery selects which files are documents.
	Discovery discover.Options `json:"-"`

	// Workers bounds concurrent reads. Zero means DefaultWorkers.
	Workers int `json:"workers,omitempty"`

	// FoldCase makes note identifiers case-insensitive.
	FoldCase bool `json:"fold_case,omitempty"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Root == "" {
		return errors.New(errors.ErrCodeInvalidPath, "root directory is required")
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "workers must not be negative, got %d", o.Workers)
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}
	exts := make([]string, 0, len(o.Discovery.Extensions))
	for _, ext := range o.Discovery.Extensions {
		clean, err := errors.ValidateExtension(ext)
		if err != nil {
			return err
		}
		exts = append(exts, clean)
	}
	if len(exts) > 0 {
		o.Discovery.Extensions = exts
	}
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Result is the outcome of a successful build.
type Result struct {
	// Root is the cleaned root directory.
	Root string

	// Graph is the note graph.
	Graph *notegraph.Graph

	// Report lists every integrity finding, never truncated.
	Report *notegraph.Report

	// Stats contains sizes and timing.
	Stats Stats
}

// Stats contains build statistics.
type Stats struct {
	Documents   int
	Nodes       int
	Edges       int
	Diagnostics int
	Duration    time.Duration
}

func (s Stats) String() string {
	return fmt.Sprintf("%d documents, %d notes, %d links, %d diagnostics in %s",
		s.Documents, s.Nodes, s.Edges, s.Diagnostics, s.Duration.Round(time.Millisecond))
}

// =============================================================================
// Validation Functions
// =============================================================================

// ParseFormats validates a comma-separated format list such as "svg,json".
func ParseFormats(list string) ([]string, error) {
	return errors.ValidateFormats(list, ValidFormats)
}

// ValidateFormats checks that every entry of formats is supported.
func ValidateFormats(formats []string) error {
	if len(formats) == 0 {
		return errors.New(errors.ErrCodeInvalidFormat, "at least one format is required")
	}
	for _, f := range formats {
		if _, err := errors.ValidateFormat(f, ValidFormats); err != nil {
			return err
		}
	}
	return nil
}

// Extension returns the file extension written for format.
func Extension(format string) string {
	return "." + format
}
