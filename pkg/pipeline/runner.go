package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/notegraph/pkg/cache"
	"github.com/matzehuels/notegraph/pkg/discover"
	"github.com/matzehuels/notegraph/pkg/layout"
	"github.com/matzehuels/notegraph/pkg/notegraph"
	"github.com/matzehuels/notegraph/pkg/observability"
)

// Runner executes pipeline stages.
//
// The Runner keeps no results. With a Cache set, extraction results are
// reused across builds for documents whose content is unchanged. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Logger *log.Logger
	Cache  cache.Cache // nil disables extraction caching
}

// NewRunner creates a runner. A nil logger means log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Build discovers, reads and extracts every document under opts.Root and
// assembles the note graph.
//
// Discovery errors (INVALID_PATH, NOT_A_DIRECTORY, NO_DOCUMENTS) and
// cancellation are returned. Unreadable documents and directories are not
// errors: they land in the report and the build continues.
func (r *Runner) Build(ctx context.Context, opts Options) (res *Result, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	hooks := observability.Build()
	hooks.OnBuildStart(ctx, opts.Root)
	defer func() {
		var stats observability.BuildStats
		if res != nil {
			stats = observability.BuildStats{
				Documents:   res.Stats.Documents,
				Nodes:       res.Stats.Nodes,
				Edges:       res.Stats.Edges,
				Diagnostics: res.Stats.Diagnostics,
			}
		}
		hooks.OnBuildComplete(ctx, opts.Root, stats, time.Since(start), err)
	}()

	// Stage 1: Discover
	found, err := discover.Find(ctx, opts.Root, opts.Discovery)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("discovered documents", "root", found.Root, "count", len(found.Files))

	// Stage 2: Extract
	docs, err := r.extract(ctx, found.Files, opts.Workers)
	if err != nil {
		return nil, err
	}
	if r.Cache != nil {
		r.Cache.Retain(found.Files)
		cs := r.Cache.Stats()
		r.Logger.Debug("extraction cache", "entries", cs.Entries, "hits", cs.Hits, "misses", cs.Misses)
	}
	for _, s := range found.Skipped {
		docs = append(docs, notegraph.Document{Path: s.Path, Err: s.Err})
	}

	// Stage 3: Build
	g, rep := notegraph.Build(docs, notegraph.Options{FoldCase: opts.FoldCase})

	res = &Result{
		Root:   found.Root,
		Graph:  g,
		Report: rep,
		Stats: Stats{
			Documents:   len(found.Files),
			Nodes:       g.NodeCount(),
			Edges:       g.EdgeCount(),
			Diagnostics: rep.Len(),
			Duration:    time.Since(start),
		},
	}

	r.Logger.Info("built note graph",
		"documents", res.Stats.Documents,
		"nodes", res.Stats.Nodes,
		"edges", res.Stats.Edges,
		"diagnostics", res.Stats.Diagnostics,
		"duration", res.Stats.Duration)

	return res, nil
}

// Settle creates a layout engine for g and runs it to convergence without
// a display. Used by the export and serve commands, which need final
// positions instead of an animation.
func (r *Runner) Settle(ctx context.Context, g layout.Topology, params layout.Params) (*layout.Engine, error) {
	start := time.Now()
	hooks := observability.Layout()
	hooks.OnSettleStart(ctx, g.NodeCount())

	e := layout.New(g, params)
	err := e.Settle(ctx, e.Params().DT)
	hooks.OnSettleComplete(ctx, e.Len(), e.Steps(), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	r.Logger.Debug("settled layout",
		"nodes", e.Len(),
		"steps", e.Steps(),
		"energy", e.KineticEnergy(),
		"duration", time.Since(start))
	return e, nil
}

// LogReport writes every diagnostic at a level matching its severity:
// orphans at debug, everything else at warn.
func (r *Runner) LogReport(rep *notegraph.Report) {
	for _, d := range rep.All() {
		kv := []any{"kind", d.Kind, "source", d.Source}
		if d.Target != "" {
			kv = append(kv, "target", d.Target)
		}
		if d.Path != "" {
			kv = append(kv, "path", d.Path)
		}
		if d.Line > 0 {
			kv = append(kv, "line", d.Line)
		}
		if d.Kind.Informational() {
			r.Logger.Debug(d.Message(), kv...)
			continue
		}
		r.Logger.Warn(d.Message(), kv...)
	}
}
