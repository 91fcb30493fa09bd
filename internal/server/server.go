// Package server exposes the latest note graph build over a read-only
// HTTP API.
//
// Routes:
//
//	GET /health/live        liveness probe
//	GET /api/graph          JSON snapshot (nodes with settled positions, edges, diagnostics)
//	GET /api/diagnostics    diagnostics with per-kind counts
//	GET /api/graph.dot      Graphviz DOT with pinned positions
//	GET /api/graph.svg      SVG rendering of the DOT
//
// The dot and svg routes accept ?highlight=<note> to draw one note as
// selected. The current build is swapped atomically on rebuild; requests
// in flight keep the build they started with.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/notegraph/pkg/interact"
	"github.com/matzehuels/notegraph/pkg/layout"
	"github.com/matzehuels/notegraph/pkg/observability"
	"github.com/matzehuels/notegraph/pkg/pipeline"
	"github.com/matzehuels/notegraph/pkg/render/nodelink"
	"github.com/matzehuels/notegraph/pkg/snapshot"
	"github.com/matzehuels/notegraph/pkg/watch"
)

// DefaultShutdownTimeout bounds graceful shutdown in Run.
const DefaultShutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Addr    string
	Build   pipeline.Options
	Layout  layout.Params
	Palette interact.Palette

	// Watch rebuilds on document changes under Build.Root.
	Watch    bool
	Debounce time.Duration
}

// build is one immutable generation of served data.
type build struct {
	result *pipeline.Result
	engine *layout.Engine
	snap   *snapshot.Snapshot
	dot    string

	svgOnce sync.Once
	svg     []byte
	svgErr  error
}

// Server serves the most recent successful build.
type Server struct {
	runner *pipeline.Runner
	opts   Options
	logger *log.Logger

	mu  sync.RWMutex
	cur *build
}

// New creates a server. Call Rebuild (or Run) before serving requests;
// until a build succeeds the API answers 503.
func New(runner *pipeline.Runner, opts Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(logger)
	}
	opts.Palette.SetDefaults()
	return &Server{runner: runner, opts: opts, logger: logger}
}

// Rebuild runs the full pipeline and swaps the result in. On failure the
// previous build keeps being served and the error is returned.
func (s *Server) Rebuild(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		observability.Server().OnRebuild(ctx, s.opts.Build.Root, time.Since(start), err)
	}()

	res, err := s.runner.Build(ctx, s.opts.Build)
	if err != nil {
		return err
	}
	e, err := s.runner.Settle(ctx, res.Graph, s.opts.Layout)
	if err != nil {
		return err
	}

	b := &build{
		result: res,
		engine: e,
		snap:   snapshot.New(res.Root, res.Graph, e.Positions(), e.Steps(), res.Report),
		dot:    nodelink.ToDOT(res.Graph, e.Positions(), nodelink.Options{Palette: s.opts.Palette}),
	}

	s.mu.Lock()
	s.cur = b
	s.mu.Unlock()

	s.logger.Info("serving build", "id", b.snap.ID, "nodes", res.Stats.Nodes, "edges", res.Stats.Edges)
	return nil
}

// current returns the build being served, or nil before the first one.
func (s *Server) current() *build {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

func (b *build) renderSVG(ctx context.Context) ([]byte, error) {
	b.svgOnce.Do(func() {
		b.svg, b.svgErr = nodelink.RenderSVG(context.WithoutCancel(ctx), b.dot)
	})
	return b.svg, b.svgErr
}

// Run builds once, then serves until ctx is done. With Options.Watch set,
// document changes trigger a rebuild. A failing first build is returned
// before the listener starts.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Rebuild(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("listening", "addr", s.opts.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if s.opts.Watch {
		g.Go(func() error {
			err := watch.Watch(gCtx, s.opts.Build.Root, watch.Options{
				Discovery: s.opts.Build.Discovery,
				Debounce:  s.opts.Debounce,
			}, s.logger, func(c watch.Change) {
				s.logger.Info("documents changed, rebuilding", "paths", len(c.Paths))
				if err := s.Rebuild(gCtx); err != nil && gCtx.Err() == nil {
					s.logger.Error("rebuild failed, keeping previous build", "err", err)
				}
			})
			if err != nil && gCtx.Err() == nil {
				return fmt.Errorf("watch: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
