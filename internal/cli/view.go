package cli

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/notegraph/pkg/cache"
	"github.com/matzehuels/notegraph/pkg/interact"
	"github.com/matzehuels/notegraph/pkg/layout"
	"github.com/matzehuels/notegraph/pkg/watch"
)

// runView builds the graph for dir and opens the interactive view. The
// layout starts unsettled and animates while the view runs.
func (c *CLI) runView(ctx context.Context, dir string) error {
	runner := c.newRunner(cache.NewMemory())
	res, err := c.buildNotes(ctx, runner, dir)
	if err != nil {
		return err
	}
	runner.LogReport(res.Report)

	// Log lines would corrupt the full-screen view.
	if c.logFile == nil {
		c.Logger.SetOutput(io.Discard)
		defer c.Logger.SetOutput(c.out)
	}

	cfg := c.Config
	engine := layout.New(res.Graph, cfg.Layout)
	ctl := interact.New(res.Graph, engine, cfg.View.Viewport(), cfg.View.Interaction(cfg.Layout.DT))
	model := NewViewModel(res, ctl, cfg.View.Palette, cfg.Layout, cfg.View.Tick)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(runCtx))

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		return nil
	})
	if cfg.View.Watch {
		g.Go(func() error {
			opts := watch.Options{Discovery: cfg.Discovery.Options(), Debounce: cfg.Serve.Debounce}
			err := watch.Watch(gctx, res.Root, opts, c.Logger, func(watch.Change) {
				next, err := runner.Build(gctx, c.buildOptions(res.Root))
				p.Send(rebuildMsg{res: next, err: err})
			})
			if err != nil {
				// The view stays usable without live reload.
				c.Logger.Warn("watch disabled", "err", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	// An interrupt ends the program through ctx; report it to main.
	return ctx.Err()
}
