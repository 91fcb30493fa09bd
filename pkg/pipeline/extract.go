package pipeline

import (
	"context"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/notegraph/pkg/cache"
	"github.com/matzehuels/notegraph/pkg/discover"
	"github.com/matzehuels/notegraph/pkg/errors"
	"github.com/matzehuels/notegraph/pkg/links"
	"github.com/matzehuels/notegraph/pkg/notegraph"
	"github.com/matzehuels/notegraph/pkg/observability"
)

// extract reads and scans every file with at most workers reads in flight.
// The returned documents are in the order of files. Read failures are kept
// on the document; only cancellation aborts the stage.
func (r *Runner) extract(ctx context.Context, files []string, workers int) ([]notegraph.Document, error) {
	docs := make([]notegraph.Document, len(files))
	hooks := observability.Build()

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			mentions, err := r.scan(path)
			docs[i] = notegraph.Document{
				Name:     discover.NoteID(path),
				Path:     path,
				Mentions: mentions,
				Err:      err,
			}
			hooks.OnDocument(gCtx, path, len(mentions), err)
			if err != nil {
				r.Logger.Debug("skipping unreadable document", "path", path, "err", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// scan extracts the mentions of one document, consulting the cache when
// the runner has one.
func (r *Runner) scan(path string) ([]links.Mention, error) {
	if r.Cache == nil {
		return links.ExtractFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnreadable, err, "read %s", path)
	}
	sum := cache.Hash(data)
	if ms, ok := r.Cache.Get(path, sum); ok {
		return ms, nil
	}
	ms, err := links.Extract(data)
	if err != nil {
		return nil, err
	}
	r.Cache.Set(path, sum, ms)
	return ms, nil
}
