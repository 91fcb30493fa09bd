// Package watch reports changes to a note collection.
//
// [Watch] follows a directory tree with fsnotify and calls back, debounced,
// whenever a document is created, written, removed or renamed. It does not
// say what changed inside a document; consumers rebuild the whole graph.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/notegraph/pkg/discover"
)

// DefaultDebounce is the quiet period before a batch is delivered.
const DefaultDebounce = 250 * time.Millisecond

// Options configures [Watch].
type Options struct {
	Discovery discover.Options
	Debounce  time.Duration
}

// Change is a debounced batch of relevant paths, sorted and deduplicated.
type Change struct {
	Paths []string
}

// Watch watches root and its subdirectories until ctx is done and calls
// onChange with each debounced batch. Hidden directories are not watched;
// directories created later are added as they appear. onChange runs on the
// watcher goroutine and should hand work off rather than block.
//
// Watch returns nil when ctx is cancelled.
func Watch(ctx context.Context, root string, opts Options, logger *log.Logger, onChange func(Change)) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if logger == nil {
		logger = log.Default()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirs(w, root); err != nil {
		return err
	}
	logger.Debug("watcher started", "root", root, "debounce", opts.Debounce)

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
		pending = make(map[string]bool)
	)
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(opts.Debounce)
			timerCh = timer.C
			return
		}
		timer.Reset(opts.Debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Debug("watcher stopped", "root", root)
			return nil

		case <-timerCh:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			clear(pending)
			logger.Debug("change detected", "paths", len(paths))
			onChange(Change{Paths: paths})

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if hidden(ev.Name) {
						continue
					}
					if addErr := addDirs(w, ev.Name); addErr != nil {
						logger.Warn("watch new directory", "path", ev.Name, "err", addErr)
					}
					pending[ev.Name] = true
					schedule()
					continue
				}
			}
			if Relevant(ev, opts.Discovery) {
				pending[ev.Name] = true
				schedule()
			}

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", werr)
		}
	}
}

// Relevant reports whether ev can change the graph: a matching document
// was touched, an ignore file changed, or something that may have been a
// directory disappeared.
func Relevant(ev fsnotify.Event, opts discover.Options) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(ev.Name)
	ignoreFiles := opts.IgnoreFiles
	if ignoreFiles == nil {
		ignoreFiles = discover.DefaultIgnoreFiles
	}
	if slices.Contains(ignoreFiles, base) {
		return true
	}
	if discover.Matches(ev.Name, opts) {
		return true
	}
	if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		return !strings.HasPrefix(base, ".") && filepath.Ext(base) == ""
	}
	return false
}

func hidden(path string) bool { return strings.HasPrefix(filepath.Base(path), ".") }

// addDirs adds root and all its non-hidden subdirectories to w.
func addDirs(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && hidden(path) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
