// Package discover finds the note documents under a root directory.
//
// Hidden files and directories are skipped, files are kept by extension,
// and paths matched by ignore files in the root (gitignore syntax) are
// dropped. The result is sorted so that downstream node indices are
// reproducible.
package discover

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	nerrors "github.com/matzehuels/notegraph/pkg/errors"
)

// DefaultExtensions lists the document extensions searched by default.
var DefaultExtensions = []string{"md"}

// DefaultIgnoreFiles lists the ignore files honoured by default.
var DefaultIgnoreFiles = []string{".gitignore", ".notegraphignore"}

// Options configures [Find].
type Options struct {
	Extensions  []string // without leading dot; nil means DefaultExtensions
	IgnoreFiles []string // file names looked up in root; nil means DefaultIgnoreFiles
	NoIgnore    bool     // disable ignore files entirely
}

func (o *Options) setDefaults() {
	if len(o.Extensions) == 0 {
		o.Extensions = DefaultExtensions
	}
	if o.IgnoreFiles == nil {
		o.IgnoreFiles = DefaultIgnoreFiles
	}
}

// Result is the outcome of a successful walk.
type Result struct {
	Root  string   // Cleaned root directory
	Files []string // Matching documents, sorted
	// Skipped holds one error per subdirectory that could not be read.
	Skipped []SkippedDir
}

// SkippedDir is a directory the walk could not enter.
type SkippedDir struct {
	Path string
	Err  error
}

// NoteID returns the note identifier for path: its base name without the
// final extension.
func NoteID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Find walks root and returns the matching documents.
//
// A missing or unreadable root yields INVALID_PATH, a root that is not a
// directory NOT_A_DIRECTORY, and a walk that finds nothing NO_DOCUMENTS.
func Find(ctx context.Context, root string, opts Options) (*Result, error) {
	opts.setDefaults()
	root = filepath.Clean(root)

	info, err := os.Stat(root)
	if err != nil {
		return nil, nerrors.Wrap(nerrors.ErrCodeInvalidPath, err, "root %s", root)
	}
	if !info.IsDir() {
		return nil, nerrors.New(nerrors.ErrCodeNotDirectory, "%s is not a directory", root)
	}

	exts := make(map[string]bool, len(opts.Extensions))
	for _, e := range opts.Extensions {
		exts["."+strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}

	var matchers []*ignore.GitIgnore
	if !opts.NoIgnore {
		matchers = compileIgnores(root, opts.IgnoreFiles)
	}
	ignored := func(rel string) bool {
		for _, m := range matchers {
			if m.MatchesPath(rel) {
				return true
			}
		}
		return false
	}

	res := &Result{Root: root}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			if path == root {
				return err
			}
			res.Skipped = append(res.Skipped, SkippedDir{Path: path, Err: err})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		name := d.Name()
		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)
		if strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if ignored(rel + "/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		if !exts[strings.ToLower(filepath.Ext(name))] || NoteID(name) == "" {
			return nil
		}
		if ignored(rel) {
			return nil
		}
		res.Files = append(res.Files, path)
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, nerrors.Wrap(nerrors.ErrCodeInvalidPath, err, "walk %s", root)
	}

	if len(res.Files) == 0 {
		return nil, nerrors.New(nerrors.ErrCodeNoDocuments, "no %s documents under %s", strings.Join(opts.Extensions, "/"), root)
	}
	slices.Sort(res.Files)
	return res, nil
}

func compileIgnores(root string, names []string) []*ignore.GitIgnore {
	var out []*ignore.GitIgnore
	for _, name := range names {
		m, err := ignore.CompileIgnoreFile(filepath.Join(root, name))
		if err != nil {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Matches reports whether path would be picked up by a walk with opts,
// ignoring ignore files. Used to filter change events.
func Matches(path string, opts Options) bool {
	opts.setDefaults()
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || NoteID(name) == "" {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range opts.Extensions {
		if ext == "."+strings.ToLower(strings.TrimPrefix(e, ".")) {
			return true
		}
	}
	return false
}
