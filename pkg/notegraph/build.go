package notegraph

import (
	"slices"

	"github.com/matzehuels/notegraph/pkg/links"
)

// Document is one discovered note and the references extracted from it.
type Document struct {
	Name     string          // Note identifier (filename stem)
	Path     string          // Source path, informational
	Mentions []links.Mention // References in order of appearance
	Err      error           // Non-nil if the document could not be read
}

// Options configures graph construction.
type Options struct {
	// FoldCase compares identifiers case-insensitively.
	FoldCase bool
}

// Build constructs the graph for docs.
//
// Every document with a non-empty name yields a node, unreadable ones
// included; an unreadable document contributes no references and is
// reported as unreadable-document. When two documents share an identifier,
// the later one's path and references replace the earlier one's and a
// duplicate-note diagnostic is recorded.
//
// Build never fails: an empty input yields an empty graph and report.
func Build(docs []Document, opts Options) (*Graph, *Report) {
	g := New(opts.FoldCase)
	rep := &Report{}

	// owner[i] is the document whose references node i uses.
	var owner []int
	for di, d := range docs {
		if d.Err != nil {
			rep.Add(Diagnostic{Kind: KindUnreadable, Source: d.Name, Path: d.Path, Err: d.Err})
		}
		if d.Name == "" {
			continue
		}
		if i, ok := g.Lookup(d.Name); ok {
			prev := docs[owner[i]]
			rep.Add(Diagnostic{Kind: KindDuplicate, Source: g.Name(i), Target: prev.Path, Path: d.Path})
			owner[i] = di
			g.setPath(i, d.Path)
			continue
		}
		if _, err := g.AddNode(d.Name, d.Path); err != nil {
			continue
		}
		owner = append(owner, di)
	}

	for i := range g.NodeCount() {
		d := docs[owner[i]]
		if d.Err != nil {
			continue
		}
		for _, m := range d.Mentions {
			j, ok := g.Lookup(m.Target)
			switch {
			case !ok:
				rep.Add(Diagnostic{Kind: KindDangling, Source: g.Name(i), Target: m.Target, Path: d.Path, Line: m.Line})
			case j == i:
				rep.Add(Diagnostic{Kind: KindSelf, Source: g.Name(i), Target: m.Target, Path: d.Path, Line: m.Line})
			default:
				_ = g.AddEdge(i, j)
			}
		}
	}

	for i := range g.NodeCount() {
		if g.Degree(i) == 0 {
			n, _ := g.Node(i)
			rep.Add(Diagnostic{Kind: KindOrphan, Source: n.Name, Path: n.Path})
		}
	}
	return g, rep
}

// BuildMap constructs the graph for a mapping from note identifier to its
// ordered reference list. Keys are sorted first so that node indices do not
// depend on map iteration order.
func BuildMap(refs map[string][]string, opts Options) (*Graph, *Report) {
	names := make([]string, 0, len(refs))
	for name := range refs {
		names = append(names, name)
	}
	slices.Sort(names)

	docs := make([]Document, len(names))
	for i, name := range names {
		ms := make([]links.Mention, len(refs[name]))
		for k, t := range refs[name] {
			ms[k] = links.Mention{Target: t}
		}
		docs[i] = Document{Name: name, Mentions: ms}
	}
	return Build(docs, opts)
}
