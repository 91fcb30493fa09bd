package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/matzehuels/notegraph/pkg/geom"
	"github.com/matzehuels/notegraph/pkg/notegraph"
)

// Snapshot is the serialized form of one build.
type Snapshot struct {
	ID          string       `json:"id"`
	Root        string       `json:"root"`
	Steps       int          `json:"steps"`
	Nodes       []Node       `json:"nodes"`
	Edges       []Edge       `json:"edges"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Node is a note with its layout position.
type Node struct {
	ID     string  `json:"id"`
	Index  int     `json:"index"`
	Path   string  `json:"path,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Degree int     `json:"degree"`
}

// Edge is a resolved reference between two notes.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Diagnostic is a flattened [notegraph.Diagnostic].
type Diagnostic struct {
	Kind    string `json:"kind"`
	Source  string `json:"source,omitempty"`
	Target  string `json:"target,omitempty"`
	Path    string `json:"path,omitempty"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

// New captures g, its positions and report. positions may be shorter than
// the node count (or nil) when no layout has run; missing nodes sit at the
// origin. report may be nil.
func New(root string, g *notegraph.Graph, positions []geom.Point, steps int, report *notegraph.Report) *Snapshot {
	s := &Snapshot{
		ID:          uuid.NewString(),
		Root:        root,
		Steps:       steps,
		Nodes:       make([]Node, 0, g.NodeCount()),
		Edges:       make([]Edge, 0, g.EdgeCount()),
		Diagnostics: []Diagnostic{},
	}

	for _, n := range g.Nodes() {
		nd := Node{ID: n.Name, Index: n.Index, Path: n.Path, Degree: g.Degree(n.Index)}
		if n.Index < len(positions) {
			nd.X, nd.Y = positions[n.Index].X, positions[n.Index].Y
		}
		s.Nodes = append(s.Nodes, nd)
	}
	for _, e := range g.Edges() {
		s.Edges = append(s.Edges, Edge{From: g.Name(e.From), To: g.Name(e.To)})
	}
	if report != nil {
		for _, d := range report.All() {
			s.Diagnostics = append(s.Diagnostics, Diagnostic{
				Kind:    string(d.Kind),
				Source:  d.Source,
				Target:  d.Target,
				Path:    d.Path,
				Line:    d.Line,
				Message: d.Message(),
			})
		}
	}
	return s
}

// Positions returns the node positions in index order.
func (s *Snapshot) Positions() []geom.Point {
	pts := make([]geom.Point, len(s.Nodes))
	for i, n := range s.Nodes {
		pts[i] = geom.Pt(n.X, n.Y)
	}
	return pts
}

// Graph rebuilds the note graph described by s. Nodes are added in slice
// order, so indices match the original when s came from [New].
func (s *Snapshot) Graph(foldCase bool) (*notegraph.Graph, error) {
	g := notegraph.New(foldCase)
	for _, n := range s.Nodes {
		if _, err := g.AddNode(n.ID, n.Path); err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
	}
	for _, e := range s.Edges {
		from, ok := g.Lookup(e.From)
		if !ok {
			return nil, fmt.Errorf("edge %s->%s: unknown node %q", e.From, e.To, e.From)
		}
		to, ok := g.Lookup(e.To)
		if !ok {
			return nil, fmt.Errorf("edge %s->%s: unknown node %q", e.From, e.To, e.To)
		}
		if err := g.AddEdge(from, to); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

// WriteJSON encodes s as indented JSON and writes it to w.
func WriteJSON(s *Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes s to a JSON file at path.
func ExportJSON(s *Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(s, f)
}

// ReadJSON decodes a snapshot from r. It does not close r.
func ReadJSON(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &s, nil
}
