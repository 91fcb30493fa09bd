package notegraph

import (
	"errors"
	"slices"
	"strings"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the name is empty.
	ErrInvalidNodeID = errors.New("node name must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same identifier already exists.
	ErrDuplicateNodeID = errors.New("duplicate node name")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the source
	// index is out of range.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the target
	// index is out of range.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Node is a note in the graph.
type Node struct {
	Index int    // Arena index, stable for the lifetime of the graph
	Name  string // Display name (first spelling seen)
	Path  string // Source document, empty for nodes added without one
}

// Edge is a resolved reference from one note to another.
type Edge struct {
	From int // Source node index
	To   int // Target node index
}

// Touches reports whether i is either endpoint of e.
func (e Edge) Touches(i int) bool { return e.From == i || e.To == i }

// Other returns the endpoint of e opposite to i.
func (e Edge) Other(i int) int {
	if e.From == i {
		return e.To
	}
	return e.From
}

// Graph is an arena of notes and the references between them.
//
// The zero value is not usable; use [New].
type Graph struct {
	nodes    []Node
	index    map[string]int
	edges    []Edge
	adjacent [][]int // node -> neighbour indices, one entry per incident edge
	outDeg   []int
	inDeg    []int
	foldCase bool
}

// New creates an empty graph. With foldCase set, identifiers are compared
// case-insensitively.
func New(foldCase bool) *Graph {
	return &Graph{
		index:    make(map[string]int),
		foldCase: foldCase,
	}
}

// Key returns the identifier used to compare name against other names.
func (g *Graph) Key(name string) string {
	if g.foldCase {
		return strings.ToLower(name)
	}
	return name
}

// AddNode appends a node and returns its index.
// Returns ErrInvalidNodeID if name is empty, or ErrDuplicateNodeID if an
// equal identifier is already present.
func (g *Graph) AddNode(name, path string) (int, error) {
	if name == "" {
		return -1, ErrInvalidNodeID
	}
	key := g.Key(name)
	if _, exists := g.index[key]; exists {
		return -1, ErrDuplicateNodeID
	}
	i := len(g.nodes)
	g.nodes = append(g.nodes, Node{Index: i, Name: name, Path: path})
	g.index[key] = i
	g.adjacent = append(g.adjacent, nil)
	g.outDeg = append(g.outDeg, 0)
	g.inDeg = append(g.inDeg, 0)
	return i, nil
}

// AddEdge adds the edge from -> to. Duplicate edges are kept.
// Self edges are accepted here; the builder filters them before calling.
func (g *Graph) AddEdge(from, to int) error {
	if from < 0 || from >= len(g.nodes) {
		return ErrUnknownSourceNode
	}
	if to < 0 || to >= len(g.nodes) {
		return ErrUnknownTargetNode
	}
	g.edges = append(g.edges, Edge{From: from, To: to})
	g.adjacent[from] = append(g.adjacent[from], to)
	if from != to {
		g.adjacent[to] = append(g.adjacent[to], from)
	}
	g.outDeg[from]++
	g.inDeg[to]++
	return nil
}

// setPath replaces the source path of node i.
func (g *Graph) setPath(i int, path string) { g.nodes[i].Path = path }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges, duplicates included.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns a copy of all nodes in index order.
func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Node returns the node at index i.
func (g *Graph) Node(i int) (Node, bool) {
	if i < 0 || i >= len(g.nodes) {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Name returns the display name of node i, or "" if i is out of range.
func (g *Graph) Name(i int) string {
	if n, ok := g.Node(i); ok {
		return n.Name
	}
	return ""
}

// Lookup returns the index of the node with the given identifier.
func (g *Graph) Lookup(name string) (int, bool) {
	i, ok := g.index[g.Key(name)]
	return i, ok
}

// Neighbors returns the distinct undirected neighbours of node i in
// ascending index order. Returns nil if i has none or is out of range.
func (g *Graph) Neighbors(i int) []int {
	if i < 0 || i >= len(g.adjacent) || len(g.adjacent[i]) == 0 {
		return nil
	}
	out := slices.Clone(g.adjacent[i])
	slices.Sort(out)
	return slices.Compact(out)
}

// IsNeighbor reports whether i and j share at least one edge.
func (g *Graph) IsNeighbor(i, j int) bool {
	if i < 0 || i >= len(g.adjacent) {
		return false
	}
	return slices.Contains(g.adjacent[i], j)
}

// Degree returns the number of distinct undirected neighbours of node i.
func (g *Graph) Degree(i int) int { return len(g.Neighbors(i)) }

// OutDegree returns the number of edges leaving node i.
func (g *Graph) OutDegree(i int) int {
	if i < 0 || i >= len(g.outDeg) {
		return 0
	}
	return g.outDeg[i]
}

// InDegree returns the number of edges entering node i.
func (g *Graph) InDegree(i int) int {
	if i < 0 || i >= len(g.inDeg) {
		return 0
	}
	return g.inDeg[i]
}

// Names returns the display names of all nodes in index order.
func (g *Graph) Names() []string {
	names := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		names[i] = n.Name
	}
	return names
}
