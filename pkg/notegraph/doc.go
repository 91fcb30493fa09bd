// Package notegraph builds the note graph: one node per note, one edge per
// resolved reference.
//
// # Overview
//
// The builder consumes one [Document] per discovered file, each carrying the
// references extracted from it, and produces a [Graph] together with a
// [Report] of everything that did not become an edge. Construction runs in
// three passes:
//
//  1. Allocate one node per distinct note identifier. Every identity is fixed
//     before any edge is added, so forward references always resolve.
//  2. Resolve each reference. Unknown targets become dangling-link
//     diagnostics, references to the source itself become self-reference
//     diagnostics, and everything else becomes an edge.
//  3. Report every node without undirected neighbours as an orphan.
//
// The builder always finishes a full pass. A collection in which every
// reference is broken yields a graph of isolated nodes and a complete
// diagnostic list; nothing is dropped silently.
//
// # Basic Usage
//
//	g, rep := notegraph.BuildMap(map[string][]string{
//	    "a": nil,
//	    "b": {"a"},
//	    "c": {"z"},
//	}, notegraph.Options{})
//	fmt.Println(g.NodeCount(), g.EdgeCount(), rep.Count(notegraph.KindDangling))
//
// # Identity
//
// Nodes are stored in an arena and addressed by index. The index is assigned
// when the node is added and never changes or gets reused. The name-to-index
// table is built once, during the first pass; force and neighbour loops use
// indices only.
//
// Edges are directed as written but carry no weight, and duplicates are
// kept. [Graph.Neighbors] and [Graph.Degree] treat them as undirected.
//
// # Concurrency
//
// A Graph is not safe for concurrent mutation. Once built it is only read,
// and concurrent readers need no synchronization.
package notegraph
