package notegraph_test

import (
	"fmt"

	"github.com/matzehuels/notegraph/pkg/notegraph"
)

func ExampleBuildMap() {
	g, rep := notegraph.BuildMap(map[string][]string{
		"A": nil,
		"B": {"A"},
		"C": {"Z"},
	}, notegraph.Options{})

	fmt.Println("Nodes:", g.Names())
	fmt.Println("Edges:", g.EdgeCount())
	for _, d := range rep.All() {
		fmt.Println(d)
	}
	// Output:
	// Nodes: [A B C]
	// Edges: 1
	// dangling-link: C links to unknown note "Z"
	// orphan: C has no links
}

func ExampleGraph_Neighbors() {
	g := notegraph.New(false)
	hub, _ := g.AddNode("hub", "")
	left, _ := g.AddNode("left", "")
	right, _ := g.AddNode("right", "")
	_ = g.AddEdge(left, hub)
	_ = g.AddEdge(hub, right)
	_ = g.AddEdge(hub, right)

	fmt.Println("Neighbors:", g.Neighbors(hub))
	fmt.Println("Degree:", g.Degree(hub))
	fmt.Println("Out:", g.OutDegree(hub), "In:", g.InDegree(hub))
	// Output:
	// Neighbors: [1 2]
	// Degree: 2
	// Out: 2 In: 1
}
