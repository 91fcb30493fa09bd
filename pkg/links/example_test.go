package links_test

import (
	"fmt"

	"github.com/matzehuels/notegraph/pkg/links"
)

func ExampleExtract() {
	doc := "Notes on [[go#channels|channels]].\nCompare with [[rust]] and [[go]].\n"

	ms, err := links.Extract([]byte(doc))
	if err != nil {
		panic(err)
	}
	for _, m := range ms {
		fmt.Printf("line %d: %s\n", m.Line, m.Target)
	}
	// Output:
	// line 1: go
	// line 2: rust
	// line 2: go
}
