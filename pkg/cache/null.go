package cache

import "github.com/matzehuels/notegraph/pkg/links"

// Null is a no-op cache that never stores anything.
type Null struct{}

// NewNull creates a null cache.
func NewNull() Cache {
	return Null{}
}

// Get always returns a miss.
func (Null) Get(path, hash string) ([]links.Mention, bool) { return nil, false }

// Set does nothing.
func (Null) Set(path, hash string, mentions []links.Mention) {}

// Retain does nothing.
func (Null) Retain(paths []string) {}

// Stats returns zero counts.
func (Null) Stats() Stats { return Stats{} }

// Ensure Null implements Cache.
var _ Cache = Null{}
