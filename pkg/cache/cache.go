// Package cache keeps the references extracted from each document between
// builds, so a rebuild triggered by a file change only rescans documents
// whose content changed.
//
// Entries are keyed by path and validated by a SHA-256 hash of the content
// the references were extracted from. A hit therefore never depends on file
// timestamps.
//
// Implementations:
//   - [Memory]: process-local map, safe for concurrent use
//   - [Null]: stores nothing; useful in tests and one-shot commands
//
// Cached mention slices are shared with callers and must not be modified.
package cache

import (
	"slices"
	"sync"

	"github.com/matzehuels/notegraph/pkg/links"
)

// Cache stores extraction results by document path.
type Cache interface {
	// Get returns the mentions stored for path if they were extracted from
	// content with the given hash.
	Get(path, hash string) ([]links.Mention, bool)

	// Set stores the mentions extracted from path's content.
	Set(path, hash string, mentions []links.Mention)

	// Retain drops every entry whose path is not in paths.
	Retain(paths []string)

	// Stats returns the hit and miss counts since creation.
	Stats() Stats
}

// Stats counts cache lookups.
type Stats struct {
	Entries int
	Hits    int
	Misses  int
}

type entry struct {
	hash     string
	mentions []links.Mention
}

// Memory is an in-memory [Cache].
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	hits    int
	misses  int
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry)}
}

// Get implements [Cache].
func (c *Memory) Get(path, hash string) ([]links.Mention, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[path]
	if !ok || e.hash != hash {
		c.misses++
		return nil, false
	}
	c.hits++
	return e.mentions, true
}

// Set implements [Cache].
func (c *Memory) Set(path, hash string, mentions []links.Mention) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = entry{hash: hash, mentions: slices.Clip(mentions)}
}

// Retain implements [Cache].
func (c *Memory) Retain(paths []string) {
	keep := make(map[string]bool, len(paths))
	for _, p := range paths {
		keep[p] = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for p := range c.entries {
		if !keep[p] {
			delete(c.entries, p)
		}
	}
}

// Stats implements [Cache].
func (c *Memory) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
}

// Ensure Memory implements Cache.
var _ Cache = (*Memory)(nil)
