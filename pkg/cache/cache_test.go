package cache

import (
	"sync"
	"testing"

	"github.com/matzehuels/notegraph/pkg/links"
)

func TestNullCache(t *testing.T) {
	c := NewNull()

	c.Set("a.md", "h", []links.Mention{{Target: "b", Line: 1}})
	if _, hit := c.Get("a.md", "h"); hit {
		t.Error("Null should not store data")
	}
	c.Retain(nil)
	if s := c.Stats(); s != (Stats{}) {
		t.Errorf("Null stats = %+v, want zero", s)
	}
}

func TestMemoryGetSet(t *testing.T) {
	c := NewMemory()
	ms := []links.Mention{{Target: "b", Line: 1}, {Target: "c", Line: 3}}

	if _, hit := c.Get("a.md", "h1"); hit {
		t.Fatal("empty cache should miss")
	}

	c.Set("a.md", "h1", ms)
	got, hit := c.Get("a.md", "h1")
	if !hit {
		t.Fatal("expected hit after Set")
	}
	if len(got) != 2 || got[1].Target != "c" {
		t.Errorf("Get = %v, want %v", got, ms)
	}

	// Changed content misses.
	if _, hit := c.Get("a.md", "h2"); hit {
		t.Error("different hash should miss")
	}

	s := c.Stats()
	if s.Entries != 1 || s.Hits != 1 || s.Misses != 2 {
		t.Errorf("Stats = %+v, want 1 entry, 1 hit, 2 misses", s)
	}
}

func TestMemoryEmptyMentions(t *testing.T) {
	c := NewMemory()
	c.Set("empty.md", "h", nil)

	got, hit := c.Get("empty.md", "h")
	if !hit || len(got) != 0 {
		t.Errorf("Get = %v, %v; want empty hit", got, hit)
	}
}

func TestMemoryRetain(t *testing.T) {
	c := NewMemory()
	for _, p := range []string{"a.md", "b.md", "c.md"} {
		c.Set(p, "h", nil)
	}

	c.Retain([]string{"b.md", "d.md"})

	if s := c.Stats(); s.Entries != 1 {
		t.Errorf("entries after Retain = %d, want 1", s.Entries)
	}
	if _, hit := c.Get("b.md", "h"); !hit {
		t.Error("retained entry missing")
	}
	if _, hit := c.Get("a.md", "h"); hit {
		t.Error("dropped entry still present")
	}
}

func TestMemoryConcurrent(t *testing.T) {
	c := NewMemory()
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := string(rune('a'+i)) + ".md"
			c.Set(p, "h", nil)
			c.Get(p, "h")
		}()
	}
	wg.Wait()

	if s := c.Stats(); s.Entries != 16 || s.Hits != 16 {
		t.Errorf("Stats = %+v, want 16 entries and hits", s)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}
