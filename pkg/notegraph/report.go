package notegraph

import "fmt"

// Kind classifies a diagnostic.
type Kind string

const (
	// KindDangling is a reference to an identifier with no document.
	KindDangling Kind = "dangling-link"
	// KindSelf is a reference from a note to itself.
	KindSelf Kind = "self-reference"
	// KindOrphan is a node with no undirected neighbours. Informational.
	KindOrphan Kind = "orphan"
	// KindUnreadable is a document that could not be read as text.
	KindUnreadable Kind = "unreadable-document"
	// KindDuplicate is a document whose identifier was already taken.
	KindDuplicate Kind = "duplicate-note"
)

// Kinds lists every diagnostic kind.
var Kinds = []Kind{KindUnreadable, KindDuplicate, KindDangling, KindSelf, KindOrphan}

// Informational reports whether diagnostics of kind k describe a valid
// graph shape rather than a problem in the notes.
func (k Kind) Informational() bool { return k == KindOrphan }

// Diagnostic is a single integrity finding.
//
// Source is the note the finding belongs to. Target is the referenced
// identifier for dangling-link and self-reference, and the path of the
// replaced document for duplicate-note. Line is 1-based, or 0 when unknown.
type Diagnostic struct {
	Kind   Kind
	Source string
	Target string
	Path   string
	Line   int
	Err    error
}

// Message returns a one-line human readable description.
func (d Diagnostic) Message() string {
	switch d.Kind {
	case KindDangling:
		return fmt.Sprintf("%s links to unknown note %q", d.Source, d.Target)
	case KindSelf:
		return fmt.Sprintf("%s links to itself", d.Source)
	case KindOrphan:
		return fmt.Sprintf("%s has no links", d.Source)
	case KindUnreadable:
		if d.Err != nil {
			return fmt.Sprintf("%s could not be read: %v", d.Path, d.Err)
		}
		return fmt.Sprintf("%s could not be read", d.Path)
	case KindDuplicate:
		return fmt.Sprintf("%s replaces %s for note %s", d.Path, d.Target, d.Source)
	}
	return string(d.Kind)
}

func (d Diagnostic) String() string { return string(d.Kind) + ": " + d.Message() }

// Report is the ordered list of diagnostics produced by a build.
// The zero value is an empty report ready to use.
type Report struct {
	items []Diagnostic
}

// Add appends d to the report.
func (r *Report) Add(d Diagnostic) { r.items = append(r.items, d) }

// Len returns the number of diagnostics.
func (r *Report) Len() int { return len(r.items) }

// All returns a copy of all diagnostics in the order they were added.
func (r *Report) All() []Diagnostic {
	out := make([]Diagnostic, len(r.items))
	copy(out, r.items)
	return out
}

// Filter returns the diagnostics of the given kind, in order.
func (r *Report) Filter(kind Kind) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.items {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Count returns the number of diagnostics of the given kind.
func (r *Report) Count(kind Kind) int {
	n := 0
	for _, d := range r.items {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Problems returns the number of non-informational diagnostics.
func (r *Report) Problems() int {
	n := 0
	for _, d := range r.items {
		if !d.Kind.Informational() {
			n++
		}
	}
	return n
}
