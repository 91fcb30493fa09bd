// Package links extracts wiki-style references from note text.
//
// A reference is written as two opening brackets, a run of non-whitespace
// characters, and two closing brackets:
//
//	See [[rust]] and [[go#channels|Channels]].
//
// Only the part before the first '#' or '|' names the target; a heading
// fragment or display title is discarded. The example above yields the
// targets "rust" and "go". A title containing spaces, as in
// "[[go|Two words]]", makes the whole run invalid.
//
// Every match on every line is reported, in reading order. A reference
// cannot span lines, and a run containing whitespace is not a reference.
package links

import (
	stderrors "errors"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/notegraph/pkg/errors"
)

// ErrNotText is returned when the input is not valid UTF-8.
var ErrNotText = stderrors.New("document is not valid UTF-8 text")

// mentionRe matches a maximal run without whitespace or ']', so "[[a]][[b]]"
// yields two mentions rather than one.
var mentionRe = regexp.MustCompile(`\[\[([^\s\]]*)\]\]`)

// Mention is a single reference found in a document.
type Mention struct {
	Target string `json:"target"` // identifier before any '#' or '|'
	Line   int    `json:"line"`   // 1-based line number
}

// Extract returns all mentions in data in reading order.
//
// Data that is not valid UTF-8 yields an UNREADABLE_DOCUMENT error wrapping
// [ErrNotText]. A document without references returns an empty result and
// no error. An empty target such as "[[#heading]]" is kept as "".
func Extract(data []byte) ([]Mention, error) {
	if !utf8.Valid(data) {
		return nil, errors.Wrap(errors.ErrCodeUnreadable, ErrNotText, "extract links")
	}

	var out []Mention
	line := 0
	for text := range strings.Lines(string(data)) {
		line++
		for _, m := range mentionRe.FindAllStringSubmatch(text, -1) {
			out = append(out, Mention{Target: Truncate(m[1]), Line: line})
		}
	}
	return out, nil
}

// ExtractFile reads the file at path and extracts its mentions.
// Read failures are returned as UNREADABLE_DOCUMENT errors.
func ExtractFile(path string) ([]Mention, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnreadable, err, "read %s", path)
	}
	if !utf8.Valid(data) {
		return nil, errors.Wrap(errors.ErrCodeUnreadable, ErrNotText, "extract %s", path)
	}
	return Extract(data)
}

// Targets returns the target of each mention, preserving order and
// duplicates.
func Targets(ms []Mention) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Target
	}
	return out
}

// Truncate cuts a raw capture at the first '#' or '|', whichever comes
// first.
func Truncate(raw string) string {
	if i := strings.IndexAny(raw, "#|"); i >= 0 {
		return raw[:i]
	}
	return raw
}
