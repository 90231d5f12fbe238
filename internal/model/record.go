package model

import (
	"encoding/json"
	"sort"
)

// Span is a half-open range of character (rune) offsets within a line
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of characters covered by the span
func (s Span) Len() int {
	return s.End - s.Start
}

// Record is the extraction result for one non-blank input line.
// A record is valid iff it carries a Span; invalid records keep the raw line
// as their Identifier and have no offsets.
type Record struct {
	Index      int    `json:"line_index"`        // Position among non-blank lines (0-based)
	Identifier string `json:"identifier"`        // Extracted name, or the raw line when invalid
	Grammar    string `json:"grammar,omitempty"` // Which grammar matched (e.g., "delimited")
	Span       *Span  `json:"span,omitempty"`    // Location of Identifier in the line
}

// Valid reports whether a grammar produced an identifier for the line
func (r Record) Valid() bool {
	return r.Span != nil
}

// Offsets returns the identifier's start and end offsets, or (0, 0) for invalid records
func (r Record) Offsets() (int, int) {
	if r.Span == nil {
		return 0, 0
	}
	return r.Span.Start, r.Span.End
}

// DuplicateMap maps an identifier to its occurrence count (always >= 2)
type DuplicateMap map[string]int

// Names returns the duplicated identifiers in sorted order
func (d DuplicateMap) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Total returns the number of surplus occurrences across all duplicates
func (d DuplicateMap) Total() int {
	total := 0
	for _, count := range d {
		total += count - 1
	}
	return total
}

// Set is an unordered set of identifiers
type Set map[string]struct{}

// NewSet builds a set from the given identifiers
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is a member of the set
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of members
func (s Set) Len() int {
	return len(s)
}

// Sorted returns the members in sorted order
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON encodes the set as a sorted array
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes a set from an array of identifiers
func (s *Set) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewSet(ids...)
	return nil
}

// MarshalYAML encodes the set as a sorted sequence
func (s Set) MarshalYAML() (interface{}, error) {
	return s.Sorted(), nil
}
