// Package termmatch finds which terms of a fixed dictionary occur in a text.
// It builds a single Aho-Corasick automaton over the dictionary so a text is
// scanned once regardless of how many terms are registered.
package termmatch

import (
	ahocorasick "github.com/cloudflare/ahocorasick"
)

// Matcher is an immutable term dictionary compiled into an automaton.
// It is safe for concurrent use.
type Matcher struct {
	terms   []string
	index   map[string]int
	matcher *ahocorasick.Matcher
}

// New compiles terms into a Matcher. Empty and duplicate terms are skipped;
// terms are matched byte-for-byte, so callers normalize case beforehand.
func New(terms []string) *Matcher {
	m := &Matcher{
		terms: make([]string, 0, len(terms)),
		index: make(map[string]int, len(terms)),
	}

	for _, term := range terms {
		if term == "" {
			continue
		}
		if _, seen := m.index[term]; seen {
			continue
		}
		m.index[term] = len(m.terms)
		m.terms = append(m.terms, term)
	}

	if len(m.terms) > 0 {
		m.matcher = ahocorasick.NewStringMatcher(m.terms)
	}

	return m
}

// Len returns the number of distinct terms in the dictionary.
func (m *Matcher) Len() int {
	return len(m.terms)
}

// ID returns the dictionary position of term, or -1 when it is not registered.
func (m *Matcher) ID(term string) int {
	if id, ok := m.index[term]; ok {
		return id
	}
	return -1
}

// Term returns the term registered under id.
func (m *Matcher) Term(id int) string {
	if id < 0 || id >= len(m.terms) {
		return ""
	}
	return m.terms[id]
}

// Find scans text once and reports every dictionary term that occurs in it
// as a substring.
func (m *Matcher) Find(text string) Hits {
	hits := Hits{matcher: m}
	if m.matcher == nil || text == "" {
		return hits
	}

	hits.present = make([]bool, len(m.terms))
	// MatchThreadSafe keeps its scratch state per call; Match does not.
	for _, id := range m.matcher.MatchThreadSafe([]byte(text)) {
		if id >= 0 && id < len(hits.present) {
			hits.present[id] = true
			hits.count++
		}
	}

	return hits
}

// Hits is the set of dictionary terms found in one text.
type Hits struct {
	matcher *Matcher
	present []bool
	count   int
}

// HasID reports whether the term with the given dictionary id was found.
func (h Hits) HasID(id int) bool {
	return id >= 0 && id < len(h.present) && h.present[id]
}

// Has reports whether term was found.
func (h Hits) Has(term string) bool {
	if h.matcher == nil {
		return false
	}
	return h.HasID(h.matcher.ID(term))
}

// Count returns the number of distinct terms found.
func (h Hits) Count() int {
	return h.count
}

// Terms returns the found terms in dictionary order.
func (h Hits) Terms() []string {
	if h.count == 0 {
		return nil
	}
	out := make([]string, 0, h.count)
	for id, ok := range h.present {
		if ok {
			out = append(out, h.matcher.terms[id])
		}
	}
	return out
}
