package industry

import (
	"strings"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/termmatch"
)

// Scoring weights.
const (
	primaryWeight     = 10
	multiWordBonus    = 5
	secondaryWeight   = 5
	nameWeight        = 2
	contextWeight     = 3
	nameOnlyPenalty   = 5
	generalWeight     = 3
	generalNameWeight = 1
)

// MatchKind says which tier of a category a term matched through and where.
type MatchKind string

const (
	// MatchPrimary is a primary phrase found in the description.
	MatchPrimary MatchKind = "Primary"
	// MatchSecondary is a secondary keyword found in the description.
	MatchSecondary MatchKind = "Secondary"
	// MatchName is a keyword found only in the domain or company name.
	MatchName MatchKind = "Name"
	// MatchContext is a corroborating context term found in the description.
	MatchContext MatchKind = "Context"
	// MatchKeyword is a general category keyword found in the description.
	MatchKeyword MatchKind = "Keyword"
)

// Match is one term that contributed to a score.
type Match struct {
	Kind MatchKind `json:"kind"`
	Term string    `json:"term"`
}

// CategoryScore is the stage one score of a single taxonomy category.
type CategoryScore struct {
	Label   string  `json:"label"`
	Score   int     `json:"score"`
	Matches []Match `json:"matched_terms"`
}

type termRef struct {
	id   int
	term string
}

type compiledCategory struct {
	label     string
	primary   []termRef
	secondary []termRef
	context   []termRef
}

type compiledGeneral struct {
	label    string
	keywords []termRef
}

// texts holds the two normalized views of an input and the dictionary terms
// found in each.
type texts struct {
	primary   termmatch.Hits
	secondary termmatch.Hits
}

// compile registers every taxonomy term in one matcher and resolves each
// category tier to dictionary ids.
func compile(t *Taxonomy) (*termmatch.Matcher, []compiledCategory, []compiledGeneral) {
	var all []string
	for _, c := range t.categories {
		all = append(all, c.Primary...)
		all = append(all, c.Secondary...)
		all = append(all, c.Context...)
	}
	for _, g := range t.general {
		all = append(all, g.Keywords...)
	}

	matcher := termmatch.New(all)
	refs := func(terms []string) []termRef {
		out := make([]termRef, len(terms))
		for i, term := range terms {
			out[i] = termRef{id: matcher.ID(term), term: term}
		}
		return out
	}

	categories := make([]compiledCategory, len(t.categories))
	for i, c := range t.categories {
		categories[i] = compiledCategory{
			label:     c.Label,
			primary:   refs(c.Primary),
			secondary: refs(c.Secondary),
			context:   refs(c.Context),
		}
	}

	general := make([]compiledGeneral, len(t.general))
	for i, g := range t.general {
		general[i] = compiledGeneral{label: g.Label, keywords: refs(g.Keywords)}
	}

	return matcher, categories, general
}

// scoreCategory applies the weighted scoring rules to one category.
func scoreCategory(c *compiledCategory, in texts) (int, []Match) {
	var (
		score      int
		matches    []Match
		hasPrimary bool
		nameOnly   bool
	)

	for _, ref := range c.primary {
		if !in.primary.HasID(ref.id) {
			continue
		}
		score += primaryWeight
		if strings.Contains(ref.term, " ") {
			score += multiWordBonus
		}
		hasPrimary = true
		matches = append(matches, Match{Kind: MatchPrimary, Term: ref.term})
	}

	for _, ref := range c.secondary {
		switch {
		case in.primary.HasID(ref.id):
			score += secondaryWeight
			matches = append(matches, Match{Kind: MatchSecondary, Term: ref.term})
		case in.secondary.HasID(ref.id):
			score += nameWeight
			nameOnly = true
			matches = append(matches, Match{Kind: MatchName, Term: ref.term})
		}
	}

	contextHits := 0
	for _, ref := range c.context {
		if in.primary.HasID(ref.id) {
			contextHits++
			matches = append(matches, Match{Kind: MatchContext, Term: ref.term})
		}
	}
	score += contextWeight * contextHits

	if nameOnly && !hasPrimary {
		score = max(0, score-nameOnlyPenalty)
	}

	return score, matches
}

// scoreGeneral accumulates a general category's keyword score.
func scoreGeneral(g *compiledGeneral, in texts) (int, []Match) {
	var (
		score   int
		matches []Match
	)

	for _, ref := range g.keywords {
		switch {
		case in.primary.HasID(ref.id):
			score += generalWeight
			matches = append(matches, Match{Kind: MatchKeyword, Term: ref.term})
		case in.secondary.HasID(ref.id):
			score += generalNameWeight
			matches = append(matches, Match{Kind: MatchName, Term: ref.term})
		}
	}

	return score, matches
}
