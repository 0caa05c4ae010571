// Package discovery finds candidate company profile URLs for a search.
package discovery

import (
	"strings"
)

// Query describes the companies to look for.
type Query struct {
	Keywords     string   `json:"keywords"`
	Country      string   `json:"country"`
	Size         string   `json:"size"`
	FoundedYears []string `json:"founded_years,omitempty"`
}

// String renders the search engine query, e.g.
// "IT services companies United Kingdom (2015 OR 2016) employees 51-200".
// The year group is omitted when no years are set.
func (q Query) String() string {
	var b strings.Builder
	b.WriteString(q.Keywords)
	b.WriteString(" companies ")
	b.WriteString(q.Country)

	var years []string
	for _, y := range q.FoundedYears {
		if y = strings.TrimSpace(y); y != "" {
			years = append(years, y)
		}
	}
	if len(years) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(years, " OR "))
		b.WriteString(")")
	}

	b.WriteString(" employees ")
	b.WriteString(q.Size)
	return b.String()
}

// ParseYears splits a comma separated year list, dropping blanks.
func ParseYears(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// terms returns the lowercased words of the keywords with the generic
// "company"/"companies" words removed.
func (q Query) terms() []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(q.Keywords)) {
		if w == "company" || w == "companies" {
			continue
		}
		out = append(out, w)
	}
	return out
}
