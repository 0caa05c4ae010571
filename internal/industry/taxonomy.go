// Package industry classifies a business into an industry label from its
// domain, display name and description.
//
// Classification is a three stage cascade over an immutable Taxonomy:
// the best scoring taxonomy category when it reaches the minimum score, else
// the first general category that reaches the general minimum, else "Other".
package industry

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTaxonomy is returned when a taxonomy fails validation.
var ErrInvalidTaxonomy = errors.New("invalid taxonomy")

// Category is one industry label with its three tiers of terms.
type Category struct {
	Label     string   `yaml:"label"`
	Primary   []string `yaml:"primary"`
	Secondary []string `yaml:"secondary"`
	Context   []string `yaml:"context"`
}

// GeneralCategory is a coarse label with a flat keyword list, consulted when
// no taxonomy category is confident enough.
type GeneralCategory struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// Taxonomy is a validated, ordered set of categories. Declaration order
// breaks score ties. A Taxonomy is never mutated after construction.
type Taxonomy struct {
	categories []Category
	general    []GeneralCategory
}

// NewTaxonomy validates and normalizes the given categories. Terms are
// trimmed and lowercased; the inputs are copied.
func NewTaxonomy(categories []Category, general []GeneralCategory) (*Taxonomy, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("%w: at least one category is required", ErrInvalidTaxonomy)
	}

	t := &Taxonomy{
		categories: make([]Category, 0, len(categories)),
		general:    make([]GeneralCategory, 0, len(general)),
	}

	labels := make(map[string]struct{}, len(categories))
	for i, c := range categories {
		label, err := checkLabel(c.Label, labels)
		if err != nil {
			return nil, fmt.Errorf("%w: category %d: %w", ErrInvalidTaxonomy, i, err)
		}

		nc := Category{Label: label}
		if nc.Primary, err = normalizeTerms(c.Primary); err != nil {
			return nil, fmt.Errorf("%w: category %q primary: %w", ErrInvalidTaxonomy, label, err)
		}
		if nc.Secondary, err = normalizeTerms(c.Secondary); err != nil {
			return nil, fmt.Errorf("%w: category %q secondary: %w", ErrInvalidTaxonomy, label, err)
		}
		if nc.Context, err = normalizeTerms(c.Context); err != nil {
			return nil, fmt.Errorf("%w: category %q context: %w", ErrInvalidTaxonomy, label, err)
		}
		t.categories = append(t.categories, nc)
	}

	generalLabels := make(map[string]struct{}, len(general))
	for i, g := range general {
		label, err := checkLabel(g.Label, generalLabels)
		if err != nil {
			return nil, fmt.Errorf("%w: general category %d: %w", ErrInvalidTaxonomy, i, err)
		}

		ng := GeneralCategory{Label: label}
		if ng.Keywords, err = normalizeTerms(g.Keywords); err != nil {
			return nil, fmt.Errorf("%w: general category %q: %w", ErrInvalidTaxonomy, label, err)
		}
		t.general = append(t.general, ng)
	}

	return t, nil
}

func checkLabel(raw string, seen map[string]struct{}) (string, error) {
	label := strings.TrimSpace(raw)
	if label == "" {
		return "", errors.New("empty label")
	}
	if label == OtherLabel {
		return "", fmt.Errorf("label %q is reserved", OtherLabel)
	}
	if _, dup := seen[label]; dup {
		return "", fmt.Errorf("duplicate label %q", label)
	}
	seen[label] = struct{}{}
	return label, nil
}

func normalizeTerms(terms []string) ([]string, error) {
	out := make([]string, 0, len(terms))
	seen := make(map[string]struct{}, len(terms))
	for _, raw := range terms {
		term := normalizeText(strings.TrimSpace(raw))
		if term == "" {
			return nil, errors.New("empty term")
		}
		if _, dup := seen[term]; dup {
			return nil, fmt.Errorf("duplicate term %q", term)
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	return out, nil
}

func normalizeText(s string) string {
	return strings.ToLower(s)
}

// Categories returns a copy of the taxonomy categories in declaration order.
func (t *Taxonomy) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, c := range t.categories {
		out[i] = Category{
			Label:     c.Label,
			Primary:   append([]string(nil), c.Primary...),
			Secondary: append([]string(nil), c.Secondary...),
			Context:   append([]string(nil), c.Context...),
		}
	}
	return out
}

// General returns a copy of the general categories in declaration order.
func (t *Taxonomy) General() []GeneralCategory {
	out := make([]GeneralCategory, len(t.general))
	for i, g := range t.general {
		out[i] = GeneralCategory{
			Label:    g.Label,
			Keywords: append([]string(nil), g.Keywords...),
		}
	}
	return out
}

// Labels returns the taxonomy category labels in declaration order.
func (t *Taxonomy) Labels() []string {
	labels := make([]string, len(t.categories))
	for i, c := range t.categories {
		labels[i] = c.Label
	}
	return labels
}

// TermCount returns the total number of terms across all tiers.
func (t *Taxonomy) TermCount() int {
	n := 0
	for _, c := range t.categories {
		n += len(c.Primary) + len(c.Secondary) + len(c.Context)
	}
	for _, g := range t.general {
		n += len(g.Keywords)
	}
	return n
}
