package industry_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/industry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTaxonomy(t *testing.T) {
	tax, err := industry.DefaultTaxonomy()
	require.NoError(t, err)

	labels := tax.Labels()
	assert.GreaterOrEqual(t, len(labels), 29)
	assert.Equal(t, "Cloud Services", labels[0])
	assert.Contains(t, labels, "Software Development")
	assert.Contains(t, labels, "Legal Services")

	general := tax.General()
	require.Len(t, general, 4)
	assert.Equal(t, "Technology", general[0].Label)
}

func TestDefaultTaxonomy_AvoidsShortTerms(t *testing.T) {
	tax, err := industry.DefaultTaxonomy()
	require.NoError(t, err)

	for _, c := range tax.Categories() {
		for _, tier := range [][]string{c.Primary, c.Secondary, c.Context} {
			for _, term := range tier {
				assert.Greater(t, len(term), 2, "%s: term %q matches inside too many words", c.Label, term)
			}
		}
	}
}

func TestNewTaxonomy_Normalizes(t *testing.T) {
	tax, err := industry.NewTaxonomy([]industry.Category{
		{Label: "  Cloud  ", Primary: []string{" Cloud Computing "}, Secondary: []string{"AWS"}},
	}, []industry.GeneralCategory{{Label: "Tech", Keywords: []string{"TECH"}}})
	require.NoError(t, err)

	cats := tax.Categories()
	require.Len(t, cats, 1)
	assert.Equal(t, "Cloud", cats[0].Label)
	assert.Equal(t, []string{"cloud computing"}, cats[0].Primary)
	assert.Equal(t, []string{"aws"}, cats[0].Secondary)
	assert.Equal(t, []string{"tech"}, tax.General()[0].Keywords)
	assert.Equal(t, 3, tax.TermCount())
}

func TestNewTaxonomy_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		categories []industry.Category
		general    []industry.GeneralCategory
	}{
		{name: "no categories"},
		{name: "empty label", categories: []industry.Category{{Label: " "}}},
		{name: "reserved label", categories: []industry.Category{{Label: "Other"}}},
		{name: "duplicate label", categories: []industry.Category{{Label: "A"}, {Label: "A"}}},
		{name: "empty term", categories: []industry.Category{{Label: "A", Context: []string{""}}}},
		{name: "duplicate term after normalizing", categories: []industry.Category{{Label: "A", Secondary: []string{"Cloud", "cloud "}}}},
		{
			name:       "duplicate general label",
			categories: []industry.Category{{Label: "A"}},
			general:    []industry.GeneralCategory{{Label: "G"}, {Label: "G"}},
		},
		{
			name:       "empty general keyword",
			categories: []industry.Category{{Label: "A"}},
			general:    []industry.GeneralCategory{{Label: "G", Keywords: []string{" "}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := industry.NewTaxonomy(tt.categories, tt.general)
			require.Error(t, err)
			assert.True(t, errors.Is(err, industry.ErrInvalidTaxonomy))
		})
	}
}

func TestNewTaxonomy_SameTermAcrossTiersIsAllowed(t *testing.T) {
	_, err := industry.NewTaxonomy([]industry.Category{
		{Label: "A", Secondary: []string{"clinical"}, Context: []string{"clinical"}},
		{Label: "B", Context: []string{"clinical"}},
	}, nil)
	require.NoError(t, err)
}

func TestTaxonomy_AccessorsReturnCopies(t *testing.T) {
	tax, err := industry.NewTaxonomy([]industry.Category{{Label: "A", Primary: []string{"alpha beta"}}}, nil)
	require.NoError(t, err)

	cats := tax.Categories()
	cats[0].Label = "mutated"
	cats[0].Primary[0] = "mutated"

	again := tax.Categories()
	assert.Equal(t, "A", again[0].Label)
	assert.Equal(t, []string{"alpha beta"}, again[0].Primary)
}

func TestParseTaxonomy_InvalidYAML(t *testing.T) {
	_, err := industry.ParseTaxonomy([]byte("categories: [unterminated"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, industry.ErrInvalidTaxonomy))
}

func TestLoadTaxonomyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
categories:
  - label: Widgets
    primary: [widget manufacturing]
    secondary: [widgets]
general:
  - label: Industrial
    keywords: [factory, plant]
`), 0o600))

	tax, err := industry.LoadTaxonomyFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Widgets"}, tax.Labels())

	_, err = industry.LoadTaxonomyFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestWriteYAML_CanBeParsedBack(t *testing.T) {
	tax, err := industry.DefaultTaxonomy()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tax.WriteYAML(&buf))

	parsed, err := industry.ParseTaxonomy(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, tax.Categories(), parsed.Categories())
	assert.Equal(t, tax.General(), parsed.General())
}
