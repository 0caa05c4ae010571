package industry

import (
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default_taxonomy.yaml
var defaultTaxonomyYAML []byte

type taxonomyDocument struct {
	Categories []Category        `yaml:"categories"`
	General    []GeneralCategory `yaml:"general"`
}

// DefaultTaxonomy parses the taxonomy shipped with the binary. Each call
// returns a fresh value; callers build it once and share it.
func DefaultTaxonomy() (*Taxonomy, error) {
	t, err := ParseTaxonomy(defaultTaxonomyYAML)
	if err != nil {
		return nil, fmt.Errorf("default taxonomy: %w", err)
	}
	return t, nil
}

// ParseTaxonomy decodes and validates a YAML taxonomy document.
func ParseTaxonomy(data []byte) (*Taxonomy, error) {
	var doc taxonomyDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode yaml: %w", ErrInvalidTaxonomy, err)
	}
	return NewTaxonomy(doc.Categories, doc.General)
}

// LoadTaxonomyFile reads and validates a YAML taxonomy from disk.
func LoadTaxonomyFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy %s: %w", path, err)
	}

	t, err := ParseTaxonomy(data)
	if err != nil {
		return nil, fmt.Errorf("taxonomy %s: %w", path, err)
	}
	return t, nil
}

// WriteYAML encodes the taxonomy in the same format ParseTaxonomy reads.
func (t *Taxonomy) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	doc := taxonomyDocument{Categories: t.Categories(), General: t.General()}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode taxonomy: %w", err)
	}
	return enc.Close()
}
