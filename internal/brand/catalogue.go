// Package brand loads the immutable brand reference data the pipeline reads
// from. The catalogue is a YAML document embedded in the binary; a file on
// disk may replace it at startup.
package brand

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"brandstudio/internal/models"
)

//go:embed brands.yaml
var defaultCatalogue []byte

// catalogueFile is the on-disk YAML shape.
type catalogueFile struct {
	Brands []models.Brand `yaml:"brands"`
}

// Catalogue is a read-only index of brands keyed by ID. Safe for concurrent
// use since it is never mutated after construction.
type Catalogue struct {
	brands map[string]models.Brand
	order  []string
}

// Load reads the catalogue from path, or the embedded default when path is
// empty.
func Load(path string) (*Catalogue, error) {
	data := defaultCatalogue
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read brand catalogue: %w", err)
		}
		data = b
	}
	return Parse(data)
}

// Parse decodes a YAML catalogue and validates it: every brand needs an ID
// and a name, and IDs must be unique.
func Parse(data []byte) (*Catalogue, error) {
	var f catalogueFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse brand catalogue: %w", err)
	}

	c := &Catalogue{brands: make(map[string]models.Brand, len(f.Brands))}
	for i, b := range f.Brands {
		b.ID = strings.TrimSpace(b.ID)
		if b.ID == "" || strings.TrimSpace(b.Name) == "" {
			return nil, fmt.Errorf("brand catalogue entry %d: id and name are required", i)
		}
		if _, dup := c.brands[b.ID]; dup {
			return nil, fmt.Errorf("brand catalogue: duplicate id %q", b.ID)
		}
		c.brands[b.ID] = b
		c.order = append(c.order, b.ID)
	}
	if len(c.brands) == 0 {
		return nil, fmt.Errorf("brand catalogue is empty")
	}
	sort.Strings(c.order)
	return c, nil
}

// Get returns a brand by ID.
func (c *Catalogue) Get(id string) (models.Brand, bool) {
	b, ok := c.brands[id]
	return b, ok
}

// List returns all brands sorted by ID.
func (c *Catalogue) List() []models.Brand {
	out := make([]models.Brand, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.brands[id])
	}
	return out
}

// IDs returns all brand IDs sorted.
func (c *Catalogue) IDs() []string {
	return append([]string(nil), c.order...)
}
