package casework

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed alertable_types.yaml
var alertableCatalogYAML []byte

// AlertableInfo is the human-facing description of an alertable type.
type AlertableInfo struct {
	Subject     string `yaml:"subject" json:"subject"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

type Catalog map[AlertableType]AlertableInfo

// ParseCatalog decodes raw and checks it covers the enumeration exactly.
func ParseCatalog(raw []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode alertable catalog: %w", err)
	}
	for k := range c {
		if !k.Valid() {
			return nil, fmt.Errorf("alertable catalog: unknown type %q", k)
		}
	}
	for _, k := range alertableTypes {
		info, ok := c[k]
		if !ok || info.Name == "" {
			return nil, fmt.Errorf("alertable catalog: missing entry for %q", k)
		}
	}
	return c, nil
}

var (
	catalogOnce sync.Once
	catalog     Catalog
)

// DefaultCatalog returns the embedded catalog. The embedded file is part of
// the binary, so a bad one is a build defect and panics.
func DefaultCatalog() Catalog {
	catalogOnce.Do(func() {
		c, err := ParseCatalog(alertableCatalogYAML)
		if err != nil {
			panic(err)
		}
		catalog = c
	})
	return catalog
}

func (c Catalog) Name(t AlertableType) string        { return c[t].Name }
func (c Catalog) Description(t AlertableType) string { return c[t].Description }
