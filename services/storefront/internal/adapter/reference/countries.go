// Package reference serves static reference data bundled with the binary.
package reference

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bitss-one/storefront-monorepo/services/storefront/internal/domain/entity"
)

//go:embed countries.yaml
var countriesYAML []byte

// Countries is an immutable country list with lookups by code and name.
type Countries struct {
	list   []entity.Country
	byCode map[string]entity.Country
	byName map[string]entity.Country
}

// LoadCountries parses the bundled country list
func LoadCountries() (*Countries, error) {
	return ParseCountries(countriesYAML)
}

// ParseCountries parses a YAML sequence of {name, code} entries.
func ParseCountries(data []byte) (*Countries, error) {
	var list []entity.Country
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse country list: %w", err)
	}

	c := &Countries{
		list:   list,
		byCode: make(map[string]entity.Country, len(list)),
		byName: make(map[string]entity.Country, len(list)),
	}
	for i, country := range list {
		if len(country.Code) != 2 || country.Name == "" {
			return nil, fmt.Errorf("invalid country entry %d: %+v", i, country)
		}
		c.byCode[strings.ToUpper(country.Code)] = country
		c.byName[strings.ToLower(country.Name)] = country
	}
	return c, nil
}

// All returns a copy of the list in display order.
func (c *Countries) All() []entity.Country {
	out := make([]entity.Country, len(c.list))
	copy(out, c.list)
	return out
}

// Lookup resolves a country by alpha-2 code or by name, ignoring case.
func (c *Countries) Lookup(value string) (entity.Country, bool) {
	value = strings.TrimSpace(value)
	if len(value) == 2 {
		if country, ok := c.byCode[strings.ToUpper(value)]; ok {
			return country, true
		}
	}
	country, ok := c.byName[strings.ToLower(value)]
	return country, ok
}
