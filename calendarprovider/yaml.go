// Package calendarprovider holds reference implementations of the
// openinghours collaborator interfaces (C8) — the "trait-like capability
// providers" the core engine is deliberately ignorant of (§1: locale/region
// resolution and astronomical computation are out of scope for the engine
// itself).
//
// YAMLHolidayProvider is grounded on the same region/year -> dated-holiday
// shape used by the pack's GoHoliday-style holiday data loaders, loaded
// with gopkg.in/yaml.v3 rather than a bespoke parser.
package calendarprovider

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/synthesio/openinghours"
)

// yamlDocument is the on-disk fixture format; each list item is a
// yamlHoliday:
//
//	regions:
//	  AT:
//	    - date: 2024-01-01
//	      name: Neujahr
type yamlDocument struct {
	Regions map[string][]yamlHoliday `yaml:"regions"`
}

type yamlHoliday struct {
	Date string `yaml:"date"`
	Name string `yaml:"name"`
}

// YAMLHolidayProvider answers openinghours.HolidayProvider from a
// region -> []Holiday map decoded from YAML, indexed by region and year for
// repeated lookups.
type YAMLHolidayProvider struct {
	byRegionYear map[string]map[int][]openinghours.Holiday
}

// LoadYAMLHolidayProvider decodes a fixture document of the shape above.
func LoadYAMLHolidayProvider(data []byte) (*YAMLHolidayProvider, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("calendarprovider: decoding holiday fixture: %w", err)
	}

	p := &YAMLHolidayProvider{byRegionYear: make(map[string]map[int][]openinghours.Holiday)}
	for region, entries := range doc.Regions {
		for _, e := range entries {
			d, err := time.Parse("2006-01-02", e.Date)
			if err != nil {
				return nil, fmt.Errorf("calendarprovider: region %s: invalid date %q: %w", region, e.Date, err)
			}
			if p.byRegionYear[region] == nil {
				p.byRegionYear[region] = make(map[int][]openinghours.Holiday)
			}
			year := d.Year()
			p.byRegionYear[region][year] = append(p.byRegionYear[region][year], openinghours.Holiday{Date: d, Name: e.Name})
		}
	}
	return p, nil
}

// PublicHolidays implements openinghours.HolidayProvider.
func (p *YAMLHolidayProvider) PublicHolidays(region string, year int) ([]openinghours.Holiday, error) {
	byYear, ok := p.byRegionYear[region]
	if !ok {
		return nil, fmt.Errorf("calendarprovider: unknown region %q", region)
	}
	return byYear[year], nil
}
