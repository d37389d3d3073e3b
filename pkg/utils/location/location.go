// pkg/utils/location/location.go
package location

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// District import klasör adlarında kabul edilen bölge
type District struct {
	Name   string `json:"name"`    // klasör adındaki yazım, örn: "Dubai Hills"
	NameEn string `json:"name_en"` // boşsa Name kullanılır
	Local  string `json:"local"`   // yerelleştirilmiş ad (opsiyonel)
	City   string `json:"city"`
}

// Catalog is the closed allow-list of districts used by the folder importer.
type Catalog struct {
	districts []District
	byName    map[string]District
}

// NewCatalog builds a catalog from plain names, all located in city.
func NewCatalog(names []string, city string) *Catalog {
	districts := make([]District, 0, len(names))
	for _, n := range names {
		districts = append(districts, District{Name: n, City: city})
	}
	return newCatalog(districts, city)
}

// LoadFile reads a JSON array of districts. Entries without a city get defaultCity.
func LoadFile(path, defaultCity string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var districts []District
	if err := json.Unmarshal(data, &districts); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return newCatalog(districts, defaultCity), nil
}

// Load reads the district file when one is configured, otherwise uses names.
func Load(file string, names []string, city string) (*Catalog, error) {
	if file != "" {
		return LoadFile(file, city)
	}
	return NewCatalog(names, city), nil
}

func newCatalog(districts []District, defaultCity string) *Catalog {
	c := &Catalog{byName: make(map[string]District, len(districts))}
	for _, d := range districts {
		d.Name = strings.TrimSpace(d.Name)
		if d.Name == "" {
			continue
		}
		if _, dup := c.byName[d.Name]; dup {
			continue
		}
		if d.NameEn == "" {
			d.NameEn = d.Name
		}
		if d.Local == "" {
			d.Local = d.Name
		}
		if d.City == "" {
			d.City = defaultCity
		}
		c.districts = append(c.districts, d)
		c.byName[d.Name] = d
	}
	return c
}

// Lookup matches name exactly against the allow-list.
func (c *Catalog) Lookup(name string) (District, bool) {
	d, ok := c.byName[name]
	return d, ok
}

// All tüm bölgeleri döner
func (c *Catalog) All() []District {
	return append([]District(nil), c.districts...)
}

func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.districts))
	for _, d := range c.districts {
		names = append(names, d.Name)
	}
	return names
}
