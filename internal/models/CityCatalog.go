package models

import (
	"sort"

	json "github.com/goccy/go-json"
)

const DefaultMethod = 2

// CityEntry is the time-service input for one city.
type CityEntry struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	TZ     string  `json:"tz"`
	Method int     `json:"method"`
}

type cityEntryWire struct {
	Lat    *float64 `json:"lat"`
	Lon    *float64 `json:"lon"`
	TZ     string   `json:"tz"`
	Method *int     `json:"method"`
}

// CityCatalog maps country key -> city name -> CityEntry. It is read-only once
// built; replacing the catalog means building a new value.
type CityCatalog struct {
	countries map[string]map[string]CityEntry
}

func NewCityCatalog(countries map[string]map[string]CityEntry) *CityCatalog {
	if countries == nil {
		countries = make(map[string]map[string]CityEntry)
	}
	return &CityCatalog{countries: countries}
}

func EmptyCityCatalog() *CityCatalog {
	return NewCityCatalog(nil)
}

func (c *CityCatalog) Lookup(city, country string) (CityEntry, bool) {
	if c == nil {
		return CityEntry{}, false
	}
	entry, ok := c.countries[country][city]
	return entry, ok
}

func (c *CityCatalog) Countries() []string {
	if c == nil {
		return nil
	}
	keys := make([]string, 0, len(c.countries))
	for k := range c.countries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *CityCatalog) Cities(country string) []string {
	if c == nil {
		return nil
	}
	cities := c.countries[country]
	keys := make([]string, 0, len(cities))
	for k := range cities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the total number of cities across all countries.
func (c *CityCatalog) Len() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, cities := range c.countries {
		n += len(cities)
	}
	return n
}

func (c *CityCatalog) IsEmpty() bool {
	return c.Len() == 0
}

func (c *CityCatalog) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c.countries)
}

// UnmarshalJSON drops entries without coordinates; a missing method falls back
// to DefaultMethod.
func (c *CityCatalog) UnmarshalJSON(data []byte) error {
	var raw map[string]map[string]cityEntryWire
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	countries := make(map[string]map[string]CityEntry, len(raw))
	for country, cities := range raw {
		entries := make(map[string]CityEntry, len(cities))
		for name, w := range cities {
			if w.Lat == nil || w.Lon == nil {
				continue
			}
			entry := CityEntry{Lat: *w.Lat, Lon: *w.Lon, TZ: w.TZ, Method: DefaultMethod}
			if w.Method != nil {
				entry.Method = *w.Method
			}
			entries[name] = entry
		}
		countries[country] = entries
	}
	c.countries = countries
	return nil
}
