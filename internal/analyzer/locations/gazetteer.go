// Copyright 2026 SCIO Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package locations

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"
)

// City is one entry from the GeoNames-style cities gazetteer.
type City struct {
	Name        string `json:"name"`
	Population  int    `json:"population"`
	CountryCode string `json:"country_code"`
	Area        string `json:"area,omitempty"`
}

// Country is one entry from the ISO-3166 countries gazetteer.
type Country struct {
	Name    string `json:"name"`
	Alpha2  string `json:"alpha-2"`
	Alpha3  string `json:"alpha-3,omitempty"`
	Region  string `json:"region,omitempty"`
}

// Gazetteer holds the cities-by-name and countries-by-name/alpha-2 indices
// the locations analyzer matches proper-noun phrases against.
type Gazetteer struct {
	citiesByName    map[string]City
	countriesByName map[string]Country
	countriesByCC   map[string]Country
}

// NewGazetteer returns an empty, ready-to-populate Gazetteer.
func NewGazetteer() *Gazetteer {
	return &Gazetteer{
		citiesByName:    map[string]City{},
		countriesByName: map[string]Country{},
		countriesByCC:   map[string]Country{},
	}
}

// AddCity indexes city, keeping the higher-population entry on a name
// collision ("max population wins" on duplicate city names).
func (g *Gazetteer) AddCity(c City) {
	if existing, ok := g.citiesByName[c.Name]; ok && existing.Population >= c.Population {
		return
	}
	g.citiesByName[c.Name] = c
}

// AddCountry indexes country by both its display name and alpha-2 code.
func (g *Gazetteer) AddCountry(c Country) {
	g.countriesByName[c.Name] = c
	if c.Alpha2 != "" {
		g.countriesByCC[c.Alpha2] = c
	}
}

// City looks up a candidate phrase in the cities index.
func (g *Gazetteer) City(name string) (City, bool) {
	c, ok := g.citiesByName[name]
	return c, ok
}

// CountryByName looks up a candidate phrase in the countries-by-name index.
func (g *Gazetteer) CountryByName(name string) (Country, bool) {
	c, ok := g.countriesByName[name]
	return c, ok
}

// CountryByCC resolves a country by its alpha-2 code, falling back to an
// "UNK" placeholder when the code is not recognized, matching the
// original's country_cc.get(cc, "UNK") behavior.
func (g *Gazetteer) CountryByCC(cc string) Country {
	if c, ok := g.countriesByCC[cc]; ok {
		return c
	}
	return Country{Name: "UNK", Alpha2: cc}
}

// LoadCitiesTSV parses a GeoNames-style tab-separated cities file: the
// fields are positional, matching geonames' cities15000.txt layout
// (id, name, ..., country-code at index 8, ..., population at index 14,
// ..., area at index 17), as consumed by the original's csv.reader with
// dialect="excel-tab".
func LoadCitiesTSV(r io.Reader) ([]City, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var out []City
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) < 18 {
			continue
		}
		name := rec[1]
		if idx := strings.Index(name, ","); idx >= 0 {
			name = name[:idx]
		}
		pop, _ := strconv.Atoi(rec[14])
		out = append(out, City{
			Name:        name,
			Population:  pop,
			CountryCode: rec[8],
			Area:        rec[17],
		})
	}
	return out, nil
}

// LoadCountriesJSON parses a JSON array of country objects with "name" and
// "alpha-2" fields, matching the original's countries_from_file format.
func LoadCountriesJSON(r io.Reader) ([]Country, error) {
	var raw []Country
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}
