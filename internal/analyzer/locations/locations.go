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

// Package locations implements the locations analyzer. It depends on
// pos_tag, reconstructs proper-noun phrases from the tagged token stream
// (treating "IN" as a phrase-internal joiner so "Republic of Congo" stays
// one candidate), then matches each candidate against a cities gazetteer
// (picking the highest-population city on a name collision), a countries
// gazetteer, and a free-form country-alias vocabulary.
package locations

import (
	"context"

	"github.com/mnemonic-no/scio/internal/analyzer/postag"
	"github.com/mnemonic-no/scio/internal/record"
	"github.com/mnemonic-no/scio/internal/scheduler"
	"github.com/mnemonic-no/scio/internal/vocab"
)

const Name = "locations"

// Analyzer depends on pos_tag.
type Analyzer struct {
	gaz          *Gazetteer
	countryVocab *vocab.Table
}

// New constructs the analyzer from a pre-loaded gazetteer and the country
// alias vocabulary used for the "countries_mentioned" free-text signal.
func New(gaz *Gazetteer, countryVocab *vocab.Table) *Analyzer {
	return &Analyzer{gaz: gaz, countryVocab: countryVocab}
}

func (a *Analyzer) Name() string           { return Name }
func (a *Analyzer) Version() string        { return "0.1" }
func (a *Analyzer) Dependencies() []string { return []string{postag.Name} }

func (a *Analyzer) Analyze(ctx context.Context, snap *record.Snapshot) (scheduler.Result, error) {
	tokens, ok := postag.Tagged(snap)
	if !ok {
		return scheduler.Result{}, &MissingDependencyError{}
	}

	candidates := Nouns(tokens)

	var cities []City
	var countries []Country
	var countriesInferred []Country
	var countriesMentioned []string

	for _, cand := range candidates {
		if city, ok := a.gaz.City(cand); ok {
			cities = append(cities, city)
			countriesInferred = append(countriesInferred, a.gaz.CountryByCC(city.CountryCode))
		}
		if country, ok := a.gaz.CountryByName(cand); ok {
			countries = append(countries, country)
		}
		if a.countryVocab != nil && a.countryVocab.Has(cand, vocab.ModeLower) {
			countriesMentioned = append(countriesMentioned, cand)
		}
	}

	m := map[string]record.Value{}
	if len(cities) > 0 {
		m["cities"] = citiesToValue(cities)
	}
	if len(countries) > 0 {
		m["countries"] = countriesToValue(countries)
	}
	if len(countriesInferred) > 0 {
		m["countries_inferred"] = countriesToValue(countriesInferred)
	}
	if len(countriesMentioned) > 0 {
		list := make([]record.Value, len(countriesMentioned))
		for i, s := range countriesMentioned {
			list[i] = s
		}
		m["countries_mentioned"] = list
	}

	return scheduler.Result{Name: Name, Version: a.Version(), Result: m}, nil
}

// Nouns reconstructs candidate proper-noun phrases from a tagged token
// sequence. A run of NNP tokens forms a candidate; a trailing "IN" (e.g.
// "of") is not kept as the end of a phrase on its own, but is folded into
// the in-progress phrase so "Republic of Congo" survives as one candidate
// ("Republic" alone is dropped once "of" follows it, per the original's
// "do not keep first part of Noun containing a preposition" rule).
func Nouns(tokens []postag.Token) []string {
	seen := map[string]bool{}
	var out []string
	add := func(phrase string) {
		if phrase == "" || seen[phrase] {
			return
		}
		seen[phrase] = true
		out = append(out, phrase)
	}

	var currName []string
	var currInName []string

	for i, tok := range tokens {
		switch tok.Tag {
		case "NNP":
			if i < len(tokens)-1 && tokens[i+1].Tag != "IN" {
				currName = append(currName, tok.Text)
			}
			currInName = append(currInName, tok.Text)
		case "IN":
			if len(currInName) > 0 {
				currInName = append(currInName, tok.Text)
			}
			if len(currName) > 0 {
				add(joinWords(currName))
				currName = nil
			}
		default:
			if len(currName) > 0 {
				add(joinWords(currName))
				currName = nil
			}
			if len(currInName) > 0 {
				add(joinWords(currInName))
				currInName = nil
			}
		}
	}
	if len(currName) > 0 {
		add(joinWords(currName))
	}
	if len(currInName) > 0 {
		add(joinWords(currInName))
	}
	return out
}

func joinWords(words []string) string {
	out := ""
	for i, w := range words {
		if i > 0 {
			out += " "
		}
		out += w
	}
	return out
}

func citiesToValue(cities []City) []record.Value {
	out := make([]record.Value, len(cities))
	for i, c := range cities {
		out[i] = record.Map(map[string]record.Value{
			"name":         c.Name,
			"population":   float64(c.Population),
			"country code": c.CountryCode,
			"area":         c.Area,
		})
	}
	return out
}

func countriesToValue(countries []Country) []record.Value {
	out := make([]record.Value, len(countries))
	for i, c := range countries {
		out[i] = record.Map(map[string]record.Value{
			"name":    c.Name,
			"alpha-2": c.Alpha2,
			"alpha-3": c.Alpha3,
			"region":  c.Region,
		})
	}
	return out
}

// MissingDependencyError is returned when pos_tag's output is absent from
// the snapshot.
type MissingDependencyError struct{}

func (e *MissingDependencyError) Error() string {
	return "locations: pos_tag result missing from snapshot"
}
