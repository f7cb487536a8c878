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
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemonic-no/scio/internal/analyzer/postag"
	"github.com/mnemonic-no/scio/internal/record"
	"github.com/mnemonic-no/scio/internal/vocab"
)

func TestNouns_RepublicOfCongoStaysOnePhrase(t *testing.T) {
	tagged := postag.Tag(postag.Tokenize("Republic of Congo"))
	nouns := Nouns(tagged)
	assert.Contains(t, nouns, "Republic of Congo")
	assert.NotContains(t, nouns, "Republic")
}

func withPosTag(t *testing.T, content string) *record.Record {
	t.Helper()
	r := record.New("deadbeef")
	r.Content = content
	snap := r.NewSnapshot()
	res, err := postag.New().Analyze(context.Background(), snap)
	require.NoError(t, err)
	r.Results[postag.Name] = res.Result
	return r
}

func TestAnalyze_CityAndCountryMatch(t *testing.T) {
	gaz := NewGazetteer()
	gaz.AddCity(City{Name: "Oslo", Population: 600000, CountryCode: "NO"})
	gaz.AddCountry(Country{Name: "Norway", Alpha2: "NO"})

	countryVocab, err := vocab.LoadAliases(strings.NewReader("Norway: Norge\n"), nil)
	require.NoError(t, err)

	r := withPosTag(t, "Attackers operating from Oslo targeted Norway.")
	snap := r.NewSnapshot()

	res, err := New(gaz, countryVocab).Analyze(context.Background(), snap)
	require.NoError(t, err)

	m, ok := record.AsMap(res.Result)
	require.True(t, ok)
	assert.Contains(t, m, "cities")
	assert.Contains(t, m, "countries")
	assert.Contains(t, m, "countries_inferred")
}

func TestAnalyze_MissingPosTagDependency(t *testing.T) {
	r := record.New("deadbeef")
	snap := r.NewSnapshot()
	_, err := New(NewGazetteer(), nil).Analyze(context.Background(), snap)
	assert.Error(t, err)
}
