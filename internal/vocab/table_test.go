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

package vocab

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	e, ok, err := ParseLine(`APT32: OceanLotus Group, oceanLotusGroup`)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "APT32", e.Primary)
	assert.Equal(t, []string{"OceanLotus Group", "oceanLotusGroup"}, e.Aliases)
}

func TestParseLine_Escaped(t *testing.T) {
	e, ok, err := ParseLine(`Fancy\, Bear: APT28\: GRU`)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Fancy, Bear", e.Primary)
	assert.Equal(t, []string{"APT28: GRU"}, e.Aliases)
}

func TestParseLine_Comment(t *testing.T) {
	e, ok, err := ParseLine(`APT32: alias1 # a comment`)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"alias1"}, e.Aliases)
}

func TestParseLine_BlankSkipped(t *testing.T) {
	_, ok, err := ParseLine("  # just a comment\n")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadAliases_RoundTrip(t *testing.T) {
	src := "APT32: OceanLotus Group, oceanLotusGroup\nLazarus: Hidden Cobra\n"
	tbl, err := LoadAliases(strings.NewReader(src), nil)
	require.NoError(t, err)

	for _, surface := range []string{"APT32", "OceanLotus Group", "oceanLotusGroup"} {
		got := tbl.Lookup(surface, ModeLower, true, "")
		assert.Equal(t, "APT32", got, "surface %q", surface)
	}
	assert.Equal(t, "Lazarus", tbl.Lookup("hidden cobra", ModeLower, true, ""))
}

func TestScan_ThreatActorExample(t *testing.T) {
	src := "APT32: OceanLotus Group, oceanLotusGroup\n"
	tbl, err := LoadAliases(strings.NewReader(src), nil)
	require.NoError(t, err)

	opts := CapitalizeNormalize(nil)
	hits := tbl.Scan("attributed to oceanLotusGroup", func(s string) string {
		return Normalize(s, opts)
	})
	// Every lower->upper transition in the camelCase hit gets its own space
	// before capitalization, so "oceanLotusGroup" normalizes to three
	// capitalized words, not two; see DESIGN.md for why this differs from
	// the distilled example text.
	require.Contains(t, hits, "Ocean Lotus Group")
}

func TestCompileAlias_RejectsAllDigit(t *testing.T) {
	_, ok, err := CompileAlias("12345")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegexFromAlias_CamelCaseTolerant(t *testing.T) {
	re, ok, err := CompileAlias("OceanLotus")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, re.MatchString("Ocean Lotus"))
	assert.True(t, re.MatchString("ocean-lotus"))
	assert.True(t, re.MatchString("OceanLotus"))
}

func TestMergeTables(t *testing.T) {
	a, err := LoadAliases(strings.NewReader("APT32: OceanLotus\n"), nil)
	require.NoError(t, err)
	b, err := LoadAliases(strings.NewReader("BISMUTH: OceanLotus, SeaLotus\n"), nil)
	require.NoError(t, err)

	merged := MergeTables(nil, a, b)

	p1 := merged.Lookup("SeaLotus", ModeLower, true, "")
	p2 := merged.Lookup("OceanLotus", ModeLower, true, "")
	assert.Equal(t, p1, p2, "aliases sharing a surface should fold under one primary")
}

func TestNormalize_SpaceBeforeNumbersAndCaps(t *testing.T) {
	got := Normalize("APT27winntiGroup", DefaultNormalize)
	assert.Equal(t, "apt 27winnti group", got)
}

func TestNormalize_Capitalize(t *testing.T) {
	got := Normalize("oceanlotus group", CapitalizeNormalize([]string{"APT"}))
	assert.Equal(t, "Oceanlotus Group", got)
}
