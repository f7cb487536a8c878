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

package sectors

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

func TestAnalyze_AviationAndAutomobileIndustry(t *testing.T) {
	tbl, err := vocab.LoadAliases(strings.NewReader(
		"aerospace: Aviation\nautomotive: Automobile\n"), nil)
	require.NoError(t, err)

	r := withPosTag(t, "The Aviation and Automobile industry is large.")
	snap := r.NewSnapshot()

	res, err := New(tbl).Analyze(context.Background(), snap)
	require.NoError(t, err)

	m, ok := record.AsMap(res.Result)
	require.True(t, ok)
	sectorsFound, ok := record.AsList(m["sectors"])
	require.True(t, ok)
	assert.Contains(t, sectorsFound, record.Value("automotive"))
	assert.Contains(t, sectorsFound, record.Value("aerospace"))
}

func TestAnalyze_MissingPosTagDependency(t *testing.T) {
	r := record.New("deadbeef")
	r.Content = "no pos_tag ran"
	snap := r.NewSnapshot()

	_, err := New(vocab.NewTable(nil)).Analyze(context.Background(), snap)
	assert.Error(t, err)
}
