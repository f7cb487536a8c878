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

package vulnerabilities

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemonic-no/scio/internal/record"
)

func TestAnalyze_CVEAndMSID(t *testing.T) {
	r := record.New("deadbeef")
	r.Content = "Affected by cve-2021-34527 and MS17-010."
	snap := r.NewSnapshot()

	res, err := New().Analyze(context.Background(), snap)
	require.NoError(t, err)

	m, ok := record.AsMap(res.Result)
	require.True(t, ok)
	assert.Equal(t, record.List("cve-2021-34527"), m["cve"])
	assert.Equal(t, record.List("MS17-010"), m["msid"])
}

func TestAnalyze_NoMatches(t *testing.T) {
	r := record.New("deadbeef")
	r.Content = "nothing here"
	snap := r.NewSnapshot()

	res, err := New().Analyze(context.Background(), snap)
	require.NoError(t, err)
	m, ok := record.AsMap(res.Result)
	require.True(t, ok)
	assert.Empty(t, m)
}
