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

package feeds

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SplitsFullAndPartialFeeds(t *testing.T) {
	input := `f https://example.com/full.rss
p https://example.com/partial.rss
f https://example.com/full2.rss
`
	cfg, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/full.rss", "https://example.com/full2.rss"}, cfg.FullFeeds)
	assert.Equal(t, []string{"https://example.com/partial.rss"}, cfg.PartialFeeds)
}

func TestParse_SkipsMalformedAndEmptyLines(t *testing.T) {
	input := "\nx not-a-feed-line\nf \np https://example.com/ok.rss\n"
	cfg, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/ok.rss"}, cfg.PartialFeeds)
	assert.Empty(t, cfg.FullFeeds)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindFull, kindOf("f http://x"))
	assert.Equal(t, KindPartial, kindOf("p http://x"))
	assert.Equal(t, KindNone, kindOf("x"))
	assert.Equal(t, KindNone, kindOf(""))
}
