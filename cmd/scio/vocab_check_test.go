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

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scitesting "github.com/mnemonic-no/scio/internal/testing"
)

func TestCountLines(t *testing.T) {
	path := scitesting.WriteAliasFile(t, "APT28: Fancy Bear, Sofacy\nLazarus Group\n")

	n, err := countLines(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRunVocabCheck_ValidFileReportsNoError(t *testing.T) {
	path := scitesting.WriteAliasFile(t, "Valid Name: alias one\n")

	err := runVocabCheck([]string{path})
	assert.NoError(t, err)
}
