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

// Package testing provides test fixtures shared across SCIO's unit and
// integration tests: temp alias files, a minimal record builder, and a
// deterministic clock for the pipeline's Analyzed-Date stamping.
//
// # Quick start
//
//	func TestMyAnalyzer(t *testing.T) {
//	    path := testing.WriteAliasFile(t, "APT32: OceanLotus Group, oceanLotusGroup\n")
//	    tbl, err := vocab.LoadAliasFile(path)
//	    require.NoError(t, err)
//	    ...
//	}
package testing
