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

package testing

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mnemonic-no/scio/internal/record"
)

// WriteAliasFile writes content to a temp file and returns its path.
// The file is cleaned up automatically with the test's temp dir.
func WriteAliasFile(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write alias fixture: %v", err)
	}
	return path
}

// NewRecord returns a minimal AnalysisRecord populated with the given
// content, suitable for feeding into analyzers under test.
func NewRecord(hexdigest, content string) *record.Record {
	r := record.New(hexdigest)
	r.Content = content
	return r
}

// FixedClock returns a clock function that always returns the same instant,
// useful for asserting on Analyzed-Date/Creation-Date without flakiness.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
