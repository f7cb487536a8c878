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

// Package tools implements the tools (pattern) analyzer: a vocabulary scan
// over document text for known malware/tool names. Hits are reported as
// they appear in the text: no normalization is applied, unlike the
// threatactor analyzer's capitalized display form.
package tools

import (
	"context"

	"github.com/mnemonic-no/scio/internal/record"
	"github.com/mnemonic-no/scio/internal/scheduler"
	"github.com/mnemonic-no/scio/internal/vocab"
)

const Name = "tools"

// Analyzer scans text against a pre-loaded tool alias table. No deps.
type Analyzer struct {
	table *vocab.Table
}

func New(table *vocab.Table) *Analyzer { return &Analyzer{table: table} }

func (a *Analyzer) Name() string           { return Name }
func (a *Analyzer) Version() string        { return "0.2" }
func (a *Analyzer) Dependencies() []string { return nil }

func (a *Analyzer) Analyze(ctx context.Context, snap *record.Snapshot) (scheduler.Result, error) {
	hits := a.table.Scan(snap.Content(), nil)

	m := map[string]record.Value{}
	if len(hits) > 0 {
		list := make([]record.Value, len(hits))
		for i, h := range hits {
			list[i] = h
		}
		m["Tools"] = list
	}

	return scheduler.Result{Name: Name, Version: a.Version(), Result: m}, nil
}
