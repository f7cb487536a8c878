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

// Package sectors implements the sectors analyzer: it depends on pos_tag,
// walks the tagged token stream looking for a noun whose Porter stem marks
// it as a sector-indicating word ("company", "industry", "sector",
// "service", "organization", "provider"), then looks backward across a
// run of nouns and list-separator tokens to collect the sector name
// candidates, mapped through the sector vocabulary's stem index.
package sectors

import (
	"context"

	"github.com/mnemonic-no/scio/internal/analyzer/postag"
	"github.com/mnemonic-no/scio/internal/record"
	"github.com/mnemonic-no/scio/internal/scheduler"
	"github.com/mnemonic-no/scio/internal/vocab"
	"github.com/mnemonic-no/scio/internal/vocab/stem"
)

const Name = "sectors"

// sectorStemPostfix is the fixed set of Porter stems that mark a noun as
// a sector-indicator word.
var sectorStemPostfix = map[string]bool{
	"compani": true, "industri": true, "sector": true,
	"servic": true, "organ": true, "provid": true,
}

var possibleTagTypes = map[string]bool{"NNP": true, "NNPS": true, "NN": true, "NNS": true}

var lookbeforeTags = map[string]bool{",": true, ":": true, "CC": true, "NNP": true, "NNPS": true, "NN": true, "NNS": true}

// Analyzer depends on pos_tag.
type Analyzer struct {
	table *vocab.Table
}

// New constructs the analyzer from the pre-loaded sector alias table.
func New(table *vocab.Table) *Analyzer { return &Analyzer{table: table} }

func (a *Analyzer) Name() string           { return Name }
func (a *Analyzer) Version() string        { return "0.1" }
func (a *Analyzer) Dependencies() []string { return []string{postag.Name} }

func (a *Analyzer) Analyze(ctx context.Context, snap *record.Snapshot) (scheduler.Result, error) {
	tokens, ok := postag.Tagged(snap)
	if !ok {
		return scheduler.Result{}, &MissingDependencyError{}
	}

	var candidates []string
	for i, tok := range tokens {
		if !possibleTagTypes[tok.Tag] || !sectorStemPostfix[stem.Stem(tok.Text)] {
			continue
		}
		n := i - 1
		for n >= 0 && lookbeforeTags[tokens[n].Tag] {
			n--
		}
		n++
		for _, before := range tokens[n:i] {
			if possibleTagTypes[before.Tag] {
				candidates = append(candidates, before.Text)
			}
		}
	}

	var sectorsFound, unknown []string
	for _, cand := range candidates {
		primary := a.table.Lookup(cand, vocab.ModeStem, true, "")
		if primary != "" {
			sectorsFound = append(sectorsFound, primary)
		} else {
			unknown = append(unknown, cand)
		}
	}

	m := map[string]record.Value{}
	if len(sectorsFound) > 0 {
		m["sectors"] = toList(sectorsFound)
	}
	if len(unknown) > 0 {
		m["unknown_sectors"] = toList(unknown)
	}

	return scheduler.Result{Name: Name, Version: a.Version(), Result: m}, nil
}

func toList(ss []string) []record.Value {
	out := make([]record.Value, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// MissingDependencyError is returned when pos_tag's output is absent from
// the snapshot (it failed or was skipped in an earlier wave).
type MissingDependencyError struct{}

func (e *MissingDependencyError) Error() string {
	return "sectors: pos_tag result missing from snapshot"
}
