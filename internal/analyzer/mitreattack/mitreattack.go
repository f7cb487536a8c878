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

// Package mitreattack extracts references to MITRE ATT&CK object IDs
// (Groups, Tactics, Techniques, Sub-Techniques, Software) from document
// text.
package mitreattack

import (
	"context"
	"regexp"

	"github.com/mnemonic-no/scio/internal/record"
	"github.com/mnemonic-no/scio/internal/scheduler"
)

const Name = "mitre_attack"

var (
	reGroup        = regexp.MustCompile(`\bG\d{4}\b`)
	reTactic       = regexp.MustCompile(`\bTA\d{4}\b`)
	reTechniqueAny = regexp.MustCompile(`\bT\d{4}\b`)
	reSubTechnique = regexp.MustCompile(`\bT\d{4}\.\d{3}\b`)
	reSoftware     = regexp.MustCompile(`\bS\d{4}\b`)
)

// Analyzer has no dependencies.
type Analyzer struct{}

func New() *Analyzer { return &Analyzer{} }

func (a *Analyzer) Name() string           { return Name }
func (a *Analyzer) Version() string        { return "0.1" }
func (a *Analyzer) Dependencies() []string { return nil }

func (a *Analyzer) Analyze(ctx context.Context, snap *record.Snapshot) (scheduler.Result, error) {
	text := snap.Content()

	m := map[string]record.Value{}
	add := func(key string, hits []string) {
		if len(hits) == 0 {
			return
		}
		list := make([]record.Value, len(hits))
		for i, h := range hits {
			list[i] = h
		}
		m[key] = list
	}

	add("Groups", reGroup.FindAllString(text, -1))
	add("Tactics", reTactic.FindAllString(text, -1))

	// RE2 has no negative lookahead, so "TNNNN not followed by .NNN" is
	// computed by set subtraction: start indices that a sub-technique
	// match also begins at are dropped from the bare-technique hits.
	subStarts := map[int]bool{}
	var subTechniques []string
	for _, loc := range reSubTechnique.FindAllStringIndex(text, -1) {
		subStarts[loc[0]] = true
		subTechniques = append(subTechniques, text[loc[0]:loc[1]])
	}
	var techniques []string
	for _, loc := range reTechniqueAny.FindAllStringIndex(text, -1) {
		if subStarts[loc[0]] {
			continue
		}
		techniques = append(techniques, text[loc[0]:loc[1]])
	}
	add("Techniques", techniques)
	add("SubTechniques", subTechniques)
	add("Software", reSoftware.FindAllString(text, -1))

	return scheduler.Result{Name: Name, Version: a.Version(), Result: m}, nil
}
