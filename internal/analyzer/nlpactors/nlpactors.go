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

// Package nlpactors implements the nlp_actors analyzer: a two-stage scan
// over the pos_tag token stream that looks for a "threat word" (stem in a
// fixed set) followed — with intervening tag-compatible tokens allowed —
// by a "group word" (stem in a second fixed set), then walks backward
// collecting proper-noun phrases as candidate threat-actor names.
package nlpactors

import (
	"context"

	"github.com/mnemonic-no/scio/internal/analyzer/postag"
	"github.com/mnemonic-no/scio/internal/record"
	"github.com/mnemonic-no/scio/internal/scheduler"
	"github.com/mnemonic-no/scio/internal/vocab/stem"
)

const Name = "nlp_actors"

var threatStemPostfix = map[string]bool{
	"threat": true, "crimin": true, "crime": true, "espionage": true,
	"hack": true, "hacker": true, "crack": true, "cracker": true,
	"adversari": true, "terrorist": true,
}

var groupStemPostfix = map[string]bool{
	"group": true, "actor": true, "unit": true, "agent": true, "organ": true,
}

var falsePositiveFilter = map[string]bool{"top": true, "unknown": true, "cyber": true}

var possibleTaTagTypes = map[string]bool{"NNP": true, "NNPS": true, "NN": true, "NNS": true}
var possibleTagTypes = map[string]bool{"NNP": true, "NNPS": true, "NN": true, "NNS": true, "JJ": true, "JJS": true}
var chainTags = map[string]bool{",": true, ":": true, "CC": true}

func isUpperFirst(s string) bool {
	if s == "" {
		return false
	}
	r := []rune(s)[0]
	return r >= 'A' && r <= 'Z'
}

// Analyzer depends on pos_tag.
type Analyzer struct{}

func New() *Analyzer { return &Analyzer{} }

func (a *Analyzer) Name() string           { return Name }
func (a *Analyzer) Version() string        { return "0.1" }
func (a *Analyzer) Dependencies() []string { return []string{postag.Name} }

func (a *Analyzer) Analyze(ctx context.Context, snap *record.Snapshot) (scheduler.Result, error) {
	tokens, ok := postag.Tagged(snap)
	if !ok {
		return scheduler.Result{}, &MissingDependencyError{}
	}

	var actors []string
	firstStageFound := false

	for i, tok := range tokens {
		if firstStageFound && possibleTagTypes[tok.Tag] && groupStemPostfix[stem.Stem(tok.Text)] {
			if i < 2 || !possibleTagTypes[tokens[i-2].Tag] {
				firstStageFound = false
				continue
			}

			n := i - 1
			for n >= 0 && (chainTags[tokens[n].Tag] || possibleTagTypes[tokens[n].Tag]) {
				n--
			}
			n++

			var current []string
			end := i - 1
			if end < n {
				end = n
			}
			for _, sub := range tokens[n:end] {
				if chainTags[sub.Tag] {
					if len(current) > 0 {
						actors = append(actors, joinWords(current))
						current = nil
					}
					continue
				}
				if possibleTaTagTypes[sub.Tag] {
					if falsePositiveFilter[sub.Text] {
						continue
					}
					current = append(current, sub.Text)
				}
			}
			if len(current) > 0 {
				actors = append(actors, joinWords(current))
			}
		}

		firstStageFound = possibleTagTypes[tok.Tag] && threatStemPostfix[stem.Stem(tok.Text)]
	}

	var filtered []string
	for _, actor := range actors {
		if actor == "" || !isUpperFirst(actor) {
			continue
		}
		filtered = append(filtered, actor)
	}

	m := map[string]record.Value{}
	if len(filtered) > 0 {
		list := make([]record.Value, len(filtered))
		for i, s := range filtered {
			list[i] = s
		}
		m["actors"] = list
	}

	return scheduler.Result{Name: Name, Version: a.Version(), Result: m}, nil
}

func joinWords(words []string) string {
	out := ""
	for i, w := range words {
		if i > 0 {
			out += " "
		}
		out += w
	}
	return out
}

// MissingDependencyError is returned when pos_tag's output is absent from
// the snapshot.
type MissingDependencyError struct{}

func (e *MissingDependencyError) Error() string {
	return "nlp_actors: pos_tag result missing from snapshot"
}
