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

// Package postag implements the pos_tag analyzer: tokenization and
// part-of-speech tagging of document text, using a fixed Penn-Treebank-
// style tag set. sectors, locations, and nlp_actors all depend on its
// output to walk proper-noun phrases.
//
// No Penn-Treebank POS tagger appears anywhere in the retrieval pack (the
// closest match, sugarme/tokenizer, is a subword BPE tokenizer for ML
// model input, not a grammatical tagger), so this is a small deterministic
// rule-based tagger rather than a statistical one: closed-class word lists
// plus capitalization/suffix heuristics. It is accurate enough for the
// downstream analyzers, which only branch on tag class (NNP/NNPS/NN/NNS,
// IN, CC, punctuation), not on exact part of speech.
package postag

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/mnemonic-no/scio/internal/record"
	"github.com/mnemonic-no/scio/internal/scheduler"
)

const Name = "pos_tag"

// Token is one (word, tag) pair in the tagged sequence.
type Token struct {
	Text string
	Tag  string
}

var reToken = regexp.MustCompile(`[A-Za-z][A-Za-z0-9'\-]*|[0-9]+(?:\.[0-9]+)?|[^\sA-Za-z0-9]`)

var prepositions = buildSet(
	"of", "in", "at", "by", "for", "with", "from", "into", "during",
	"including", "until", "against", "among", "throughout", "despite",
	"towards", "toward", "upon", "concerning", "to", "on", "about",
	"as", "over", "after", "before", "between", "through", "under",
)

var coordinators = buildSet("and", "or", "but", "nor", "yet", "so")

var determiners = buildSet(
	"the", "a", "an", "this", "that", "these", "those", "its", "their",
)

var modals = buildSet(
	"is", "are", "was", "were", "be", "been", "being", "has", "have",
	"had", "will", "would", "can", "could", "should", "must", "may", "might",
)

func buildSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// Tokenize splits text into word and punctuation tokens, matching the
// granularity a treebank tokenizer produces (contractions and hyphenated
// words stay intact; punctuation is its own token).
func Tokenize(text string) []string {
	return reToken.FindAllString(text, -1)
}

// Tag assigns a part-of-speech tag to each token in seq, using closed-class
// word lists first and a capitalization/morphology heuristic otherwise.
func Tag(tokens []string) []Token {
	out := make([]Token, len(tokens))
	for i, tok := range tokens {
		out[i] = Token{Text: tok, Tag: tagOne(tok)}
	}
	return out
}

func tagOne(tok string) string {
	lower := strings.ToLower(tok)

	switch tok {
	case ",":
		return ","
	case ":", ";":
		return ":"
	case ".", "!", "?":
		return "."
	}
	if isPunct(tok) {
		return "SYM"
	}
	if isNumeric(tok) {
		return "CD"
	}
	if prepositions[lower] {
		return "IN"
	}
	if coordinators[lower] {
		return "CC"
	}
	if determiners[lower] {
		return "DT"
	}
	if modals[lower] {
		return "VBZ"
	}

	r := []rune(tok)
	startsUpper := len(r) > 0 && unicode.IsUpper(r[0])
	plural := strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss")

	switch {
	case startsUpper && plural:
		return "NNPS"
	case startsUpper:
		return "NNP"
	case plural:
		return "NNS"
	default:
		return "NN"
	}
}

// Analyzer has no dependencies.
type Analyzer struct{}

func New() *Analyzer { return &Analyzer{} }

func (a *Analyzer) Name() string           { return Name }
func (a *Analyzer) Version() string        { return "0.1" }
func (a *Analyzer) Dependencies() []string { return nil }

func (a *Analyzer) Analyze(ctx context.Context, snap *record.Snapshot) (scheduler.Result, error) {
	tagged := Tag(Tokenize(snap.Content()))

	tokens := make([]record.Value, len(tagged))
	for i, t := range tagged {
		tokens[i] = record.List(t.Text, t.Tag)
	}

	return scheduler.Result{
		Name:    Name,
		Version: a.Version(),
		Result:  map[string]record.Value{"tokens": tokens},
	}, nil
}

func isPunct(tok string) bool {
	for _, r := range tok {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return len(tok) > 0
}

func isNumeric(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if !unicode.IsDigit(r) && r != '.' {
			return false
		}
	}
	return true
}

// Tagged extracts the []Token sequence back out of a scheduler Snapshot's
// pos_tag result, for analyzers that depend on it.
func Tagged(snap *record.Snapshot) ([]Token, bool) {
	v, ok := snap.Get(Name)
	if !ok {
		return nil, false
	}
	m, ok := record.AsMap(v)
	if !ok {
		return nil, false
	}
	list, ok := record.AsList(m["tokens"])
	if !ok {
		return nil, false
	}
	out := make([]Token, 0, len(list))
	for _, item := range list {
		pair, ok := record.AsList(item)
		if !ok || len(pair) != 2 {
			continue
		}
		text, _ := record.AsString(pair[0])
		tag, _ := record.AsString(pair[1])
		out = append(out, Token{Text: text, Tag: tag})
	}
	return out, true
}
