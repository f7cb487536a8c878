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

// Package stem implements the classic Porter stemming algorithm for
// English, used by the vocabulary engine to build its stem index.
//
// There is no third-party Porter stemmer in the retrieval pack (see
// DESIGN.md); this is a direct, table-driven port of the published
// algorithm (Porter, 1980), operating on lowercase ASCII.
package stem

import "strings"

const vowels = "aeiou"

// Stem reduces word to its Porter stem. Input is lowercased first; a word
// shorter than three bytes is returned lowercased but otherwise unstemmed.
func Stem(word string) string {
	w := strings.ToLower(word)
	if len(w) < 3 {
		return w
	}

	b := []byte(w)
	b = step1a(b)
	b = step1b(b)
	b = step1c(b)
	b = step2(b)
	b = step3(b)
	b = step4(b)
	b = step5a(b)
	b = step5b(b)
	return string(b)
}

func isConsonant(b []byte, i int) bool {
	c := b[i]
	if strings.IndexByte(vowels, c) >= 0 {
		return false
	}
	if c == 'y' {
		if i == 0 {
			return true
		}
		return !isConsonant(b, i-1)
	}
	return true
}

// measure computes the Porter "m" value: the number of
// consonant-sequence -> vowel-sequence transitions in b.
func measure(b []byte) int {
	n := 0
	i := 0
	for i < len(b) && isConsonant(b, i) {
		i++
	}
	for i < len(b) {
		for i < len(b) && !isConsonant(b, i) {
			i++
		}
		if i >= len(b) {
			break
		}
		n++
		for i < len(b) && isConsonant(b, i) {
			i++
		}
	}
	return n
}

func containsVowel(b []byte) bool {
	for i := range b {
		if !isConsonant(b, i) {
			return true
		}
	}
	return false
}

func endsDoubleConsonant(b []byte) bool {
	n := len(b)
	if n < 2 {
		return false
	}
	if b[n-1] != b[n-2] {
		return false
	}
	return isConsonant(b, n-1)
}

// endsCVC reports the consonant-vowel-consonant pattern required by rule
// (*o), with the final consonant not w, x, or y.
func endsCVC(b []byte) bool {
	n := len(b)
	if n < 3 {
		return false
	}
	if !isConsonant(b, n-3) || isConsonant(b, n-2) || !isConsonant(b, n-1) {
		return false
	}
	switch b[n-1] {
	case 'w', 'x', 'y':
		return false
	}
	return true
}

func hasSuffix(b []byte, suf string) bool {
	return len(b) >= len(suf) && string(b[len(b)-len(suf):]) == suf
}

func trimSuffix(b []byte, suf string) []byte {
	return b[:len(b)-len(suf)]
}

func replaceSuffix(b []byte, suf, repl string) []byte {
	return append(trimSuffix(b, suf), []byte(repl)...)
}

func step1a(b []byte) []byte {
	switch {
	case hasSuffix(b, "sses"):
		return replaceSuffix(b, "sses", "ss")
	case hasSuffix(b, "ies"):
		return replaceSuffix(b, "ies", "i")
	case hasSuffix(b, "ss"):
		return b
	case hasSuffix(b, "s"):
		return trimSuffix(b, "s")
	}
	return b
}

func step1b(b []byte) []byte {
	switch {
	case hasSuffix(b, "eed"):
		stem := trimSuffix(b, "eed")
		if measure(stem) > 0 {
			return append(stem, 'e', 'e')
		}
		return b
	case hasSuffix(b, "ed"):
		stem := trimSuffix(b, "ed")
		if containsVowel(stem) {
			return step1bCleanup(stem)
		}
		return b
	case hasSuffix(b, "ing"):
		stem := trimSuffix(b, "ing")
		if containsVowel(stem) {
			return step1bCleanup(stem)
		}
		return b
	}
	return b
}

func step1bCleanup(b []byte) []byte {
	switch {
	case hasSuffix(b, "at"), hasSuffix(b, "bl"), hasSuffix(b, "iz"):
		return append(b, 'e')
	case endsDoubleConsonant(b) && b[len(b)-1] != 'l' && b[len(b)-1] != 's' && b[len(b)-1] != 'z':
		return b[:len(b)-1]
	case measure(b) == 1 && endsCVC(b):
		return append(b, 'e')
	}
	return b
}

func step1c(b []byte) []byte {
	if hasSuffix(b, "y") {
		stem := trimSuffix(b, "y")
		if containsVowel(stem) {
			return append(stem, 'i')
		}
	}
	return b
}

var step2Rules = []struct{ suf, repl string }{
	{"ational", "ate"}, {"tional", "tion"}, {"enci", "ence"}, {"anci", "ance"},
	{"izer", "ize"}, {"abli", "able"}, {"alli", "al"}, {"entli", "ent"},
	{"eli", "e"}, {"ousli", "ous"}, {"ization", "ize"}, {"ation", "ate"},
	{"ator", "ate"}, {"alism", "al"}, {"iveness", "ive"}, {"fulness", "ful"},
	{"ousness", "ous"}, {"aliti", "al"}, {"iviti", "ive"}, {"biliti", "ble"},
}

func step2(b []byte) []byte {
	for _, r := range step2Rules {
		if hasSuffix(b, r.suf) {
			stem := trimSuffix(b, r.suf)
			if measure(stem) > 0 {
				return append(stem, []byte(r.repl)...)
			}
			return b
		}
	}
	return b
}

var step3Rules = []struct{ suf, repl string }{
	{"icate", "ic"}, {"ative", ""}, {"alize", "al"}, {"iciti", "ic"},
	{"ical", "ic"}, {"ful", ""}, {"ness", ""},
}

func step3(b []byte) []byte {
	for _, r := range step3Rules {
		if hasSuffix(b, r.suf) {
			stem := trimSuffix(b, r.suf)
			if measure(stem) > 0 {
				return append(stem, []byte(r.repl)...)
			}
			return b
		}
	}
	return b
}

var step4Suffixes = []string{
	"al", "ance", "ence", "er", "ic", "able", "ible", "ant", "ement",
	"ment", "ent", "ion", "ou", "ism", "ate", "iti", "ous", "ive", "ize",
}

func step4(b []byte) []byte {
	for _, suf := range step4Suffixes {
		if !hasSuffix(b, suf) {
			continue
		}
		stem := trimSuffix(b, suf)
		if suf == "ion" {
			if len(stem) == 0 {
				return b
			}
			last := stem[len(stem)-1]
			if last != 's' && last != 't' {
				return b
			}
		}
		if measure(stem) > 1 {
			return stem
		}
		return b
	}
	return b
}

func step5a(b []byte) []byte {
	if hasSuffix(b, "e") {
		stem := trimSuffix(b, "e")
		m := measure(stem)
		if m > 1 || (m == 1 && !endsCVC(stem)) {
			return stem
		}
	}
	return b
}

func step5b(b []byte) []byte {
	if hasSuffix(b, "ll") && measure(b) > 1 {
		return b[:len(b)-1]
	}
	return b
}
