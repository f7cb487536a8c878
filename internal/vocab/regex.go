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

package vocab

import (
	"regexp"
	"strings"
	"unicode"
)

// camelCaseBreak reports whether position i in s is a lower->upper
// transition (the second rune of a camelCase hump).
func camelCaseBreak(r []rune, i int) bool {
	if i == 0 {
		return false
	}
	return unicode.IsUpper(r[i]) && unicode.IsLower(r[i-1])
}

// alphaToDigitBreak reports whether position i in s is a letter->digit
// transition.
func alphaToDigitBreak(r []rune, i int) bool {
	if i == 0 {
		return false
	}
	return unicode.IsDigit(r[i]) && unicode.IsLetter(r[i-1])
}

// RegexFromAlias compiles a single alias into a tolerant, case-insensitive
// word-boundary regex body: letters match literally (lowercased), digits
// become \d, whitespace and camelCase/letter-digit boundaries become an
// optional separator class, so "OceanLotus", "Ocean Lotus" and
// "ocean-lotus" all match the same alias.
func RegexFromAlias(alias string) string {
	r := []rune(alias)
	var b strings.Builder
	b.WriteString(`\b(`)
	for i, c := range r {
		if camelCaseBreak(r, i) || alphaToDigitBreak(r, i) {
			b.WriteString(`\s?[- _.]?`)
		}
		switch {
		case unicode.IsSpace(c):
			b.WriteString(`\s?[- _.]?`)
		case unicode.IsDigit(c):
			b.WriteString(`\d`)
		default:
			b.WriteRune(unicode.ToLower(c))
		}
	}
	b.WriteString(`)\b`)
	return b.String()
}

// isAllDigits reports whether alias is made up only of decimal digits;
// such aliases compile to a bare run of \d that matches any number of that
// length, so they are rejected.
func isAllDigits(alias string) bool {
	if alias == "" {
		return false
	}
	for _, c := range alias {
		if !unicode.IsDigit(c) {
			return false
		}
	}
	return true
}

// CompileAlias compiles an alias into a case-insensitive *regexp.Regexp.
// Returns ok=false for an all-digit alias, which is rejected rather than
// compiled (per the alias-to-regex failure contract).
func CompileAlias(alias string) (*regexp.Regexp, bool, error) {
	if isAllDigits(alias) {
		return nil, false, nil
	}
	re, err := regexp.Compile(`(?i)` + RegexFromAlias(alias))
	if err != nil {
		return nil, false, err
	}
	return re, true, nil
}
