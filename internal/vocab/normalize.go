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
)

var (
	reLetterDigit  = regexp.MustCompile(`([A-Za-z])(\d)`)
	reLowerUpper   = regexp.MustCompile(`([a-z])([A-Z])`)
	reNonAlnum     = regexp.MustCompile(`[^a-zA-Z0-9 ]+`)
	reMultiSpace   = regexp.MustCompile(`\s{2,}`)
	reWordStart    = regexp.MustCompile(`(^|[\s-])[a-z]`)
)

// NormalizeOptions controls the composable normalization pipeline. Each
// stage runs in field order, matching the original's documented
// "run in the same order as specified" contract.
type NormalizeOptions struct {
	SpaceBeforeNumbers      bool
	SpaceBeforeCapitalized  bool
	RemoveNonAlphanumeric   bool
	RemoveMultipleWhitespace bool
	Lower                   bool
	Upper                   bool
	Capitalize              bool
	UppercaseAbbr           []string
}

// DefaultNormalize is the index-building normalization: all structural
// rules on, lowercased, no capitalization.
var DefaultNormalize = NormalizeOptions{
	SpaceBeforeNumbers:       true,
	SpaceBeforeCapitalized:   true,
	RemoveNonAlphanumeric:    true,
	RemoveMultipleWhitespace: true,
	Lower:                    true,
}

// CapitalizeNormalize is the display-form normalization used by analyzers
// like threatactor: structural cleanup, title-cased, with an abbreviation
// whitelist forced to uppercase afterward.
func CapitalizeNormalize(abbr []string) NormalizeOptions {
	return NormalizeOptions{
		SpaceBeforeNumbers:       true,
		SpaceBeforeCapitalized:   true,
		RemoveNonAlphanumeric:    true,
		RemoveMultipleWhitespace: true,
		Lower:                    true,
		Capitalize:               true,
		UppercaseAbbr:            abbr,
	}
}

// Normalize applies the normalization pipeline to name per opts.
func Normalize(name string, opts NormalizeOptions) string {
	if opts.SpaceBeforeNumbers {
		name = reLetterDigit.ReplaceAllString(name, "$1 $2")
	}
	if opts.SpaceBeforeCapitalized {
		name = reLowerUpper.ReplaceAllString(name, "$1 $2")
	}
	if opts.RemoveNonAlphanumeric {
		name = reNonAlnum.ReplaceAllString(name, " ")
	}
	if opts.RemoveMultipleWhitespace {
		name = reMultiSpace.ReplaceAllString(name, " ")
	}
	if opts.Lower {
		name = strings.ToLower(name)
	}
	if opts.Upper {
		name = strings.ToUpper(name)
	}
	if opts.Capitalize {
		name = reWordStart.ReplaceAllStringFunc(name, strings.ToUpper)
	}
	for _, abbr := range opts.UppercaseAbbr {
		re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(abbr))
		if err != nil {
			continue
		}
		name = re.ReplaceAllString(name, strings.ToUpper(abbr))
	}
	return name
}

// normalizeIndexKey is the form used to key the "normalized" index: the
// structural-cleanup rules plus lowercasing, with no capitalization, so
// that Lookup(mode=Normalized) round-trips regardless of display preference.
func normalizeIndexKey(s string) string {
	return Normalize(s, DefaultNormalize)
}
