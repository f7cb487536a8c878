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

import "strings"

// escapeChars are the characters an alias file line may escape with a
// leading backslash: the field separator, the list separator, and the
// comment marker.
var escapeChars = []byte{',', ':', '#'}

// unescape removes a backslash in front of any escapeChars rune.
func unescape(s string) string {
	for _, c := range escapeChars {
		s = strings.ReplaceAll(s, `\`+string(c), string(c))
	}
	return s
}

// splitUnescaped splits s on the first (or every) unescaped occurrence of
// sep, treating a backslash immediately before sep as an escape.
func splitUnescaped(s string, sep byte, all bool) []string {
	var parts []string
	var cur strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == sep && (i == 0 || s[i-1] != '\\') {
			parts = append(parts, cur.String())
			cur.Reset()
			if !all {
				cur.WriteString(s[i+1:])
				parts = append(parts, cur.String())
				return parts
			}
			continue
		}
		cur.WriteByte(s[i])
	}
	parts = append(parts, cur.String())
	return parts
}

// stripComment removes an unescaped trailing "#...." comment from a line.
func stripComment(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] == '#' && (i == 0 || line[i-1] != '\\') {
			return line[:i]
		}
	}
	return line
}

// ParsedEntry is one decoded alias-file line.
type ParsedEntry struct {
	Primary string
	Aliases []string
}

// ParseLine parses a single alias-file line of the form
// "primary: alias1, alias2, ...". Returns ok=false for a blank or
// comment-only line; returns an error for a line with no unescaped ':'.
func ParseLine(line string) (ParsedEntry, bool, error) {
	line = stripComment(line)
	if strings.TrimSpace(line) == "" {
		return ParsedEntry{}, false, nil
	}

	parts := splitUnescaped(line, ':', false)
	if len(parts) != 2 {
		return ParsedEntry{}, false, &ParseError{Line: line, Reason: "missing unescaped ':'"}
	}

	primary := unescape(strings.TrimSpace(parts[0]))
	if primary == "" {
		return ParsedEntry{}, false, &ParseError{Line: line, Reason: "empty primary name"}
	}

	var aliases []string
	for _, a := range splitUnescaped(parts[1], ',', true) {
		a = unescape(strings.TrimSpace(a))
		if a != "" {
			aliases = append(aliases, a)
		}
	}

	return ParsedEntry{Primary: primary, Aliases: aliases}, true, nil
}

// ParseError reports a malformed alias-file line; callers are expected to
// log and skip per the alias-file failure contract.
type ParseError struct {
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return "vocab: malformed alias line (" + e.Reason + "): " + e.Line
}
