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

// Package vocab implements the vocabulary/alias-pattern matching engine:
// alias file parsing, four-way indexing (raw, lowercase, Porter stem,
// normalized), alias-to-regex compilation, and the lookup/scan operations
// that most analyzers (threatactor, tools, locations) depend on.
//
// A Table is built once at plugin init from one or more alias files and
// treated as immutable afterward; it has no I/O after Load.
package vocab

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"

	"github.com/mnemonic-no/scio/internal/vocab/stem"
)

// Mode selects which of the four indices Lookup consults.
type Mode int

const (
	ModeRaw Mode = iota
	ModeLower
	ModeStem
	ModeNorm
)

// entry is the value stored at every index slot: the surface form that was
// indexed and the primary name it resolves to.
type entry struct {
	surface string
	primary string
}

// Table is a loaded, compiled vocabulary: four lookup indices plus the set
// of compiled alias regexes used by Scan.
type Table struct {
	raw   map[string]entry
	lower map[string]entry
	stem  map[string]entry
	norm  map[string]entry

	regexes []*regexp.Regexp
	logger  *slog.Logger
}

// NewTable returns an empty, ready-to-populate Table.
func NewTable(logger *slog.Logger) *Table {
	if logger == nil {
		logger = slog.Default()
	}
	return &Table{
		raw:    map[string]entry{},
		lower:  map[string]entry{},
		stem:   map[string]entry{},
		norm:   map[string]entry{},
		logger: logger,
	}
}

// LoadAliasFile parses path and returns a populated Table. Malformed lines
// are logged and skipped; the call only fails on an I/O error opening or
// reading the file.
func LoadAliasFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vocab: open alias file: %w", err)
	}
	defer f.Close()
	return LoadAliases(f, slog.Default().With("component", "vocab", "file", path))
}

// LoadAliases parses alias-file content from r, logging and skipping any
// malformed line.
func LoadAliases(r io.Reader, logger *slog.Logger) (*Table, error) {
	t := NewTable(logger)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		parsed, ok, err := ParseLine(line)
		if err != nil {
			t.logger.Warn("vocab.alias.skip", "line", lineNo, "error", err)
			continue
		}
		if !ok {
			continue
		}

		t.addEntry(parsed.Primary, parsed.Aliases)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("vocab: scan alias file: %w", err)
	}

	return t, nil
}

// addEntry indexes primary and every alias into the four maps, and
// compiles a regex for every surface form (regexfromalias mode).
func (t *Table) addEntry(primary string, aliases []string) {
	surfaces := append([]string{primary}, aliases...)
	for _, surface := range surfaces {
		t.index(surface, primary)

		re, ok, err := CompileAlias(surface)
		if err != nil {
			t.logger.Error("vocab.regex.invalid", "alias", surface, "error", err)
			continue
		}
		if !ok {
			t.logger.Warn("vocab.regex.skip_all_digit", "alias", surface)
			continue
		}
		t.regexes = append(t.regexes, re)
	}
}

func (t *Table) index(surface, primary string) {
	e := entry{surface: surface, primary: primary}
	t.raw[surface] = e
	t.lower[lowerASCIIAware(surface)] = e
	t.stem[stem.Stem(surface)] = e
	t.norm[normalizeIndexKey(surface)] = e
}

// AddManualRegex registers an explicit, already-compiled regex, used
// alongside the automatically-derived alias regexes in Scan.
func (t *Table) AddManualRegex(re *regexp.Regexp) {
	t.regexes = append(t.regexes, re)
}

// Lookup answers the dictionary-lookup query: is key a known alias in the
// given mode's index, and if so, what does it resolve to (the primary name
// if primary=true, else the original surface form)? def is returned on a
// miss.
func (t *Table) Lookup(key string, mode Mode, primary bool, def string) string {
	var idx map[string]entry
	var probe string
	switch mode {
	case ModeRaw:
		idx, probe = t.raw, key
	case ModeLower:
		idx, probe = t.lower, lowerASCIIAware(key)
	case ModeStem:
		idx, probe = t.stem, stem.Stem(key)
	case ModeNorm:
		idx, probe = t.norm, normalizeIndexKey(key)
	default:
		return def
	}

	e, ok := idx[probe]
	if !ok {
		return def
	}
	if primary {
		return e.primary
	}
	return e.surface
}

// Has reports whether key is present under the given index mode.
func (t *Table) Has(key string, mode Mode) bool {
	var idx map[string]entry
	var probe string
	switch mode {
	case ModeRaw:
		idx, probe = t.raw, key
	case ModeLower:
		idx, probe = t.lower, lowerASCIIAware(key)
	case ModeStem:
		idx, probe = t.stem, stem.Stem(key)
	case ModeNorm:
		idx, probe = t.norm, normalizeIndexKey(key)
	}
	_, ok := idx[probe]
	return ok
}

// Scan runs every compiled alias regex once over text, applies normalizer
// to each hit, and returns the hits in match order. Duplicates are
// preserved; callers dedupe if they care.
func (t *Table) Scan(text string, normalizer func(string) string) []string {
	var hits []string
	for _, re := range t.regexes {
		for _, loc := range re.FindAllString(text, -1) {
			if normalizer != nil {
				loc = normalizer(loc)
			}
			hits = append(hits, loc)
		}
	}
	return hits
}

func lowerASCIIAware(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// MergeTables combines multiple already-loaded tables' raw alias sets into
// one, matching the original's alias.merge(*lists, lower=False) helper:
// when an alias from a later table already resolves to a primary name in
// an earlier table, its aliases are folded under that earlier primary
// instead of creating a second entry.
//
// MergeTables re-derives a fresh Table from the merged (primary, aliases)
// map rather than mutating its inputs.
func MergeTables(logger *slog.Logger, tables ...*Table) *Table {
	combined := map[string][]string{}
	resolved := map[string]string{}

	for _, tbl := range tables {
		for primary, surfaces := range tbl.primaries() {
			key := primary
			for _, alias := range surfaces {
				if existing, ok := resolved[alias]; ok {
					key = existing
					break
				}
			}
			combined[key] = append(combined[key], surfaces...)
			for _, alias := range surfaces {
				resolved[alias] = key
			}
			resolved[key] = key
		}
	}

	out := NewTable(logger)
	for primary, surfaces := range combined {
		seen := map[string]bool{}
		var aliases []string
		for _, s := range surfaces {
			if s == primary || seen[s] {
				continue
			}
			seen[s] = true
			aliases = append(aliases, s)
		}
		out.addEntry(primary, aliases)
	}
	return out
}

// primaries reconstructs the (primary -> all indexed surfaces) map a table
// was built from, by walking its raw index.
func (t *Table) primaries() map[string][]string {
	out := map[string][]string{}
	for surface, e := range t.raw {
		out[e.primary] = append(out[e.primary], surface)
	}
	return out
}
