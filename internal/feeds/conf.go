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

// Package feeds parses the feed configuration file format: a
// line-oriented list of feed URLs, each prefixed "f " (full feed) or
// "p " (partial feed). Pulling the feeds themselves — RSS/Atom polling,
// downloading, and uploading extracted documents to /submit — is out of
// scope; only the config format is implemented here.
package feeds

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Kind is a feed's pull depth.
type Kind int

const (
	KindNone Kind = iota
	KindPartial
	KindFull
)

// Config is a parsed feed file: the set of full and partial feed URLs.
type Config struct {
	FullFeeds    []string
	PartialFeeds []string
}

// ParseFile opens and parses a feed config file at path.
func ParseFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("feeds: open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads feed config lines from r, logging and skipping any line
// that doesn't start with "f " or "p " followed by a non-empty URL.
func Parse(r io.Reader) (Config, error) {
	var cfg Config
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		kind := kindOf(line)
		url := urlOf(line)
		if url == "" {
			if strings.TrimSpace(line) != "" {
				slog.Warn("feeds.conf.skip_empty_url", "line", lineNum)
			}
			continue
		}
		if kind == KindNone {
			slog.Error("feeds.conf.unparseable_line", "line", lineNum, "content", line)
			continue
		}

		switch kind {
		case KindFull:
			cfg.FullFeeds = append(cfg.FullFeeds, url)
		case KindPartial:
			cfg.PartialFeeds = append(cfg.PartialFeeds, url)
		}
	}
	if err := scanner.Err(); err != nil {
		return Config{}, fmt.Errorf("feeds: scan: %w", err)
	}
	return cfg, nil
}

// kindOf returns the feed kind encoded in a config line's two-character
// prefix ("f " or "p "), or KindNone if the line is too short or doesn't
// match either prefix.
func kindOf(line string) Kind {
	if len(line) < 2 {
		return KindNone
	}
	switch line[:2] {
	case "f ":
		return KindFull
	case "p ":
		return KindPartial
	default:
		return KindNone
	}
}

// urlOf extracts the URL portion of a config line, after its two-
// character type prefix, trimmed of surrounding whitespace.
func urlOf(line string) string {
	if len(line) <= 2 {
		return ""
	}
	return strings.TrimSpace(line[2:])
}
