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

// Package extractor defines the text-extraction contract stage B calls
// against a document's raw bytes. A real extractor for binary formats
// (PDF, HTML, Office documents) is treated as a black box returning
// (text, metadata) and is out of scope here; this package is the
// interface boundary plus a trivial plain-text implementation for the
// content types SCIO can handle without an external dependency.
package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/mnemonic-no/scio/internal/record"
)

// Extractor turns raw document bytes into plain text plus metadata
// (dates, author, producer, etc., as string or number values).
type Extractor interface {
	Extract(ctx context.Context, content []byte, contentType string) (text string, metadata map[string]record.Value, err error)
}

// PlainText is a trivial Extractor for text/plain and unspecified content
// types: the bytes are the text, verbatim, with no metadata. Binary
// formats (PDF, HTML, Office) must be handled by an external Extractor
// wired in by the caller; PlainText returns an error for anything that
// looks binary (contains a NUL byte) so stage B can route it to a richer
// extractor instead of silently mangling it.
type PlainText struct{}

// ErrBinaryContent is returned by PlainText.Extract when the input
// contains a NUL byte, which plain text never does.
var ErrBinaryContent = fmt.Errorf("extractor: content is not plain text")

func (PlainText) Extract(ctx context.Context, content []byte, contentType string) (string, map[string]record.Value, error) {
	if strings.ContainsRune(string(content), 0) {
		return "", nil, ErrBinaryContent
	}
	return string(content), map[string]record.Value{}, nil
}

// Chain tries each Extractor in order and returns the first one that
// succeeds, matching the original's black-box "pick an extractor that can
// handle this content type" dispatch without hardcoding a registry of
// binary-format parsers here.
type Chain []Extractor

func (c Chain) Extract(ctx context.Context, content []byte, contentType string) (string, map[string]record.Value, error) {
	var lastErr error
	for _, e := range c {
		text, meta, err := e.Extract(ctx, content, contentType)
		if err == nil {
			return text, meta, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("extractor: no extractor configured")
	}
	return "", nil, lastErr
}
