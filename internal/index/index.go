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

// Package index defines the search-index client contract stage C upserts
// completed records to, plus a sink poster for the optional HTTP sink.
// Both the search index and the sink are treated as external
// collaborators — key-value stores keyed by content hash — so this
// package is the small interface boundary, not an implementation of a
// real search engine.
package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mnemonic-no/scio/internal/record"
)

// Client upserts a completed record by its hexdigest. A real
// implementation might wrap Elasticsearch, OpenSearch, or any other
// full-text store; SCIO ships only the interface and an in-memory
// reference implementation for tests.
type Client interface {
	Upsert(ctx context.Context, hexdigest string, doc any) error
}

// MemClient is an in-memory Client used by tests and as the in-process
// index of `scio serve`.
type MemClient struct {
	docs map[string]any
}

// NewMemClient returns an empty MemClient.
func NewMemClient() *MemClient {
	return &MemClient{docs: map[string]any{}}
}

func (c *MemClient) Upsert(ctx context.Context, hexdigest string, doc any) error {
	c.docs[hexdigest] = doc
	return nil
}

// Get returns a previously upserted document, for test assertions.
func (c *MemClient) Get(hexdigest string) (any, bool) {
	d, ok := c.docs[hexdigest]
	return d, ok
}

// Len reports how many distinct hexdigests have been upserted.
func (c *MemClient) Len() int { return len(c.docs) }

// Indicators returns the distinct indicator strings of the given kind
// (e.g. "ipv4", "sha256") across every upserted record whose
// Analyzed-Date is at or after since, for the /indicators HTTP route.
// A zero since matches every record.
func (c *MemClient) Indicators(kind string, since time.Time) []string {
	seen := map[string]bool{}
	var out []string
	for _, doc := range c.docs {
		rec, ok := doc.(*record.Record)
		if !ok {
			continue
		}
		if !since.IsZero() {
			analyzed, err := time.Parse(time.RFC3339, rec.AnalyzedDate)
			if err != nil || analyzed.Before(since) {
				continue
			}
		}
		indicatorsVal, ok := rec.Results["indicators"]
		if !ok {
			continue
		}
		m, ok := record.AsMap(indicatorsVal)
		if !ok {
			continue
		}
		list, ok := record.AsList(m[kind])
		if !ok {
			continue
		}
		for _, v := range list {
			s, ok := record.AsString(v)
			if !ok || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// Sink POSTs the result JSON to a configured URL. It runs additively
// alongside an index Client rather than replacing it, per DESIGN.md's
// resolution of the sink-vs-index question.
type Sink struct {
	url        string
	httpClient *http.Client
}

// NewSink constructs a Sink posting to url with the given request
// timeout (60s is the usual default for this outbound call).
func NewSink(url string, timeout time.Duration) *Sink {
	return &Sink{url: url, httpClient: &http.Client{Timeout: timeout}}
}

// Post sends doc as JSON to the sink URL.
func (s *Sink) Post(ctx context.Context, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("index: marshal sink payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("index: build sink request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("index: sink post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("index: sink returned status %d", resp.StatusCode)
	}
	return nil
}
