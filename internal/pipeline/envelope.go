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

// Package pipeline implements the three-stage control plane (submit,
// extract, analyze) connected by two durable work queues, docs and
// analyze, plus the standalone filter mode used for testing and one-shot
// analysis.
package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"github.com/mnemonic-no/scio/internal/record"
)

// Envelope is the JSON blob a job carries through the docs and analyze
// queues. Content and Metadata are absent until stage B populates them.
// RunID identifies one submission's journey through both queues, for
// correlating stage A/B/C log lines.
type Envelope struct {
	RunID     string     `json:"run_id"`
	Hexdigest string     `json:"hexdigest"`
	Filename  string     `json:"filename"`
	URI       string     `json:"uri,omitempty"`
	TLP       record.TLP `json:"tlp"`
	Owner     string     `json:"owner,omitempty"`
	Store     bool       `json:"store"`

	ContentType string                   `json:"content_type,omitempty"`
	Content     string                   `json:"content,omitempty"`
	Metadata    map[string]record.Value `json:"metadata,omitempty"`
}

// FromDocument builds the stage-A envelope from a persisted Document,
// minting a fresh RunID for the job's trip through both queues.
func FromDocument(d record.Document) Envelope {
	return Envelope{
		RunID:       uuid.NewString(),
		Hexdigest:   d.Hexdigest,
		Filename:    d.Filename,
		URI:         d.URI,
		TLP:         d.TLP,
		Owner:       d.Owner,
		Store:       d.Store,
		ContentType: d.ContentType,
	}
}

// ToRecord lifts a fully-populated (post stage-B) envelope into the
// scheduler's working Record.
func (e Envelope) ToRecord() *record.Record {
	r := record.New(e.Hexdigest)
	r.Filename = e.Filename
	r.ContentType = e.ContentType
	r.URI = e.URI
	r.TLP = e.TLP
	r.Owner = e.Owner
	r.Store = e.Store
	r.Content = e.Content
	if e.Metadata != nil {
		r.Metadata = e.Metadata
	}
	return r
}

// EncodeEnvelope gzip-compresses the JSON encoding of e; queue payloads
// are gzip-compressed JSON at both the docs and analyze hops.
func EncodeEnvelope(e Envelope) ([]byte, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("pipeline: marshal envelope: %w", err)
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("pipeline: gzip envelope: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("pipeline: gzip close: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeEnvelope reverses EncodeEnvelope. A corrupt payload (bad gzip or
// bad JSON) is reported via the returned error; callers delete the job
// and move on rather than retrying it.
func DecodeEnvelope(payload []byte) (Envelope, error) {
	zr, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return Envelope{}, fmt.Errorf("pipeline: ungzip envelope: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return Envelope{}, fmt.Errorf("pipeline: read envelope: %w", err)
	}

	var e Envelope
	if err := json.Unmarshal(raw, &e); err != nil {
		return Envelope{}, fmt.Errorf("pipeline: unmarshal envelope: %w", err)
	}
	return e, nil
}
