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

// Package record implements the AnalysisRecord: the in-memory working set
// for a single analysis job, and the tagged-variant tree analyzers use to
// write their structured output into it.
//
// This is the strong-typed replacement for the Python original's loosely
// typed dict-of-dicts: analyzer results are ordinary Go values (string,
// float64, bool, []Value, map[string]Value) assembled with the Value
// helpers below, then attached to the record under the analyzer's name at
// the end of its wave.
package record

import "time"

// Value is one node of the arbitrary tree an analyzer produces: a string,
// a number, a bool, a list of Value, or a map of string to Value. It is an
// alias for any so analyzer code can build literal maps/slices directly;
// the accessor helpers below document and enforce the tagged-variant
// discipline at the boundaries that care (JSON encoding, the date-field
// filter).
type Value = any

// List constructs a Value holding an ordered list.
func List(items ...Value) Value {
	out := make([]Value, len(items))
	copy(out, items)
	return out
}

// Map constructs a Value holding a string-keyed map.
func Map(pairs map[string]Value) Value {
	return pairs
}

// AsString returns v as a string and whether the assertion succeeded.
func AsString(v Value) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsList returns v as a []Value and whether the assertion succeeded.
func AsList(v Value) ([]Value, bool) {
	l, ok := v.([]Value)
	return l, ok
}

// AsMap returns v as a map[string]Value and whether the assertion succeeded.
func AsMap(v Value) (map[string]Value, bool) {
	m, ok := v.(map[string]Value)
	return m, ok
}

// TLP is the Traffic Light Protocol sharing tag.
type TLP string

const (
	TLPRed    TLP = "RED"
	TLPAmber  TLP = "AMBER"
	TLPGreen  TLP = "GREEN"
	TLPWhite  TLP = "WHITE"
	TLPUnset  TLP = ""
	TLPDefault    = TLPAmber
)

// ParseTLP validates and normalizes a TLP string, defaulting to AMBER when
// empty, per the document model's documented default.
func ParseTLP(s string) (TLP, bool) {
	if s == "" {
		return TLPDefault, true
	}
	switch TLP(s) {
	case TLPRed, TLPAmber, TLPGreen, TLPWhite:
		return TLP(s), true
	default:
		return TLPUnset, false
	}
}

// Document is the persisted blob metadata, keyed by the SHA-256 hexdigest
// of its content. It is the shape stage A writes alongside the blob and
// enqueues as a job envelope; stage B augments it into a Record once text
// extraction has run.
type Document struct {
	Hexdigest   string `json:"hexdigest"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	URI         string `json:"uri,omitempty"`
	TLP         TLP    `json:"tlp"`
	Owner       string `json:"owner,omitempty"`
	Store       bool   `json:"store"`
}

// ToRecord lifts a Document into the analysis-record shape, carrying its
// identity fields forward; Content/Metadata/Results are populated by the
// extractor and scheduler in the stages that follow.
func (d Document) ToRecord() *Record {
	r := New(d.Hexdigest)
	r.Filename = d.Filename
	r.ContentType = d.ContentType
	r.URI = d.URI
	r.TLP = d.TLP
	r.Owner = d.Owner
	r.Store = d.Store
	return r
}

// Record is the in-memory working set of a single analysis job; it is also
// the shape written to the search index when the job completes.
type Record struct {
	Hexdigest   string `json:"hexdigest"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	URI         string `json:"uri,omitempty"`
	TLP         TLP    `json:"tlp"`
	Owner       string `json:"owner,omitempty"`
	Store       bool   `json:"store"`

	Content  string            `json:"content"`
	Metadata map[string]Value  `json:"metadata,omitempty"`

	AnalyzedDate string `json:"Analyzed-Date,omitempty"`
	CreationDate string `json:"Creation-Date,omitempty"`

	// Results holds one entry per analyzer that completed successfully,
	// keyed by analyzer name. An analyzer that failed or was skipped has
	// no key here.
	Results map[string]Value `json:"-"`
}

// New creates an empty Record for the given content hash.
func New(hexdigest string) *Record {
	return &Record{
		Hexdigest: hexdigest,
		TLP:       TLPDefault,
		Store:     true,
		Metadata:  map[string]Value{},
		Results:   map[string]Value{},
	}
}

// Snapshot is a read-only view of a Record's completed analyzer results at
// the moment a wave is launched. Analyzers only ever see a Snapshot, never
// the live Record, so they cannot observe sibling output from their own
// wave (the wave-boundary happens-before guarantee in the scheduler spec).
type Snapshot struct {
	hexdigest string
	content   string
	metadata  map[string]Value
	results   map[string]Value
}

// NewSnapshot copies the current completed-analyzer keys of r into an
// immutable Snapshot for handing to a wave of analyzers.
func (r *Record) NewSnapshot() *Snapshot {
	results := make(map[string]Value, len(r.Results))
	for k, v := range r.Results {
		results[k] = v
	}
	return &Snapshot{
		hexdigest: r.Hexdigest,
		content:   r.Content,
		metadata:  r.Metadata,
		results:   results,
	}
}

// Hexdigest returns the document's content hash.
func (s *Snapshot) Hexdigest() string { return s.hexdigest }

// Content returns the extracted plain text.
func (s *Snapshot) Content() string { return s.content }

// Metadata returns the extractor-produced metadata map.
func (s *Snapshot) Metadata() map[string]Value { return s.metadata }

// Get returns the result of a previously completed analyzer by name.
func (s *Snapshot) Get(name string) (Value, bool) {
	v, ok := s.results[name]
	return v, ok
}

// Has reports whether a given analyzer's key is present in the snapshot.
func (s *Snapshot) Has(name string) bool {
	_, ok := s.results[name]
	return ok
}

// Keys returns the set of completed analyzer names visible in this snapshot.
func (s *Snapshot) Keys() []string {
	out := make([]string, 0, len(s.results))
	for k := range s.results {
		out = append(out, k)
	}
	return out
}

// StampDates fills AnalyzedDate with now (UTC RFC 3339), and CreationDate
// from metadata["Creation-Date"] if present, else from AnalyzedDate,
// matching the stage-C post-processing rule.
func (r *Record) StampDates(now time.Time) {
	analyzed := now.UTC().Format(time.RFC3339)
	r.AnalyzedDate = analyzed

	if v, ok := r.Metadata["Creation-Date"]; ok {
		if s, ok := AsString(v); ok && s != "" {
			r.CreationDate = s
			return
		}
	}
	r.CreationDate = analyzed
}
