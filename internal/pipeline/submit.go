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

package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mnemonic-no/scio/internal/blobstore"
	"github.com/mnemonic-no/scio/internal/errors"
	"github.com/mnemonic-no/scio/internal/metrics"
	"github.com/mnemonic-no/scio/internal/queue"
	"github.com/mnemonic-no/scio/internal/record"
)

// Submitter is stage A: it decodes and validates a submission, persists
// the blob, and enqueues the job envelope on the docs queue, applying
// backpressure against both queues.
type Submitter struct {
	Blobs   *blobstore.Store
	Docs    queue.Tube
	Analyze queue.Tube
	MaxJobs int
	Metrics *metrics.Metrics
}

// SubmitRequest mirrors the /submit JSON request body.
type SubmitRequest struct {
	Content  string `json:"content"`
	Filename string `json:"filename"`
	URI      string `json:"uri,omitempty"`
	TLP      string `json:"tlp,omitempty"`
	Owner    string `json:"owner,omitempty"`
	Store    *bool  `json:"store,omitempty"`
}

// SubmitResponse mirrors the /submit JSON response body.
type SubmitResponse struct {
	Filename  string `json:"filename"`
	Hexdigest string `json:"hexdigest"`
	Count     int    `json:"count"`
	TLP       string `json:"tlp"`
	URI       string `json:"uri,omitempty"`
	Store     bool   `json:"store"`
	Owner     string `json:"owner,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Submit implements stage A's full contract: decode base64 content, check
// backpressure, hash, persist to the blob store (or quarantine if
// store=false), and enqueue the job envelope on docs.
func (s *Submitter) Submit(ctx context.Context, req SubmitRequest) (SubmitResponse, error) {
	if err := validateFilename(req.Filename); err != nil {
		return SubmitResponse{}, errors.NewValidationError(
			"invalid filename", err.Error(), "Provide a filename without path separators.")
	}

	content, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		return SubmitResponse{}, errors.NewValidationError(
			"invalid base64 content", err.Error(), "Ensure content is standard base64-encoded.")
	}

	tlp, ok := record.ParseTLP(req.TLP)
	if !ok {
		return SubmitResponse{}, errors.NewValidationError(
			"invalid tlp", fmt.Sprintf("tlp %q is not one of RED/AMBER/GREEN/WHITE", req.TLP),
			"Use one of RED, AMBER, GREEN, WHITE, or omit for the AMBER default.")
	}

	if ok, depth := s.backpressureTripped(ctx); ok {
		if s.Metrics != nil {
			s.Metrics.SubmitRejected.Inc()
		}
		return SubmitResponse{}, errors.NewBackpressureError(
			"too many jobs in queue", fmt.Sprintf("queue depth %d >= max_jobs %d", depth, s.MaxJobs))
	}

	store := true
	if req.Store != nil {
		store = *req.Store
	}

	digest, err := s.Blobs.Put(content, !store)
	if err != nil {
		return SubmitResponse{}, errors.NewInternalError("failed to persist blob", err.Error(), err)
	}

	doc := record.Document{
		Hexdigest: digest,
		Filename:  sanitizeFilename(req.Filename),
		URI:       req.URI,
		TLP:       tlp,
		Owner:     req.Owner,
		Store:     store,
	}

	if store {
		payload, err := EncodeEnvelope(FromDocument(doc))
		if err != nil {
			return SubmitResponse{}, errors.NewInternalError("failed to encode envelope", err.Error(), err)
		}
		if _, err := s.Docs.Put(ctx, payload); err != nil {
			return SubmitResponse{}, errors.NewInternalError("failed to enqueue job", err.Error(), err)
		}
	}

	if s.Metrics != nil {
		s.Metrics.SubmitTotal.Inc()
	}

	return SubmitResponse{
		Filename:  doc.Filename,
		Hexdigest: doc.Hexdigest,
		Count:     len(content),
		TLP:       string(doc.TLP),
		URI:       doc.URI,
		Store:     doc.Store,
		Owner:     doc.Owner,
	}, nil
}

// backpressureTripped reports whether either the docs or analyze queue has
// reached MaxJobs.
func (s *Submitter) backpressureTripped(ctx context.Context) (bool, int) {
	if s.MaxJobs <= 0 {
		return false, 0
	}
	depthDocs, _ := s.Docs.Len(ctx)
	depthAnalyze := 0
	if s.Analyze != nil {
		depthAnalyze, _ = s.Analyze.Len(ctx)
	}
	depth := depthDocs
	if depthAnalyze > depth {
		depth = depthAnalyze
	}
	return depth >= s.MaxJobs, depth
}

func validateFilename(name string) error {
	if name == "" {
		return fmt.Errorf("filename is empty")
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("filename must not contain path separators")
	}
	return nil
}

// sanitizeFilename strips any directory components a client might have
// sent, keeping only the base name.
func sanitizeFilename(name string) string {
	return filepath.Base(name)
}
