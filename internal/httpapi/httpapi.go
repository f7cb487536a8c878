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

// Package httpapi implements SCIO's external HTTP surface: submit,
// download, download_json, and indicators. Routing uses
// net/http.ServeMux's method+path patterns rather than a router
// dependency — nothing upstream ships an HTTP router, and the rest of
// this codebase's own outbound HTTP code (cmd/cie/start.go's health
// checks) is plain net/http too, so the handlers here follow suit.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/mnemonic-no/scio/internal/blobstore"
	scioerrors "github.com/mnemonic-no/scio/internal/errors"
	"github.com/mnemonic-no/scio/internal/metrics"
	"github.com/mnemonic-no/scio/internal/pipeline"
)

// RecordSource is implemented by index clients that can recover a
// previously written record by hexdigest, used by /download and
// /download_json to find a blob's Content-Type.
type RecordSource interface {
	Get(hexdigest string) (any, bool)
}

// IndicatorSource is implemented by index clients that can answer the
// /indicators/{type} route. MemClient satisfies it.
type IndicatorSource interface {
	Indicators(kind string, since time.Time) []string
}

// Server holds the handlers' dependencies: the submit pipeline, the
// blob store for downloads, and an optional index for content-type
// lookup and indicator queries.
type Server struct {
	Submitter  *pipeline.Submitter
	Blobs      *blobstore.Store
	Records    RecordSource
	Indicators IndicatorSource
	Metrics    *metrics.Metrics
	Logger     *slog.Logger

	// SubmitLimiter caps the rate of accepted /submit requests,
	// independent of and ahead of the queue-depth backpressure check —
	// a client hammering /submit faster than the pipeline can even look
	// at queue depth still gets a uniform 429 instead of a thundering
	// herd of near-simultaneous backpressure checks. Nil disables the
	// limiter.
	SubmitLimiter *rate.Limiter
}

// NewServer wires a Server from its dependencies. Records and
// Indicators may be nil; routes that need them degrade gracefully
// (download serves application/octet-stream, indicators returns empty).
func NewServer(submitter *pipeline.Submitter, blobs *blobstore.Store, records RecordSource, indicators IndicatorSource, m *metrics.Metrics) *Server {
	return &Server{Submitter: submitter, Blobs: blobs, Records: records, Indicators: indicators, Metrics: m}
}

// Routes builds the ServeMux exposing the four public endpoints.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /submit", s.handleSubmit)
	mux.HandleFunc("GET /download", s.handleDownload)
	mux.HandleFunc("GET /download_json", s.handleDownloadJSON)
	mux.HandleFunc("GET /indicators/{type}", s.handleIndicators)
	return mux
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps a UserError's exit code to the matching HTTP status,
// falling back to 500 for anything not explicitly a client-facing error.
func statusFor(err error) int {
	ue, ok := err.(*scioerrors.UserError)
	if !ok {
		return http.StatusInternalServerError
	}
	switch ue.ExitCode {
	case scioerrors.ExitValidation:
		return http.StatusBadRequest
	case scioerrors.ExitBackpressure:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
