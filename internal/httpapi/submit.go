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

package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/mnemonic-no/scio/internal/pipeline"
)

// handleSubmit decodes the JSON request body into a SubmitRequest and
// forwards it to the Submitter, mapping validation and backpressure
// errors onto the matching HTTP status.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if s.SubmitLimiter != nil && !s.SubmitLimiter.Allow() {
		writeJSON(w, http.StatusTooManyRequests, pipeline.SubmitResponse{Error: "submit rate limit exceeded"})
		return
	}

	var req pipeline.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, pipeline.SubmitResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	resp, err := s.Submitter.Submit(r.Context(), req)
	if err != nil {
		s.logger().Error("httpapi.submit.failed", "error", err)
		writeJSON(w, statusFor(err), pipeline.SubmitResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
