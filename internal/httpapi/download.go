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
	"encoding/base64"
	"io"
	"net/http"
	"regexp"

	"github.com/mnemonic-no/scio/internal/blobstore"
	"github.com/mnemonic-no/scio/internal/record"
)

var reHexID = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// handleDownload streams the original blob bytes for a hexdigest,
// setting Content-Type from the indexed record when one is available.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if !reHexID.MatchString(id) {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	reader, err := s.Blobs.OpenReader(id)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", s.contentTypeFor(id))
	io.Copy(w, reader)
}

// downloadJSONResponse mirrors /download_json's body shape.
type downloadJSONResponse struct {
	Error    string `json:"error,omitempty"`
	Bytes    int    `json:"bytes"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// handleDownloadJSON returns the blob's bytes as a base64-encoded JSON
// payload, for callers that can't consume a raw byte stream.
func (s *Server) handleDownloadJSON(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if !reHexID.MatchString(id) {
		writeJSON(w, http.StatusBadRequest, downloadJSONResponse{Error: "invalid id"})
		return
	}

	content, err := s.Blobs.Get(id)
	if err != nil {
		status := http.StatusInternalServerError
		if err == blobstore.ErrNotFound {
			status = http.StatusNotFound
		}
		writeJSON(w, status, downloadJSONResponse{Error: "File not found"})
		return
	}

	writeJSON(w, http.StatusOK, downloadJSONResponse{
		Bytes:    len(content),
		Content:  base64.StdEncoding.EncodeToString(content),
		Encoding: "base64",
	})
}

func (s *Server) contentTypeFor(hexdigest string) string {
	if s.Records != nil {
		if doc, ok := s.Records.Get(hexdigest); ok {
			if rec, ok := doc.(*record.Record); ok && rec.ContentType != "" {
				return rec.ContentType
			}
		}
	}
	return "application/octet-stream"
}
