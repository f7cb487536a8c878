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
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/mnemonic-no/scio/internal/blobstore"
	"github.com/mnemonic-no/scio/internal/index"
	"github.com/mnemonic-no/scio/internal/pipeline"
	"github.com/mnemonic-no/scio/internal/queue/memqueue"
	"github.com/mnemonic-no/scio/internal/record"
)

func newTestServer(t *testing.T) (*Server, *blobstore.Store, *index.MemClient) {
	t.Helper()
	store, err := blobstore.Open(t.TempDir())
	require.NoError(t, err)
	idx := index.NewMemClient()
	submitter := &pipeline.Submitter{Blobs: store, Docs: memqueue.New(), Analyze: memqueue.New()}
	return NewServer(submitter, store, idx, idx, nil), store, idx
}

func TestHandleSubmit_Success(t *testing.T) {
	s, _, _ := newTestServer(t)

	body, _ := json.Marshal(pipeline.SubmitRequest{
		Content:  base64.StdEncoding.EncodeToString([]byte("hello")),
		Filename: "a.txt",
	})
	req := httptest.NewRequest(http.MethodPost, "/submit", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp pipeline.SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Hexdigest)
}

func TestHandleSubmit_BackpressureReturns429(t *testing.T) {
	store, err := blobstore.Open(t.TempDir())
	require.NoError(t, err)
	submitter := &pipeline.Submitter{Blobs: store, Docs: memqueue.New(), Analyze: memqueue.New(), MaxJobs: 1}
	s := NewServer(submitter, store, nil, nil, nil)

	body1, _ := json.Marshal(pipeline.SubmitRequest{Content: base64.StdEncoding.EncodeToString([]byte("one")), Filename: "a.txt"})
	req1 := httptest.NewRequest(http.MethodPost, "/submit", bytes.NewReader(body1))
	s.Routes().ServeHTTP(httptest.NewRecorder(), req1)

	body2, _ := json.Marshal(pipeline.SubmitRequest{Content: base64.StdEncoding.EncodeToString([]byte("two")), Filename: "b.txt"})
	req2 := httptest.NewRequest(http.MethodPost, "/submit", bytes.NewReader(body2))
	rec2 := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec2, req2)

	assert.Equal(t, http.StatusTooManyRequests, rec2.Code)
}

func TestHandleSubmit_RateLimited(t *testing.T) {
	s, _, _ := newTestServer(t)
	s.SubmitLimiter = rate.NewLimiter(0, 0)

	body, _ := json.Marshal(pipeline.SubmitRequest{Content: base64.StdEncoding.EncodeToString([]byte("x")), Filename: "a.txt"})
	req := httptest.NewRequest(http.MethodPost, "/submit", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestHandleDownload_RoundTrip(t *testing.T) {
	s, store, idx := newTestServer(t)
	digest, err := store.Put([]byte("payload bytes"), false)
	require.NoError(t, err)
	require.NoError(t, idx.Upsert(context.Background(), digest, &record.Record{Hexdigest: digest, ContentType: "text/plain"}))

	req := httptest.NewRequest(http.MethodGet, "/download?id="+digest, nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
	assert.Equal(t, "payload bytes", rec.Body.String())
}

func TestHandleDownload_NotFound(t *testing.T) {
	s, _, _ := newTestServer(t)
	missing := "0000000000000000000000000000000000000000000000000000000000000000"[:64]
	req := httptest.NewRequest(http.MethodGet, "/download?id="+missing, nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleDownload_InvalidID(t *testing.T) {
	s, _, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/download?id=not-hex", nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDownloadJSON_RoundTrip(t *testing.T) {
	s, store, _ := newTestServer(t)
	digest, err := store.Put([]byte("json me"), false)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/download_json?id="+digest, nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp downloadJSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "base64", resp.Encoding)
	decoded, err := base64.StdEncoding.DecodeString(resp.Content)
	require.NoError(t, err)
	assert.Equal(t, "json me", string(decoded))
}

func TestHandleIndicators_FiltersByTypeAndWindow(t *testing.T) {
	s, _, idx := newTestServer(t)

	old := &record.Record{
		Hexdigest:    "a",
		AnalyzedDate: time.Now().Add(-48 * time.Hour).UTC().Format(time.RFC3339),
		Results: map[string]record.Value{
			"indicators": map[string]record.Value{"ipv4": record.List("10.0.0.1")},
		},
	}
	recent := &record.Record{
		Hexdigest:    "b",
		AnalyzedDate: time.Now().UTC().Format(time.RFC3339),
		Results: map[string]record.Value{
			"indicators": map[string]record.Value{"ipv4": record.List("10.0.0.2")},
		},
	}
	require.NoError(t, idx.Upsert(context.Background(), "a", old))
	require.NoError(t, idx.Upsert(context.Background(), "b", recent))

	req := httptest.NewRequest(http.MethodGet, "/indicators/ipv4?last=1d", nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "10.0.0.2")
	assert.NotContains(t, rec.Body.String(), "10.0.0.1")
}

func TestHandleIndicators_UnknownTypeRejected(t *testing.T) {
	s, _, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/indicators/bogus", nil)
	rec := httptest.NewRecorder()
	s.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseLast(t *testing.T) {
	since, err := parseLast("2d")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(-48*time.Hour), since, time.Second)

	since, err = parseLast("")
	require.NoError(t, err)
	assert.True(t, since.IsZero())

	_, err = parseLast("not-a-period")
	assert.Error(t, err)
}
