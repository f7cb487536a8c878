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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemonic-no/scio/internal/blobstore"
	"github.com/mnemonic-no/scio/internal/queue/memqueue"
)

func newSubmitter(t *testing.T, maxJobs int) *Submitter {
	t.Helper()
	store, err := blobstore.Open(t.TempDir())
	require.NoError(t, err)
	return &Submitter{
		Blobs:   store,
		Docs:    memqueue.New(),
		Analyze: memqueue.New(),
		MaxJobs: maxJobs,
	}
}

func TestSubmit_DedupSameHexdigest(t *testing.T) {
	s := newSubmitter(t, 0)

	req := SubmitRequest{Content: base64.StdEncoding.EncodeToString([]byte("hello")), Filename: "a.txt"}
	r1, err := s.Submit(context.Background(), req)
	require.NoError(t, err)
	r2, err := s.Submit(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, r1.Hexdigest, r2.Hexdigest)
	count, err := s.Blobs.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSubmit_Backpressure(t *testing.T) {
	s := newSubmitter(t, 1)

	req1 := SubmitRequest{Content: base64.StdEncoding.EncodeToString([]byte("one")), Filename: "a.txt"}
	_, err := s.Submit(context.Background(), req1)
	require.NoError(t, err)

	req2 := SubmitRequest{Content: base64.StdEncoding.EncodeToString([]byte("two")), Filename: "b.txt"}
	_, err = s.Submit(context.Background(), req2)
	require.Error(t, err)

	countBefore, _ := s.Blobs.Count()
	assert.Equal(t, 1, countBefore, "rejected submit must not write to the blob store")
}

func TestSubmit_InvalidBase64(t *testing.T) {
	s := newSubmitter(t, 0)
	_, err := s.Submit(context.Background(), SubmitRequest{Content: "not-base64!!!", Filename: "a.txt"})
	assert.Error(t, err)
}

func TestSubmit_InvalidFilename(t *testing.T) {
	s := newSubmitter(t, 0)
	_, err := s.Submit(context.Background(), SubmitRequest{
		Content:  base64.StdEncoding.EncodeToString([]byte("x")),
		Filename: "../etc/passwd",
	})
	assert.Error(t, err)
}

func TestSubmit_DefaultTLPIsAmber(t *testing.T) {
	s := newSubmitter(t, 0)
	resp, err := s.Submit(context.Background(), SubmitRequest{
		Content:  base64.StdEncoding.EncodeToString([]byte("x")),
		Filename: "a.txt",
	})
	require.NoError(t, err)
	assert.Equal(t, "AMBER", resp.TLP)
}

func TestSubmit_QuarantineSkipsQueue(t *testing.T) {
	s := newSubmitter(t, 0)
	store := false
	resp, err := s.Submit(context.Background(), SubmitRequest{
		Content:  base64.StdEncoding.EncodeToString([]byte("secret")),
		Filename: "a.txt",
		Store:    &store,
	})
	require.NoError(t, err)
	assert.False(t, resp.Store)

	depth, _ := s.Docs.Len(context.Background())
	assert.Equal(t, 0, depth, "quarantined submission must not enqueue a job")
}
