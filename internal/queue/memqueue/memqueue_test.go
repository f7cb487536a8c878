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

package memqueue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutReserveDelete(t *testing.T) {
	q := New()
	ctx := context.Background()

	id, err := q.Put(ctx, []byte("hello"))
	require.NoError(t, err)

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	job, err := q.Reserve(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, job.ID)
	assert.Equal(t, []byte("hello"), job.Payload)

	n, err = q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "reserved job still counts toward depth")

	require.NoError(t, q.Delete(ctx, job.ID))
	n, err = q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestReserve_FIFOOrder(t *testing.T) {
	q := New()
	ctx := context.Background()
	q.Put(ctx, []byte("first"))
	q.Put(ctx, []byte("second"))

	j1, err := q.Reserve(ctx)
	require.NoError(t, err)
	j2, err := q.Reserve(ctx)
	require.NoError(t, err)

	assert.Equal(t, []byte("first"), j1.Payload)
	assert.Equal(t, []byte("second"), j2.Payload)
}

func TestReserve_BlocksUntilPut(t *testing.T) {
	q := New()
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		job, err := q.Reserve(ctx)
		require.NoError(t, err)
		assert.Equal(t, []byte("late"), job.Payload)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	_, err := q.Put(ctx, []byte("late"))
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Reserve did not unblock after Put")
	}
}

func TestReserve_ContextCanceled(t *testing.T) {
	q := New()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := q.Reserve(ctx)
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Reserve did not return after context cancellation")
	}
}
