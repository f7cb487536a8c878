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

// Package memqueue is an in-memory queue.Tube used by tests and by the
// standalone single-process deployment mode (no external beanstalkd
// needed).
package memqueue

import (
	"container/list"
	"context"
	"sync"

	"github.com/mnemonic-no/scio/internal/queue"
)

type entry struct {
	id      uint64
	payload []byte
}

// Queue is a FIFO, in-memory implementation of queue.Tube.
type Queue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	ready   *list.List
	nextID  uint64
	reserved map[uint64]bool
}

// New returns an empty Queue.
func New() *Queue {
	q := &Queue{ready: list.New(), reserved: map[uint64]bool{}}
	q.cond = sync.NewCond(&q.mu)
	return q
}

var _ queue.Tube = (*Queue)(nil)

// Put appends payload to the tail of the queue.
func (q *Queue) Put(ctx context.Context, payload []byte) (uint64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.nextID++
	id := q.nextID
	q.ready.PushBack(entry{id: id, payload: payload})
	q.cond.Signal()
	return id, nil
}

// Reserve blocks until a job is available or ctx is canceled.
func (q *Queue) Reserve(ctx context.Context) (queue.Job, error) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			q.mu.Lock()
			q.cond.Broadcast()
			q.mu.Unlock()
		case <-done:
		}
	}()
	defer close(done)

	q.mu.Lock()
	defer q.mu.Unlock()
	for q.ready.Len() == 0 {
		if ctx.Err() != nil {
			return queue.Job{}, ctx.Err()
		}
		q.cond.Wait()
	}
	if ctx.Err() != nil {
		return queue.Job{}, ctx.Err()
	}

	front := q.ready.Remove(q.ready.Front()).(entry)
	q.reserved[front.id] = true
	return queue.Job{ID: front.id, Payload: front.payload}, nil
}

// Delete removes id from the reserved set. Unknown ids are a no-op.
func (q *Queue) Delete(ctx context.Context, id uint64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.reserved, id)
	return nil
}

// Len reports ready + reserved job count.
func (q *Queue) Len(ctx context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ready.Len() + len(q.reserved), nil
}
