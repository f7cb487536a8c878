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

// Package queue defines the durable work-queue contract the pipeline
// control plane uses to connect its three stages, plus an in-memory
// reference implementation for tests and standalone single-process
// deployments.
package queue

import "context"

// Job is one unit of work sitting in a Tube: an opaque payload plus the
// tube-assigned id needed to Delete it once processed.
type Job struct {
	ID      uint64
	Payload []byte
}

// Tube is the minimal queue protocol the pipeline control plane needs:
// two named tubes (docs, analyze) that support put/reserve/delete, plus
// Len for backpressure depth checks. The verb names and semantics mirror
// greenstalk's beanstalkd client, so a real beanstalkd-backed Tube can be
// dropped in without changing pipeline code.
type Tube interface {
	// Put enqueues payload and returns its job id.
	Put(ctx context.Context, payload []byte) (uint64, error)
	// Reserve blocks until a job is available or ctx is done, and returns
	// it without removing it from the tube.
	Reserve(ctx context.Context) (Job, error)
	// Delete removes a job by id. Deleting an unknown id is a no-op.
	Delete(ctx context.Context, id uint64) error
	// Len reports the current depth of the tube (reserved + ready jobs).
	Len(ctx context.Context) (int, error)
}

// BeanstalkLike documents the wider verb surface a real beanstalkd-backed
// Tube adapter would expose, matching greenstalk's client shape. SCIO
// does not ship an implementation — wiring a live beanstalkd server is
// left to a deployment's own configuration — but any adapter satisfying
// this can also satisfy Tube via the Put/Reserve/Delete subset.
type BeanstalkLike interface {
	Tube
	Watch(ctx context.Context, tubeName string) error
	Use(ctx context.Context, tubeName string) error
	Bury(ctx context.Context, id uint64) error
	StatsTube(ctx context.Context, tubeName string) (map[string]string, error)
}
