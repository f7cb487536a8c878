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
	"errors"

	"golang.org/x/sync/errgroup"
)

// Supervisor runs any number of extract/analyze worker loops together
// using errgroup's all-or-nothing join: if one worker returns an error
// other than context cancellation, every other worker under the same
// Supervisor is canceled too. This is deliberately the opposite of the
// scheduler's wave isolation, where one analyzer's failure must never
// affect its siblings — here, a worker loop returning at all means its
// queue connection died, and running the rest of the process without it
// serves no purpose.
type Supervisor struct {
	g   *errgroup.Group
	ctx context.Context
}

// NewSupervisor returns a Supervisor whose workers all run under a
// context derived from ctx.
func NewSupervisor(ctx context.Context) *Supervisor {
	g, gctx := errgroup.WithContext(ctx)
	return &Supervisor{g: g, ctx: gctx}
}

// Context returns the group's derived context, canceled once any worker
// returns a non-nil error or the Supervisor's parent ctx is done.
func (s *Supervisor) Context() context.Context { return s.ctx }

// Go starts a worker loop, passing it the Supervisor's shared context.
func (s *Supervisor) Go(run func(ctx context.Context) error) {
	s.g.Go(func() error { return run(s.ctx) })
}

// Wait blocks until every worker has returned, then returns the first
// error that was not simply the shared context being canceled.
func (s *Supervisor) Wait() error {
	err := s.g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
