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

package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemonic-no/scio/internal/record"
)

type fakeAnalyzer struct {
	name    string
	deps    []string
	fn      func(ctx context.Context, snap *record.Snapshot) (Result, error)
}

func (f *fakeAnalyzer) Name() string           { return f.name }
func (f *fakeAnalyzer) Version() string        { return "test" }
func (f *fakeAnalyzer) Dependencies() []string { return f.deps }
func (f *fakeAnalyzer) Analyze(ctx context.Context, snap *record.Snapshot) (Result, error) {
	return f.fn(ctx, snap)
}

func ok(name string, result record.Value) *fakeAnalyzer {
	return &fakeAnalyzer{name: name, fn: func(ctx context.Context, snap *record.Snapshot) (Result, error) {
		return Result{Name: name, Version: "test", Result: result}, nil
	}}
}

func failing(name string) *fakeAnalyzer {
	return &fakeAnalyzer{name: name, fn: func(ctx context.Context, snap *record.Snapshot) (Result, error) {
		return Result{}, errors.New("boom")
	}}
}

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_DependencyOrdering(t *testing.T) {
	postag := ok("pos_tag", map[string]record.Value{"tokens": []record.Value{"a"}})
	sectors := &fakeAnalyzer{
		name: "sectors",
		deps: []string{"pos_tag"},
		fn: func(ctx context.Context, snap *record.Snapshot) (Result, error) {
			require.True(t, snap.Has("pos_tag"))
			return Result{Name: "sectors", Result: map[string]record.Value{"sectors": []record.Value{"aerospace"}}}, nil
		},
	}

	s, err := New(silentLogger(), postag, sectors)
	require.NoError(t, err)

	r := record.New("abc")
	summary := s.Run(context.Background(), r)

	assert.ElementsMatch(t, []string{"pos_tag", "sectors"}, summary.Completed)
	assert.Empty(t, summary.Failed)
	assert.Empty(t, summary.Skipped)
	assert.Contains(t, r.Results, "pos_tag")
	assert.Contains(t, r.Results, "sectors")
}

func TestScheduler_FailureIsolation(t *testing.T) {
	good := ok("good", "fine")
	bad := failing("bad")

	s, err := New(silentLogger(), good, bad)
	require.NoError(t, err)

	r := record.New("abc")
	summary := s.Run(context.Background(), r)

	assert.Contains(t, summary.Completed, "good")
	assert.Contains(t, summary.Failed, "bad")
	assert.Contains(t, r.Results, "good")
	assert.NotContains(t, r.Results, "bad")
}

func TestScheduler_SkipsUnmetDependency(t *testing.T) {
	orphan := &fakeAnalyzer{name: "orphan", deps: []string{"never_runs"}}

	s, err := New(silentLogger(), orphan)
	require.NoError(t, err)

	r := record.New("abc")
	summary := s.Run(context.Background(), r)

	assert.Equal(t, []string{"orphan"}, summary.Skipped)
	assert.Empty(t, summary.Completed)
}

func TestScheduler_WaveIsolation_NoSiblingVisibility(t *testing.T) {
	var sawSibling bool
	a := &fakeAnalyzer{name: "a", fn: func(ctx context.Context, snap *record.Snapshot) (Result, error) {
		if snap.Has("b") {
			sawSibling = true
		}
		return Result{Name: "a", Result: "a"}, nil
	}}
	b := ok("b", "b")

	s, err := New(silentLogger(), a, b)
	require.NoError(t, err)
	s.Run(context.Background(), record.New("abc"))

	assert.False(t, sawSibling, "analyzers in the same wave must not see each other's output")
}

func TestScheduler_PanicIsolation(t *testing.T) {
	good := ok("good", "fine")
	panics := &fakeAnalyzer{name: "panics", fn: func(ctx context.Context, snap *record.Snapshot) (Result, error) {
		panic("kaboom")
	}}

	s, err := New(silentLogger(), good, panics)
	require.NoError(t, err)

	r := record.New("abc")
	summary := s.Run(context.Background(), r)

	assert.Contains(t, summary.Completed, "good")
	assert.Contains(t, summary.Failed, "panics")
}

func TestNew_RejectsDuplicateNames(t *testing.T) {
	_, err := New(silentLogger(), ok("dup", 1), ok("dup", 2))
	require.Error(t, err)
}
