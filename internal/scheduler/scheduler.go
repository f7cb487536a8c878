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

// Package scheduler implements the plugin DAG scheduler: it runs a set of
// independent analyzers over a shared analysis record in dependency-ordered
// concurrent waves, merging each wave's successful output before launching
// the next.
package scheduler

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mnemonic-no/scio/internal/record"
)

// Result is the outcome of one analyzer invocation: the name/version it ran
// under and the arbitrary result tree to attach to the record.
type Result struct {
	Name    string
	Version string
	Result  record.Value
}

// Analyzer is the plugin contract every SCIO analyzer implements.
type Analyzer interface {
	// Name uniquely identifies the analyzer across the set it runs in.
	Name() string
	// Version is surfaced in the Result for audit/debugging.
	Version() string
	// Dependencies lists the Name() of every analyzer whose result key
	// must already be present in the record before this one is launched.
	Dependencies() []string
	// Analyze runs against a read-only snapshot of the record as it
	// existed when this analyzer's wave began.
	Analyze(ctx context.Context, snap *record.Snapshot) (Result, error)
}

// Scheduler owns a fixed set of analyzers and runs them to completion
// against a record.
type Scheduler struct {
	analyzers []Analyzer
	logger    *slog.Logger
}

// New validates and admits a set of analyzers. An analyzer with an empty
// Name, or more than one analyzer sharing a Name, is rejected.
func New(logger *slog.Logger, analyzers ...Analyzer) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	seen := make(map[string]bool, len(analyzers))
	for _, a := range analyzers {
		if a.Name() == "" {
			return nil, &AdmissionError{Reason: "analyzer has empty name"}
		}
		if seen[a.Name()] {
			return nil, &AdmissionError{Reason: "duplicate analyzer name: " + a.Name()}
		}
		seen[a.Name()] = true
	}
	return &Scheduler{analyzers: analyzers, logger: logger}, nil
}

// AdmissionError is returned when a candidate analyzer set fails
// validation before any wave runs.
type AdmissionError struct{ Reason string }

func (e *AdmissionError) Error() string { return "scheduler: " + e.Reason }

// waveResult carries one analyzer's outcome back to the wave coordinator.
type waveResult struct {
	name string
	res  Result
	err  error
}

// Run executes every admitted analyzer whose dependencies become satisfied,
// in topological waves, and returns the final set of keys written plus the
// names of analyzers skipped for unmet dependencies.
//
// Analyzers within one wave run concurrently via a goroutine-per-analyzer
// worker pool (not errgroup.Group): a failing analyzer must not cancel its
// wave-mates, which errgroup's first-error context cancellation would do.
func (s *Scheduler) Run(ctx context.Context, r *record.Record) *RunSummary {
	ready, staged := partition(s.analyzers)
	summary := &RunSummary{}

	for len(ready) > 0 {
		snap := r.NewSnapshot()
		results := runWave(ctx, ready, snap, s.logger)

		for _, wr := range results {
			if wr.err != nil {
				s.logger.Warn("scheduler.analyzer.failed", "analyzer", wr.name, "error", wr.err)
				summary.Failed = append(summary.Failed, wr.name)
				continue
			}
			r.Results[wr.name] = wr.res.Result
			summary.Completed = append(summary.Completed, wr.name)
		}

		ready = ready[:0]
		var stillStaged []Analyzer
		for _, cand := range staged {
			if depsSatisfied(cand.Dependencies(), r.Results) {
				ready = append(ready, cand)
			} else {
				stillStaged = append(stillStaged, cand)
			}
		}
		staged = stillStaged
	}

	for _, cand := range staged {
		s.logger.Warn("scheduler.analyzer.skipped",
			"analyzer", cand.Name(), "unmet_dependencies", unmet(cand.Dependencies(), r.Results))
		summary.Skipped = append(summary.Skipped, cand.Name())
	}

	return summary
}

// RunSummary reports how a Run terminated: which analyzers wrote a key,
// which ran but failed, and which never ran for unmet dependencies.
type RunSummary struct {
	Completed []string
	Failed    []string
	Skipped   []string
}

func partition(analyzers []Analyzer) (ready, staged []Analyzer) {
	for _, a := range analyzers {
		if len(a.Dependencies()) == 0 {
			ready = append(ready, a)
		} else {
			staged = append(staged, a)
		}
	}
	return ready, staged
}

func depsSatisfied(deps []string, results map[string]record.Value) bool {
	for _, d := range deps {
		if _, ok := results[d]; !ok {
			return false
		}
	}
	return true
}

func unmet(deps []string, results map[string]record.Value) []string {
	var out []string
	for _, d := range deps {
		if _, ok := results[d]; !ok {
			out = append(out, d)
		}
	}
	return out
}

// runWave launches every analyzer in wave concurrently and blocks until all
// have returned. A panic in one analyzer is recovered and reported as a
// failure for that analyzer only, so it cannot take down the wave.
func runWave(ctx context.Context, wave []Analyzer, snap *record.Snapshot, logger *slog.Logger) []waveResult {
	out := make([]waveResult, len(wave))
	var wg sync.WaitGroup
	for i, a := range wave {
		wg.Add(1)
		go func(i int, a Analyzer) {
			defer wg.Done()
			defer func() {
				if p := recover(); p != nil {
					logger.Error("scheduler.analyzer.panic", "analyzer", a.Name(), "panic", p)
					out[i] = waveResult{name: a.Name(), err: &PanicError{Analyzer: a.Name(), Value: p}}
				}
			}()
			res, err := a.Analyze(ctx, snap)
			out[i] = waveResult{name: a.Name(), res: res, err: err}
		}(i, a)
	}
	wg.Wait()
	return out
}

// PanicError wraps a recovered panic from inside an analyzer so the
// scheduler can report it through the ordinary failure path.
type PanicError struct {
	Analyzer string
	Value    any
}

func (e *PanicError) Error() string {
	return "scheduler: analyzer " + e.Analyzer + " panicked"
}
