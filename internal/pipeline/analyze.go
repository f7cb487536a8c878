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
	"log/slog"
	"time"

	"github.com/mnemonic-no/scio/internal/contract"
	"github.com/mnemonic-no/scio/internal/index"
	"github.com/mnemonic-no/scio/internal/metrics"
	"github.com/mnemonic-no/scio/internal/queue"
	"github.com/mnemonic-no/scio/internal/record"
	"github.com/mnemonic-no/scio/internal/scheduler"
)

// AnalyzeWorker is stage C: it reserves a job from analyze, runs the
// analyzer DAG scheduler over the record, post-processes metadata dates,
// and writes the result to the configured sink and/or index (additively,
// per DESIGN.md's resolution of the sink-vs-index Open Question), falling
// back to stdout when neither is configured.
type AnalyzeWorker struct {
	Analyze    queue.Tube
	Scheduler  *scheduler.Scheduler
	Index      index.Client
	Sink       *index.Sink
	DateFields []string
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	Now        func() time.Time
	Stdout     func(doc *record.Record) error
}

// Run processes jobs from Analyze until ctx is done.
func (w *AnalyzeWorker) Run(ctx context.Context) error {
	logger := w.logger()
	for {
		job, err := w.Analyze.Reserve(ctx)
		if err != nil {
			return ctx.Err()
		}
		w.processOne(ctx, job.ID, job.Payload, logger)
	}
}

func (w *AnalyzeWorker) processOne(ctx context.Context, id uint64, payload []byte, logger *slog.Logger) {
	defer func() {
		if err := w.Analyze.Delete(ctx, id); err != nil {
			logger.Error("pipeline.analyze.delete_failed", "job_id", id, "error", err)
		}
	}()

	if result := contract.ValidateJobBody(payload); !result.OK {
		logger.Error("pipeline.analyze.oversized_job", "job_id", id, "reason", result.Message)
		return
	}

	env, err := DecodeEnvelope(payload)
	if err != nil {
		logger.Error("pipeline.analyze.corrupt_job", "job_id", id, "error", err)
		return
	}

	if w.Metrics != nil {
		w.Metrics.AnalyzeTotal.Inc()
	}

	if env.Content == "" {
		logger.Error("pipeline.analyze.missing_content", "run_id", env.RunID, "hexdigest", env.Hexdigest)
		if w.Metrics != nil {
			w.Metrics.AnalyzeErrors.Inc()
		}
		return
	}

	rec := env.ToRecord()
	if err := w.RunOne(ctx, rec); err != nil {
		logger.Error("pipeline.analyze.failed", "hexdigest", env.Hexdigest, "error", err)
		if w.Metrics != nil {
			w.Metrics.AnalyzeErrors.Inc()
		}
	}
}

// RunOne stamps dates, runs the scheduler, filters metadata, and writes
// the result out. It is shared by the queue-driven worker loop and the
// standalone filter mode.
func (w *AnalyzeWorker) RunOne(ctx context.Context, rec *record.Record) error {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	rec.StampDates(now())

	summary := w.Scheduler.Run(ctx, rec)
	if w.Metrics != nil {
		w.Metrics.RecordSchedulerSummary(summary.Completed, summary.Failed, summary.Skipped)
	}

	filtered, err := record.FilterDateFields(rec.Metadata, w.DateFields)
	if err != nil {
		return err
	}
	rec.Metadata = filtered

	return w.write(ctx, rec)
}

func (w *AnalyzeWorker) write(ctx context.Context, rec *record.Record) error {
	if w.Sink != nil {
		if err := w.Sink.Post(ctx, rec); err != nil {
			w.logger().Error("pipeline.analyze.sink_failed", "hexdigest", rec.Hexdigest, "error", err)
		}
	}
	if w.Index != nil {
		if err := w.Index.Upsert(ctx, rec.Hexdigest, rec); err != nil {
			if w.Metrics != nil {
				w.Metrics.IndexErrors.Inc()
			}
			w.logger().Error("pipeline.analyze.index_failed", "hexdigest", rec.Hexdigest, "error", err)
		} else if w.Metrics != nil {
			w.Metrics.IndexTotal.Inc()
		}
	}
	if w.Sink == nil && w.Index == nil && w.Stdout != nil {
		return w.Stdout(rec)
	}
	return nil
}

func (w *AnalyzeWorker) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}
