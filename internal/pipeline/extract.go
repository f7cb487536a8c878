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

	"github.com/mnemonic-no/scio/internal/blobstore"
	"github.com/mnemonic-no/scio/internal/contract"
	"github.com/mnemonic-no/scio/internal/extractor"
	"github.com/mnemonic-no/scio/internal/metrics"
	"github.com/mnemonic-no/scio/internal/queue"
)

// ExtractWorker is stage B: it reserves a job from docs, loads the blob,
// hands it to the extractor, merges (text, metadata) into the envelope,
// and enqueues on analyze. Any number of ExtractWorker instances may run
// side by side against the shared docs/analyze tubes.
type ExtractWorker struct {
	Blobs     *blobstore.Store
	Docs      queue.Tube
	Analyze   queue.Tube
	Extractor extractor.Extractor
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
}

// Run processes jobs from Docs until ctx is done. Every iteration follows
// an at-least-once-but-delete-on-failure discipline: a job is always
// deleted after being reserved, whether processing succeeded or not.
func (w *ExtractWorker) Run(ctx context.Context) error {
	logger := w.logger()
	for {
		job, err := w.Docs.Reserve(ctx)
		if err != nil {
			return ctx.Err()
		}
		w.processOne(ctx, job.ID, job.Payload, logger)
	}
}

func (w *ExtractWorker) processOne(ctx context.Context, id uint64, payload []byte, logger *slog.Logger) {
	defer func() {
		if err := w.Docs.Delete(ctx, id); err != nil {
			logger.Error("pipeline.extract.delete_failed", "job_id", id, "error", err)
		}
	}()

	if result := contract.ValidateJobBody(payload); !result.OK {
		logger.Error("pipeline.extract.oversized_job", "job_id", id, "reason", result.Message)
		return
	}

	env, err := DecodeEnvelope(payload)
	if err != nil {
		logger.Error("pipeline.extract.corrupt_job", "job_id", id, "error", err)
		return
	}

	if w.Metrics != nil {
		w.Metrics.ExtractTotal.Inc()
	}

	content, err := w.Blobs.Get(env.Hexdigest)
	if err != nil {
		logger.Error("pipeline.extract.blob_missing", "run_id", env.RunID, "hexdigest", env.Hexdigest, "error", err)
		if w.Metrics != nil {
			w.Metrics.ExtractErrors.Inc()
		}
		return
	}

	text, meta, err := w.Extractor.Extract(ctx, content, env.ContentType)
	if err != nil {
		logger.Error("pipeline.extract.failed", "run_id", env.RunID, "hexdigest", env.Hexdigest, "error", err)
		if w.Metrics != nil {
			w.Metrics.ExtractErrors.Inc()
		}
		return
	}

	env.Content = text
	env.Metadata = meta

	out, err := EncodeEnvelope(env)
	if err != nil {
		logger.Error("pipeline.extract.encode_failed", "hexdigest", env.Hexdigest, "error", err)
		return
	}
	if _, err := w.Analyze.Put(ctx, out); err != nil {
		logger.Error("pipeline.extract.enqueue_failed", "hexdigest", env.Hexdigest, "error", err)
	}
}

func (w *ExtractWorker) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}
