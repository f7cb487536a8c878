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

// Package metrics holds SCIO's Prometheus instrumentation: one
// lazily-registered metric set per pipeline stage plus the scheduler,
// using a sync.Once-guarded registration so the metric set can be
// constructed before a registry exists and is safe to initialize from
// multiple goroutines.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is SCIO's full instrumentation surface.
type Metrics struct {
	once sync.Once

	SubmitTotal        prometheus.Counter
	SubmitRejected      prometheus.Counter
	SubmitDuplicate     prometheus.Counter
	ExtractTotal        prometheus.Counter
	ExtractErrors       prometheus.Counter
	AnalyzeTotal        prometheus.Counter
	AnalyzeErrors       prometheus.Counter
	IndexTotal          prometheus.Counter
	IndexErrors         prometheus.Counter

	AnalyzerCompleted *prometheus.CounterVec
	AnalyzerFailed    *prometheus.CounterVec
	AnalyzerSkipped   *prometheus.CounterVec

	QueueDepthDocs    prometheus.Gauge
	QueueDepthAnalyze prometheus.Gauge

	SubmitDuration  prometheus.Histogram
	ExtractDuration prometheus.Histogram
	AnalyzeDuration prometheus.Histogram
}

// Default is the process-wide metric set, registered against the default
// Prometheus registry the first time Init is called.
var Default = &Metrics{}

// Init registers every metric exactly once, using the once-guarded
// lazy-init idiom also seen in pkg/ingestion/metrics.go.
func (m *Metrics) Init() {
	m.once.Do(func() {
		buckets := []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

		m.SubmitTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "scio_submit_total", Help: "Documents accepted at the submit endpoint"})
		m.SubmitRejected = prometheus.NewCounter(prometheus.CounterOpts{Name: "scio_submit_rejected_total", Help: "Submits rejected due to backpressure"})
		m.SubmitDuplicate = prometheus.NewCounter(prometheus.CounterOpts{Name: "scio_submit_duplicate_total", Help: "Submits whose hexdigest already existed"})
		m.ExtractTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "scio_extract_total", Help: "Jobs processed by the extract stage"})
		m.ExtractErrors = prometheus.NewCounter(prometheus.CounterOpts{Name: "scio_extract_errors_total", Help: "Extract-stage failures"})
		m.AnalyzeTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "scio_analyze_total", Help: "Jobs processed by the analyze stage"})
		m.AnalyzeErrors = prometheus.NewCounter(prometheus.CounterOpts{Name: "scio_analyze_errors_total", Help: "Analyze-stage failures (missing content, index errors)"})
		m.IndexTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "scio_index_total", Help: "Records written to the search index"})
		m.IndexErrors = prometheus.NewCounter(prometheus.CounterOpts{Name: "scio_index_errors_total", Help: "Search index write failures"})

		m.AnalyzerCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "scio_analyzer_completed_total", Help: "Per-analyzer successful completions"}, []string{"analyzer"})
		m.AnalyzerFailed = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "scio_analyzer_failed_total", Help: "Per-analyzer failures"}, []string{"analyzer"})
		m.AnalyzerSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "scio_analyzer_skipped_total", Help: "Per-analyzer skips due to unmet dependencies"}, []string{"analyzer"})

		m.QueueDepthDocs = prometheus.NewGauge(prometheus.GaugeOpts{Name: "scio_queue_depth_docs", Help: "Current depth of the docs queue"})
		m.QueueDepthAnalyze = prometheus.NewGauge(prometheus.GaugeOpts{Name: "scio_queue_depth_analyze", Help: "Current depth of the analyze queue"})

		m.SubmitDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "scio_submit_duration_seconds", Help: "Submit handler latency", Buckets: buckets})
		m.ExtractDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "scio_extract_duration_seconds", Help: "Extract stage latency", Buckets: buckets})
		m.AnalyzeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "scio_analyze_duration_seconds", Help: "Analyze stage latency (full scheduler run)", Buckets: buckets})

		prometheus.MustRegister(
			m.SubmitTotal, m.SubmitRejected, m.SubmitDuplicate,
			m.ExtractTotal, m.ExtractErrors,
			m.AnalyzeTotal, m.AnalyzeErrors,
			m.IndexTotal, m.IndexErrors,
			m.AnalyzerCompleted, m.AnalyzerFailed, m.AnalyzerSkipped,
			m.QueueDepthDocs, m.QueueDepthAnalyze,
			m.SubmitDuration, m.ExtractDuration, m.AnalyzeDuration,
		)
	})
}

// RecordSchedulerSummary increments the per-analyzer vectors from a
// scheduler.RunSummary-shaped result, without importing the scheduler
// package (avoids a dependency cycle; callers pass the three name slices).
func (m *Metrics) RecordSchedulerSummary(completed, failed, skipped []string) {
	for _, name := range completed {
		m.AnalyzerCompleted.WithLabelValues(name).Inc()
	}
	for _, name := range failed {
		m.AnalyzerFailed.WithLabelValues(name).Inc()
	}
	for _, name := range skipped {
		m.AnalyzerSkipped.WithLabelValues(name).Inc()
	}
}
