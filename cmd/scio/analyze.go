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

package main

import (
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/mnemonic-no/scio/internal/config"
	scioerrors "github.com/mnemonic-no/scio/internal/errors"
	"github.com/mnemonic-no/scio/internal/pipeline"
	"github.com/mnemonic-no/scio/internal/scheduler"
)

// runAnalyze reads one JSON envelope from stdin, runs the full analyzer
// DAG over it, and writes the resulting record as JSON to stdout. It
// builds the same analyzer set serve does, from the same config sources,
// but runs no queues, HTTP server, or worker loops.
func runAnalyze(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a YAML config file")
	config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath, fs)
	if err != nil {
		return err
	}

	logger := slog.Default()
	analyzers, err := buildAnalyzers(cfg, logger)
	if err != nil {
		return err
	}
	sched, err := scheduler.New(logger, analyzers...)
	if err != nil {
		return scioerrors.NewInternalError("failed to admit analyzer set", err.Error(), err)
	}

	worker := &pipeline.AnalyzeWorker{Scheduler: sched, DateFields: cfg.DateFields, Logger: logger}
	if err := pipeline.RunFilter(worker, os.Stdin, os.Stdout); err != nil {
		return scioerrors.NewAnalyzerError("filter", err)
	}
	return nil
}
