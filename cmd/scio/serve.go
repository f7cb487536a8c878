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
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"
	"golang.org/x/time/rate"

	"github.com/mnemonic-no/scio/internal/analyzer/indicators"
	"github.com/mnemonic-no/scio/internal/analyzer/locations"
	"github.com/mnemonic-no/scio/internal/analyzer/mitreattack"
	"github.com/mnemonic-no/scio/internal/analyzer/nlpactors"
	"github.com/mnemonic-no/scio/internal/analyzer/postag"
	"github.com/mnemonic-no/scio/internal/analyzer/sectors"
	"github.com/mnemonic-no/scio/internal/analyzer/threatactor"
	"github.com/mnemonic-no/scio/internal/analyzer/tools"
	"github.com/mnemonic-no/scio/internal/analyzer/vulnerabilities"
	"github.com/mnemonic-no/scio/internal/blobstore"
	"github.com/mnemonic-no/scio/internal/config"
	scioerrors "github.com/mnemonic-no/scio/internal/errors"
	"github.com/mnemonic-no/scio/internal/extractor"
	"github.com/mnemonic-no/scio/internal/httpapi"
	"github.com/mnemonic-no/scio/internal/index"
	"github.com/mnemonic-no/scio/internal/metrics"
	"github.com/mnemonic-no/scio/internal/pipeline"
	"github.com/mnemonic-no/scio/internal/queue/memqueue"
	"github.com/mnemonic-no/scio/internal/scheduler"
	"github.com/mnemonic-no/scio/internal/ui"
	"github.com/mnemonic-no/scio/internal/vocab"
)

// runServe assembles the blob store, both work queues, the vocab tables
// and gazetteer, the analyzer DAG, and the HTTP API, then runs the
// extract/analyze worker loops and the HTTP server together under one
// pipeline.Supervisor until an interrupt or terminate signal arrives.
func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a YAML config file")
	extractWorkers := fs.Int("extract-workers", 2, "Number of concurrent stage-B extract workers")
	analyzeWorkers := fs.Int("analyze-workers", 2, "Number of concurrent stage-C analyze workers")
	submitRatePerSec := fs.Float64("submit-rate", 50, "Max accepted /submit requests per second, 0 disables limiting")
	submitBurst := fs.Int("submit-burst", 100, "Burst size for the /submit rate limiter")
	config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath, fs)
	if err != nil {
		return err
	}

	logger := slog.Default()

	store, err := blobstore.Open(cfg.DataDir)
	if err != nil {
		return scioerrors.NewConfigError("failed to open blob store", err.Error(),
			"Check that --data-dir is writable.", err)
	}

	docs := memqueue.New()
	analyzeQ := memqueue.New()

	m := metrics.Default
	m.Init()

	analyzers, err := buildAnalyzers(cfg, logger)
	if err != nil {
		return err
	}
	sched, err := scheduler.New(logger, analyzers...)
	if err != nil {
		return scioerrors.NewInternalError("failed to admit analyzer set", err.Error(), err)
	}

	idx := index.NewMemClient()
	var sink *index.Sink
	if cfg.SinkURL != "" {
		sink = index.NewSink(cfg.SinkURL, time.Duration(cfg.IndexTimeoutSeconds)*time.Second)
	}

	submitter := &pipeline.Submitter{Blobs: store, Docs: docs, Analyze: analyzeQ, MaxJobs: cfg.MaxJobs, Metrics: m}

	var limiter *rate.Limiter
	if *submitRatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(*submitRatePerSec), *submitBurst)
	}
	server := httpapi.NewServer(submitter, store, idx, idx, m)
	server.Logger = logger
	server.SubmitLimiter = limiter

	httpServer := &http.Server{Addr: cfg.HTTPAddr, Handler: server.Routes()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sup := pipeline.NewSupervisor(ctx)

	for i := 0; i < *extractWorkers; i++ {
		w := &pipeline.ExtractWorker{
			Blobs: store, Docs: docs, Analyze: analyzeQ,
			Extractor: extractor.PlainText{}, Logger: logger, Metrics: m,
		}
		sup.Go(func(ctx context.Context) error { return w.Run(ctx) })
	}
	for i := 0; i < *analyzeWorkers; i++ {
		w := &pipeline.AnalyzeWorker{
			Analyze: analyzeQ, Scheduler: sched, Index: idx, Sink: sink,
			DateFields: cfg.DateFields, Logger: logger, Metrics: m,
		}
		sup.Go(func(ctx context.Context) error { return w.Run(ctx) })
	}

	sup.Go(func(ctx context.Context) error {
		errCh := make(chan error, 1)
		go func() { errCh <- httpServer.ListenAndServe() }()
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		case err := <-errCh:
			if err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		}
	})

	if cfg.MetricsAddr != "" {
		metricsServer := &http.Server{Addr: cfg.MetricsAddr, Handler: promhttp.Handler()}
		sup.Go(func(ctx context.Context) error {
			go func() { <-ctx.Done(); _ = metricsServer.Close() }()
			if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
				return err
			}
			return nil
		})
	}

	ui.Header("SCIO")
	ui.SubHeader("Serving")
	fmt.Printf("  %s %s\n", ui.Label("HTTP addr:"), ui.DimText(cfg.HTTPAddr))
	fmt.Printf("  %s %s\n", ui.Label("Data dir:"), ui.DimText(cfg.DataDir))
	fmt.Printf("  %s %s\n", ui.Label("Analyzers:"), ui.CountText(len(analyzers)))
	ui.Successf("scio serving on %s (data-dir=%s)", cfg.HTTPAddr, cfg.DataDir)
	return sup.Wait()
}

// buildAnalyzers constructs the full set of analyzer plugins, loading
// vocab tables and the gazetteer from the configured alias/data files.
// A file that is configured but fails to load is a config error; a file
// left unconfigured means that analyzer's vocab table is simply empty.
func buildAnalyzers(cfg config.Config, logger *slog.Logger) ([]scheduler.Analyzer, error) {
	threatactorTable, err := loadOrEmptyTable(cfg.ThreatActorAliasFile, logger)
	if err != nil {
		return nil, err
	}
	toolTable, err := loadOrEmptyTable(cfg.ToolAliasFile, logger)
	if err != nil {
		return nil, err
	}
	sectorTable, err := loadOrEmptyTable(cfg.SectorAliasFile, logger)
	if err != nil {
		return nil, err
	}
	countryTable, err := loadOrEmptyTable(cfg.CountryAliasFile, logger)
	if err != nil {
		return nil, err
	}

	gaz := locations.NewGazetteer()
	if cfg.CitiesGazetteerFile != "" {
		cities, err := loadCities(cfg.CitiesGazetteerFile)
		if err != nil {
			return nil, err
		}
		for _, c := range cities {
			gaz.AddCity(c)
		}
	}
	if cfg.CountriesGazetteerFile != "" {
		countries, err := loadCountries(cfg.CountriesGazetteerFile)
		if err != nil {
			return nil, err
		}
		for _, c := range countries {
			gaz.AddCountry(c)
		}
	}

	return []scheduler.Analyzer{
		postag.New(),
		indicators.New(),
		vulnerabilities.New(),
		mitreattack.New(),
		threatactor.New(threatactorTable, cfg.UppercaseAbbreviations),
		tools.New(toolTable),
		sectors.New(sectorTable),
		locations.New(gaz, countryTable),
		nlpactors.New(),
	}, nil
}

func loadOrEmptyTable(path string, logger *slog.Logger) (*vocab.Table, error) {
	if path == "" {
		return vocab.NewTable(logger), nil
	}
	table, err := vocab.LoadAliasFile(path)
	if err != nil {
		return nil, scioerrors.NewVocabError("failed to load alias file", fmt.Sprintf("%s: %v", path, err), err)
	}
	return table, nil
}

func loadCities(path string) ([]locations.City, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, scioerrors.NewConfigError("failed to open cities gazetteer", err.Error(), "", err)
	}
	defer f.Close()
	cities, err := locations.LoadCitiesTSV(f)
	if err != nil {
		return nil, scioerrors.NewConfigError("failed to parse cities gazetteer", fmt.Sprintf("%s: %v", path, err), "", err)
	}
	return cities, nil
}

func loadCountries(path string) ([]locations.Country, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, scioerrors.NewConfigError("failed to open countries gazetteer", err.Error(), "", err)
	}
	defer f.Close()
	countries, err := locations.LoadCountriesJSON(f)
	if err != nil {
		return nil, scioerrors.NewConfigError("failed to parse countries gazetteer", fmt.Sprintf("%s: %v", path, err), "", err)
	}
	return countries, nil
}
