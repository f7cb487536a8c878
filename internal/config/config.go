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

// Package config loads SCIO's runtime configuration with a fixed
// precedence chain — command-line > environment > config file > built-in
// default — following the pflag-based flag sets the rest of this
// codebase uses for its CLI commands.
package config

import (
	"fmt"
	"os"
	"strconv"

	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config is the flat set of runtime parameters every SCIO process reads
// at startup.
type Config struct {
	// HTTPAddr is the stage-A HTTP listen address.
	HTTPAddr string `yaml:"http_addr"`
	// MaxJobs is the queue-depth backpressure threshold: /submit rejects
	// new work once either queue reaches this depth.
	MaxJobs int `yaml:"max_jobs"`
	// DataDir holds the content-addressed blob store and quarantine path.
	DataDir string `yaml:"data_dir"`
	// ThreatActorAliasFile, ToolAliasFile point at vocab.LoadAliasFile
	// sources for their respective analyzers.
	ThreatActorAliasFile string `yaml:"threatactor_alias_file"`
	ToolAliasFile        string `yaml:"tool_alias_file"`
	// SectorAliasFile, CountryAliasFile are the remaining vocab.Table
	// sources, for the sectors analyzer and the locations analyzer's
	// country-name/alpha-2-code lookup respectively.
	SectorAliasFile  string `yaml:"sector_alias_file"`
	CountryAliasFile string `yaml:"country_alias_file"`
	// CitiesGazetteerFile, CountriesGazetteerFile feed the locations
	// analyzer's Gazetteer: a geonames-style city TSV and a JSON country
	// array.
	CitiesGazetteerFile    string `yaml:"cities_gazetteer_file"`
	CountriesGazetteerFile string `yaml:"countries_gazetteer_file"`
	// UppercaseAbbreviations is the threatactor normalizer's forced-case
	// whitelist (e.g. APT, BRONZE).
	UppercaseAbbreviations []string `yaml:"uppercase_abbreviations"`
	// DateFields is the metadata date-field whitelist.
	DateFields []string `yaml:"date_fields"`
	// SoftLimitBytes is loaded like every other key, but the job-body check
	// in internal/contract reads SCIO_SOFT_LIMIT_BYTES from the environment
	// itself and does not consult this field, so a value set only in the
	// config file has no effect.
	SoftLimitBytes int `yaml:"soft_limit_bytes"`
	// RequestTimeoutSeconds, IndexTimeoutSeconds are the outbound-call
	// timeouts (60s / 180s default).
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
	IndexTimeoutSeconds   int `yaml:"index_timeout_seconds"`
	// MetricsAddr, when non-empty, serves /metrics on this address.
	MetricsAddr string `yaml:"metrics_addr"`
	// SinkURL, when non-empty, is POSTed the completed record JSON
	// alongside (not instead of) any configured search index.
	SinkURL string `yaml:"sink_url"`
}

// Default returns the built-in configuration baseline, the lowest rung of
// the precedence chain.
func Default() Config {
	return Config{
		HTTPAddr:              ":3000",
		MaxJobs:               1000,
		DataDir:               "./data",
		ThreatActorAliasFile:   "",
		ToolAliasFile:          "",
		SectorAliasFile:        "",
		CountryAliasFile:       "",
		CitiesGazetteerFile:    "",
		CountriesGazetteerFile: "",
		UppercaseAbbreviations: []string{"APT", "BRONZE"},
		DateFields:            []string{"Creation-Date", "Last-Modified", "Last-Save-Date"},
		SoftLimitBytes:        64 << 20,
		RequestTimeoutSeconds: 60,
		IndexTimeoutSeconds:   180,
		MetricsAddr:           "",
		SinkURL:               "",
	}
}

// Load builds a Config by layering, from lowest to highest priority:
// built-in default, then configPath's YAML file (if non-empty and
// present), then SCIO_* environment variables, then flags already parsed
// into fs. Pass the *pflag.FlagSet used by the calling command so its
// Changed() bookkeeping can distinguish "set on the CLI" from "left at its
// flag default".
func Load(configPath string, fs *flag.FlagSet) (Config, error) {
	cfg := Default()

	if configPath != "" {
		if err := mergeFile(&cfg, configPath); err != nil {
			return Config{}, err
		}
	}

	mergeEnv(&cfg)

	if fs != nil {
		mergeFlags(&cfg, fs)
	}

	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("SCIO_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("SCIO_MAX_JOBS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxJobs = n
		}
	}
	if v := os.Getenv("SCIO_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("SCIO_THREATACTOR_ALIAS_FILE"); v != "" {
		cfg.ThreatActorAliasFile = v
	}
	if v := os.Getenv("SCIO_TOOL_ALIAS_FILE"); v != "" {
		cfg.ToolAliasFile = v
	}
	if v := os.Getenv("SCIO_SECTOR_ALIAS_FILE"); v != "" {
		cfg.SectorAliasFile = v
	}
	if v := os.Getenv("SCIO_COUNTRY_ALIAS_FILE"); v != "" {
		cfg.CountryAliasFile = v
	}
	if v := os.Getenv("SCIO_CITIES_GAZETTEER_FILE"); v != "" {
		cfg.CitiesGazetteerFile = v
	}
	if v := os.Getenv("SCIO_COUNTRIES_GAZETTEER_FILE"); v != "" {
		cfg.CountriesGazetteerFile = v
	}
	if v := os.Getenv("SCIO_SOFT_LIMIT_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SoftLimitBytes = n
		}
	}
	if v := os.Getenv("SCIO_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("SCIO_SINK_URL"); v != "" {
		cfg.SinkURL = v
	}
}

// mergeFlags applies only flags the caller actually set on the command
// line (fs.Changed), so an unset flag at its pflag default never
// overrides a value already resolved from env or file.
func mergeFlags(cfg *Config, fs *flag.FlagSet) {
	if fs.Changed("http-addr") {
		if v, err := fs.GetString("http-addr"); err == nil {
			cfg.HTTPAddr = v
		}
	}
	if fs.Changed("max-jobs") {
		if v, err := fs.GetInt("max-jobs"); err == nil {
			cfg.MaxJobs = v
		}
	}
	if fs.Changed("data-dir") {
		if v, err := fs.GetString("data-dir"); err == nil {
			cfg.DataDir = v
		}
	}
	if fs.Changed("metrics-addr") {
		if v, err := fs.GetString("metrics-addr"); err == nil {
			cfg.MetricsAddr = v
		}
	}
	if fs.Changed("threatactor-alias-file") {
		if v, err := fs.GetString("threatactor-alias-file"); err == nil {
			cfg.ThreatActorAliasFile = v
		}
	}
	if fs.Changed("tool-alias-file") {
		if v, err := fs.GetString("tool-alias-file"); err == nil {
			cfg.ToolAliasFile = v
		}
	}
	if fs.Changed("sector-alias-file") {
		if v, err := fs.GetString("sector-alias-file"); err == nil {
			cfg.SectorAliasFile = v
		}
	}
	if fs.Changed("country-alias-file") {
		if v, err := fs.GetString("country-alias-file"); err == nil {
			cfg.CountryAliasFile = v
		}
	}
	if fs.Changed("cities-gazetteer-file") {
		if v, err := fs.GetString("cities-gazetteer-file"); err == nil {
			cfg.CitiesGazetteerFile = v
		}
	}
	if fs.Changed("countries-gazetteer-file") {
		if v, err := fs.GetString("countries-gazetteer-file"); err == nil {
			cfg.CountriesGazetteerFile = v
		}
	}
	if fs.Changed("sink-url") {
		if v, err := fs.GetString("sink-url"); err == nil {
			cfg.SinkURL = v
		}
	}
}

// RegisterFlags adds the flags Load's mergeFlags step understands to fs,
// so a command only needs to call fs.Parse(args) then config.Load.
func RegisterFlags(fs *flag.FlagSet) {
	fs.String("http-addr", "", "HTTP listen address for the submit API")
	fs.Int("max-jobs", 0, "Queue-depth backpressure threshold")
	fs.String("data-dir", "", "Content-addressed blob store path")
	fs.String("metrics-addr", "", "Address to serve /metrics on, empty disables")
	fs.String("threatactor-alias-file", "", "Threat actor alias file for the threatactor analyzer")
	fs.String("tool-alias-file", "", "Tool alias file for the tools analyzer")
	fs.String("sector-alias-file", "", "Sector alias file for the sectors analyzer")
	fs.String("country-alias-file", "", "Country name/code alias file for the locations analyzer")
	fs.String("cities-gazetteer-file", "", "Geonames-style city TSV for the locations analyzer")
	fs.String("countries-gazetteer-file", "", "Country JSON array for the locations analyzer")
	fs.String("sink-url", "", "Optional URL to POST completed records to, alongside the search index")
}
