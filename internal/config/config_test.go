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

package config

import (
	"os"
	"path/filepath"
	"testing"

	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultOnly(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FilePrecedesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scio.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_jobs: 42\nhttp_addr: \":9999\"\n"), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.MaxJobs)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
}

func TestLoad_EnvPrecedesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scio.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_jobs: 42\n"), 0o644))

	t.Setenv("SCIO_MAX_JOBS", "7")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxJobs)
}

func TestLoad_FlagPrecedesEnv(t *testing.T) {
	t.Setenv("SCIO_MAX_JOBS", "7")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--max-jobs", "99"}))

	cfg, err := Load("", fs)
	require.NoError(t, err)
	assert.Equal(t, 99, cfg.MaxJobs)
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load("/nonexistent/scio.yaml", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
