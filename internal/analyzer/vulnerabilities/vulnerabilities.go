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

// Package vulnerabilities extracts CVE and Microsoft Security Bulletin
// (MSID) references from document text.
package vulnerabilities

import (
	"context"
	"regexp"

	"github.com/mnemonic-no/scio/internal/record"
	"github.com/mnemonic-no/scio/internal/scheduler"
)

const Name = "vulnerabilities"

var (
	reCVE  = regexp.MustCompile(`(?i)\bCVE-\d{4}-\d{4,7}\b`)
	reMSID = regexp.MustCompile(`(?i)\bMS\d{2}-\d+\b`)
)

// Analyzer has no dependencies.
type Analyzer struct{}

func New() *Analyzer { return &Analyzer{} }

func (a *Analyzer) Name() string           { return Name }
func (a *Analyzer) Version() string        { return "1.0" }
func (a *Analyzer) Dependencies() []string { return nil }

func (a *Analyzer) Analyze(ctx context.Context, snap *record.Snapshot) (scheduler.Result, error) {
	text := snap.Content()

	cve := reCVE.FindAllString(text, -1)
	msid := reMSID.FindAllString(text, -1)

	m := map[string]record.Value{}
	if len(cve) > 0 {
		m["cve"] = toList(cve)
	}
	if len(msid) > 0 {
		m["msid"] = toList(msid)
	}

	return scheduler.Result{Name: Name, Version: a.Version(), Result: m}, nil
}

func toList(ss []string) []record.Value {
	out := make([]record.Value, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
