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

package httpapi

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"
)

var allowedIndicatorTypes = map[string]bool{
	"ipv4": true, "ipv6": true, "uri": true, "email": true,
	"fqdn": true, "md5": true, "sha1": true, "sha256": true,
}

var reLastPeriod = regexp.MustCompile(`^(\d+)([yMwdhms])$`)
var reLastEpoch = regexp.MustCompile(`^\d+$`)

// handleIndicators lists the distinct indicators of a given kind seen
// since an optional "last" window, one per line as text/plain.
func (s *Server) handleIndicators(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("type")
	if !allowedIndicatorTypes[kind] {
		http.Error(w, fmt.Sprintf("unknown indicator type %q", kind), http.StatusBadRequest)
		return
	}

	since, err := parseLast(r.URL.Query().Get("last"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var hits []string
	if s.Indicators != nil {
		hits = s.Indicators.Indicators(kind, since)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, h := range hits {
		fmt.Fprintln(w, h)
	}
}

// parseLast parses the "last" query parameter: a bare integer is
// interpreted as a millisecond Unix epoch cutoff, and a number suffixed
// with y/M/w/d/h/m/s is interpreted as a rolling window back from now.
// An empty string means "no lower bound" (the zero time.Time).
func parseLast(last string) (time.Time, error) {
	if last == "" {
		return time.Time{}, nil
	}

	if reLastEpoch.MatchString(last) {
		ms, err := strconv.ParseInt(last, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid last value %q", last)
		}
		return time.UnixMilli(ms), nil
	}

	m := reLastPeriod.FindStringSubmatch(last)
	if m == nil {
		return time.Time{}, fmt.Errorf("invalid last value %q: expected digits or digits followed by one of yMwdhms", last)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid last value %q", last)
	}

	var d time.Duration
	switch m[2] {
	case "y":
		d = time.Duration(n) * 365 * 24 * time.Hour
	case "M":
		d = time.Duration(n) * 30 * 24 * time.Hour
	case "w":
		d = time.Duration(n) * 7 * 24 * time.Hour
	case "d":
		d = time.Duration(n) * 24 * time.Hour
	case "h":
		d = time.Duration(n) * time.Hour
	case "m":
		d = time.Duration(n) * time.Minute
	case "s":
		d = time.Duration(n) * time.Second
	}
	return time.Now().Add(-d), nil
}
