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

// Package indicators extracts network and file indicators of compromise
// (IPv4/IPv6 addresses and CIDRs, URIs, email addresses, FQDNs, MD5/SHA1/
// SHA256 hashes) from a document's text, after reversing common
// "defanging" conventions analysts use to make indicators non-clickable.
package indicators

import (
	"context"
	"regexp"
	"strings"

	"github.com/mnemonic-no/scio/internal/record"
	"github.com/mnemonic-no/scio/internal/scheduler"
)

const Name = "indicators"

var (
	reDefangDot1   = regexp.MustCompile(`\[\.\]`)
	reDefangDot2   = regexp.MustCompile(`\{\.\}`)
	reDefangDot3   = regexp.MustCompile(`\\\.`)
	reDefangHTTP   = regexp.MustCompile(`(?i)hxxp(s?)://`)
	reDefangSlash1 = regexp.MustCompile(`%2f`)
	reDefangSlash2 = regexp.MustCompile(`%2F`)

	reIPv4CIDR = regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)(?:/\d{1,2})?\b`)
	// reIPv6 tolerates the RFC 4291 "::" zero-compression shorthand via
	// the standard set of branches (one per possible position of the
	// compressed run); it is a loose matcher for defanged-text scanning,
	// not a strict validator.
	reIPv6 = regexp.MustCompile(`\b(?:` +
		`(?:[0-9a-fA-F]{1,4}:){7}[0-9a-fA-F]{1,4}|` +
		`(?:[0-9a-fA-F]{1,4}:){1,7}:|` +
		`(?:[0-9a-fA-F]{1,4}:){1,6}:[0-9a-fA-F]{1,4}|` +
		`(?:[0-9a-fA-F]{1,4}:){1,5}(?::[0-9a-fA-F]{1,4}){1,2}|` +
		`(?:[0-9a-fA-F]{1,4}:){1,4}(?::[0-9a-fA-F]{1,4}){1,3}|` +
		`(?:[0-9a-fA-F]{1,4}:){1,3}(?::[0-9a-fA-F]{1,4}){1,4}|` +
		`(?:[0-9a-fA-F]{1,4}:){1,2}(?::[0-9a-fA-F]{1,4}){1,5}|` +
		`[0-9a-fA-F]{1,4}:(?:(?::[0-9a-fA-F]{1,4}){1,6})|` +
		`:(?:(?::[0-9a-fA-F]{1,4}){1,7}|:)` +
		`)\b`)
	reURI      = regexp.MustCompile(`(?i)\b[a-z][a-z0-9+.-]*://[^\s"'<>\]\)]+`)
	reEmail    = regexp.MustCompile(`\b[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}\b`)
	reFQDN     = regexp.MustCompile(`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}\b`)
	reMD5      = regexp.MustCompile(`\b[a-fA-F0-9]{32}\b`)
	reSHA1     = regexp.MustCompile(`\b[a-fA-F0-9]{40}\b`)
	reSHA256   = regexp.MustCompile(`\b[a-fA-F0-9]{64}\b`)
)

// Go's regexp picks the first matching branch by default, which would cut
// "fe80::1" short at "fe80::"; leftmost-longest makes reIPv6 take the
// whole address.
func init() { reIPv6.Longest() }

// Analyzer extracts IOCs; it has no dependencies.
type Analyzer struct{}

func New() *Analyzer { return &Analyzer{} }

func (a *Analyzer) Name() string           { return Name }
func (a *Analyzer) Version() string        { return "1.0" }
func (a *Analyzer) Dependencies() []string { return nil }

// Findings is the result tree written under record["indicators"].
type Findings struct {
	IPv4    []string `json:"ipv4,omitempty"`
	IPv4Net []string `json:"ipv4net,omitempty"`
	IPv6    []string `json:"ipv6,omitempty"`
	URI     []string `json:"uri,omitempty"`
	Email   []string `json:"email,omitempty"`
	FQDN    []string `json:"fqdn,omitempty"`
	MD5     []string `json:"md5,omitempty"`
	SHA1    []string `json:"sha1,omitempty"`
	SHA256  []string `json:"sha256,omitempty"`
}

func (a *Analyzer) Analyze(ctx context.Context, snap *record.Snapshot) (scheduler.Result, error) {
	text := Defang(snap.Content())

	f := Findings{
		IPv6:  dedupCI(reIPv6.FindAllString(text, -1)),
		URI:   dedupCI(reURI.FindAllString(text, -1)),
		Email: dedupCI(reEmail.FindAllString(text, -1)),
		FQDN:  dedupCI(reFQDN.FindAllString(text, -1)),
		MD5:   dedupCI(reMD5.FindAllString(text, -1)),
		SHA1:  dedupCI(reSHA1.FindAllString(text, -1)),
		SHA256: dedupCI(reSHA256.FindAllString(text, -1)),
	}

	var ipv4, ipv4net []string
	for _, hit := range dedupCI(reIPv4CIDR.FindAllString(text, -1)) {
		if strings.Contains(hit, "/") {
			ipv4net = append(ipv4net, hit)
		} else {
			ipv4 = append(ipv4, hit)
		}
	}
	f.IPv4 = ipv4
	f.IPv4Net = ipv4net

	// FQDN and URI/email overlap heavily (a URI's host is also an FQDN
	// hit); the original leaves this overlap in place rather than
	// subtracting one set from another, so hosts embedded in a URI
	// still show up as FQDNs too.

	return scheduler.Result{Name: Name, Version: a.Version(), Result: toValue(f)}, nil
}

// Defang reverses the common analyst conventions for writing indicators
// in a way that won't auto-link or get flagged by mail filters.
func Defang(text string) string {
	text = reDefangDot1.ReplaceAllString(text, ".")
	text = reDefangDot2.ReplaceAllString(text, ".")
	text = reDefangDot3.ReplaceAllString(text, ".")
	text = reDefangHTTP.ReplaceAllString(text, "http$1://")
	text = reDefangSlash1.ReplaceAllString(text, "/")
	text = reDefangSlash2.ReplaceAllString(text, "/")
	return text
}

func dedupCI(hits []string) []string {
	if len(hits) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(hits))
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		key := strings.ToLower(h)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, h)
	}
	return out
}

func toValue(f Findings) record.Value {
	m := map[string]record.Value{}
	add := func(k string, v []string) {
		if len(v) == 0 {
			return
		}
		list := make([]record.Value, len(v))
		for i, s := range v {
			list[i] = s
		}
		m[k] = list
	}
	add("ipv4", f.IPv4)
	add("ipv4net", f.IPv4Net)
	add("ipv6", f.IPv6)
	add("uri", f.URI)
	add("email", f.Email)
	add("fqdn", f.FQDN)
	add("md5", f.MD5)
	add("sha1", f.SHA1)
	add("sha256", f.SHA256)
	return m
}
