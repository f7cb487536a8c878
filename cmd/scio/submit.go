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
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	scioerrors "github.com/mnemonic-no/scio/internal/errors"
	"github.com/mnemonic-no/scio/internal/output"
	"github.com/mnemonic-no/scio/internal/pipeline"
	"github.com/mnemonic-no/scio/internal/ui"
)

// runSubmit POSTs a local file to a running server's /submit endpoint.
func runSubmit(args []string) error {
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	serverURL := fs.String("server", "http://localhost:3000", "Base URL of a running scio server")
	uri := fs.String("uri", "", "Source URI to record alongside the document")
	tlp := fs.String("tlp", "", "Traffic Light Protocol marking")
	owner := fs.String("owner", "", "Owning organization or team")
	noStore := fs.Bool("no-store", false, "Quarantine the document instead of persisting it to the blob store")
	jsonOutput := fs.Bool("json", false, "Print the submit response as JSON instead of a summary line")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: scio submit [options] <file>\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return scioerrors.NewValidationError("missing file argument", "", "Pass exactly one file path to submit.")
	}

	path := fs.Arg(0)
	out, submitErr := doSubmit(*serverURL, path, *uri, *tlp, *owner, *noStore)
	if submitErr != nil {
		return reportSubmitError(*jsonOutput, submitErr)
	}

	if *jsonOutput {
		return output.JSON(out)
	}
	ui.Successf("submitted %s as %s", out.Filename, out.Hexdigest)
	return nil
}

// doSubmit performs the actual request/response round trip, independent
// of how the result will be reported.
func doSubmit(serverURL, path, uri, tlp, owner string, noStore bool) (pipeline.SubmitResponse, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return pipeline.SubmitResponse{}, scioerrors.NewValidationError(
			"failed to read file", err.Error(), "Check that the path exists and is readable.")
	}

	store := true
	if noStore {
		store = false
	}
	req := pipeline.SubmitRequest{
		Content:  base64.StdEncoding.EncodeToString(content),
		Filename: filepath.Base(path),
		URI:      uri,
		TLP:      tlp,
		Owner:    owner,
		Store:    &store,
	}
	body, err := json.Marshal(req)
	if err != nil {
		return pipeline.SubmitResponse{}, scioerrors.NewInternalError("failed to encode submit request", err.Error(), err)
	}

	resp, err := http.Post(serverURL+"/submit", "application/json", bytes.NewReader(body))
	if err != nil {
		return pipeline.SubmitResponse{}, scioerrors.NewQueueError("failed to reach server", err.Error(), err)
	}
	defer resp.Body.Close()

	var out pipeline.SubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return pipeline.SubmitResponse{}, scioerrors.NewInternalError("failed to decode submit response", err.Error(), err)
	}
	if resp.StatusCode != http.StatusOK {
		return pipeline.SubmitResponse{}, scioerrors.NewValidationError("server rejected the submission", out.Error, "")
	}
	return out, nil
}

// reportSubmitError prints err as JSON when jsonOutput is set, matching
// the --json response shape callers script against, then returns err
// unchanged for main's human-readable fallback.
func reportSubmitError(jsonOutput bool, err error) error {
	if jsonOutput {
		_ = output.JSONError(err)
	}
	return err
}
