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
	"bufio"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	flag "github.com/spf13/pflag"

	scioerrors "github.com/mnemonic-no/scio/internal/errors"
	"github.com/mnemonic-no/scio/internal/ui"
	"github.com/mnemonic-no/scio/internal/vocab"
)

// runVocabCheck validates an alias file's syntax line by line, reporting
// every malformed line and invalid-regex alias instead of stopping at the
// first one, with a progress bar over the file's line count.
func runVocabCheck(args []string) error {
	fs := flag.NewFlagSet("vocab-check", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: scio vocab-check <alias-file>\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return scioerrors.NewValidationError("missing alias file argument", "", "Pass exactly one alias file path to check.")
	}
	path := fs.Arg(0)

	lines, err := countLines(path)
	if err != nil {
		return scioerrors.NewValidationError("failed to read alias file", err.Error(), "Check that the path exists and is readable.")
	}

	f, err := os.Open(path)
	if err != nil {
		return scioerrors.NewValidationError("failed to open alias file", err.Error(), "")
	}
	defer f.Close()

	ui.Header("SCIO Vocabulary Check")
	ui.SubHeader("Alias file:")
	fmt.Printf("  %s\n", ui.DimText(path))

	bar := progressbar.NewOptions(lines,
		progressbar.OptionSetDescription("checking "+path),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	var problems int
	for scanner.Scan() {
		lineNo++
		_ = bar.Add(1)
		line := scanner.Text()

		parsed, ok, parseErr := vocab.ParseLine(line)
		if parseErr != nil {
			problems++
			ui.Warningf("line %d: %v", lineNo, parseErr)
			continue
		}
		if !ok {
			continue
		}
		for _, surface := range append([]string{parsed.Primary}, parsed.Aliases...) {
			if _, ok, err := vocab.CompileAlias(surface); err != nil {
				problems++
				ui.Warningf("line %d: invalid regex for alias %q: %v", lineNo, surface, err)
			} else if !ok {
				ui.Warningf("line %d: alias %q is all-digit and was skipped", lineNo, surface)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return scioerrors.NewValidationError("failed scanning alias file", err.Error(), "")
	}

	if problems > 0 {
		return scioerrors.NewVocabError(fmt.Sprintf("%d problem(s) found in %s", problems, path), "", nil)
	}
	fmt.Printf("%s %s\n", ui.Label("Lines checked:"), ui.CountText(lineNo))
	ui.Successf("%s: no problems found", path)
	return nil
}

func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	n := 0
	for scanner.Scan() {
		n++
	}
	return n, scanner.Err()
}
