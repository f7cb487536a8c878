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

// Command scio runs SCIO's submit/extract/analyze pipeline, either as a
// long-running daemon (serve) or as one-shot stage filters for testing
// and scripting.
//
// Usage:
//
//	scio serve [options]        Run the HTTP API plus extract/analyze workers
//	scio submit <file>          POST a file to a running server's /submit
//	scio analyze [options]      Read one JSON envelope from stdin, run the
//	                            analyzer DAG, write the record to stdout
//	scio vocab-check <file>     Validate an alias file's syntax
package main

import (
	"flag"
	"fmt"
	"os"

	scioerrors "github.com/mnemonic-no/scio/internal/errors"
	"github.com/mnemonic-no/scio/internal/ui"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version and exit")
		noColor     = flag.Bool("no-color", false, "Disable colored output")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `SCIO - document enrichment pipeline

Usage:
  scio <command> [options]

Commands:
  serve        Run the HTTP API and extract/analyze workers
  submit       Submit a file to a running server
  analyze      Run the analyzer DAG over one JSON envelope (stdin -> stdout)
  vocab-check  Validate an alias file

Global Options:
  --no-color   Disable colored output
  --version    Show version and exit

`)
	}

	flag.Parse()
	ui.InitColors(*noColor)

	if *showVersion {
		fmt.Printf("scio version %s (%s)\n", version, commit)
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command, cmdArgs := args[0], args[1:]

	var err error
	switch command {
	case "serve":
		err = runServe(cmdArgs)
	case "submit":
		err = runSubmit(cmdArgs)
	case "analyze":
		err = runAnalyze(cmdArgs)
	case "vocab-check":
		err = runVocabCheck(cmdArgs)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		flag.Usage()
		os.Exit(1)
	}

	if err != nil {
		if ue, ok := err.(*scioerrors.UserError); ok {
			scioerrors.FatalError(ue, false)
		}
		ui.Error(err.Error())
		os.Exit(1)
	}
}
