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

// Package errors provides structured error handling for the SCIO CLI and
// pipeline stages.
//
// It defines UserError, a type that carries structured error information
// about what went wrong, why, and how to fix it, plus a set of exit codes
// matching the error-kind table in the pipeline specification (malformed
// submission, queue saturation, corrupt queue job, extractor/analyzer
// failure, index write failure, vocabulary compile failure).
package errors

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Exit codes for different error categories.
const (
	ExitSuccess = 0

	// ExitConfig indicates configuration errors (missing/invalid config files).
	ExitConfig = 1

	// ExitValidation indicates a malformed submission (bad base64, bad hex id, bad filename).
	ExitValidation = 2

	// ExitBackpressure indicates the docs/analyze queue exceeded max_jobs.
	ExitBackpressure = 3

	// ExitQueue indicates a corrupt queue job (bad JSON/gzip envelope).
	ExitQueue = 4

	// ExitExtract indicates the text extractor failed on a reserved job.
	ExitExtract = 5

	// ExitAnalyzer indicates an analyzer raised during a scheduler wave.
	ExitAnalyzer = 6

	// ExitIndex indicates a failure writing the final record to the search index or sink.
	ExitIndex = 7

	// ExitVocab indicates a fatal alias-regex compile failure at vocabulary load.
	ExitVocab = 8

	// ExitInternal indicates a bug: unexpected nil, invariant violation, etc.
	ExitInternal = 10
)

// UserError represents an error with structured context for end users.
//
// It provides three levels of information: Message (what went wrong),
// Cause (why), and Fix (how to resolve it), plus an ExitCode for CLI use
// and an optional wrapped Err for errors.Is/As compatibility.
type UserError struct {
	Message  string
	Cause    string
	Fix      string
	ExitCode int
	Err      error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a configuration error with exit code ExitConfig.
func NewConfigError(msg, cause, fix string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitConfig, Err: err}
}

// NewValidationError creates a malformed-submission error (stage A).
func NewValidationError(msg, cause, fix string) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: fix, ExitCode: ExitValidation}
}

// NewBackpressureError creates a queue-saturated error (stage A, 429-equivalent).
func NewBackpressureError(msg, cause string) *UserError {
	return &UserError{
		Message:  msg,
		Cause:    cause,
		Fix:      "Retry after the docs/analyze queue has drained below the configured max_jobs.",
		ExitCode: ExitBackpressure,
	}
}

// NewQueueError creates a corrupt-queue-job error (stages B, C).
func NewQueueError(msg, cause string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: "The job was deleted from the queue; no action needed.", ExitCode: ExitQueue, Err: err}
}

// NewExtractError creates a text-extraction failure error (stage B).
func NewExtractError(msg, cause string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: "Check the extractor logs for the document's content type.", ExitCode: ExitExtract, Err: err}
}

// NewAnalyzerError creates an analyzer-failure error (stage C, scheduler wave).
func NewAnalyzerError(analyzerName string, err error) *UserError {
	return &UserError{
		Message:  fmt.Sprintf("analyzer %q failed", analyzerName),
		Cause:    "The analyzer returned an error during its wave; its key was not written to the record.",
		Fix:      "Check the analyzer's own logs; peers were not affected.",
		ExitCode: ExitAnalyzer,
		Err:      err,
	}
}

// NewIndexError creates an index/sink write failure error (stage C).
func NewIndexError(msg, cause string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: "The job is already removed from the queue; the result may be lost.", ExitCode: ExitIndex, Err: err}
}

// NewVocabError creates a fatal vocabulary-compile error (startup).
func NewVocabError(msg, cause string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: "Fix the alias file and restart.", ExitCode: ExitVocab, Err: err}
}

// NewInternalError creates an internal error indicating a bug.
func NewInternalError(msg, cause string, err error) *UserError {
	return &UserError{Message: msg, Cause: cause, Fix: "This is a bug; please report it.", ExitCode: ExitInternal, Err: err}
}

var (
	colorError = color.New(color.FgRed, color.Bold)
	colorCause = color.New(color.FgYellow)
	colorFix   = color.New(color.FgGreen)
)

// Format returns a formatted error message for terminal display.
func (e *UserError) Format(noColor bool) string {
	originalNoColor := color.NoColor
	defer func() { color.NoColor = originalNoColor }()

	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	var out strings.Builder
	out.WriteString(colorError.Sprint("Error: "))
	out.WriteString(e.Message)
	out.WriteString("\n")

	if e.Cause != "" {
		out.WriteString(colorCause.Sprint("Cause: "))
		out.WriteString(e.Cause)
		out.WriteString("\n")
	}

	if e.Fix != "" {
		out.WriteString(colorFix.Sprint("Fix:   "))
		out.WriteString(e.Fix)
		out.WriteString("\n")
	}

	return out.String()
}

// ErrorJSON represents error information in JSON format.
type ErrorJSON struct {
	Error    string `json:"error"`
	Cause    string `json:"cause,omitempty"`
	Fix      string `json:"fix,omitempty"`
	ExitCode int    `json:"exit_code"`
}

// ToJSON converts the UserError to a JSON-serializable structure.
func (e *UserError) ToJSON() ErrorJSON {
	return ErrorJSON{Error: e.Message, Cause: e.Cause, Fix: e.Fix, ExitCode: e.ExitCode}
}

// FatalError prints the error and exits with the appropriate code.
// A nil err is a no-op and returns; otherwise it never returns.
func FatalError(err error, jsonOutput bool) {
	if err == nil {
		return
	}

	if ue, ok := err.(*UserError); ok {
		if jsonOutput {
			enc := json.NewEncoder(os.Stderr)
			enc.SetIndent("", "  ")
			_ = enc.Encode(ue.ToJSON())
		} else {
			fmt.Fprint(os.Stderr, ue.Format(false))
		}
		os.Exit(ue.ExitCode)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(ExitInternal)
}
