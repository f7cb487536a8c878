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

package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mnemonic-no/scio/internal/record"
)

// RunFilter implements stage C's standalone CLI mode: read one JSON
// envelope from r, run the scheduler over it, and write the JSON result
// to w. Used for testing and one-shot analysis when no queue is
// configured.
func RunFilter(worker *AnalyzeWorker, r io.Reader, w io.Writer) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("pipeline: read stdin: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("pipeline: decode envelope: %w", err)
	}
	if env.Content == "" {
		return fmt.Errorf("pipeline: envelope has no content")
	}

	rec := env.ToRecord()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	worker.Stdout = func(r *record.Record) error {
		return enc.Encode(r)
	}

	return worker.RunOne(context.Background(), rec)
}
