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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemonic-no/scio/internal/record"
)

func TestFromDocument_MintsRunID(t *testing.T) {
	doc := record.Document{Hexdigest: "abc123", Filename: "report.txt", Store: true}
	env := FromDocument(doc)

	assert.NotEmpty(t, env.RunID)
	assert.Equal(t, "abc123", env.Hexdigest)
}

func TestFromDocument_EachCallMintsDistinctRunID(t *testing.T) {
	doc := record.Document{Hexdigest: "abc123"}
	a := FromDocument(doc)
	b := FromDocument(doc)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestEncodeDecodeEnvelope_RoundTripsRunID(t *testing.T) {
	env := Envelope{RunID: "run-1", Hexdigest: "abc123", Filename: "report.txt", Content: "hello world"}

	payload, err := EncodeEnvelope(env)
	require.NoError(t, err)

	decoded, err := DecodeEnvelope(payload)
	require.NoError(t, err)
	assert.Equal(t, env.RunID, decoded.RunID)
	assert.Equal(t, env.Content, decoded.Content)
}

func TestDecodeEnvelope_RejectsCorruptPayload(t *testing.T) {
	_, err := DecodeEnvelope([]byte("not gzip data"))
	assert.Error(t, err)
}
