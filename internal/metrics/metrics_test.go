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

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_IsIdempotentAndPopulatesFields(t *testing.T) {
	Default.Init()
	Default.Init() // must not panic on double-init

	require.NotNil(t, Default.SubmitTotal)
	require.NotNil(t, Default.AnalyzerCompleted)
	require.NotNil(t, Default.QueueDepthDocs)
}

func TestRecordSchedulerSummary(t *testing.T) {
	Default.Init()
	Default.RecordSchedulerSummary([]string{"pos_tag"}, []string{"bad"}, []string{"orphan"})

	assert.Equal(t, float64(1), testutil.ToFloat64(Default.AnalyzerCompleted.WithLabelValues("pos_tag")))
	assert.Equal(t, float64(1), testutil.ToFloat64(Default.AnalyzerFailed.WithLabelValues("bad")))
	assert.Equal(t, float64(1), testutil.ToFloat64(Default.AnalyzerSkipped.WithLabelValues("orphan")))
}
