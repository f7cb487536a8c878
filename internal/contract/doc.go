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

// Package contract provides size-limit validation shared by the pipeline
// stages.
//
// A job body (the gzip-compressed envelope payload reserved from the docs
// or analyze tube, checked before it is decoded) larger than this limit is treated as an error and the
// job is deleted without being processed, per the pipeline's queue
// discipline: "A job body larger than extractor/parser limits is treated
// as an error and deleted."
//
//	limit := contract.SoftLimitBytes()
//	result := contract.ValidateJobBody(body)
//	if !result.OK {
//	    log.Printf("rejecting oversized job: %s", result.Message)
//	}
//
// # Configuration via environment
//
// The soft limit can be adjusted via the SCIO_SOFT_LIMIT_BYTES environment
// variable:
//
//	export SCIO_SOFT_LIMIT_BYTES=33554432  # 32 MiB
//
// If unset or invalid, DefaultSoftLimitBytes (64 MiB) applies.
package contract
