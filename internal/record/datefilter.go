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

package record

import (
	"encoding/json"
	"regexp"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// strictISO8601UTC matches exactly YYYY-MM-DDTHH:MM:SSZ, the only
// timestamp shape allowed to survive the date-field filter.
var strictISO8601UTC = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`)

// FilterDateFields drops any configured date field from metadata whose
// value is not a string matching strict ISO-8601 UTC. It round-trips
// metadata through JSON and uses gjson/sjson for the field-by-field
// get/delete, so arbitrary nested paths (not just flat keys) are
// supported by the same whitelist mechanism.
func FilterDateFields(metadata map[string]Value, dateFields []string) (map[string]Value, error) {
	if len(metadata) == 0 {
		return metadata, nil
	}

	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}
	doc := string(raw)

	for _, field := range dateFields {
		res := gjson.Get(doc, gjson.Escape(field))
		if !res.Exists() {
			continue
		}
		if res.Type == gjson.String && strictISO8601UTC.MatchString(res.String()) {
			continue
		}
		doc, err = sjson.Delete(doc, gjson.Escape(field))
		if err != nil {
			return nil, err
		}
	}

	var out map[string]Value
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DefaultDateFields is the built-in date-field whitelist; operators can
// extend it via config.
var DefaultDateFields = []string{"Creation-Date", "Last-Modified", "Last-Save-Date"}
