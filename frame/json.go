// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package frame

import (
	"math"

	"github.com/goccy/go-json"
)

// MarshalJSON encodes the frame as an array of row objects. Missing values,
// including NaN, become null.
func (f *Frame) MarshalJSON() ([]byte, error) {
	records := f.Records()
	for _, rec := range records {
		for name, val := range rec {
			if v, ok := val.(float64); ok && math.IsNaN(v) {
				rec[name] = nil
			}
		}
	}
	return json.Marshal(records)
}
