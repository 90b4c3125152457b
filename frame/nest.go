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
	"fmt"
	"reflect"

	"github.com/rocketlaunchr/dataframe-go"
)

// NestColumn adds a list-valued column with one cell per row. Cells are
// stored in a generic series and must all share the type of proto.
func (f *Frame) NestColumn(name string, proto interface{}, cells []interface{}) (*Frame, error) {
	if proto == nil || reflect.TypeOf(proto).Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %q needs a struct cell type, got %T", ErrColumnType, name, proto)
	}

	protoType := reflect.TypeOf(proto)
	s := dataframe.NewSeriesGeneric(name, reflect.Zero(protoType).Interface(), &dataframe.SeriesInit{Capacity: len(cells)})
	for row, cell := range cells {
		if cell != nil && reflect.TypeOf(cell) != protoType {
			return nil, fmt.Errorf("%w: %q row %d holds %T but the column holds %s", ErrColumnType, name, row, cell, protoType)
		}
		s.Append(cell)
	}

	return f.Mutate(s)
}
