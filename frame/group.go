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
	"sort"
	"strings"
	"time"

	"github.com/rocketlaunchr/dataframe-go"
)

// Key is the tuple of group key values shared by the rows of a partition
type Key []interface{}

func (k Key) String() string {
	parts := make([]string, len(k))
	for idx, val := range k {
		parts[idx] = FormatValue(val)
	}
	return strings.Join(parts, ", ")
}

// id is a map key that is equal for equal tuples
func (k Key) id() string {
	sb := &strings.Builder{}
	for _, val := range k {
		switch typed := val.(type) {
		case nil:
			sb.WriteString("nil|")
		case time.Time:
			fmt.Fprintf(sb, "time:%d|", typed.UnixNano())
		default:
			fmt.Fprintf(sb, "%T:%v|", val, val)
		}
	}
	return sb.String()
}

// CompareKeys orders keys column by column; see CompareValues
func CompareKeys(a, b Key) int {
	for idx := 0; idx < len(a) && idx < len(b); idx++ {
		if c := CompareValues(a[idx], b[idx]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

// CompareValues orders nil first, then times chronologically, numbers
// numerically, strings lexicographically and false before true. Values of
// different types are ordered by type name.
func CompareValues(a, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			switch {
			case av.Before(bv):
				return -1
			case av.After(bv):
				return 1
			}
			return 0
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return compareOrdered(av < bv, av > bv)
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return compareOrdered(av < bv, av > bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return compareOrdered(!av && bv, av && !bv)
		}
	}

	return strings.Compare(fmt.Sprintf("%T", a), fmt.Sprintf("%T", b))
}

func compareOrdered(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	}
	return 0
}

// Partition is one group of rows. Rows are positions in the frame the
// partition was taken from; Frame holds those rows and is ungrouped.
type Partition struct {
	Key   Key
	Rows  []int
	Frame *Frame
}

// GroupBy sets the group key columns, replacing any existing grouping.
// Calling it without keys ungroups the frame.
func (f *Frame) GroupBy(keys ...string) (*Frame, error) {
	for _, key := range keys {
		if !f.Has(key) {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, key)
		}
	}
	return f.derive(f.df.Series, keys), nil
}

// Ungroup drops the grouping
func (f *Frame) Ungroup() *Frame {
	return f.derive(f.df.Series, nil)
}

// Groups returns the group key column names
func (f *Frame) Groups() []string {
	out := make([]string, len(f.groups))
	copy(out, f.groups)
	return out
}

// Grouped reports whether the frame has group key columns
func (f *Frame) Grouped() bool {
	return len(f.groups) > 0
}

// Partitions splits the frame by its group keys. Partitions are ordered by
// key (see CompareKeys) and rows keep their order within a partition. An
// ungrouped frame is a single partition with an empty key.
func (f *Frame) Partitions() []Partition {
	parts, err := f.PartitionBy(f.groups...)
	if err != nil {
		// group columns are validated when the grouping is set
		panic(err)
	}
	return parts
}

// GroupKeys returns the ordered group key tuples
func (f *Frame) GroupKeys() []Key {
	parts := f.Partitions()
	keys := make([]Key, len(parts))
	for idx, part := range parts {
		keys[idx] = part.Key
	}
	return keys
}

// PartitionBy splits the frame by the values of cols regardless of its grouping
func (f *Frame) PartitionBy(cols ...string) ([]Partition, error) {
	n := f.NRows()
	if len(cols) == 0 {
		rows := make([]int, n)
		for idx := range rows {
			rows[idx] = idx
		}
		return []Partition{{Key: Key{}, Rows: rows, Frame: f.Ungroup()}}, nil
	}

	series := make([]dataframe.Series, len(cols))
	for idx, col := range cols {
		s, err := f.series(col)
		if err != nil {
			return nil, err
		}
		series[idx] = s
	}

	index := make(map[string]int)
	parts := make([]Partition, 0)
	for row := 0; row < n; row++ {
		key := make(Key, len(series))
		for idx, s := range series {
			key[idx] = s.Value(row)
		}

		id := key.id()
		pos, ok := index[id]
		if !ok {
			pos = len(parts)
			index[id] = pos
			parts = append(parts, Partition{Key: key})
		}
		parts[pos].Rows = append(parts[pos].Rows, row)
	}

	sort.SliceStable(parts, func(i, j int) bool {
		return CompareKeys(parts[i].Key, parts[j].Key) < 0
	})

	ungrouped := f.Ungroup()
	for idx := range parts {
		parts[idx].Frame = ungrouped.Take(parts[idx].Rows)
	}

	return parts, nil
}
