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
	"math"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
)

// FormatValue renders a single cell for display
func FormatValue(val interface{}) string {
	switch typed := val.(type) {
	case nil:
		return "NA"
	case time.Time:
		if typed.Hour() == 0 && typed.Minute() == 0 && typed.Second() == 0 && typed.Nanosecond() == 0 {
			return typed.Format("2006-01-02")
		}
		return typed.Format("2006-01-02 15:04:05")
	case float64:
		if math.IsNaN(typed) {
			return "NA"
		}
		return fmt.Sprintf("%.4f", typed)
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Table renders the frame as an ASCII table
func (f *Frame) Table() string {
	if f.NRows() == 0 {
		return "<NO DATA>" // nothing to render
	}

	header := f.Names()
	s := &strings.Builder{}

	if f.Grouped() {
		fmt.Fprintf(s, "Groups: %s [%d]\n", strings.Join(f.groups, ", "), len(f.Partitions()))
	}

	table := tablewriter.NewWriter(s)
	table.SetHeader(header)
	footer := make([]string, len(header))
	if len(footer) > 1 {
		footer[0] = "Num Rows"
		footer[1] = fmt.Sprintf("%d", f.NRows())
	} else {
		footer[0] = fmt.Sprintf("%d rows", f.NRows())
	}
	table.SetFooter(footer)
	table.SetBorder(false)

	n := f.NRows()
	for row := 0; row < n; row++ {
		cells := make([]string, len(f.df.Series))
		for idx, series := range f.df.Series {
			cells[idx] = FormatValue(series.Value(row))
		}
		table.Append(cells)
	}

	table.Render()
	return s.String()
}

func (f *Frame) String() string {
	return fmt.Sprintf("<frame %d x %d>", f.NRows(), f.NCols())
}
