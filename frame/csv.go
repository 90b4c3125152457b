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
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rocketlaunchr/dataframe-go"
	"github.com/rocketlaunchr/dataframe-go/exports"
	"github.com/rocketlaunchr/dataframe-go/imports"
)

// NilValue is how missing values are written to and read from CSV
const NilValue = "NA"

// TimeLayouts are tried in order when parsing text into timestamps
var TimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

// ReadCSV loads a frame from CSV text with a header row. Column types are
// inferred; the timeColumns are parsed as timestamps in zone.
func ReadCSV(ctx context.Context, r io.ReadSeeker, zone *time.Location, timeColumns ...string) (*Frame, error) {
	dictate := make(map[string]interface{}, len(timeColumns))
	for _, col := range timeColumns {
		dictate[col] = ""
	}

	nilValue := NilValue
	df, err := imports.LoadFromCSV(ctx, r, imports.CSVLoadOptions{
		TrimLeadingSpace: true,
		InferDataTypes:   true,
		DictateDataType:  dictate,
		NilValue:         &nilValue,
	})
	if err != nil {
		return nil, err
	}

	f := Wrap(df)
	for _, col := range timeColumns {
		if f, err = f.ParseTime(col, zone); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// ParseTime converts a text column into a time column. Each value is parsed
// in zone with the first matching layout in TimeLayouts.
func (f *Frame) ParseTime(name string, zone *time.Location) (*Frame, error) {
	if zone == nil {
		zone = time.UTC
	}

	s, err := f.series(name)
	if err != nil {
		return nil, err
	}
	if _, ok := s.(*dataframe.SeriesTime); ok {
		return f.derive(f.df.Series, f.groups), nil
	}

	n := s.NRows()
	ts := dataframe.NewSeriesTime(name, &dataframe.SeriesInit{Capacity: n})
	for row := 0; row < n; row++ {
		val := s.Value(row)
		if val == nil {
			ts.Append(nil)
			continue
		}

		text := strings.TrimSpace(fmt.Sprintf("%v", val))
		t, err := parseTime(text, zone)
		if err != nil {
			return nil, fmt.Errorf("%w: %q row %d value %q is not a timestamp", ErrColumnType, name, row, text)
		}
		ts.Append(t)
	}

	return f.Mutate(ts)
}

func parseTime(text string, zone *time.Location) (time.Time, error) {
	var err error
	for _, layout := range TimeLayouts {
		var t time.Time
		if t, err = time.ParseInLocation(layout, text, zone); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// WriteCSV writes the frame as CSV with a header row. Timestamps are written
// in RFC 3339 format.
func (f *Frame) WriteCSV(ctx context.Context, w io.Writer) error {
	df := f.df.Copy()
	for _, s := range df.Series {
		if _, ok := s.(*dataframe.SeriesTime); ok {
			s.SetValueToStringFormatter(func(val interface{}) string {
				if val == nil {
					return NilValue
				}
				return val.(time.Time).Format(time.RFC3339Nano)
			})
		}
	}

	nilValue := NilValue
	return exports.ExportToCSV(ctx, w, df, exports.CSVExportOptions{
		NullString: &nilValue,
		Separator:  ',',
	})
}
