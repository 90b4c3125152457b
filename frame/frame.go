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
	"math"
	"time"

	"github.com/rocketlaunchr/dataframe-go"
)

// Frame is a table of named, typed columns with an optional ordered list of
// group key columns. A Frame is treated as a value: every method returns a
// new Frame and never modifies the receiver or the series it was built from.
type Frame struct {
	df     *dataframe.DataFrame
	groups []string
}

// Predicate decides if the row at the given position is kept
type Predicate func(row int) (bool, error)

// New builds a frame from series of equal length with unique names. The
// series are owned by the frame afterwards.
func New(series ...dataframe.Series) (*Frame, error) {
	names := make(map[string]struct{}, len(series))
	for _, s := range series {
		name := s.Name()
		if _, ok := names[name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		names[name] = struct{}{}

		if s.NRows() != series[0].NRows() {
			return nil, fmt.Errorf("%w: %q has %d rows but %q has %d", ErrLengthMismatch, name, s.NRows(),
				series[0].Name(), series[0].NRows())
		}
	}

	return &Frame{df: dataframe.NewDataFrame(series...)}, nil
}

// MustNew is like New but panics on error
func MustNew(series ...dataframe.Series) *Frame {
	f, err := New(series...)
	if err != nil {
		panic(err)
	}
	return f
}

// Wrap uses df as the storage of a new frame; df must not be modified afterwards
func Wrap(df *dataframe.DataFrame) *Frame {
	if df == nil {
		df = dataframe.NewDataFrame()
	}
	return &Frame{df: df}
}

// DataFrame returns a deep copy of the underlying dataframe
func (f *Frame) DataFrame() *dataframe.DataFrame {
	return f.df.Copy()
}

// NRows returns the number of rows in the frame
func (f *Frame) NRows() int {
	return f.df.NRows()
}

// NCols returns the number of columns in the frame
func (f *Frame) NCols() int {
	return len(f.df.Series)
}

// Names returns the column names in order
func (f *Frame) Names() []string {
	return f.df.Names()
}

// Has reports whether the frame has a column called name
func (f *Frame) Has(name string) bool {
	_, err := f.df.NameToColumn(name)
	return err == nil
}

func (f *Frame) series(name string) (dataframe.Series, error) {
	idx, err := f.df.NameToColumn(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return f.df.Series[idx], nil
}

// Column returns a copy of the named series
func (f *Frame) Column(name string) (dataframe.Series, error) {
	s, err := f.series(name)
	if err != nil {
		return nil, err
	}
	return s.Copy(), nil
}

// Times returns the values of a time column. Missing values are an error.
func (f *Frame) Times(name string) ([]time.Time, error) {
	s, err := f.series(name)
	if err != nil {
		return nil, err
	}

	ts, ok := s.(*dataframe.SeriesTime)
	if !ok {
		return nil, fmt.Errorf("%w: %q holds %s values, not time", ErrColumnType, name, s.Type())
	}

	out := make([]time.Time, len(ts.Values))
	for idx, val := range ts.Values {
		if val == nil {
			return nil, fmt.Errorf("%w: %q row %d", ErrNilValue, name, idx)
		}
		out[idx] = *val
	}

	return out, nil
}

// Floats returns the values of a numeric column. Missing values are NaN.
func (f *Frame) Floats(name string) ([]float64, error) {
	s, err := f.series(name)
	if err != nil {
		return nil, err
	}

	switch typed := s.(type) {
	case *dataframe.SeriesFloat64:
		out := make([]float64, len(typed.Values))
		copy(out, typed.Values)
		return out, nil
	case *dataframe.SeriesInt64:
		n := typed.NRows()
		out := make([]float64, n)
		for idx := 0; idx < n; idx++ {
			if val, ok := typed.Value(idx).(int64); ok {
				out[idx] = float64(val)
			} else {
				out[idx] = math.NaN()
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q holds %s values, not numbers", ErrColumnType, name, s.Type())
	}
}

// Values returns the values of any column; missing values are nil
func (f *Frame) Values(name string) ([]interface{}, error) {
	s, err := f.series(name)
	if err != nil {
		return nil, err
	}

	n := s.NRows()
	out := make([]interface{}, n)
	for row := 0; row < n; row++ {
		out[row] = s.Value(row)
	}
	return out, nil
}

// Records returns every row as a map of column name to value
func (f *Frame) Records() []map[string]interface{} {
	n := f.NRows()
	out := make([]map[string]interface{}, n)
	for row := 0; row < n; row++ {
		rec := make(map[string]interface{}, f.NCols())
		for _, s := range f.df.Series {
			rec[s.Name()] = s.Value(row)
		}
		out[row] = rec
	}
	return out
}

func (f *Frame) derive(series []dataframe.Series, groups []string) *Frame {
	g := make([]string, len(groups))
	copy(g, groups)
	if len(g) == 0 {
		g = nil
	}
	return &Frame{df: dataframe.NewDataFrame(series...), groups: g}
}

// Select projects the frame onto names. Group key columns are always kept and
// placed in front of the selection when not asked for explicitly.
func (f *Frame) Select(names ...string) (*Frame, error) {
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[name] = struct{}{}
	}

	order := make([]string, 0, len(names)+len(f.groups))
	for _, g := range f.groups {
		if _, ok := wanted[g]; !ok {
			order = append(order, g)
		}
	}
	order = append(order, names...)

	seen := make(map[string]struct{}, len(order))
	series := make([]dataframe.Series, 0, len(order))
	for _, name := range order {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		s, err := f.series(name)
		if err != nil {
			return nil, err
		}
		series = append(series, s)
	}

	return f.derive(series, f.groups), nil
}

// Drop removes the named columns; unknown names are ignored. Dropped group
// key columns are removed from the grouping as well.
func (f *Frame) Drop(names ...string) *Frame {
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		drop[name] = struct{}{}
	}

	series := make([]dataframe.Series, 0, f.NCols())
	for _, s := range f.df.Series {
		if _, ok := drop[s.Name()]; !ok {
			series = append(series, s)
		}
	}

	groups := make([]string, 0, len(f.groups))
	for _, g := range f.groups {
		if _, ok := drop[g]; !ok {
			groups = append(groups, g)
		}
	}

	return f.derive(series, groups)
}

// Rename changes the name of a column, including its entry in the grouping
func (f *Frame) Rename(from, to string) (*Frame, error) {
	if from == to {
		return f.derive(f.df.Series, f.groups), nil
	}
	if f.Has(to) {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, to)
	}

	idx, err := f.df.NameToColumn(from)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, from)
	}

	series := make([]dataframe.Series, len(f.df.Series))
	copy(series, f.df.Series)
	renamed := series[idx].Copy()
	renamed.Rename(to)
	series[idx] = renamed

	groups := make([]string, len(f.groups))
	for ii, g := range f.groups {
		if g == from {
			g = to
		}
		groups[ii] = g
	}

	return f.derive(series, groups), nil
}

// Mutate replaces the column with the same name as s or appends s as a new
// column. s must have one value per row.
func (f *Frame) Mutate(s dataframe.Series) (*Frame, error) {
	if f.NCols() > 0 && s.NRows() != f.NRows() {
		return nil, fmt.Errorf("%w: %q has %d rows but the frame has %d", ErrLengthMismatch, s.Name(), s.NRows(), f.NRows())
	}

	series := make([]dataframe.Series, 0, f.NCols()+1)
	replaced := false
	for _, existing := range f.df.Series {
		if existing.Name() == s.Name() {
			series = append(series, s)
			replaced = true
		} else {
			series = append(series, existing)
		}
	}
	if !replaced {
		series = append(series, s)
	}

	return f.derive(series, f.groups), nil
}

// Take returns the rows at the given positions in the given order
func (f *Frame) Take(rows []int) *Frame {
	series := make([]dataframe.Series, len(f.df.Series))
	for idx, s := range f.df.Series {
		series[idx] = takeSeries(s, rows)
	}
	return f.derive(series, f.groups)
}

// FilterRows keeps the rows for which pred returns true, in their original order
func (f *Frame) FilterRows(ctx context.Context, pred Predicate) (*Frame, error) {
	n := f.NRows()
	rows := make([]int, 0, n)
	for row := 0; row < n; row++ {
		if row%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		keep, err := pred(row)
		if err != nil {
			return nil, err
		}
		if keep {
			rows = append(rows, row)
		}
	}

	return f.Take(rows), nil
}
