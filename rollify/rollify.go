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

// Package rollify turns window reductions into row aligned column functions.
// Position i of the output holds the reduction of the window of rows around
// i; positions whose window does not fit inside the input receive the fill
// value (NaN unless set otherwise).
package rollify

import (
	"context"
	"fmt"
	"math"

	"github.com/rocketlaunchr/dataframe-go"
)

// Reducer reduces one window per input column to a single value. The slices
// are views into the input and must not be modified.
type Reducer func(cols ...[]float64) float64

// Func maps equal length columns to a column of the same length
type Func func(cols ...[]float64) ([]float64, error)

type config struct {
	lo   int
	hi   int
	fill float64
	err  error
}

type Option func(*config)

// Window uses the trailing window [i-n+1, i]
func Window(n int) Option {
	return func(c *config) {
		c.lo = -(n - 1)
		c.hi = 0
		if n < 1 {
			c.err = fmt.Errorf("%w: width %d must be >= 1", ErrInvalidWindow, n)
		}
	}
}

// Offsets uses the window [i+lo, i+hi]; negative offsets look back
func Offsets(lo, hi int) Option {
	return func(c *config) {
		c.lo = lo
		c.hi = hi
	}
}

// Fill sets the value used where the window does not fit
func Fill(val float64) Option {
	return func(c *config) {
		c.fill = val
	}
}

// Rollify wraps fn so that it is applied over a rolling window. The default
// window is the single current row.
func Rollify(fn Reducer, opts ...Option) (Func, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: reducer is required", ErrInvalidWindow)
	}

	cfg := config{fill: math.NaN()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.err != nil {
		return nil, cfg.err
	}
	if cfg.lo > cfg.hi {
		return nil, fmt.Errorf("%w: window [%+d, %+d] is empty", ErrInvalidWindow, cfg.lo, cfg.hi)
	}

	return func(cols ...[]float64) ([]float64, error) {
		if len(cols) == 0 {
			return nil, ErrNoInput
		}

		n := len(cols[0])
		for idx, col := range cols {
			if len(col) != n {
				return nil, fmt.Errorf("%w: input %d has %d values, input 0 has %d", ErrLengthMismatch, idx, len(col), n)
			}
		}

		out := make([]float64, n)
		windows := make([][]float64, len(cols))
		for ii := 0; ii < n; ii++ {
			first := ii + cfg.lo
			last := ii + cfg.hi
			if first < 0 || last >= n {
				out[ii] = cfg.fill
				continue
			}

			for idx, col := range cols {
				windows[idx] = col[first : last+1]
			}
			out[ii] = fn(windows...)
		}

		return out, nil
	}, nil
}

// MustRollify is like Rollify but panics on an invalid window
func MustRollify(fn Reducer, opts ...Option) Func {
	rolled, err := Rollify(fn, opts...)
	if err != nil {
		panic(err)
	}
	return rolled
}

// Series applies fn to numeric series and returns the result as a float
// series called name
func Series(ctx context.Context, fn Func, name string, series ...dataframe.Series) (*dataframe.SeriesFloat64, error) {
	cols := make([][]float64, len(series))
	for idx, s := range series {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n := s.NRows()
		col := make([]float64, n)
		for row := 0; row < n; row++ {
			switch val := s.Value(row).(type) {
			case float64:
				col[row] = val
			case int64:
				col[row] = float64(val)
			case nil:
				col[row] = math.NaN()
			default:
				return nil, fmt.Errorf("%w: %q row %d holds %T", ErrNonNumeric, s.Name(), row, val)
			}
		}
		cols[idx] = col
	}

	vals, err := fn(cols...)
	if err != nil {
		return nil, err
	}

	out := dataframe.NewSeriesFloat64(name, &dataframe.SeriesInit{Capacity: len(vals)})
	for _, val := range vals {
		out.Append(val)
	}
	return out, nil
}
