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

package timeframe

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/penny-vault/timeframe/frame"
	"github.com/penny-vault/timeframe/period"
	"github.com/penny-vault/timeframe/rollify"
)

// Group holds the rows of one (external group, period) partition while its
// reductions are evaluated
type Group struct {
	// Frame holds the rows of the partition with their original index values
	Frame *frame.Frame

	// Key is the external group key; empty for ungrouped frames
	Key frame.Key

	// Period is the collapsed index value of the partition
	Period time.Time

	index   string
	results map[string]interface{}
}

// Len returns the number of rows in the partition
func (g *Group) Len() int {
	return g.Frame.NRows()
}

// Times returns the original index values of the partition
func (g *Group) Times() ([]time.Time, error) {
	return g.Frame.Times(g.index)
}

// Floats returns a numeric column of the partition
func (g *Group) Floats(col string) ([]float64, error) {
	return g.Frame.Floats(col)
}

// Result returns a reduction evaluated earlier in the same call
func (g *Group) Result(name string) (interface{}, bool) {
	val, ok := g.results[name]
	return val, ok
}

// Float returns an earlier numeric result. Missing results are an error.
func (g *Group) Float(name string) (float64, error) {
	val, ok := g.results[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q is not an earlier reduction", ErrInvalidReduction, name)
	}

	switch typed := val.(type) {
	case float64:
		return typed, nil
	case int64:
		return float64(typed), nil
	default:
		return 0, fmt.Errorf("%w: %q holds %T, not a number", ErrInvalidReduction, name, val)
	}
}

// ReduceFunc computes one summary value for a partition
type ReduceFunc func(g *Group) (interface{}, error)

// Reduction is a named summary. Reductions run in the order given, so a
// reduction can read the results of the ones before it.
type Reduction struct {
	Name string
	Fn   ReduceFunc
}

// Reduce applies a window reducer to the named columns of each partition
func Reduce(name string, fn rollify.Reducer, cols ...string) Reduction {
	return Reduction{
		Name: name,
		Fn: func(g *Group) (interface{}, error) {
			vals := make([][]float64, len(cols))
			for idx, col := range cols {
				col, err := g.Floats(col)
				if err != nil {
					return nil, err
				}
				vals[idx] = col
			}
			return fn(vals...), nil
		},
	}
}

// Count counts the rows of each partition
func Count(name string) Reduction {
	return Reduction{
		Name: name,
		Fn: func(g *Group) (interface{}, error) {
			return int64(g.Len()), nil
		},
	}
}

func normalize(val interface{}) interface{} {
	switch typed := val.(type) {
	case int:
		return int64(typed)
	case int32:
		return int64(typed)
	case float32:
		return float64(typed)
	default:
		return val
	}
}

func validateReductions(tf *TimeFrame, reductions []Reduction) error {
	if len(reductions) == 0 {
		return fmt.Errorf("%w: at least one reduction is required", ErrInvalidReduction)
	}

	taken := map[string]struct{}{tf.index: {}}
	for _, g := range tf.frame.Groups() {
		taken[g] = struct{}{}
	}

	for _, red := range reductions {
		if red.Name == "" || red.Fn == nil {
			return fmt.Errorf("%w: reductions need a name and a function", ErrInvalidReduction)
		}
		if _, ok := taken[red.Name]; ok {
			return fmt.Errorf("%w: %q is already a column of the summary", ErrInvalidReduction, red.Name)
		}
		taken[red.Name] = struct{}{}
	}

	return nil
}

type summaryRow struct {
	part   int
	period time.Time
	first  int
	values []interface{}
}

// SummariseByPeriod collapses the index by period and reduces every
// (external group, period) partition to one row. The result holds the group
// columns, the collapsed index and one column per reduction, ordered by index
// and then by group. Reductions are evaluated in order within a partition.
func SummariseByPeriod(ctx context.Context, tf *TimeFrame, spec period.Spec, reductions []Reduction, opts ...Option) (*TimeFrame, error) {
	if err := check(tf); err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if err := validateReductions(tf, reductions); err != nil {
		return nil, err
	}

	cfg := newConfig(opts)
	tf.checkSorted(cfg)

	times := tf.Times()
	side := cfg.sideOr(period.SideEnd)
	ungrouped := tf.frame.Ungroup()
	parts := tf.partitions()
	perPart := make([][]summaryRow, len(parts))

	err := eachPartition(ctx, cfg, "summarise", parts, func(ctx context.Context, idx int, part frame.Partition) error {
		c, err := cfg.classifier(spec, tf.zone, pick(times, part.Rows))
		if err != nil {
			return err
		}

		runs := splitByPeriod(c, times, part.Rows)
		rows := make([]summaryRow, 0, len(runs))
		for _, run := range runs {
			if err := ctx.Err(); err != nil {
				return err
			}

			g := &Group{
				Frame:   ungrouped.Take(run.rows),
				Key:     part.Key,
				Period:  c.Boundary(run.key, side),
				index:   tf.index,
				results: make(map[string]interface{}, len(reductions)),
			}

			vals := make([]interface{}, len(reductions))
			for ii, red := range reductions {
				val, err := red.Fn(g)
				if err != nil {
					return fmt.Errorf("reduction %q for group [%s] at %s: %w", red.Name, part.Key, g.Period.Format(time.RFC3339), err)
				}
				val = normalize(val)
				vals[ii] = val
				g.results[red.Name] = val
			}

			rows = append(rows, summaryRow{part: idx, period: g.Period, first: run.rows[0], values: vals})
		}

		perPart[idx] = rows
		return nil
	})
	if err != nil {
		return nil, err
	}

	rows := make([]summaryRow, 0)
	for _, partRows := range perPart {
		rows = append(rows, partRows...)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].period.Equal(rows[j].period) {
			return rows[i].period.Before(rows[j].period)
		}
		return rows[i].part < rows[j].part
	})

	firsts := make([]int, len(rows))
	periods := make([]time.Time, len(rows))
	for idx, row := range rows {
		firsts[idx] = row.first
		periods[idx] = row.period
	}

	out, err := tf.frame.Select()
	if err != nil {
		return nil, err
	}
	out = out.Take(firsts)
	if out, err = out.Mutate(frame.TimeSeries(tf.index, periods)); err != nil {
		return nil, err
	}

	for ii, red := range reductions {
		col := make([]interface{}, len(rows))
		for idx, row := range rows {
			col[idx] = row.values[ii]
		}

		s, err := frame.SeriesOf(red.Name, col)
		if err != nil {
			return nil, fmt.Errorf("reduction %q: %w", red.Name, err)
		}
		if out, err = out.Mutate(s); err != nil {
			return nil, err
		}
	}

	return tf.retag(out), nil
}
