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
)

// Nested is one cell of a nested column: the rows of a single
// (group, period) partition. Time is set when the inner dates are kept.
type Nested struct {
	Frame *frame.Frame
	Time  *TimeFrame
}

// MarshalJSON encodes the nested rows
func (n Nested) MarshalJSON() ([]byte, error) {
	if n.Frame == nil {
		return []byte("[]"), nil
	}
	return n.Frame.MarshalJSON()
}

func (n Nested) String() string {
	if n.Frame == nil {
		return "<frame 0 x 0>"
	}
	return n.Frame.String()
}

type nestRow struct {
	part     int
	period   time.Time
	excluded frame.Key
	first    int
	cell     Nested
}

// NestByPeriod collapses the index by period and folds the remaining columns
// of each (group, period) partition into a single list-valued cell named by
// WithKeyName. Columns named with Exclude stay in the outer frame and split
// partitions further; KeepInnerDates keeps the original index inside each
// nested frame and tags it as a time frame.
func NestByPeriod(ctx context.Context, tf *TimeFrame, spec period.Spec, opts ...Option) (*TimeFrame, error) {
	if err := check(tf); err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	cfg := newConfig(opts)
	tf.checkSorted(cfg)

	outer := make(map[string]struct{})
	for _, g := range tf.frame.Groups() {
		outer[g] = struct{}{}
	}
	excluded := make([]string, 0, len(cfg.exclude))
	for _, col := range cfg.exclude {
		if _, ok := outer[col]; ok || col == tf.index {
			continue
		}
		if !tf.frame.Has(col) {
			return nil, fmt.Errorf("%w: %q", frame.ErrColumnNotFound, col)
		}
		outer[col] = struct{}{}
		excluded = append(excluded, col)
	}
	if _, ok := outer[cfg.keyName]; ok || cfg.keyName == tf.index {
		return nil, fmt.Errorf("%w: nest key %q", frame.ErrDuplicateColumn, cfg.keyName)
	}

	inner := make([]string, 0, tf.frame.NCols())
	for _, name := range tf.frame.Names() {
		if _, ok := outer[name]; ok {
			continue
		}
		if name == tf.index && !cfg.keepInnerDates {
			continue
		}
		inner = append(inner, name)
	}

	times := tf.Times()
	side := cfg.sideOr(period.SideEnd)
	ungrouped := tf.frame.Ungroup()
	parts := tf.partitions()
	perPart := make([][]nestRow, len(parts))

	err := eachPartition(ctx, cfg, "nest", parts, func(ctx context.Context, idx int, part frame.Partition) error {
		c, err := cfg.classifier(spec, tf.zone, pick(times, part.Rows))
		if err != nil {
			return err
		}

		rows := make([]nestRow, 0)
		for _, run := range splitByPeriod(c, times, part.Rows) {
			if err := ctx.Err(); err != nil {
				return err
			}

			runFrame := ungrouped.Take(run.rows)
			subs, err := runFrame.PartitionBy(excluded...)
			if err != nil {
				return err
			}

			for _, sub := range subs {
				cell, err := nestCell(tf, sub.Frame, inner, cfg.keepInnerDates)
				if err != nil {
					return err
				}
				rows = append(rows, nestRow{
					part:     idx,
					period:   c.Boundary(run.key, side),
					excluded: sub.Key,
					first:    run.rows[sub.Rows[0]],
					cell:     cell,
				})
			}
		}

		perPart[idx] = rows
		return nil
	})
	if err != nil {
		return nil, err
	}

	rows := make([]nestRow, 0)
	for _, partRows := range perPart {
		rows = append(rows, partRows...)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].period.Equal(rows[j].period) {
			return rows[i].period.Before(rows[j].period)
		}
		if rows[i].part != rows[j].part {
			return rows[i].part < rows[j].part
		}
		return frame.CompareKeys(rows[i].excluded, rows[j].excluded) < 0
	})

	firsts := make([]int, len(rows))
	periods := make([]time.Time, len(rows))
	cells := make([]interface{}, len(rows))
	for idx, row := range rows {
		firsts[idx] = row.first
		periods[idx] = row.period
		cells[idx] = row.cell
	}

	out, err := tf.frame.Select(excluded...)
	if err != nil {
		return nil, err
	}
	out = out.Take(firsts)
	if out, err = out.Mutate(frame.TimeSeries(tf.index, periods)); err != nil {
		return nil, err
	}
	if out, err = out.NestColumn(cfg.keyName, Nested{}, cells); err != nil {
		return nil, err
	}

	return tf.retag(out), nil
}

func nestCell(tf *TimeFrame, sub *frame.Frame, inner []string, keepDates bool) (Nested, error) {
	f, err := sub.Select(inner...)
	if err != nil {
		return Nested{}, err
	}

	cell := Nested{Frame: f}
	if keepDates {
		if cell.Time, err = New(f, tf.index, WithZone(tf.zone)); err != nil {
			return Nested{}, err
		}
	}
	return cell, nil
}
