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
	"sort"
	"time"

	"github.com/penny-vault/timeframe/frame"
	"github.com/penny-vault/timeframe/period"
)

// PeriodPartition is the set of rows of one group that fall into one period
type PeriodPartition struct {
	Group  frame.Key
	Period period.Key
	Start  time.Time
	End    time.Time
	Rows   []int
	Frame  *TimeFrame
}

// Partition splits every group of tf into its periods. Partitions are
// ordered by group and then by period; every row belongs to exactly one.
func Partition(ctx context.Context, tf *TimeFrame, spec period.Spec, opts ...Option) ([]PeriodPartition, error) {
	if err := check(tf); err != nil {
		return nil, err
	}

	cfg := newConfig(opts)
	tf.checkSorted(cfg)

	perPart, err := periodPartitions(ctx, tf, spec, cfg)
	if err != nil {
		return nil, err
	}

	ungrouped := tf.frame.Ungroup()
	out := make([]PeriodPartition, 0)
	for _, pp := range perPart {
		for idx := range pp {
			pp[idx].Frame = tf.retag(ungrouped.Take(pp[idx].Rows))
			out = append(out, pp[idx])
		}
	}
	return out, nil
}

func periodPartitions(ctx context.Context, tf *TimeFrame, spec period.Spec, cfg *config) ([][]PeriodPartition, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	times := tf.Times()
	parts := tf.partitions()
	perPart := make([][]PeriodPartition, len(parts))

	err := eachPartition(ctx, cfg, "partition", parts, func(ctx context.Context, idx int, part frame.Partition) error {
		c, err := cfg.classifier(spec, tf.zone, pick(times, part.Rows))
		if err != nil {
			return err
		}

		runs := splitByPeriod(c, times, part.Rows)
		pp := make([]PeriodPartition, len(runs))
		for ii, run := range runs {
			pp[ii] = PeriodPartition{
				Group:  part.Key,
				Period: run.key,
				Start:  c.Start(run.key),
				End:    c.End(run.key),
				Rows:   run.rows,
			}
		}
		perPart[idx] = pp
		return ctx.Err()
	})

	return perPart, err
}

// pickRow returns the position within a period of the row AsPeriod keeps
func (cfg *config) pickRow(n int) int {
	if cfg.nth != 0 {
		pos := cfg.nth - 1
		if cfg.nth < 0 {
			pos = n + cfg.nth
		}
		if pos < 0 {
			pos = 0
		}
		if pos >= n {
			pos = n - 1
		}
		return pos
	}

	if cfg.sideOr(period.SideStart) == period.SideEnd {
		return n - 1
	}
	return 0
}

// AsPeriod converts tf to a coarser periodicity by keeping one row per
// (group, period) partition: the first row by default, the last with
// WithSide(period.SideEnd) or the nth with WithNth. Kept rows retain their
// original index values and order. IncludeEndpoints additionally keeps the
// first and last row of every group.
func AsPeriod(ctx context.Context, tf *TimeFrame, spec period.Spec, opts ...Option) (*TimeFrame, error) {
	if err := check(tf); err != nil {
		return nil, err
	}

	cfg := newConfig(opts)
	tf.checkSorted(cfg)

	perPart, err := periodPartitions(ctx, tf, spec, cfg)
	if err != nil {
		return nil, err
	}

	keep := make(map[int]struct{})
	for _, pp := range perPart {
		for _, p := range pp {
			keep[p.Rows[cfg.pickRow(len(p.Rows))]] = struct{}{}
		}
	}

	if cfg.includeEndpoints {
		for _, part := range tf.partitions() {
			if len(part.Rows) == 0 {
				continue
			}
			keep[part.Rows[0]] = struct{}{}
			keep[part.Rows[len(part.Rows)-1]] = struct{}{}
		}
	}

	rows := make([]int, 0, len(keep))
	for row := range keep {
		rows = append(rows, row)
	}
	sort.Ints(rows)

	return tf.retag(tf.frame.Take(rows)), nil
}
