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
	"time"

	"github.com/penny-vault/timeframe/frame"
	"github.com/penny-vault/timeframe/period"
)

// CollapseByPeriod replaces every index value with the end (or, WithSide, the
// start) of its period. Rows are neither merged nor reordered; KeepOriginal
// retains the previous values in the OriginalIndex column. Each group is
// collapsed on its own.
func CollapseByPeriod(ctx context.Context, tf *TimeFrame, spec period.Spec, opts ...Option) (*TimeFrame, error) {
	if err := check(tf); err != nil {
		return nil, err
	}

	cfg := newConfig(opts)
	tf.checkSorted(cfg)

	collapsed, err := collapseTimes(ctx, tf, spec, cfg)
	if err != nil {
		return nil, err
	}

	f := tf.frame
	if cfg.keepOriginal {
		if f.Has(OriginalIndex) {
			return nil, fmt.Errorf("%w: %q already exists", frame.ErrDuplicateColumn, OriginalIndex)
		}
		if f, err = f.Mutate(frame.TimeSeries(OriginalIndex, tf.Times())); err != nil {
			return nil, err
		}
	}

	if f, err = f.Mutate(frame.TimeSeries(tf.index, collapsed)); err != nil {
		return nil, err
	}

	return tf.retag(f), nil
}

// collapseTimes returns the collapsed index value of every row
func collapseTimes(ctx context.Context, tf *TimeFrame, spec period.Spec, cfg *config) ([]time.Time, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	times := tf.Times()
	side := cfg.sideOr(period.SideEnd)
	collapsed := make([]time.Time, len(times))

	err := eachPartition(ctx, cfg, "collapse", tf.partitions(), func(ctx context.Context, _ int, part frame.Partition) error {
		c, err := cfg.classifier(spec, tf.zone, pick(times, part.Rows))
		if err != nil {
			return err
		}

		for _, row := range part.Rows {
			collapsed[row] = c.Boundary(c.Key(times[row]), side)
		}
		return nil
	})

	return collapsed, err
}
