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
	"math"

	"github.com/rocketlaunchr/dataframe-go"

	"github.com/penny-vault/timeframe/frame"
	"github.com/penny-vault/timeframe/rollify"
)

// Transform applies a row-aligned column function, such as one returned by
// rollify.Rollify, to cols within each group and stores the result in the
// column name. Windows never cross a group boundary.
func Transform(ctx context.Context, tf *TimeFrame, name string, fn rollify.Func, cols []string, opts ...Option) (*TimeFrame, error) {
	if err := check(tf); err != nil {
		return nil, err
	}
	if name == tf.index {
		return nil, fmt.Errorf("%w: cannot overwrite %q", ErrIndexRequired, name)
	}
	if len(cols) == 0 {
		return nil, rollify.ErrNoInput
	}

	cfg := newConfig(opts)
	tf.checkSorted(cfg)

	out := make([]float64, tf.NRows())
	for idx := range out {
		out[idx] = math.NaN()
	}

	err := eachPartition(ctx, cfg, "transform", tf.partitions(), func(ctx context.Context, _ int, part frame.Partition) error {
		inputs := make([]dataframe.Series, len(cols))
		for idx, col := range cols {
			s, err := part.Frame.Column(col)
			if err != nil {
				return err
			}
			inputs[idx] = s
		}

		res, err := rollify.Series(ctx, fn, name, inputs...)
		if err != nil {
			return fmt.Errorf("group [%s]: %w", part.Key, err)
		}
		if res.NRows() != len(part.Rows) {
			return fmt.Errorf("%w: %q returned %d values for %d rows", rollify.ErrLengthMismatch, name, res.NRows(), len(part.Rows))
		}

		for idx, row := range part.Rows {
			out[row] = res.Values[idx]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tf.Mutate(frame.FloatSeries(name, out))
}
