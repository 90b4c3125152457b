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
	"time"

	"github.com/rs/zerolog/log"

	"github.com/penny-vault/timeframe/period"
	"github.com/penny-vault/timeframe/timeformula"
)

// FilterTime keeps the rows whose index falls inside the time formula expr,
// both ends included. Row order, columns and grouping are preserved.
//
//	FilterTime(ctx, tf, "2013")              // every row in 2013
//	FilterTime(ctx, tf, "~2015-03")          // every row in March 2015
//	FilterTime(ctx, tf, "2013-06 ~ 2014-02") // June 2013 through February 2014
func FilterTime(ctx context.Context, tf *TimeFrame, expr string, opts ...Option) (*TimeFrame, error) {
	if err := check(tf); err != nil {
		return nil, err
	}

	interval, err := timeformula.Parse(expr, tf.zone)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("Formula", expr).Object("Interval", interval).Msg("filtering by time formula")
	return FilterInterval(ctx, tf, interval, opts...)
}

// FilterInterval keeps the rows whose index falls inside interval
func FilterInterval(ctx context.Context, tf *TimeFrame, interval period.Interval, opts ...Option) (*TimeFrame, error) {
	if err := check(tf); err != nil {
		return nil, err
	}

	cfg := newConfig(opts)
	tf.checkSorted(cfg)

	times := tf.Times()
	if span, ok := timeSpan(times); ok {
		switch {
		case !interval.Overlaps(span):
			return tf.retag(tf.frame.Take([]int{})), nil
		case interval.ContainsInterval(span):
			return tf.retag(tf.frame), nil
		}
	}

	return tf.FilterRows(ctx, func(row int) (bool, error) {
		return interval.Contains(times[row]), nil
	})
}

// timeSpan returns the earliest and latest of times
func timeSpan(times []time.Time) (period.Interval, bool) {
	if len(times) == 0 {
		return period.Interval{}, false
	}

	span := period.Interval{Begin: times[0], End: times[0]}
	for _, t := range times[1:] {
		if t.Before(span.Begin) {
			span.Begin = t
		}
		if t.After(span.End) {
			span.End = t
		}
	}
	return span, true
}

// Subset filters by time formula and projects onto cols, the equivalent of
// tf[expr, cols]. The index and group columns are always kept and no columns
// means all of them.
func Subset(ctx context.Context, tf *TimeFrame, expr string, cols ...string) (*TimeFrame, error) {
	filtered, err := FilterTime(ctx, tf, expr)
	if err != nil {
		return nil, err
	}

	if len(cols) == 0 {
		return filtered, nil
	}
	return filtered.Select(cols...)
}
