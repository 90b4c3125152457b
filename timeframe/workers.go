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

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/penny-vault/timeframe/frame"
	"github.com/penny-vault/timeframe/period"
)

// eachPartition runs fn for every partition on at most cfg.concurrency
// workers. fn must only write to state owned by its partition.
func eachPartition(ctx context.Context, cfg *config, op string, parts []frame.Partition, fn func(ctx context.Context, idx int, part frame.Partition) error) error {
	log.Debug().Str("Op", op).Int("Partitions", len(parts)).Int("Concurrency", cfg.concurrency).Msg("processing partitions")

	sem := semaphore.NewWeighted(int64(cfg.concurrency))
	grp, gctx := errgroup.WithContext(ctx)
	for idx := range parts {
		idx := idx
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		grp.Go(func() error {
			defer sem.Release(1)
			return fn(gctx, idx, parts[idx])
		})
	}

	if err := grp.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// classifier builds the period classifier for one group with the given index
// values. Date-only data ends day and coarser periods on their last day.
func (cfg *config) classifier(spec period.Spec, zone *time.Location, times []time.Time) (*period.Classifier, error) {
	c, err := period.NewClassifier(spec, zone)
	if err != nil {
		return nil, err
	}

	switch {
	case cfg.anchor != nil:
		c = c.WithAnchor(*cfg.anchor)
	case cfg.anchorToStart && len(times) > 0:
		c = c.WithAnchor(times[0])
	}

	if spec.Unit >= period.Day && len(times) > 0 && allMidnight(times, zone) {
		c = c.WithPrecision(period.PrecisionDay)
	}

	return c, nil
}

func allMidnight(times []time.Time, zone *time.Location) bool {
	for _, t := range times {
		local := t.In(zone)
		if local.Hour() != 0 || local.Minute() != 0 || local.Second() != 0 || local.Nanosecond() != 0 {
			return false
		}
	}
	return true
}

func pick(times []time.Time, rows []int) []time.Time {
	out := make([]time.Time, len(rows))
	for idx, row := range rows {
		out[idx] = times[row]
	}
	return out
}

// periodRun is the rows of one group that share a period key
type periodRun struct {
	key  period.Key
	rows []int
}

// splitByPeriod groups rows by period key. Runs are ordered by key and rows
// keep their order within a run.
func splitByPeriod(c *period.Classifier, times []time.Time, rows []int) []periodRun {
	index := make(map[period.Key]int)
	runs := make([]periodRun, 0)
	for _, row := range rows {
		key := c.Key(times[row])
		pos, ok := index[key]
		if !ok {
			pos = len(runs)
			index[key] = pos
			runs = append(runs, periodRun{key: key})
		}
		runs[pos].rows = append(runs[pos].rows, row)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].key < runs[j].key
	})
	return runs
}
