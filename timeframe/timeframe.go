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
	"sync"
	"time"

	"github.com/rocketlaunchr/dataframe-go"
	"github.com/rs/zerolog/log"

	"github.com/penny-vault/timeframe/frame"
)

// TimeFrame is a frame tagged with the name of its time index column and a
// time zone. The index is expected to be sorted ascending within each group;
// period aware operations warn once when it is not and otherwise work on the
// data as given.
type TimeFrame struct {
	frame *frame.Frame
	index string
	zone  *time.Location

	sortOnce *sync.Once
	unsorted error
}

// New tags f as a time frame indexed by the time column index
func New(f *frame.Frame, index string, opts ...Option) (*TimeFrame, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: no frame", ErrNotTimeAware)
	}

	cfg := newConfig(opts)
	zone := cfg.zone
	if zone == nil {
		zone = time.UTC
	}

	if err := validateIndex(f, index); err != nil {
		return nil, err
	}

	return &TimeFrame{frame: f, index: index, zone: zone, sortOnce: &sync.Once{}}, nil
}

// MustNew is like New but panics on error
func MustNew(f *frame.Frame, index string, opts ...Option) *TimeFrame {
	tf, err := New(f, index, opts...)
	if err != nil {
		panic(err)
	}
	return tf
}

func validateIndex(f *frame.Frame, index string) error {
	s, err := f.Column(index)
	if err != nil {
		return err
	}

	ts, ok := s.(*dataframe.SeriesTime)
	if !ok {
		return fmt.Errorf("%w: %q holds %s values", ErrNonTemporalColumn, index, s.Type())
	}
	for row, val := range ts.Values {
		if val == nil {
			return fmt.Errorf("%w: %q is missing a value at row %d", ErrNonTemporalColumn, index, row)
		}
	}

	return nil
}

// retag applies this frame's tag to f, which must still hold the index
func (tf *TimeFrame) retag(f *frame.Frame) *TimeFrame {
	return &TimeFrame{frame: f, index: tf.index, zone: tf.zone, sortOnce: &sync.Once{}}
}

func check(tf *TimeFrame) error {
	if tf == nil || tf.frame == nil {
		return ErrNotTimeAware
	}
	return nil
}

// Frame returns the underlying frame
func (tf *TimeFrame) Frame() *frame.Frame {
	return tf.frame
}

// Untag drops the time tag and returns the plain frame
func (tf *TimeFrame) Untag() *frame.Frame {
	return tf.frame
}

// Index returns the name of the index column
func (tf *TimeFrame) Index() string {
	return tf.index
}

// Zone returns the time zone used for period arithmetic
func (tf *TimeFrame) Zone() *time.Location {
	return tf.zone
}

// NRows returns the number of rows
func (tf *TimeFrame) NRows() int {
	return tf.frame.NRows()
}

// Names returns the column names
func (tf *TimeFrame) Names() []string {
	return tf.frame.Names()
}

// Groups returns the group key column names
func (tf *TimeFrame) Groups() []string {
	return tf.frame.Groups()
}

// Times returns the index values
func (tf *TimeFrame) Times() []time.Time {
	times, err := tf.frame.Times(tf.index)
	if err != nil {
		// the index is validated whenever a frame is tagged
		log.Panic().Err(err).Str("Index", tf.index).Msg("time frame lost its index")
	}
	return times
}

// Table renders the time frame as an ASCII table
func (tf *TimeFrame) Table() string {
	return tf.frame.Table()
}

func (tf *TimeFrame) String() string {
	return fmt.Sprintf("<time frame %d x %d indexed by %s>", tf.frame.NRows(), tf.frame.NCols(), tf.index)
}

// Select keeps the index, the group columns and names
func (tf *TimeFrame) Select(names ...string) (*TimeFrame, error) {
	cols := []string{tf.index}
	for _, name := range names {
		if name != tf.index {
			cols = append(cols, name)
		}
	}

	f, err := tf.frame.Select(cols...)
	if err != nil {
		return nil, err
	}
	return tf.retag(f), nil
}

// Drop removes columns other than the index
func (tf *TimeFrame) Drop(names ...string) (*TimeFrame, error) {
	for _, name := range names {
		if name == tf.index {
			return nil, fmt.Errorf("%w: %q", ErrIndexRequired, name)
		}
	}
	return tf.retag(tf.frame.Drop(names...)), nil
}

// Rename renames a column; renaming the index moves the tag with it
func (tf *TimeFrame) Rename(from, to string) (*TimeFrame, error) {
	f, err := tf.frame.Rename(from, to)
	if err != nil {
		return nil, err
	}

	out := tf.retag(f)
	if from == tf.index {
		out.index = to
	}
	return out, nil
}

// FilterRows keeps the rows for which pred returns true
func (tf *TimeFrame) FilterRows(ctx context.Context, pred frame.Predicate) (*TimeFrame, error) {
	f, err := tf.frame.FilterRows(ctx, pred)
	if err != nil {
		return nil, err
	}
	return tf.retag(f), nil
}

// Mutate replaces or adds a column. Replacing the index requires complete
// time values.
func (tf *TimeFrame) Mutate(s dataframe.Series) (*TimeFrame, error) {
	f, err := tf.frame.Mutate(s)
	if err != nil {
		return nil, err
	}
	if s.Name() == tf.index {
		if err := validateIndex(f, tf.index); err != nil {
			return nil, err
		}
	}
	return tf.retag(f), nil
}

// GroupBy sets the external group columns
func (tf *TimeFrame) GroupBy(keys ...string) (*TimeFrame, error) {
	f, err := tf.frame.GroupBy(keys...)
	if err != nil {
		return nil, err
	}
	return tf.retag(f), nil
}

// Ungroup drops the external grouping
func (tf *TimeFrame) Ungroup() *TimeFrame {
	return tf.retag(tf.frame.Ungroup())
}

// partitions returns the external group partitions. A grouped frame without
// rows yields one empty partition so results keep their columns.
func (tf *TimeFrame) partitions() []frame.Partition {
	parts := tf.frame.Partitions()
	if len(parts) == 0 {
		parts = []frame.Partition{{Key: frame.Key{}, Rows: []int{}, Frame: tf.frame.Ungroup().Take([]int{})}}
	}
	return parts
}

// checkSorted looks for a descending step in the index of each group. The
// scan runs once per time frame; the result is passed to the warning handler
// of every operation.
func (tf *TimeFrame) checkSorted(cfg *config) {
	tf.sortOnce.Do(func() {
		times := tf.Times()
		for _, part := range tf.frame.Partitions() {
			for ii := 1; ii < len(part.Rows); ii++ {
				prev := times[part.Rows[ii-1]]
				curr := times[part.Rows[ii]]
				if curr.Before(prev) {
					tf.unsorted = fmt.Errorf("%w: %q drops from %s to %s at row %d (group [%s])", ErrUnsortedIndex,
						tf.index, prev.Format(time.RFC3339), curr.Format(time.RFC3339), part.Rows[ii], part.Key)
					log.Warn().Str("Index", tf.index).Str("Group", part.Key.String()).Int("Row", part.Rows[ii]).
						Time("Previous", prev).Time("Current", curr).
						Msg("index is not sorted ascending; results are computed on the data as given")
					return
				}
			}
		}
	})

	if tf.unsorted != nil && cfg.warn != nil {
		cfg.warn(tf.unsorted)
	}
}
