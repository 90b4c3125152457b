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

package timeframe_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rocketlaunchr/dataframe-go"

	"github.com/penny-vault/timeframe/frame"
	"github.com/penny-vault/timeframe/period"
	"github.com/penny-vault/timeframe/rollify"
	"github.com/penny-vault/timeframe/timeframe"
)

var _ = Describe("TimeFrame", func() {
	var (
		ctx context.Context
		tf  *timeframe.TimeFrame
	)

	BeforeEach(func() {
		ctx = context.Background()
		tf = daily("2021-01-01~2021-01-05", "VFINX", "PRIDX")
	})

	Context("when tagging a frame", func() {
		It("rejects a missing index column", func() {
			_, err := timeframe.New(tf.Frame(), "timestamp")
			Expect(errors.Is(err, timeframe.ErrColumnNotFound)).To(BeTrue())
		})

		It("rejects an index that does not hold timestamps", func() {
			_, err := timeframe.New(tf.Frame(), "ticker")
			Expect(errors.Is(err, timeframe.ErrNonTemporalColumn)).To(BeTrue())
		})

		It("rejects an index with missing values", func() {
			f := frame.MustNew(dataframe.NewSeriesTime("date", nil, day(2021, 1, 1), nil))
			_, err := timeframe.New(f, "date")
			Expect(errors.Is(err, timeframe.ErrNonTemporalColumn)).To(BeTrue())
		})

		It("rejects a nil frame", func() {
			_, err := timeframe.New(nil, "date")
			Expect(errors.Is(err, timeframe.ErrNotTimeAware)).To(BeTrue())
		})

		It("defaults to UTC", func() {
			Expect(tf.Zone()).To(Equal(time.UTC))
			Expect(tf.Index()).To(Equal("date"))
		})
	})

	Context("when operations receive an untagged value", func() {
		It("returns ErrNotTimeAware", func() {
			_, err := timeframe.FilterTime(ctx, nil, "~2021")
			Expect(errors.Is(err, timeframe.ErrNotTimeAware)).To(BeTrue())

			_, err = timeframe.CollapseByPeriod(ctx, nil, period.MustParse("monthly"))
			Expect(errors.Is(err, timeframe.ErrNotTimeAware)).To(BeTrue())

			_, err = timeframe.AsPeriod(ctx, &timeframe.TimeFrame{}, period.MustParse("monthly"))
			Expect(errors.Is(err, timeframe.ErrNotTimeAware)).To(BeTrue())
		})
	})

	Context("when transforming columns", func() {
		It("keeps the index through Select", func() {
			out, err := tf.Select("close")
			Expect(err).To(BeNil())
			Expect(out.Names()).To(Equal([]string{"date", "close"}))
			Expect(out.Index()).To(Equal("date"))
		})

		It("refuses to drop the index", func() {
			_, err := tf.Drop("date")
			Expect(errors.Is(err, timeframe.ErrIndexRequired)).To(BeTrue())

			out, err := tf.Drop("close")
			Expect(err).To(BeNil())
			Expect(out.Names()).To(Equal([]string{"date", "ticker"}))
		})

		It("moves the tag with a renamed index", func() {
			out, err := tf.Rename("date", "ts")
			Expect(err).To(BeNil())
			Expect(out.Index()).To(Equal("ts"))
			Expect(out.Times()).To(HaveLen(10))
		})

		It("keeps the tag through filtering and grouping", func() {
			g := grouped(tf)
			Expect(g.Groups()).To(Equal([]string{"ticker"}))

			out, err := g.FilterRows(ctx, func(row int) (bool, error) { return row%2 == 0, nil })
			Expect(err).To(BeNil())
			Expect(out.Index()).To(Equal("date"))
			Expect(out.Groups()).To(Equal([]string{"ticker"}))
			Expect(out.NRows()).To(Equal(5))

			Expect(out.Ungroup().Groups()).To(BeEmpty())
			Expect(out.Untag().NCols()).To(Equal(3))
		})

		It("validates a replaced index", func() {
			_, err := tf.Mutate(frame.StringSeries("date", make([]string, 10)))
			Expect(errors.Is(err, timeframe.ErrNonTemporalColumn)).To(BeTrue())
		})
	})

	Context("when the index is not sorted", func() {
		var unsorted *timeframe.TimeFrame

		BeforeEach(func() {
			f := frame.MustNew(
				frame.TimeSeries("date", []time.Time{day(2021, 1, 3), day(2021, 1, 1), day(2021, 2, 2)}),
				frame.FloatSeries("close", []float64{1, 2, 3}),
			)
			unsorted = timeframe.MustNew(f, "date")
		})

		It("warns and still computes the result", func() {
			warnings := make([]error, 0)
			handler := timeframe.WithWarningHandler(func(err error) { warnings = append(warnings, err) })

			out, err := timeframe.CollapseByPeriod(ctx, unsorted, period.MustParse("monthly"), handler)
			Expect(err).To(BeNil())
			Expect(out.Times()).To(Equal([]time.Time{day(2021, 1, 31), day(2021, 1, 31), day(2021, 2, 28)}))
			Expect(warnings).To(HaveLen(1))
			Expect(errors.Is(warnings[0], timeframe.ErrUnsortedIndex)).To(BeTrue())

			_, err = timeframe.AsPeriod(ctx, unsorted, period.MustParse("monthly"), handler)
			Expect(err).To(BeNil())
			Expect(warnings).To(HaveLen(2))

			sum2 := rollify.MustRollify(rollify.Sum, rollify.Window(2))
			rolled, err := timeframe.Transform(ctx, unsorted, "sum2", sum2, []string{"close"}, handler, timeframe.WithConcurrency(1))
			Expect(err).To(BeNil())
			Expect(floats(rolled, "sum2")[1:]).To(Equal([]float64{3, 5}))
			Expect(warnings).To(HaveLen(3))
		})

		It("only checks order within a group", func() {
			warnings := 0
			handler := timeframe.WithWarningHandler(func(err error) { warnings++ })

			_, err := timeframe.CollapseByPeriod(ctx, grouped(tf), period.MustParse("monthly"), handler)
			Expect(err).To(BeNil())
			Expect(warnings).To(Equal(0))
		})
	})
})
