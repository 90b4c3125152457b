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
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/timeframe/period"
	"github.com/penny-vault/timeframe/timeframe"
)

var _ = Describe("AsPeriod", func() {
	var (
		ctx     context.Context
		monthly period.Spec
		tf      *timeframe.TimeFrame
	)

	BeforeEach(func() {
		ctx = context.Background()
		monthly = period.MustParse("monthly")
		tf = daily("2013-01-02~2013-03-30", "VFINX")
	})

	DescribeTable("keeps one row per period",
		func(want []time.Time, opts ...timeframe.Option) {
			out, err := timeframe.AsPeriod(ctx, tf, monthly, opts...)
			Expect(err).To(BeNil())
			Expect(out.Times()).To(Equal(want))
			Expect(out.Names()).To(Equal(tf.Names()))
		},
		Entry("the first row by default", []time.Time{day(2013, 1, 2), day(2013, 2, 1), day(2013, 3, 1)}),
		Entry("the last row", []time.Time{day(2013, 1, 31), day(2013, 2, 28), day(2013, 3, 30)}, timeframe.WithSide(period.SideEnd)),
		Entry("the second row", []time.Time{day(2013, 1, 3), day(2013, 2, 2), day(2013, 3, 2)}, timeframe.WithNth(2)),
		Entry("the second to last row", []time.Time{day(2013, 1, 30), day(2013, 2, 27), day(2013, 3, 29)}, timeframe.WithNth(-2)),
		Entry("a clamped row", []time.Time{day(2013, 1, 31), day(2013, 2, 28), day(2013, 3, 30)}, timeframe.WithNth(40)),
		Entry("the endpoints", []time.Time{day(2013, 1, 2), day(2013, 2, 1), day(2013, 3, 1), day(2013, 3, 30)}, timeframe.IncludeEndpoints()),
	)

	It("keeps the original values and columns of the chosen rows", func() {
		out, err := timeframe.AsPeriod(ctx, tf, monthly)
		Expect(err).To(BeNil())
		Expect(floats(out, "close")).To(Equal([]float64{1, 31, 59}))
	})

	It("converts every group on its own", func() {
		g := grouped(daily("2013-01-02~2013-03-30", "VFINX", "PRIDX"))
		out, err := timeframe.AsPeriod(ctx, g, period.MustParse("quarterly"), timeframe.WithSide(period.SideEnd))
		Expect(err).To(BeNil())

		Expect(out.Groups()).To(Equal([]string{"ticker"}))
		Expect(out.Times()).To(Equal([]time.Time{day(2013, 3, 30), day(2013, 3, 30)}))
		Expect(strs(out, "ticker")).To(Equal([]string{"VFINX", "PRIDX"}))
	})

	It("returns no rows for an empty frame", func() {
		empty, err := timeframe.FilterTime(ctx, tf, "~2015")
		Expect(err).To(BeNil())
		out, err := timeframe.AsPeriod(ctx, empty, monthly, timeframe.IncludeEndpoints())
		Expect(err).To(BeNil())
		Expect(out.NRows()).To(Equal(0))
	})
})

var _ = Describe("Partition", func() {
	It("assigns every row to exactly one period", func() {
		ctx := context.Background()
		tf := grouped(daily("2012-12-20~2013-03-10", "VFINX", "PRIDX"))

		for _, spec := range []string{"weekly", "monthly", "quarterly", "2~w", "3~d"} {
			parts, err := timeframe.Partition(ctx, tf, period.MustParse(spec))
			Expect(err).To(BeNil())

			times := tf.Times()
			seen := make(map[int]int)
			for _, part := range parts {
				Expect(part.Frame.NRows()).To(Equal(len(part.Rows)))
				for _, row := range part.Rows {
					seen[row]++
					Expect(times[row]).To(BeTemporally(">=", part.Start), spec)
					Expect(times[row]).To(BeTemporally("<=", part.End), spec)
				}
			}

			Expect(seen).To(HaveLen(tf.NRows()), spec)
			for row, count := range seen {
				Expect(count).To(Equal(1), "%s row %d", spec, row)
			}
		}
	})

	It("orders partitions by group and period", func() {
		parts, err := timeframe.Partition(context.Background(), grouped(daily("2013-01~2013-02", "VFINX", "PRIDX")), period.MustParse("monthly"))
		Expect(err).To(BeNil())
		Expect(parts).To(HaveLen(4))

		Expect(parts[0].Group.String()).To(Equal("PRIDX"))
		Expect(parts[0].Start).To(Equal(day(2013, 1, 1)))
		Expect(parts[1].Group.String()).To(Equal("PRIDX"))
		Expect(parts[1].Start).To(Equal(day(2013, 2, 1)))
		Expect(parts[2].Group.String()).To(Equal("VFINX"))
		Expect(parts[1].Period).To(BeNumerically(">", parts[0].Period))
	})
})
