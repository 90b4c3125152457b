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

	"github.com/penny-vault/timeframe/frame"
	"github.com/penny-vault/timeframe/period"
	"github.com/penny-vault/timeframe/timeformula"
	"github.com/penny-vault/timeframe/timeframe"
)

var _ = Describe("FilterTime", func() {
	var (
		ctx context.Context
		tf  *timeframe.TimeFrame
	)

	BeforeEach(func() {
		ctx = context.Background()
		tf = daily("2012-12-30~2015-04-02", "VFINX")
	})

	DescribeTable("keeps every row inside the formula",
		func(expr string, count int, first, last time.Time) {
			out, err := timeframe.FilterTime(ctx, tf, expr)
			Expect(err).To(BeNil())
			Expect(out.NRows()).To(Equal(count))

			times := out.Times()
			Expect(times[0]).To(Equal(first))
			Expect(times[len(times)-1]).To(Equal(last))
		},
		Entry("a whole year", "2013~2013", 365, day(2013, 1, 1), day(2013, 12, 31)),
		Entry("a one sided year", "~2013", 365, day(2013, 1, 1), day(2013, 12, 31)),
		Entry("a one sided month", "~2015-03", 31, day(2015, 3, 1), day(2015, 3, 31)),
		Entry("mixed granularity", "2013-06~2014", 579, day(2013, 6, 1), day(2014, 12, 31)),
		Entry("a single day", "~2014-02-28", 1, day(2014, 2, 28), day(2014, 2, 28)),
		Entry("the start keyword", "start~2012", 2, day(2012, 12, 30), day(2012, 12, 31)),
		Entry("the end keyword", "2015-04~end", 2, day(2015, 4, 1), day(2015, 4, 2)),
	)

	It("returns an empty frame when nothing matches", func() {
		out, err := timeframe.FilterTime(ctx, tf, "~2020")
		Expect(err).To(BeNil())
		Expect(out.NRows()).To(Equal(0))
		Expect(out.Names()).To(Equal(tf.Names()))
	})

	It("keeps every row when the formula covers the table", func() {
		g := grouped(tf)
		out, err := timeframe.FilterTime(ctx, g, "2012~2015")
		Expect(err).To(BeNil())
		Expect(out.NRows()).To(Equal(g.NRows()))
		Expect(out.Times()).To(Equal(g.Times()))
		Expect(out.Groups()).To(Equal([]string{"ticker"}))
	})

	It("rejects inverted and malformed formulas", func() {
		_, err := timeframe.FilterTime(ctx, tf, "2014~2013")
		Expect(errors.Is(err, timeformula.ErrInvalidTimeFormula)).To(BeTrue())

		_, err = timeframe.FilterTime(ctx, tf, "2013-13")
		Expect(errors.Is(err, timeformula.ErrInvalidTimeFormula)).To(BeTrue())
	})

	It("includes the last nanosecond of the range", func() {
		f := frame.MustNew(frame.TimeSeries("date", []time.Time{
			time.Date(2012, 12, 31, 23, 59, 59, 999999999, time.UTC),
			time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2013, 12, 31, 23, 59, 59, 999999999, time.UTC),
			time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC),
		}))
		out, err := timeframe.FilterTime(ctx, timeframe.MustNew(f, "date"), "2013")
		Expect(err).To(BeNil())
		Expect(out.NRows()).To(Equal(2))

		out, err = timeframe.FilterInterval(ctx, timeframe.MustNew(f, "date"), period.Interval{Begin: day(2013, 1, 1), End: day(2014, 1, 1)})
		Expect(err).To(BeNil())
		Expect(out.NRows()).To(Equal(3))
	})

	It("preserves groups", func() {
		out, err := timeframe.FilterTime(ctx, grouped(daily("~2013-01", "VFINX", "PRIDX")), "~2013-01-05")
		Expect(err).To(BeNil())
		Expect(out.NRows()).To(Equal(2))
		Expect(out.Groups()).To(Equal([]string{"ticker"}))
	})

	It("subsets rows and columns at once", func() {
		out, err := timeframe.Subset(ctx, tf, "~2014-02", "close")
		Expect(err).To(BeNil())
		Expect(out.Names()).To(Equal([]string{"date", "close"}))
		Expect(out.NRows()).To(Equal(28))
	})
})
