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
	"github.com/penny-vault/timeframe/timeframe"
)

var _ = Describe("NestByPeriod", func() {
	var (
		ctx     context.Context
		monthly period.Spec
	)

	BeforeEach(func() {
		ctx = context.Background()
		monthly = period.MustParse("monthly")
	})

	cells := func(tf *timeframe.TimeFrame, key string) []timeframe.Nested {
		vals, err := tf.Frame().Values(key)
		Expect(err).To(BeNil())
		out := make([]timeframe.Nested, len(vals))
		for idx, val := range vals {
			out[idx] = val.(timeframe.Nested)
		}
		return out
	}

	It("folds each period into one cell", func() {
		out, err := timeframe.NestByPeriod(ctx, daily("2013-01~2013-02", "VFINX"), monthly)
		Expect(err).To(BeNil())

		Expect(out.Names()).To(Equal([]string{"date", timeframe.DefaultKeyName}))
		Expect(out.Times()).To(Equal([]time.Time{day(2013, 1, 31), day(2013, 2, 28)}))

		nested := cells(out, timeframe.DefaultKeyName)
		Expect(nested[0].Frame.Names()).To(Equal([]string{"ticker", "close"}))
		Expect(nested[0].Frame.NRows()).To(Equal(31))
		Expect(nested[1].Frame.NRows()).To(Equal(28))
		Expect(nested[0].Time).To(BeNil())
		Expect(nested[1].String()).To(Equal("<frame 28 x 2>"))
	})

	It("keeps group columns in the outer frame", func() {
		out, err := timeframe.NestByPeriod(ctx, grouped(daily("2013-01~2013-02", "VFINX", "PRIDX")), monthly, timeframe.WithKeyName("rows"))
		Expect(err).To(BeNil())

		Expect(out.Names()).To(Equal([]string{"ticker", "date", "rows"}))
		Expect(out.Groups()).To(Equal([]string{"ticker"}))
		Expect(strs(out, "ticker")).To(Equal([]string{"PRIDX", "VFINX", "PRIDX", "VFINX"}))

		nested := cells(out, "rows")
		Expect(nested[0].Frame.Names()).To(Equal([]string{"close"}))

		vals, err := nested[3].Frame.Floats("close")
		Expect(err).To(BeNil())
		Expect(vals[0]).To(Equal(32.0))
		Expect(vals).To(HaveLen(28))
	})

	It("tags nested frames when keeping the inner dates", func() {
		out, err := timeframe.NestByPeriod(ctx, daily("2013-01~2013-02", "VFINX"), monthly, timeframe.KeepInnerDates())
		Expect(err).To(BeNil())

		nested := cells(out, timeframe.DefaultKeyName)
		Expect(nested[1].Frame.Names()).To(Equal([]string{"date", "ticker", "close"}))
		Expect(nested[1].Time).ToNot(BeNil())
		Expect(nested[1].Time.Index()).To(Equal("date"))

		times := nested[1].Time.Times()
		Expect(times[0]).To(Equal(day(2013, 2, 1)))
		Expect(times[27]).To(Equal(day(2013, 2, 28)))
	})

	It("leaves excluded columns in the outer frame", func() {
		tf := daily("2013-01~2013-02", "VFINX")
		out, err := timeframe.NestByPeriod(ctx, tf, monthly, timeframe.Exclude("ticker"))
		Expect(err).To(BeNil())

		Expect(out.Names()).To(Equal([]string{"ticker", "date", timeframe.DefaultKeyName}))
		Expect(strs(out, "ticker")).To(Equal([]string{"VFINX", "VFINX"}))
		Expect(cells(out, timeframe.DefaultKeyName)[0].Frame.Names()).To(Equal([]string{"close"}))
	})

	It("splits periods by the excluded values", func() {
		f := frame.MustNew(
			frame.TimeSeries("date", []time.Time{day(2013, 1, 2), day(2013, 1, 3), day(2013, 1, 4)}),
			frame.StringSeries("side", []string{"buy", "sell", "buy"}),
			frame.FloatSeries("qty", []float64{1, 2, 3}),
		)
		out, err := timeframe.NestByPeriod(ctx, timeframe.MustNew(f, "date"), monthly, timeframe.Exclude("side"))
		Expect(err).To(BeNil())

		Expect(strs(out, "side")).To(Equal([]string{"buy", "sell"}))
		nested := cells(out, timeframe.DefaultKeyName)
		Expect(nested[0].Frame.NRows()).To(Equal(2))
		Expect(nested[1].Frame.NRows()).To(Equal(1))
	})

	It("nests each group independently", func() {
		tf := grouped(daily("2013-01~2013-02", "VFINX", "PRIDX"))
		all, err := timeframe.NestByPeriod(ctx, tf, monthly)
		Expect(err).To(BeNil())

		tickers := strs(tf, "ticker")
		alone, err := tf.FilterRows(ctx, func(row int) (bool, error) { return tickers[row] == "PRIDX", nil })
		Expect(err).To(BeNil())
		single, err := timeframe.NestByPeriod(ctx, alone, monthly)
		Expect(err).To(BeNil())

		a := cells(all, timeframe.DefaultKeyName)
		s := cells(single, timeframe.DefaultKeyName)
		Expect(s).To(HaveLen(2))
		Expect(a[0].Frame.Records()).To(Equal(s[0].Frame.Records()))
		Expect(a[2].Frame.Records()).To(Equal(s[1].Frame.Records()))
	})

	It("refuses a key that clashes with an outer column", func() {
		_, err := timeframe.NestByPeriod(ctx, daily("~2013-01", "VFINX"), monthly, timeframe.WithKeyName("date"))
		Expect(errors.Is(err, frame.ErrDuplicateColumn)).To(BeTrue())

		_, err = timeframe.NestByPeriod(ctx, daily("~2013-01", "VFINX"), monthly, timeframe.Exclude("volume"))
		Expect(errors.Is(err, frame.ErrColumnNotFound)).To(BeTrue())
	})
})
