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

package recipe_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/timeframe/frame"
	"github.com/penny-vault/timeframe/period"
	"github.com/penny-vault/timeframe/recipe"
	"github.com/penny-vault/timeframe/timeframe"
)

const monthlySummary = `
input = "prices.csv"
index = "date"
group_by = ["ticker"]

[[step]]
op = "filter"
formula = "2013-01 ~ 2013-02"

[[step]]
op = "summarise"
period = "monthly"
reductions = ["n=count()", "hi=max(close)", "lo=min(close)", "spread=hi-lo"]
`

var _ = Describe("Recipe", func() {
	var (
		ctx context.Context
		tf  *timeframe.TimeFrame
	)

	BeforeEach(func() {
		ctx = context.Background()

		series, err := timeframe.CreateSeries("2012-12-01~2013-03-31", period.MustParse("daily"))
		Expect(err).To(BeNil())
		dates := series.Times()

		closes := make([]float64, len(dates))
		tickers := make([]string, len(dates))
		for idx := range dates {
			closes[idx] = float64(idx + 1)
			tickers[idx] = "VFINX"
		}

		f := frame.MustNew(frame.TimeSeries("date", dates), frame.StringSeries("ticker", tickers), frame.FloatSeries("close", closes))
		tf = timeframe.MustNew(f, "date")
	})

	It("decodes the input description and steps", func() {
		rec, err := recipe.Load(strings.NewReader(monthlySummary))
		Expect(err).To(BeNil())
		Expect(rec.Input).To(Equal("prices.csv"))
		Expect(rec.Index).To(Equal("date"))
		Expect(rec.GroupBy).To(Equal([]string{"ticker"}))
		Expect(rec.Steps).To(HaveLen(2))
		Expect(rec.Steps[1].Reductions).To(HaveLen(4))
	})

	It("rejects unknown keys", func() {
		_, err := recipe.Load(strings.NewReader("[[step]]\nop = \"filter\"\nformla = \"2013\"\n"))
		Expect(err).ToNot(BeNil())
	})

	It("applies the steps in order", func() {
		rec, err := recipe.Load(strings.NewReader(monthlySummary))
		Expect(err).To(BeNil())

		g, err := tf.GroupBy(rec.GroupBy...)
		Expect(err).To(BeNil())

		out, err := rec.Apply(ctx, g)
		Expect(err).To(BeNil())
		Expect(out.Names()).To(Equal([]string{"ticker", "date", "n", "hi", "lo", "spread"}))
		Expect(out.Times()).To(Equal([]time.Time{
			time.Date(2013, 1, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2013, 2, 28, 0, 0, 0, 0, time.UTC),
		}))

		spread, err := out.Frame().Floats("spread")
		Expect(err).To(BeNil())
		Expect(spread).To(Equal([]float64{30, 27}))
	})

	It("computes rolling columns", func() {
		rec, err := recipe.Load(strings.NewReader(`
[[step]]
op = "rolling"
fn = "mean"
window = 3
columns = ["close"]
name = "mean3"

[[step]]
op = "as-period"
period = "monthly"
side = "end"
`))
		Expect(err).To(BeNil())

		out, err := rec.Apply(ctx, tf)
		Expect(err).To(BeNil())
		Expect(out.NRows()).To(Equal(4))

		mean3, err := out.Frame().Floats("mean3")
		Expect(err).To(BeNil())
		Expect(mean3[0]).To(Equal(30.0))
		Expect(math.IsNaN(mean3[3])).To(BeFalse())
	})

	It("creates series", func() {
		step := recipe.Step{Op: "series", Formula: "~2013", Period: "2~d", Name: "ts"}
		out, err := step.Apply(ctx, nil)
		Expect(err).To(BeNil())
		Expect(out.Index()).To(Equal("ts"))
		Expect(out.NRows()).To(Equal(183))
	})

	It("reports the failing step", func() {
		rec := &recipe.Recipe{Steps: []recipe.Step{
			{Op: "collapse", Period: "monthly"},
			{Op: "pivot"},
		}}
		_, err := rec.Apply(ctx, tf)
		Expect(errors.Is(err, recipe.ErrUnknownOp)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("step 2"))

		_, err = (recipe.Step{Op: "collapse"}).Apply(ctx, tf)
		Expect(errors.Is(err, recipe.ErrInvalidStep)).To(BeTrue())

		_, err = (recipe.Step{Op: "rolling", Fn: "wobble", Name: "x", Columns: []string{"close"}}).Apply(ctx, tf)
		Expect(errors.Is(err, recipe.ErrInvalidStep)).To(BeTrue())
	})
})
