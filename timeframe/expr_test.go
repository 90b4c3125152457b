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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/timeframe/period"
	"github.com/penny-vault/timeframe/timeframe"
)

var _ = Describe("ParseReduction", func() {
	summarise := func(texts ...string) *timeframe.TimeFrame {
		reductions := make([]timeframe.Reduction, len(texts))
		for idx, text := range texts {
			red, err := timeframe.ParseReduction(text)
			Expect(err).To(BeNil())
			reductions[idx] = red
		}

		out, err := timeframe.SummariseByPeriod(context.Background(), daily("2013-01~2013-02", "VFINX"), period.MustParse("monthly"), reductions)
		Expect(err).To(BeNil())
		return out
	}

	It("reads reducer calls", func() {
		out := summarise("n=count()", "avg = mean(close)", "total=sum(close)")
		Expect(out.Names()).To(Equal([]string{"date", "n", "avg", "total"}))
		Expect(floats(out, "n")).To(Equal([]float64{31, 28}))
		Expect(floats(out, "avg")).To(Equal([]float64{16, 45.5}))
		Expect(floats(out, "total")).To(Equal([]float64{496, 1274}))
	})

	It("evaluates expressions over earlier results", func() {
		out := summarise("hi=max(close)", "lo=min(close)", "mid=(hi+lo)/2", "size=abs(lo-hi)")
		Expect(floats(out, "mid")).To(Equal([]float64{16, 45.5}))
		Expect(floats(out, "size")).To(Equal([]float64{30, 27}))
	})

	It("reads earlier results named like keywords", func() {
		out := summarise("hi=max(close)", "lo=min(close)", "range=hi-lo", "half=range/2", "type=range*10")
		Expect(floats(out, "range")).To(Equal([]float64{30, 27}))
		Expect(floats(out, "half")).To(Equal([]float64{15, 13.5}))
		Expect(floats(out, "type")).To(Equal([]float64{300, 270}))
	})

	DescribeTable("rejects malformed reductions",
		func(text string) {
			_, err := timeframe.ParseReduction(text)
			Expect(errors.Is(err, timeframe.ErrInvalidReduction)).To(BeTrue())
		},
		Entry("no name", "=mean(close)"),
		Entry("no body", "avg="),
		Entry("no equals sign", "mean(close)"),
		Entry("a reducer without columns", "avg=mean()"),
	)

	It("reports expressions that do not parse", func() {
		red, err := timeframe.ParseReduction("bad=(1+2")
		Expect(err).To(BeNil())

		_, err = timeframe.SummariseByPeriod(context.Background(), daily("~2013-01", "VFINX"), period.MustParse("monthly"), []timeframe.Reduction{red})
		Expect(errors.Is(err, timeframe.ErrInvalidReduction)).To(BeTrue())
	})
})
