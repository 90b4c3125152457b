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

package timeformula_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/timeframe/timeformula"
)

func utc(year int, month time.Month, day, hour, min, sec, nsec int) time.Time {
	return time.Date(year, month, day, hour, min, sec, nsec, time.UTC)
}

var _ = Describe("Timeformula", func() {
	DescribeTable("when parsing formulas",
		func(expr string, begin, end time.Time) {
			interval, err := timeformula.Parse(expr, time.UTC)
			Expect(err).To(BeNil())
			Expect(interval.Begin).To(Equal(begin))
			Expect(interval.End).To(Equal(end))
		},
		Entry("one-sided year", "~2013", utc(2013, 1, 1, 0, 0, 0, 0), utc(2013, 12, 31, 23, 59, 59, 999999999)),
		Entry("two-sided year", "2013~2013", utc(2013, 1, 1, 0, 0, 0, 0), utc(2013, 12, 31, 23, 59, 59, 999999999)),
		Entry("bare year", "2013", utc(2013, 1, 1, 0, 0, 0, 0), utc(2013, 12, 31, 23, 59, 59, 999999999)),
		Entry("one-sided month", "~2015-03", utc(2015, 3, 1, 0, 0, 0, 0), utc(2015, 3, 31, 23, 59, 59, 999999999)),
		Entry("february in a leap year", "~2016-2", utc(2016, 2, 1, 0, 0, 0, 0), utc(2016, 2, 29, 23, 59, 59, 999999999)),
		Entry("slash separated", "2013/01/05 ~ 2013/01/06", utc(2013, 1, 5, 0, 0, 0, 0), utc(2013, 1, 6, 23, 59, 59, 999999999)),
		Entry("mixed granularity", "2013 ~ 2014-06", utc(2013, 1, 1, 0, 0, 0, 0), utc(2014, 6, 30, 23, 59, 59, 999999999)),
		Entry("hour", "~2013-01-01 + 9", utc(2013, 1, 1, 9, 0, 0, 0), utc(2013, 1, 1, 9, 59, 59, 999999999)),
		Entry("minute range", "2013-01-01 + 9:30 ~ 2013-01-01 + 16:00", utc(2013, 1, 1, 9, 30, 0, 0), utc(2013, 1, 1, 16, 0, 59, 999999999)),
		Entry("seconds pass through", "2013-01-01 + 1:01:30 ~ 2013-01-01 + 1:01:45", utc(2013, 1, 1, 1, 1, 30, 0), utc(2013, 1, 1, 1, 1, 45, 0)),
		Entry("open start", "start ~ 2013", timeformula.Beginning, utc(2013, 12, 31, 23, 59, 59, 999999999)),
		Entry("open end", "2013 ~ end", utc(2013, 1, 1, 0, 0, 0, 0), timeformula.Ending),
	)

	DescribeTable("when parsing malformed formulas",
		func(expr string, fragment string) {
			_, err := timeformula.Parse(expr, time.UTC)
			Expect(err).ToNot(BeNil())
			Expect(errors.Is(err, timeformula.ErrInvalidTimeFormula)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring(fragment))
		},
		Entry("empty", "", "empty"),
		Entry("non-numeric", "~2013-ab", "\"ab\""),
		Entry("too many separators", "2013~2014~2015", "2013~2014~2015"),
		Entry("missing right side", "2013~", "2013~"),
		Entry("month out of range", "~2013-13", "month 13"),
		Entry("day out of range", "~2013-02-30", "day 30"),
		Entry("hour out of range", "~2013-01-01 + 25", "hour 25"),
		Entry("time without a day", "~2013-01 + 10", "incomplete date"),
		Entry("too many date parts", "~2013-01-01-01", "2013-01-01-01"),
		Entry("inverted", "2014 ~ 2013", "2014 ~ 2013"),
	)

	It("resolves in the requested zone", func() {
		nyc, err := time.LoadLocation("America/New_York")
		Expect(err).To(BeNil())

		interval, err := timeformula.Parse("~2013-07", nyc)
		Expect(err).To(BeNil())
		Expect(interval.Begin).To(Equal(time.Date(2013, 7, 1, 0, 0, 0, 0, nyc)))
		Expect(interval.End).To(Equal(time.Date(2013, 7, 31, 23, 59, 59, 999999999, nyc)))
	})

	It("resolves inverted formulas without complaint", func() {
		interval, err := timeformula.Resolve("2014 ~ 2013", time.UTC)
		Expect(err).To(BeNil())
		Expect(interval.Begin).To(Equal(utc(2014, 1, 1, 0, 0, 0, 0)))
		Expect(interval.End).To(Equal(utc(2013, 12, 31, 23, 59, 59, 999999999)))
	})

	It("returns the same result from the cache", func() {
		timeformula.Purge()
		first, err := timeformula.Parse("2010-05 ~ 2011", time.UTC)
		Expect(err).To(BeNil())
		second, err := timeformula.Parse("2010-05 ~ 2011", time.UTC)
		Expect(err).To(BeNil())
		Expect(second).To(Equal(first))
	})

	It("compiles both sides of a one-sided formula from the same bound", func() {
		formula, err := timeformula.Compile("~2013-04")
		Expect(err).To(BeNil())
		Expect(formula.Lhs).To(Equal(formula.Rhs))
		Expect(formula.Expr).To(Equal("~2013-04"))
	})
})
