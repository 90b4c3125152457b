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

package timeformula

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/penny-vault/timeframe/period"
)

const (
	RangeSeparator = "~"
	TimeSeparator  = "+"

	KeywordStart = "start"
	KeywordEnd   = "end"
)

var (
	// Beginning is the earliest instant a formula can resolve to
	Beginning = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

	// Ending is the latest instant a formula can resolve to
	Ending = time.Date(9999, time.December, 31, 23, 59, 59, 999999999, time.UTC)
)

type boundKind int

const (
	boundDate boundKind = iota
	boundStart
	boundEnd
)

// Bound is one side of a time formula. Date bounds carry the fields that were
// written out (year, month, day, hour, minute, second) and the unit of the
// last one, which decides the period the bound expands to.
type Bound struct {
	kind      boundKind
	fields    [6]int
	precision period.Unit
}

// Formula is a compiled time formula. It is independent of the time zone
// until resolved.
type Formula struct {
	Expr string
	Lhs  Bound
	Rhs  Bound
}

// Compile tokenizes a formula expression. The range separator is split first,
// then each side is split into its date and time parts.
//
//	2013                       everything in 2013
//	~2013-03                   everything in March 2013
//	2013-01 ~ 2013-06-15       January 1st through the end of June 15th
//	2013-01-01 + 9:30 ~ 2013-01-01 + 16
//	start ~ 2015               from the beginning of time through 2015
func Compile(expr string) (Formula, error) {
	formula := Formula{Expr: expr}

	str := strings.TrimSpace(expr)
	if str == "" {
		return formula, fmt.Errorf("%w: empty expression", ErrInvalidTimeFormula)
	}

	var lhs, rhs string
	switch strings.Count(str, RangeSeparator) {
	case 0:
		lhs, rhs = str, str
	case 1:
		parts := strings.SplitN(str, RangeSeparator, 2)
		lhs = strings.TrimSpace(parts[0])
		rhs = strings.TrimSpace(parts[1])
		if rhs == "" {
			return formula, fmt.Errorf("%w: %q has no right hand side", ErrInvalidTimeFormula, expr)
		}
		if lhs == "" {
			lhs = rhs
		}
	default:
		return formula, fmt.Errorf("%w: %q has more than one %q", ErrInvalidTimeFormula, expr, RangeSeparator)
	}

	var err error
	if formula.Lhs, err = compileBound(lhs); err != nil {
		return formula, fmt.Errorf("%w (in %q)", err, expr)
	}
	if formula.Rhs, err = compileBound(rhs); err != nil {
		return formula, fmt.Errorf("%w (in %q)", err, expr)
	}

	return formula, nil
}

func compileBound(str string) (Bound, error) {
	switch strings.ToLower(str) {
	case KeywordStart:
		return Bound{kind: boundStart}, nil
	case KeywordEnd:
		return Bound{kind: boundEnd}, nil
	}

	bound := Bound{kind: boundDate}
	bound.fields[1] = 1
	bound.fields[2] = 1

	datePart := str
	timePart := ""
	if idx := strings.Index(str, TimeSeparator); idx >= 0 {
		datePart = strings.TrimSpace(str[:idx])
		timePart = strings.TrimSpace(str[idx+1:])
		if timePart == "" {
			return bound, fmt.Errorf("%w: %q has an empty time part", ErrInvalidTimeFormula, str)
		}
	}

	dateTokens := strings.FieldsFunc(datePart, func(r rune) bool {
		return r == '-' || r == '/'
	})
	if len(dateTokens) == 0 || len(dateTokens) > 3 {
		return bound, fmt.Errorf("%w: %q is not a date of the form YYYY[-MM[-DD]]", ErrInvalidTimeFormula, datePart)
	}

	dateUnits := []period.Unit{period.Year, period.Month, period.Day}
	for idx, token := range dateTokens {
		val, err := strconv.Atoi(strings.TrimSpace(token))
		if err != nil {
			return bound, fmt.Errorf("%w: %q has a non-numeric component %q", ErrInvalidTimeFormula, str, token)
		}
		bound.fields[idx] = val
		bound.precision = dateUnits[idx]
	}

	if timePart != "" {
		if len(dateTokens) != 3 {
			return bound, fmt.Errorf("%w: %q has a time part but an incomplete date", ErrInvalidTimeFormula, str)
		}

		timeTokens := strings.Split(timePart, ":")
		if len(timeTokens) > 3 {
			return bound, fmt.Errorf("%w: %q is not a time of the form HH[:MM[:SS]]", ErrInvalidTimeFormula, timePart)
		}

		timeUnits := []period.Unit{period.Hour, period.Minute, period.Second}
		for idx, token := range timeTokens {
			val, err := strconv.Atoi(strings.TrimSpace(token))
			if err != nil {
				return bound, fmt.Errorf("%w: %q has a non-numeric component %q", ErrInvalidTimeFormula, str, token)
			}
			bound.fields[3+idx] = val
			bound.precision = timeUnits[idx]
		}
	}

	if err := bound.validate(); err != nil {
		return bound, fmt.Errorf("%w: %q %s", ErrInvalidTimeFormula, str, err.Error())
	}

	return bound, nil
}

func (b Bound) validate() error {
	f := b.fields
	switch {
	case f[0] < 1 || f[0] > 9999:
		return fmt.Errorf("has year %d out of range", f[0])
	case f[1] < 1 || f[1] > 12:
		return fmt.Errorf("has month %d out of range", f[1])
	case f[2] < 1 || f[2] > daysIn(f[0], time.Month(f[1])):
		return fmt.Errorf("has day %d out of range", f[2])
	case f[3] < 0 || f[3] > 23:
		return fmt.Errorf("has hour %d out of range", f[3])
	case f[4] < 0 || f[4] > 59:
		return fmt.Errorf("has minute %d out of range", f[4])
	case f[5] < 0 || f[5] > 59:
		return fmt.Errorf("has second %d out of range", f[5])
	}
	return nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Interval expands the bound to the period enclosing it at its own precision.
// Bounds written down to the second are a single instant.
func (b Bound) Interval(zone *time.Location) period.Interval {
	switch b.kind {
	case boundStart:
		return period.Interval{Begin: Beginning.In(zone), End: Beginning.In(zone)}
	case boundEnd:
		return period.Interval{Begin: Ending.In(zone), End: Ending.In(zone)}
	}

	f := b.fields
	t := time.Date(f[0], time.Month(f[1]), f[2], f[3], f[4], f[5], 0, zone)
	if b.precision == period.Second {
		return period.Interval{Begin: t, End: t}
	}

	classifier := period.Classifier{Spec: period.Spec{Unit: b.precision, N: 1}, Zone: zone}
	return classifier.Bounds(t)
}

// Resolve returns the start of the left bound's period and the end of the
// right bound's period. The order of the two is not checked.
func (f Formula) Resolve(zone *time.Location) period.Interval {
	if zone == nil {
		zone = time.UTC
	}
	return period.Interval{
		Begin: f.Lhs.Interval(zone).Begin,
		End:   f.Rhs.Interval(zone).End,
	}
}

// Parse compiles and resolves expr in zone. A formula whose start falls after
// its end is an error.
func Parse(expr string, zone *time.Location) (period.Interval, error) {
	interval, err := Resolve(expr, zone)
	if err != nil {
		return interval, err
	}
	if err := interval.Valid(); err != nil {
		return interval, fmt.Errorf("%w: %q starts at %s after it ends at %s", ErrInvalidTimeFormula, expr,
			interval.Begin.Format(time.RFC3339), interval.End.Format(time.RFC3339))
	}
	return interval, nil
}

// Resolve compiles and resolves expr in zone without checking that start <= end.
func Resolve(expr string, zone *time.Location) (period.Interval, error) {
	formula, err := cached(expr)
	if err != nil {
		return period.Interval{}, err
	}
	return formula.Resolve(zone), nil
}
