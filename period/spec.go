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

package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Spec is a normalized unit and multiplier pair, e.g. {Month, 3} for quarterly data.
// Quarters are stored as months; the quarter flag is only kept for printing.
type Spec struct {
	Unit    Unit
	N       int
	quarter bool
}

var (
	Yearly    = Spec{Unit: Year, N: 1}
	Quarterly = Spec{Unit: Month, N: 3, quarter: true}
	Monthly   = Spec{Unit: Month, N: 1}
	Weekly    = Spec{Unit: Week, N: 1}
	Daily     = Spec{Unit: Day, N: 1}
	Hourly    = Spec{Unit: Hour, N: 1}
	Minutely  = Spec{Unit: Minute, N: 1}
	Secondly  = Spec{Unit: Second, N: 1}
)

// New creates a period spec of n units
func New(unit Unit, n int) (Spec, error) {
	spec := Spec{Unit: unit, N: n}
	if err := spec.Validate(); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

// MustParse is like Parse but panics if the spec cannot be parsed. It is intended for
// package level variables and tests.
func MustParse(s string) Spec {
	spec, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return spec
}

// Parse converts the surface form of a period into a Spec. Accepted forms are
// canonical names (`monthly`, `quarterly`), unit names (`day`, `weeks`), single letter
// abbreviations (`y q m w d H M S`) and multiplied forms: `2~d`, `3 months`, `15M`.
func Parse(s string) (Spec, error) {
	str := strings.TrimSpace(s)
	if str == "" {
		return Spec{}, fmt.Errorf("%w: empty period", ErrInvalidPeriodSpec)
	}

	numPart, unitPart := splitMultiplier(str)

	n := 1
	if numPart != "" {
		var err error
		n, err = strconv.Atoi(numPart)
		if err != nil {
			return Spec{}, fmt.Errorf("%w: %q has a non-numeric multiplier %q", ErrInvalidPeriodSpec, s, numPart)
		}
	}

	alias, ok := unitLetters[unitPart]
	if !ok {
		alias, ok = unitAliases[strings.ToLower(unitPart)]
	}
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q has unknown unit %q", ErrInvalidPeriodSpec, s, unitPart)
	}

	spec := Spec{Unit: alias.unit, N: n}
	if alias.quarter {
		spec.N = n * 3
		spec.quarter = true
	}

	if n <= 0 {
		return Spec{}, fmt.Errorf("%w: %q multiplier must be >= 1", ErrInvalidPeriodSpec, s)
	}

	return spec, nil
}

// splitMultiplier separates `2~d`, `2 d` and `2d` into their number and unit parts
func splitMultiplier(str string) (string, string) {
	if idx := strings.Index(str, "~"); idx >= 0 {
		return strings.TrimSpace(str[:idx]), strings.TrimSpace(str[idx+1:])
	}

	if fields := strings.Fields(str); len(fields) == 2 {
		return fields[0], fields[1]
	}

	idx := strings.IndexFunc(str, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '-'
	})
	switch idx {
	case -1:
		// only digits; let the unit lookup fail on the empty unit
		return str, ""
	case 0:
		return "", str
	default:
		return str[:idx], str[idx:]
	}
}

// Validate checks that the unit is known and the multiplier is positive
func (s Spec) Validate() error {
	if !s.Unit.Valid() {
		return fmt.Errorf("%w: unknown unit %d", ErrInvalidPeriodSpec, int(s.Unit))
	}
	if s.N <= 0 {
		return fmt.Errorf("%w: multiplier %d must be >= 1", ErrInvalidPeriodSpec, s.N)
	}
	return nil
}

// IsQuarter returns true when the spec was declared in quarters
func (s Spec) IsQuarter() bool {
	return s.quarter
}

func (s Spec) String() string {
	if s.quarter {
		if s.N == 3 {
			return "quarterly"
		}
		return fmt.Sprintf("%d~quarter", s.N/3)
	}
	return fmt.Sprintf("%d~%s", s.N, s.Unit)
}

// baseStep returns the size of one period in the ordinal base unit of s.Unit
func (s Spec) baseStep() int64 {
	if s.Unit == Week {
		return int64(7 * s.N)
	}
	return int64(s.N)
}

// Step advances t by k periods using calendar arithmetic in t's location.
// Sub-day units move the wall clock so that hourly steps stay on the hour across DST changes.
func (s Spec) Step(t time.Time, k int) time.Time {
	n := k * s.N
	switch s.Unit {
	case Year:
		return t.AddDate(n, 0, 0)
	case Month:
		return t.AddDate(0, n, 0)
	case Week:
		return t.AddDate(0, 0, 7*n)
	case Day:
		return t.AddDate(0, 0, n)
	case Hour:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour()+n, t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	case Minute:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute()+n, t.Second(), t.Nanosecond(), t.Location())
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second()+n, t.Nanosecond(), t.Location())
	}
}
