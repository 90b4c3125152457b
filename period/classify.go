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
	"time"
)

// Key is an order preserving period identifier: keys of two timestamps compare the same
// way the periods they fall in do.
type Key int64

// Precision controls the resolution of period end boundaries
type Precision int

const (
	// PrecisionNanosecond ends a period one nanosecond before the next one starts
	PrecisionNanosecond Precision = iota

	// PrecisionDay ends a period at the start of its last calendar day; used for date indexes
	PrecisionDay
)

// weekEpoch is the civil day number of Sunday 1970-01-04; weeks start on Sunday by default
const weekEpoch = 3

// Classifier assigns timestamps to periods of Spec in Zone. Ordinals are counted from the
// 1970-01-01 wall clock epoch unless Anchor is set, in which case the anchor's own period
// start becomes the origin.
type Classifier struct {
	Spec      Spec
	Zone      *time.Location
	Anchor    *time.Time
	Precision Precision
}

// NewClassifier validates spec and returns a classifier anchored at the epoch
func NewClassifier(spec Spec, zone *time.Location) (*Classifier, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if zone == nil {
		zone = time.UTC
	}
	return &Classifier{Spec: spec, Zone: zone}, nil
}

// WithAnchor returns a copy of the classifier anchored at t
func (c *Classifier) WithAnchor(t time.Time) *Classifier {
	c2 := *c
	c2.Anchor = &t
	return &c2
}

// WithPrecision returns a copy of the classifier using precision p for end boundaries
func (c *Classifier) WithPrecision(p Precision) *Classifier {
	c2 := *c
	c2.Precision = p
	return &c2
}

func (c *Classifier) loc() *time.Location {
	if c.Zone == nil {
		return time.UTC
	}
	return c.Zone
}

func (c *Classifier) origin() int64 {
	if c.Anchor != nil {
		return ordinal(c.Spec.Unit, c.Anchor.In(c.loc()))
	}
	if c.Spec.Unit == Week {
		return weekEpoch
	}
	return 0
}

// Key returns the period identifier of t
func (c *Classifier) Key(t time.Time) Key {
	ord := ordinal(c.Spec.Unit, t.In(c.loc()))
	return Key(floorDiv(ord-c.origin(), c.Spec.baseStep()))
}

// Start returns the first instant of the period identified by key
func (c *Classifier) Start(key Key) time.Time {
	return fromOrdinal(c.Spec.Unit, c.origin()+int64(key)*c.Spec.baseStep(), c.loc())
}

// End returns the last instant of the period identified by key at the classifier's precision
func (c *Classifier) End(key Key) time.Time {
	last := c.Start(key + 1).Add(-time.Nanosecond)
	if c.Precision == PrecisionDay {
		return time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, c.loc())
	}
	return last
}

// Boundary returns the start or end of the period identified by key
func (c *Classifier) Boundary(key Key, side Side) time.Time {
	if side == SideStart {
		return c.Start(key)
	}
	return c.End(key)
}

// Bounds returns the inclusive interval of the period containing t
func (c *Classifier) Bounds(t time.Time) Interval {
	key := c.Key(t)
	return Interval{Begin: c.Start(key), End: c.End(key)}
}

// Floor returns the start of the period containing t
func (c *Classifier) Floor(t time.Time) time.Time {
	return c.Start(c.Key(t))
}

// Ceiling returns the end of the period containing t
func (c *Classifier) Ceiling(t time.Time) time.Time {
	return c.End(c.Key(t))
}

// Keys classifies every timestamp in ts
func (c *Classifier) Keys(ts []time.Time) []Key {
	keys := make([]Key, len(ts))
	for idx, t := range ts {
		keys[idx] = c.Key(t)
	}
	return keys
}

// civilDays returns the number of days between 1970-01-01 and the given date
func civilDays(y int, m time.Month, d int) int64 {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// ordinal counts base units of u between the epoch and the wall clock time of t.
// Weeks are counted in days and divided by the spec's step.
func ordinal(u Unit, t time.Time) int64 {
	y, m, d := t.Date()
	switch u {
	case Year:
		return int64(y - 1970)
	case Month:
		return int64(y-1970)*12 + int64(m-1)
	case Week, Day:
		return civilDays(y, m, d)
	case Hour:
		return civilDays(y, m, d)*24 + int64(t.Hour())
	case Minute:
		return (civilDays(y, m, d)*24+int64(t.Hour()))*60 + int64(t.Minute())
	default:
		return ((civilDays(y, m, d)*24+int64(t.Hour()))*60+int64(t.Minute()))*60 + int64(t.Second())
	}
}

// fromOrdinal is the inverse of ordinal, returning the first instant of the unit
func fromOrdinal(u Unit, ord int64, loc *time.Location) time.Time {
	switch u {
	case Year:
		return time.Date(1970+int(ord), time.January, 1, 0, 0, 0, 0, loc)
	case Month:
		years := floorDiv(ord, 12)
		months := ord - years*12
		return time.Date(1970+int(years), time.Month(months+1), 1, 0, 0, 0, 0, loc)
	case Week, Day:
		return time.Date(1970, time.January, 1+int(ord), 0, 0, 0, 0, loc)
	case Hour:
		days := floorDiv(ord, 24)
		return time.Date(1970, time.January, 1+int(days), int(ord-days*24), 0, 0, 0, loc)
	case Minute:
		days := floorDiv(ord, 24*60)
		rem := ord - days*24*60
		return time.Date(1970, time.January, 1+int(days), int(rem/60), int(rem%60), 0, 0, loc)
	default:
		days := floorDiv(ord, 24*60*60)
		rem := ord - days*24*60*60
		return time.Date(1970, time.January, 1+int(days), int(rem/3600), int((rem%3600)/60), int(rem%60), 0, loc)
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
