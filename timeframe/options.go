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

package timeframe

import (
	"runtime"
	"time"

	"github.com/penny-vault/timeframe/period"
)

const (
	// OriginalIndex holds the pre-collapse index values when they are kept
	OriginalIndex = ".index"

	DefaultKeyName    = "data"
	DefaultSeriesName = "date"
)

// WarningHandler receives non-fatal problems such as an unsorted index
type WarningHandler func(error)

type config struct {
	zone             *time.Location
	anchor           *time.Time
	anchorToStart    bool
	side             *period.Side
	keepOriginal     bool
	keyName          string
	exclude          []string
	keepInnerDates   bool
	includeEndpoints bool
	nth              int
	seriesName       string
	warn             WarningHandler
	concurrency      int
}

type Option func(*config)

func newConfig(opts []Option) *config {
	cfg := &config{
		keyName:     DefaultKeyName,
		seriesName:  DefaultSeriesName,
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.concurrency < 1 {
		cfg.concurrency = 1
	}
	return cfg
}

func (cfg *config) sideOr(def period.Side) period.Side {
	if cfg.side == nil {
		return def
	}
	return *cfg.side
}

// WithZone sets the time zone of a new time frame or series
func WithZone(zone *time.Location) Option {
	return func(cfg *config) {
		cfg.zone = zone
	}
}

// WithAnchor counts multi-unit periods from the period containing t instead
// of the epoch
func WithAnchor(t time.Time) Option {
	return func(cfg *config) {
		cfg.anchor = &t
	}
}

// AnchorToStart counts multi-unit periods from the first index value of
// each group
func AnchorToStart() Option {
	return func(cfg *config) {
		cfg.anchorToStart = true
	}
}

// WithSide picks the period boundary used for collapsed index values, or the
// row kept per period by AsPeriod
func WithSide(side period.Side) Option {
	return func(cfg *config) {
		cfg.side = &side
	}
}

// KeepOriginal keeps the pre-collapse index values in the OriginalIndex column
func KeepOriginal() Option {
	return func(cfg *config) {
		cfg.keepOriginal = true
	}
}

// WithKeyName names the list column created by NestByPeriod
func WithKeyName(name string) Option {
	return func(cfg *config) {
		cfg.keyName = name
	}
}

// Exclude keeps columns out of the nested frames
func Exclude(cols ...string) Option {
	return func(cfg *config) {
		cfg.exclude = append(cfg.exclude, cols...)
	}
}

// KeepInnerDates keeps the original index inside nested frames and tags them
// as time frames
func KeepInnerDates() Option {
	return func(cfg *config) {
		cfg.keepInnerDates = true
	}
}

// IncludeEndpoints makes AsPeriod keep the first and last row of each group
func IncludeEndpoints() Option {
	return func(cfg *config) {
		cfg.includeEndpoints = true
	}
}

// WithNth makes AsPeriod keep the nth row of each period. n is 1-based;
// negative values count from the end. Out of range values are clamped.
func WithNth(n int) Option {
	return func(cfg *config) {
		cfg.nth = n
	}
}

// WithSeriesName names the column created by CreateSeries
func WithSeriesName(name string) Option {
	return func(cfg *config) {
		cfg.seriesName = name
	}
}

// WithWarningHandler receives warnings in addition to the log
func WithWarningHandler(fn WarningHandler) Option {
	return func(cfg *config) {
		cfg.warn = fn
	}
}

// WithConcurrency bounds the number of group partitions processed at once
func WithConcurrency(n int) Option {
	return func(cfg *config) {
		cfg.concurrency = n
	}
}
