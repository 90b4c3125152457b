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
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/penny-vault/timeframe/frame"
	"github.com/penny-vault/timeframe/period"
	"github.com/penny-vault/timeframe/timeformula"
)

// MaxSeriesLength caps the number of values CreateSeries generates
const MaxSeriesLength = 1 << 20

// CreateSeries generates one timestamp per period step from the start to the
// end of the time formula expr, both inclusive, and returns it as a time frame
// indexed by the new column (named with WithSeriesName). A formula whose end
// resolves before its start yields an empty series.
func CreateSeries(expr string, spec period.Spec, opts ...Option) (*TimeFrame, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	cfg := newConfig(opts)
	zone := cfg.zone
	if zone == nil {
		zone = time.UTC
	}

	interval, err := timeformula.Resolve(expr, zone)
	if err != nil {
		return nil, err
	}

	vals := make([]time.Time, 0)
	for k := 0; ; k++ {
		t := spec.Step(interval.Begin, k)
		if t.After(interval.End) {
			break
		}
		if k >= MaxSeriesLength {
			return nil, fmt.Errorf("%w: %q every %s exceeds %d values", ErrSeriesTooLong, expr, spec, MaxSeriesLength)
		}
		vals = append(vals, t)
	}

	log.Debug().Str("Formula", expr).Str("Period", spec.String()).Int("Len", len(vals)).Msg("created series")

	f, err := frame.New(frame.TimeSeries(cfg.seriesName, vals))
	if err != nil {
		return nil, err
	}
	return New(f, cfg.seriesName, WithZone(zone))
}
