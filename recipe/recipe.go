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

// Package recipe reads pipelines of time frame operations from TOML.
//
//	input = "prices.csv"
//	index = "date"
//	group_by = ["ticker"]
//
//	[[step]]
//	op = "filter"
//	formula = "2013 ~ 2014-06"
//
//	[[step]]
//	op = "summarise"
//	period = "monthly"
//	reductions = ["avg=mean(close)", "hi=max(close)", "lo=min(close)", "spread=hi-lo"]
package recipe

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"

	"github.com/penny-vault/timeframe/period"
	"github.com/penny-vault/timeframe/rollify"
	"github.com/penny-vault/timeframe/timeframe"
)

// Recipe is an input description followed by the steps applied to it
type Recipe struct {
	Input    string   `toml:"input"`
	Index    string   `toml:"index"`
	Timezone string   `toml:"timezone"`
	GroupBy  []string `toml:"group_by"`
	Steps    []Step   `toml:"step"`
}

// Step is one operation. Op selects the operation and the remaining fields
// are read as its arguments.
type Step struct {
	Op               string   `toml:"op"`
	Period           string   `toml:"period"`
	Formula          string   `toml:"formula"`
	Side             string   `toml:"side"`
	Columns          []string `toml:"columns"`
	GroupBy          []string `toml:"group_by"`
	Reductions       []string `toml:"reductions"`
	Fn               string   `toml:"fn"`
	Window           int      `toml:"window"`
	Offsets          []int    `toml:"offsets"`
	Name             string   `toml:"name"`
	Key              string   `toml:"key"`
	Exclude          []string `toml:"exclude"`
	Nth              int      `toml:"nth"`
	KeepOriginal     bool     `toml:"keep_original"`
	AnchorToStart    bool     `toml:"anchor_to_start"`
	IncludeEndpoints bool     `toml:"include_endpoints"`
	KeepInnerDates   bool     `toml:"keep_inner_dates"`
}

// Load decodes a recipe. Unknown keys are an error.
func Load(r io.Reader) (*Recipe, error) {
	rec := &Recipe{}
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(rec); err != nil {
		return nil, fmt.Errorf("could not decode recipe: %w", err)
	}

	for idx := range rec.Steps {
		rec.Steps[idx].Op = normalizeOp(rec.Steps[idx].Op)
	}
	return rec, nil
}

func normalizeOp(op string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(op)), "-", "_")
}

// Apply runs the steps in order. opts are passed to every time frame
// operation ahead of the step's own options.
func (rec *Recipe) Apply(ctx context.Context, tf *timeframe.TimeFrame, opts ...timeframe.Option) (*timeframe.TimeFrame, error) {
	var err error
	for idx, step := range rec.Steps {
		log.Debug().Int("Step", idx+1).Str("Op", step.Op).Msg("applying recipe step")
		if tf, err = step.Apply(ctx, tf, opts...); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", idx+1, step.Op, err)
		}
	}
	return tf, nil
}

func (step Step) spec() (period.Spec, error) {
	if step.Period == "" {
		return period.Spec{}, fmt.Errorf("%w: %s needs a period", ErrInvalidStep, step.Op)
	}
	return period.Parse(step.Period)
}

func (step Step) options(base []timeframe.Option) ([]timeframe.Option, error) {
	opts := make([]timeframe.Option, 0, len(base)+8)
	opts = append(opts, base...)

	if step.Side != "" {
		side, err := period.ParseSide(step.Side)
		if err != nil {
			return nil, err
		}
		opts = append(opts, timeframe.WithSide(side))
	}
	if step.KeepOriginal {
		opts = append(opts, timeframe.KeepOriginal())
	}
	if step.AnchorToStart {
		opts = append(opts, timeframe.AnchorToStart())
	}
	if step.IncludeEndpoints {
		opts = append(opts, timeframe.IncludeEndpoints())
	}
	if step.KeepInnerDates {
		opts = append(opts, timeframe.KeepInnerDates())
	}
	if step.Nth != 0 {
		opts = append(opts, timeframe.WithNth(step.Nth))
	}
	if step.Key != "" {
		opts = append(opts, timeframe.WithKeyName(step.Key))
	}
	if len(step.Exclude) > 0 {
		opts = append(opts, timeframe.Exclude(step.Exclude...))
	}
	if step.Name != "" {
		opts = append(opts, timeframe.WithSeriesName(step.Name))
	}

	return opts, nil
}

// Apply runs a single step
func (step Step) Apply(ctx context.Context, tf *timeframe.TimeFrame, base ...timeframe.Option) (*timeframe.TimeFrame, error) {
	opts, err := step.options(base)
	if err != nil {
		return nil, err
	}

	switch normalizeOp(step.Op) {
	case "filter":
		if step.Formula == "" {
			return nil, fmt.Errorf("%w: filter needs a formula", ErrInvalidStep)
		}
		out, err := timeframe.FilterTime(ctx, tf, step.Formula, opts...)
		if err != nil || len(step.Columns) == 0 {
			return out, err
		}
		return out.Select(step.Columns...)
	case "select":
		if tf == nil {
			return nil, timeframe.ErrNotTimeAware
		}
		return tf.Select(step.Columns...)
	case "group_by":
		if tf == nil {
			return nil, timeframe.ErrNotTimeAware
		}
		return tf.GroupBy(step.GroupBy...)
	case "ungroup":
		if tf == nil {
			return nil, timeframe.ErrNotTimeAware
		}
		return tf.Ungroup(), nil
	case "collapse":
		spec, err := step.spec()
		if err != nil {
			return nil, err
		}
		return timeframe.CollapseByPeriod(ctx, tf, spec, opts...)
	case "summarise", "summarize":
		spec, err := step.spec()
		if err != nil {
			return nil, err
		}
		reductions, err := ParseReductions(step.Reductions)
		if err != nil {
			return nil, err
		}
		return timeframe.SummariseByPeriod(ctx, tf, spec, reductions, opts...)
	case "nest":
		spec, err := step.spec()
		if err != nil {
			return nil, err
		}
		return timeframe.NestByPeriod(ctx, tf, spec, opts...)
	case "as_period":
		spec, err := step.spec()
		if err != nil {
			return nil, err
		}
		return timeframe.AsPeriod(ctx, tf, spec, opts...)
	case "rolling":
		fn, err := step.rolling()
		if err != nil {
			return nil, err
		}
		return timeframe.Transform(ctx, tf, step.Name, fn, step.Columns, opts...)
	case "series":
		spec, err := step.spec()
		if err != nil {
			return nil, err
		}
		return timeframe.CreateSeries(step.Formula, spec, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOp, step.Op)
	}
}

// rolling builds the column function of a rolling step
func (step Step) rolling() (rollify.Func, error) {
	if step.Name == "" || len(step.Columns) == 0 {
		return nil, fmt.Errorf("%w: rolling needs a name and at least one column", ErrInvalidStep)
	}

	reducer, ok := rollify.Reducers[strings.ToLower(step.Fn)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown rolling function %q", ErrInvalidStep, step.Fn)
	}

	var opts []rollify.Option
	switch {
	case len(step.Offsets) == 2:
		opts = append(opts, rollify.Offsets(step.Offsets[0], step.Offsets[1]))
	case len(step.Offsets) != 0:
		return nil, fmt.Errorf("%w: offsets must be [lo, hi]", ErrInvalidStep)
	case step.Window > 0:
		opts = append(opts, rollify.Window(step.Window))
	}

	return rollify.Rollify(reducer, opts...)
}

// ParseReductions parses every reduction with timeframe.ParseReduction
func ParseReductions(texts []string) ([]timeframe.Reduction, error) {
	reductions := make([]timeframe.Reduction, len(texts))
	for idx, text := range texts {
		red, err := timeframe.ParseReduction(text)
		if err != nil {
			return nil, err
		}
		reductions[idx] = red
	}
	return reductions, nil
}
