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
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rocketlaunchr/dataframe-go"
	"github.com/rocketlaunchr/dataframe-go/math/funcs"

	"github.com/penny-vault/timeframe/rollify"
)

var (
	callPattern  = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\(([^()]*)\)$`)
	identPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
)

// Expr builds a reduction from an arithmetic expression over the numeric
// results computed earlier in the same summary, e.g. "(hi - lo) / n". The
// expression supports the functions of the math package in lower case.
func Expr(name, expr string) Reduction {
	return Reduction{
		Name: name,
		Fn: func(g *Group) (interface{}, error) {
			bound, series := bindResults(expr, g)

			out := dataframe.NewSeriesFloat64("result", &dataframe.SeriesInit{Size: 1})
			series = append(series, out)
			df := dataframe.NewDataFrame(series...)

			if err := funcs.Evaluate(context.Background(), df, funcs.RegFunc(bound), out); err != nil {
				return nil, fmt.Errorf("%w: %s = %s: %v", ErrInvalidReduction, name, expr, err)
			}
			return out.Values[0], nil
		},
	}
}

// bindResults replaces references to earlier numeric results with
// placeholder variables, so results may be named like keywords (range, type)
// of the expression parser. It returns the rewritten expression and one
// single row series per referenced result.
func bindResults(expr string, g *Group) (string, []dataframe.Series) {
	vars := make(map[string]string)
	series := make([]dataframe.Series, 0)

	sb := &strings.Builder{}
	last := 0
	for _, loc := range identPattern.FindAllStringIndex(expr, -1) {
		start, end := loc[0], loc[1]
		if start > 0 && isIdentByte(expr[start-1]) {
			// exponent or suffix of a number literal such as 1e5
			continue
		}
		if strings.HasPrefix(strings.TrimLeft(expr[end:], " \t"), "(") {
			continue
		}

		ident := expr[start:end]
		placeholder, ok := vars[ident]
		if !ok {
			val, err := g.Float(ident)
			if err != nil {
				continue
			}
			placeholder = fmt.Sprintf("result%d", len(vars))
			vars[ident] = placeholder
			series = append(series, dataframe.NewSeriesFloat64(placeholder, nil, val))
		}

		sb.WriteString(expr[last:start])
		sb.WriteString(placeholder)
		last = end
	}
	sb.WriteString(expr[last:])

	return sb.String(), series
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '.' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

// ParseReduction reads a reduction written as `name=fn(col, ...)`, where fn
// is count or one of rollify.Reducers, or as `name=expression` over earlier
// results (see Expr).
func ParseReduction(text string) (Reduction, error) {
	parts := strings.SplitN(text, "=", 2)
	if len(parts) != 2 {
		return Reduction{}, fmt.Errorf("%w: %q is not of the form name=fn(col)", ErrInvalidReduction, text)
	}

	name := strings.TrimSpace(parts[0])
	body := strings.TrimSpace(parts[1])
	if name == "" || body == "" {
		return Reduction{}, fmt.Errorf("%w: %q is not of the form name=fn(col)", ErrInvalidReduction, text)
	}

	match := callPattern.FindStringSubmatch(body)
	if match == nil {
		return Expr(name, body), nil
	}

	fnName := strings.ToLower(match[1])
	cols := make([]string, 0)
	for _, col := range strings.Split(match[2], ",") {
		if col = strings.TrimSpace(col); col != "" {
			cols = append(cols, col)
		}
	}

	if fnName == "count" || fnName == "n" {
		return Count(name), nil
	}

	reducer, ok := rollify.Reducers[fnName]
	if !ok {
		// math functions such as abs(x) are expressions
		return Expr(name, body), nil
	}
	if len(cols) == 0 {
		return Reduction{}, fmt.Errorf("%w: %q needs at least one column", ErrInvalidReduction, text)
	}
	return Reduce(name, reducer, cols...), nil
}
