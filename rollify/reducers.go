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

package rollify

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean of the first column
func Mean(cols ...[]float64) float64 {
	return stat.Mean(cols[0], nil)
}

// Sum of the first column
func Sum(cols ...[]float64) float64 {
	return floats.Sum(cols[0])
}

// Max of the first column; NaN if any value is missing
func Max(cols ...[]float64) float64 {
	if floats.HasNaN(cols[0]) {
		return math.NaN()
	}
	return floats.Max(cols[0])
}

// Min of the first column; NaN if any value is missing
func Min(cols ...[]float64) float64 {
	if floats.HasNaN(cols[0]) {
		return math.NaN()
	}
	return floats.Min(cols[0])
}

// StdDev is the sample standard deviation of the first column
func StdDev(cols ...[]float64) float64 {
	return stat.StdDev(cols[0], nil)
}

// Variance is the sample variance of the first column
func Variance(cols ...[]float64) float64 {
	return stat.Variance(cols[0], nil)
}

// Median of the first column
func Median(cols ...[]float64) float64 {
	sorted := make([]float64, len(cols[0]))
	copy(sorted, cols[0])
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

// First value of the first column
func First(cols ...[]float64) float64 {
	return cols[0][0]
}

// Last value of the first column
func Last(cols ...[]float64) float64 {
	return cols[0][len(cols[0])-1]
}

// Change is the relative change from the first to the last value
func Change(cols ...[]float64) float64 {
	first := cols[0][0]
	if first == 0 {
		return math.NaN()
	}
	return cols[0][len(cols[0])-1]/first - 1
}

// Correlation is the Pearson correlation of the first two columns
func Correlation(cols ...[]float64) float64 {
	if len(cols) < 2 {
		return math.NaN()
	}
	return stat.Correlation(cols[0], cols[1], nil)
}

// Covariance is the sample covariance of the first two columns
func Covariance(cols ...[]float64) float64 {
	if len(cols) < 2 {
		return math.NaN()
	}
	return stat.Covariance(cols[0], cols[1], nil)
}

// Reducers maps reducer names to functions
var Reducers = map[string]Reducer{
	"mean":   Mean,
	"avg":    Mean,
	"sum":    Sum,
	"max":    Max,
	"min":    Min,
	"sd":     StdDev,
	"stddev": StdDev,
	"var":    Variance,
	"median": Median,
	"first":  First,
	"last":   Last,
	"change": Change,
	"cor":    Correlation,
	"cov":    Covariance,
}
