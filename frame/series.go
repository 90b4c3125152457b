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

package frame

import (
	"fmt"
	"reflect"
	"time"

	"github.com/rocketlaunchr/dataframe-go"
)

// emptyLike returns an empty series with the same name and type as s
func emptyLike(s dataframe.Series, capacity int) dataframe.Series {
	if ns, ok := s.(dataframe.NewSerieser); ok {
		return ns.NewSeries(s.Name(), &dataframe.SeriesInit{Capacity: capacity})
	}

	// generic series carry their concrete type only internally
	out := s.Copy()
	out.Reset()
	return out
}

func takeSeries(s dataframe.Series, rows []int) dataframe.Series {
	out := emptyLike(s, len(rows))
	for _, row := range rows {
		out.Append(s.Value(row))
	}
	return out
}

// TimeSeries builds a time column
func TimeSeries(name string, vals []time.Time) *dataframe.SeriesTime {
	s := dataframe.NewSeriesTime(name, &dataframe.SeriesInit{Capacity: len(vals)})
	for _, val := range vals {
		s.Append(val)
	}
	return s
}

// FloatSeries builds a float column; NaN is a missing value
func FloatSeries(name string, vals []float64) *dataframe.SeriesFloat64 {
	s := dataframe.NewSeriesFloat64(name, &dataframe.SeriesInit{Capacity: len(vals)})
	for _, val := range vals {
		s.Append(val)
	}
	return s
}

// StringSeries builds a string column
func StringSeries(name string, vals []string) *dataframe.SeriesString {
	s := dataframe.NewSeriesString(name, &dataframe.SeriesInit{Capacity: len(vals)})
	for _, val := range vals {
		s.Append(val)
	}
	return s
}

// IntSeries builds an integer column
func IntSeries(name string, vals []int64) *dataframe.SeriesInt64 {
	s := dataframe.NewSeriesInt64(name, &dataframe.SeriesInit{Capacity: len(vals)})
	for _, val := range vals {
		s.Append(val)
	}
	return s
}

// SeriesOf builds a column from loosely typed values. The series type follows
// the first non-nil value: time.Time, float64, int64 (and int), string or, for
// any other struct or scalar type, a generic series of that type. Every other
// non-nil value must share that type.
func SeriesOf(name string, vals []interface{}) (dataframe.Series, error) {
	var proto interface{}
	for _, val := range vals {
		if val != nil {
			proto = val
			break
		}
	}

	var s dataframe.Series
	switch proto.(type) {
	case nil, float64:
		s = dataframe.NewSeriesFloat64(name, &dataframe.SeriesInit{Capacity: len(vals)})
	case time.Time:
		s = dataframe.NewSeriesTime(name, &dataframe.SeriesInit{Capacity: len(vals)})
	case int64, int:
		s = dataframe.NewSeriesInt64(name, &dataframe.SeriesInit{Capacity: len(vals)})
	case string:
		s = dataframe.NewSeriesString(name, &dataframe.SeriesInit{Capacity: len(vals)})
	default:
		kind := reflect.TypeOf(proto).Kind()
		if kind != reflect.Struct && kind > reflect.Complex128 && kind != reflect.String {
			return nil, fmt.Errorf("%w: %q cannot hold values of type %T", ErrColumnType, name, proto)
		}
		s = dataframe.NewSeriesGeneric(name, reflect.Zero(reflect.TypeOf(proto)).Interface(), &dataframe.SeriesInit{Capacity: len(vals)})
	}

	protoType := reflect.TypeOf(proto)
	for row, val := range vals {
		if val == nil {
			s.Append(nil)
			continue
		}

		if reflect.TypeOf(val) != protoType {
			return nil, fmt.Errorf("%w: %q row %d holds %T but the column holds %T", ErrColumnType, name, row, val, proto)
		}

		if v, ok := val.(int); ok {
			s.Append(int64(v))
		} else {
			s.Append(val)
		}
	}

	return s, nil
}
