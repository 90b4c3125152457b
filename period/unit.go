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

// Unit is the calendrical unit of a period. Units are ordered from finest to coarsest.
type Unit int

const (
	Second Unit = iota
	Minute
	Hour
	Day
	Week
	Month
	Year
)

func (u Unit) String() string {
	switch u {
	case Second:
		return "second"
	case Minute:
		return "minute"
	case Hour:
		return "hour"
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	case Year:
		return "year"
	default:
		return "unknown"
	}
}

// Valid returns true if u is one of the known units
func (u Unit) Valid() bool {
	return u >= Second && u <= Year
}

// unitAliases maps case-insensitive names to units. The bool marks quarter sugar.
var unitAliases = map[string]struct {
	unit    Unit
	quarter bool
}{
	"year":      {Year, false},
	"years":     {Year, false},
	"yearly":    {Year, false},
	"annual":    {Year, false},
	"annually":  {Year, false},
	"quarter":   {Month, true},
	"quarters":  {Month, true},
	"quarterly": {Month, true},
	"month":     {Month, false},
	"months":    {Month, false},
	"monthly":   {Month, false},
	"week":      {Week, false},
	"weeks":     {Week, false},
	"weekly":    {Week, false},
	"day":       {Day, false},
	"days":      {Day, false},
	"daily":     {Day, false},
	"hour":      {Hour, false},
	"hours":     {Hour, false},
	"hourly":    {Hour, false},
	"min":       {Minute, false},
	"minute":    {Minute, false},
	"minutes":   {Minute, false},
	"minutely":  {Minute, false},
	"sec":       {Second, false},
	"second":    {Second, false},
	"seconds":   {Second, false},
	"secondly":  {Second, false},
}

// single letter abbreviations are case sensitive: `m` is month and `M` is minute
var unitLetters = map[string]struct {
	unit    Unit
	quarter bool
}{
	"y": {Year, false},
	"Y": {Year, false},
	"q": {Month, true},
	"Q": {Month, true},
	"m": {Month, false},
	"w": {Week, false},
	"W": {Week, false},
	"d": {Day, false},
	"D": {Day, false},
	"h": {Hour, false},
	"H": {Hour, false},
	"M": {Minute, false},
	"s": {Second, false},
	"S": {Second, false},
}
