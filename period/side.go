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
	"strings"
)

// Side selects which boundary of a period is used
type Side int

const (
	SideEnd Side = iota
	SideStart
)

// ParseSide converts `start` or `end` into a Side
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "start", "begin", "first":
		return SideStart, nil
	case "end", "last", "":
		return SideEnd, nil
	default:
		return SideEnd, fmt.Errorf("%w: unknown side %q", ErrInvalidPeriodSpec, s)
	}
}

func (s Side) String() string {
	if s == SideStart {
		return "start"
	}
	return "end"
}
