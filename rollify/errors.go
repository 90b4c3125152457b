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

import "errors"

var (
	ErrInvalidWindow  = errors.New("invalid rolling window")
	ErrLengthMismatch = errors.New("rolling inputs must have the same length")
	ErrNoInput        = errors.New("rolling function called without input")
	ErrNonNumeric     = errors.New("rolling input is not numeric")
)
