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

package common

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Timezone returns the location named by the timezone configuration key.
// An empty value means UTC.
func Timezone() (*time.Location, error) {
	name := viper.GetString("timezone")
	if name == "" {
		return time.UTC, nil
	}

	tz, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("could not load timezone %q: %w", name, err)
	}
	return tz, nil
}

// Concurrency returns the configured number of partition workers; zero
// leaves the library default in place
func Concurrency() int {
	n := viper.GetInt("concurrency")
	if n < 0 {
		return 0
	}
	return n
}
