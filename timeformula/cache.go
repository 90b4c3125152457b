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

package timeformula

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"
)

// CacheSize is the number of compiled formulas kept in memory
const CacheSize = 512

var cache *lru.Cache

func init() {
	var err error
	cache, err = lru.New(CacheSize)
	if err != nil {
		log.Panic().Err(err).Int("Size", CacheSize).Msg("could not create formula cache")
	}
}

// cached returns the compiled formula for expr, compiling it on a miss.
// Formulas that fail to compile are not stored.
func cached(expr string) (Formula, error) {
	if val, ok := cache.Get(expr); ok {
		return val.(Formula), nil
	}

	formula, err := Compile(expr)
	if err != nil {
		return formula, err
	}

	cache.Add(expr, formula)
	return formula, nil
}

// Purge drops every compiled formula from the cache
func Purge() {
	cache.Purge()
}
