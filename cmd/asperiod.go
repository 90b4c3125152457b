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

package cmd

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/penny-vault/timeframe/timeframe"
)

var (
	asPeriodSide      string
	asPeriodNth       int
	asPeriodEndpoints bool
)

func init() {
	rootCmd.AddCommand(asPeriodCmd)
	asPeriodCmd.Flags().StringVar(&asPeriodSide, "side", "start", "Row kept per period: start (first) or end (last)")
	asPeriodCmd.Flags().IntVar(&asPeriodNth, "nth", 0, "Keep the nth row of each period; negative values count from the end")
	asPeriodCmd.Flags().BoolVar(&asPeriodEndpoints, "include-endpoints", false, "Always keep the first and last row of each group")
}

var asPeriodCmd = &cobra.Command{
	Use:   "as-period [flags] FILE PERIOD",
	Short: "Convert to a coarser periodicity by keeping one row per period",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		tf := loadTimeFrame(ctx, args[0])

		opts := append(baseOptions(), timeframe.WithSide(mustSide(asPeriodSide)), timeframe.WithNth(asPeriodNth))
		if asPeriodEndpoints {
			opts = append(opts, timeframe.IncludeEndpoints())
		}

		out, err := timeframe.AsPeriod(ctx, tf, mustPeriod(args[1]), opts...)
		if err != nil {
			log.Fatal().Err(err).Msg("as-period failed")
		}
		writeTimeFrame(ctx, out)
	},
}
