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

	"github.com/penny-vault/timeframe/recipe"
	"github.com/penny-vault/timeframe/timeframe"
)

var (
	summariseSide       string
	summariseReductions []string
)

func init() {
	rootCmd.AddCommand(summariseCmd)
	summariseCmd.Flags().StringVar(&summariseSide, "side", "end", "Period boundary used to label rows: start or end")
	summariseCmd.Flags().StringArrayVarP(&summariseReductions, "reduce", "r", []string{}, "Reduction name=fn(col) or name=expression, may be repeated")
}

var summariseCmd = &cobra.Command{
	Use:     "summarise [flags] FILE PERIOD",
	Aliases: []string{"summarize"},
	Short:   "Reduce each period of each group to one row",
	Example: `  tframe summarise prices.csv monthly --group-by ticker -r "avg=mean(close)" -r "hi=max(close)" -r "lo=min(close)" -r "range=hi-lo"`,
	Args:    cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		reductions, err := recipe.ParseReductions(summariseReductions)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid reduction")
		}

		tf := loadTimeFrame(ctx, args[0])
		opts := append(baseOptions(), timeframe.WithSide(mustSide(summariseSide)))
		out, err := timeframe.SummariseByPeriod(ctx, tf, mustPeriod(args[1]), reductions, opts...)
		if err != nil {
			log.Fatal().Err(err).Msg("summarise failed")
		}
		writeTimeFrame(ctx, out)
	},
}
