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
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/penny-vault/timeframe/recipe"
	"github.com/penny-vault/timeframe/timeframe"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [flags] RECIPE",
	Short: "Run a TOML recipe of time frame operations",
	Long: `Run a TOML recipe. The recipe names its input CSV, index, time zone and
grouping, which override the matching flags, followed by [[step]] tables
that are applied in order. Recipes without an input start from a "series"
step.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		fh, err := os.Open(args[0])
		if err != nil {
			log.Fatal().Err(err).Str("Recipe", args[0]).Msg("could not open recipe")
		}
		defer fh.Close()

		rec, err := recipe.Load(fh)
		if err != nil {
			log.Fatal().Err(err).Str("Recipe", args[0]).Msg("could not load recipe")
		}

		if rec.Index != "" {
			viper.Set("index", rec.Index)
		}
		if rec.Timezone != "" {
			viper.Set("timezone", rec.Timezone)
		}
		if len(rec.GroupBy) > 0 {
			viper.Set("group_by", rec.GroupBy)
		}

		var tf *timeframe.TimeFrame
		if rec.Input != "" {
			tf = loadTimeFrame(ctx, rec.Input)
		}

		out, err := rec.Apply(ctx, tf, baseOptions()...)
		if err != nil {
			log.Fatal().Err(err).Str("Recipe", args[0]).Msg("recipe failed")
		}
		writeTimeFrame(ctx, out)
	},
}
