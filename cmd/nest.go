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
	nestKey        string
	nestExclude    []string
	nestInnerDates bool
)

func init() {
	rootCmd.AddCommand(nestCmd)
	nestCmd.Flags().StringVar(&nestKey, "key", timeframe.DefaultKeyName, "Name of the nested column")
	nestCmd.Flags().StringSliceVar(&nestExclude, "exclude", []string{}, "Columns kept in the outer table")
	nestCmd.Flags().BoolVar(&nestInnerDates, "keep-inner-dates", false, "Keep the original index inside nested tables")
}

var nestCmd = &cobra.Command{
	Use:   "nest [flags] FILE PERIOD",
	Short: "Fold the rows of each period of each group into a nested table",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		tf := loadTimeFrame(ctx, args[0])

		opts := append(baseOptions(), timeframe.WithKeyName(nestKey), timeframe.Exclude(nestExclude...))
		if nestInnerDates {
			opts = append(opts, timeframe.KeepInnerDates())
		}

		out, err := timeframe.NestByPeriod(ctx, tf, mustPeriod(args[1]), opts...)
		if err != nil {
			log.Fatal().Err(err).Msg("nest failed")
		}
		writeTimeFrame(ctx, out)
	},
}
