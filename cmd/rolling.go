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
)

var (
	rollingWindow  int
	rollingOffsets []int
	rollingName    string
)

func init() {
	rootCmd.AddCommand(rollingCmd)
	rollingCmd.Flags().IntVarP(&rollingWindow, "window", "w", 1, "Number of trailing rows in each window")
	rollingCmd.Flags().IntSliceVar(&rollingOffsets, "offsets", []int{}, "Window offsets lo,hi relative to each row instead of a trailing window")
	rollingCmd.Flags().StringVarP(&rollingName, "name", "n", "", "Name of the output column (default FN_COLUMN)")
}

var rollingCmd = &cobra.Command{
	Use:   "rolling [flags] FILE FN COLUMN [COLUMN...]",
	Short: "Apply a reducer such as mean, sd or cor over a rolling window",
	Args:  cobra.MinimumNArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		step := recipe.Step{
			Op:      "rolling",
			Fn:      args[1],
			Columns: args[2:],
			Window:  rollingWindow,
			Offsets: rollingOffsets,
			Name:    rollingName,
		}
		if step.Name == "" {
			step.Name = args[1] + "_" + args[2]
		}

		tf := loadTimeFrame(ctx, args[0])
		out, err := step.Apply(ctx, tf, baseOptions()...)
		if err != nil {
			log.Fatal().Err(err).Msg("rolling failed")
		}
		writeTimeFrame(ctx, out)
	},
}
