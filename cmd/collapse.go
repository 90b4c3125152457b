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
	collapseSide          string
	collapseKeepOriginal  bool
	collapseAnchorToStart bool
)

func init() {
	rootCmd.AddCommand(collapseCmd)
	collapseCmd.Flags().StringVar(&collapseSide, "side", "end", "Period boundary to use: start or end")
	collapseCmd.Flags().BoolVar(&collapseKeepOriginal, "keep-original", false, "Keep the original index in the "+timeframe.OriginalIndex+" column")
	collapseCmd.Flags().BoolVar(&collapseAnchorToStart, "anchor-to-start", false, "Align multi-unit periods to the first row of each group")
}

var collapseCmd = &cobra.Command{
	Use:   "collapse [flags] FILE PERIOD",
	Short: "Replace every index value with the boundary of its period",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		tf := loadTimeFrame(ctx, args[0])

		opts := append(baseOptions(), timeframe.WithSide(mustSide(collapseSide)))
		if collapseKeepOriginal {
			opts = append(opts, timeframe.KeepOriginal())
		}
		if collapseAnchorToStart {
			opts = append(opts, timeframe.AnchorToStart())
		}

		out, err := timeframe.CollapseByPeriod(ctx, tf, mustPeriod(args[1]), opts...)
		if err != nil {
			log.Fatal().Err(err).Msg("collapse failed")
		}
		writeTimeFrame(ctx, out)
	},
}
