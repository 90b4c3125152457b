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

var filterColumns []string

func init() {
	rootCmd.AddCommand(filterCmd)
	filterCmd.Flags().StringSliceVarP(&filterColumns, "columns", "c", []string{}, "Columns to keep besides the index and group columns")
}

var filterCmd = &cobra.Command{
	Use:   "filter [flags] FILE FORMULA",
	Short: "Keep the rows inside a time formula such as 2013 or 2013-06~2014-02",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		tf := loadTimeFrame(ctx, args[0])

		out, err := timeframe.Subset(ctx, tf, args[1], filterColumns...)
		if err != nil {
			log.Fatal().Err(err).Str("Formula", args[1]).Msg("filter failed")
		}
		writeTimeFrame(ctx, out)
	},
}
