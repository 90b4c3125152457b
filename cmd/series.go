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

	"github.com/penny-vault/timeframe/common"
	"github.com/penny-vault/timeframe/timeframe"
)

var seriesName string

func init() {
	rootCmd.AddCommand(seriesCmd)
	seriesCmd.Flags().StringVar(&seriesName, "name", timeframe.DefaultSeriesName, "Name of the generated column")
}

var seriesCmd = &cobra.Command{
	Use:     "series [flags] FORMULA PERIOD",
	Short:   "Print a regularly spaced time series",
	Example: `  tframe series "~2013" 2~d`,
	Args:    cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		zone, err := common.Timezone()
		if err != nil {
			log.Fatal().Err(err).Msg("invalid timezone")
		}

		out, err := timeframe.CreateSeries(args[0], mustPeriod(args[1]), timeframe.WithZone(zone), timeframe.WithSeriesName(seriesName))
		if err != nil {
			log.Fatal().Err(err).Msg("could not create series")
		}
		writeTimeFrame(context.Background(), out)
	},
}
