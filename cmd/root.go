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
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/penny-vault/timeframe/common"
)

func init() {
	// Logging configuration
	viper.BindEnv("log.level", "TIMEFRAME_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "warning", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.report_caller", "TIMEFRAME_LOG_REPORT_CALLER")
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	viper.BindEnv("log.output", "TIMEFRAME_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stderr", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	viper.BindEnv("log.pretty", "TIMEFRAME_LOG_PRETTY")
	rootCmd.PersistentFlags().Bool("log-pretty", true, "Format logs for humans instead of JSON")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))

	// Table handling
	viper.BindEnv("timezone", "TIMEFRAME_TIMEZONE")
	rootCmd.PersistentFlags().String("timezone", "", "Time zone used for period arithmetic (default UTC)")
	viper.BindPFlag("timezone", rootCmd.PersistentFlags().Lookup("timezone"))

	viper.BindEnv("index", "TIMEFRAME_INDEX")
	rootCmd.PersistentFlags().String("index", "date", "Name of the time index column")
	viper.BindPFlag("index", rootCmd.PersistentFlags().Lookup("index"))

	viper.BindEnv("group_by", "TIMEFRAME_GROUP_BY")
	rootCmd.PersistentFlags().StringSlice("group-by", []string{}, "Columns that split the table into independent groups")
	viper.BindPFlag("group_by", rootCmd.PersistentFlags().Lookup("group-by"))

	viper.BindEnv("format", "TIMEFRAME_FORMAT")
	rootCmd.PersistentFlags().String("format", "table", "Output format one of: `table`, `csv`, or `json`")
	viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))

	viper.BindEnv("concurrency", "TIMEFRAME_CONCURRENCY")
	rootCmd.PersistentFlags().Int("concurrency", 0, "Number of groups processed at once (default GOMAXPROCS)")
	viper.BindPFlag("concurrency", rootCmd.PersistentFlags().Lookup("concurrency"))
}

var rootCmd = &cobra.Command{
	Use:     "tframe",
	Version: common.CurrentVersion.String(),
	Short:   "tframe works with time indexed tables",
	Long: `tframe filters, collapses, summarises, nests and resamples CSV tables
by calendar period. Ranges are written as time formulas such as "2013",
"~2015-03" or "2013-06 ~ 2014-02" and periods as "monthly", "quarterly" or
"2~w".`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
