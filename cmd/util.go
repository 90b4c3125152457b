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
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/penny-vault/timeframe/common"
	"github.com/penny-vault/timeframe/frame"
	"github.com/penny-vault/timeframe/period"
	"github.com/penny-vault/timeframe/timeframe"
)

// loadTimeFrame reads a CSV file ("-" for stdin) and tags it with the
// configured index, zone and grouping
func loadTimeFrame(ctx context.Context, path string) *timeframe.TimeFrame {
	zone, err := common.Timezone()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid timezone")
	}

	var raw []byte
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		log.Fatal().Err(err).Str("Path", path).Msg("could not read input")
	}

	index := viper.GetString("index")
	f, err := frame.ReadCSV(ctx, bytes.NewReader(raw), zone, index)
	if err != nil {
		log.Fatal().Err(err).Str("Path", path).Msg("could not parse input")
	}

	tf, err := timeframe.New(f, index, timeframe.WithZone(zone))
	if err != nil {
		log.Fatal().Err(err).Str("Path", path).Str("Index", index).Msg("could not tag input")
	}

	if groups := viper.GetStringSlice("group_by"); len(groups) > 0 {
		if tf, err = tf.GroupBy(groups...); err != nil {
			log.Fatal().Err(err).Strs("GroupBy", groups).Msg("could not group input")
		}
	}

	log.Info().Str("Path", path).Int("Rows", tf.NRows()).Strs("Columns", tf.Names()).Msg("loaded input")
	return tf
}

// baseOptions returns the options shared by every command
func baseOptions() []timeframe.Option {
	zone, err := common.Timezone()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid timezone")
	}

	opts := []timeframe.Option{timeframe.WithZone(zone)}
	if n := common.Concurrency(); n > 0 {
		opts = append(opts, timeframe.WithConcurrency(n))
	}
	return opts
}

func mustPeriod(str string) period.Spec {
	spec, err := period.Parse(str)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid period")
	}
	return spec
}

func mustSide(str string) period.Side {
	side, err := period.ParseSide(str)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid side")
	}
	return side
}

// writeTimeFrame prints tf to stdout in the configured format
func writeTimeFrame(ctx context.Context, tf *timeframe.TimeFrame) {
	if err := render(ctx, os.Stdout, tf, viper.GetString("format")); err != nil {
		log.Fatal().Err(err).Msg("could not write output")
	}
}

func render(ctx context.Context, w io.Writer, tf *timeframe.TimeFrame, format string) error {
	switch strings.ToLower(format) {
	case "table", "":
		_, err := fmt.Fprint(w, tf.Table())
		return err
	case "csv":
		return tf.Frame().WriteCSV(ctx, w)
	case "json":
		data, err := json.MarshalIndent(tf.Frame(), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
