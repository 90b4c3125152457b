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

package common_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"

	"github.com/penny-vault/timeframe/common"
)

var _ = Describe("Config", func() {
	AfterEach(func() {
		viper.Set("timezone", "")
		viper.Set("concurrency", 0)
	})

	It("defaults to UTC", func() {
		tz, err := common.Timezone()
		Expect(err).To(BeNil())
		Expect(tz).To(Equal(time.UTC))
	})

	It("loads the configured zone", func() {
		viper.Set("timezone", "America/New_York")
		tz, err := common.Timezone()
		Expect(err).To(BeNil())
		Expect(tz.String()).To(Equal("America/New_York"))
	})

	It("reports unknown zones", func() {
		viper.Set("timezone", "Mars/Olympus_Mons")
		_, err := common.Timezone()
		Expect(err).ToNot(BeNil())
		Expect(err.Error()).To(ContainSubstring("Mars/Olympus_Mons"))
	})

	It("ignores negative concurrency", func() {
		viper.Set("concurrency", -3)
		Expect(common.Concurrency()).To(Equal(0))
		viper.Set("concurrency", 4)
		Expect(common.Concurrency()).To(Equal(4))
	})
})

var _ = Describe("Version", func() {
	It("formats release and development versions", func() {
		Expect(common.Version{Major: 1, Minor: 2, Patch: 3}.String()).To(Equal("1.2.3"))
		Expect(common.Version{Major: 0, Minor: 1, Suffix: "dev"}.String()).To(HavePrefix("0.1.0-dev"))
	})

	It("describes the build", func() {
		info := common.GetBuildInfo()
		Expect(info.Program).To(Equal("tframe"))
		Expect(info.Version).To(HavePrefix("v"))
		Expect(common.BuildVersionString()).To(ContainSubstring("Build Date: "))
	})
})
