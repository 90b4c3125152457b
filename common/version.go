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

package common

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
)

// set with -ldflags by the magefile
var (
	commitHash string
	buildDate  string
	vendorInfo string
)

// Version is a SemVer 2.0.0 build version
type Version struct {
	Major  int
	Minor  int
	Patch  int
	Suffix string
}

func (v Version) String() string {
	str := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Suffix == "" {
		return str
	}

	str += "-" + v.Suffix
	if commitHash != "" {
		str += "+" + strings.ToLower(commitHash)
	}
	return str
}

// BuildInfo describes the running binary
type BuildInfo struct {
	Program      string   `json:"program"`
	Version      string   `json:"version"`
	Platform     string   `json:"platform"`
	GoVersion    string   `json:"goVersion"`
	BuildDate    string   `json:"buildDate"`
	Commit       string   `json:"commit"`
	Vendor       string   `json:"vendor,omitempty"`
	Dependencies []string `json:"dependencies"`
}

// dependencies lists the modules compiled into the binary as path=version
func dependencies() []string {
	deps := []string{}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return deps
	}

	for _, dep := range bi.Deps {
		deps = append(deps, fmt.Sprintf("%s=%q", dep.Path, dep.Version))
	}
	sort.Strings(deps)
	return deps
}

// GetBuildInfo collects the version and build metadata of the binary
func GetBuildInfo() BuildInfo {
	date := buildDate
	if date == "" {
		date = "unknown"
	}

	return BuildInfo{
		Program:      "tframe",
		Version:      "v" + CurrentVersion.String(),
		Platform:     runtime.GOOS + "/" + runtime.GOARCH,
		GoVersion:    runtime.Version(),
		BuildDate:    date,
		Commit:       commitHash,
		Vendor:       vendorInfo,
		Dependencies: dependencies(),
	}
}

// BuildVersionString renders GetBuildInfo for humans
func BuildVersionString() string {
	info := GetBuildInfo()

	sb := &strings.Builder{}
	fmt.Fprintf(sb, "%s %s %s\n\nBuild Date: %s\nCommit: %s\nBuilt with: %s",
		info.Program, info.Version, info.Platform, info.BuildDate, info.Commit, info.GoVersion)
	if info.Vendor != "" {
		fmt.Fprintf(sb, "\nVendor Info: %s", info.Vendor)
	}
	fmt.Fprintf(sb, "\n\nDependencies:\n\n%s", strings.Join(info.Dependencies, "\n"))
	return sb.String()
}
