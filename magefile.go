//go:build mage

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

package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName    = "tframe"
	packageName   = "."
	modulePath    = "github.com/penny-vault/timeframe"
	coverageFile  = "coverage.out"
	versionPkgVar = modulePath + "/common"
)

// go executable; override with GOEXE=xxx
var goexe = "go"

func init() {
	if exe := os.Getenv("GOEXE"); exe != "" {
		goexe = exe
	}
}

var Default = Build

// Build the tframe binary
func Build() error {
	fmt.Println("Building...")
	return sh.RunWith(flagEnv(), goexe, buildArgs("build", "-o", binaryName)...)
}

// Install tframe into GOPATH/bin
func Install() error {
	return sh.RunWith(flagEnv(), goexe, buildArgs("install")...)
}

// Remove build artifacts
func Clean() {
	fmt.Println("Cleaning...")
	os.Remove(binaryName)
	os.Remove(coverageFile)
}

// Run formatting, vet and the race enabled tests
func Check() {
	mg.Deps(Fmt, Vet)
	mg.Deps(TestRace)
}

// Run tests
func Test() error {
	fmt.Println("Go Test")
	return runQuiet(goexe, "test", "./...")
}

// Run tests with race detector
func TestRace() error {
	fmt.Println("Go Test Race")
	return runQuiet(goexe, "test", "-race", "./...")
}

// Fail when gofmt would change a file
func Fmt() error {
	fmt.Println("Go Format")

	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}

	files := make([]string, 0)
	for _, f := range strings.Split(out, "\n") {
		if f != "" && !strings.HasPrefix(f, "_") {
			files = append(files, f)
		}
	}
	if len(files) > 0 {
		fmt.Printf("The following files are not gofmt'ed:\n%s\n", strings.Join(files, "\n"))
		return errors.New("improperly formatted go files")
	}
	return nil
}

// Run go vet
func Vet() error {
	fmt.Println("Go Vet")
	if err := sh.Run(goexe, "vet", "./..."); err != nil {
		return fmt.Errorf("error running go vet: %w", err)
	}
	return nil
}

// Generate an HTML test coverage report
func Cover() error {
	fmt.Println("Generate Test Coverage HTML")
	if err := runQuiet(goexe, "test", "-coverprofile="+coverageFile, "-covermode=count", "./..."); err != nil {
		return err
	}
	return sh.Run(goexe, "tool", "cover", "-html="+coverageFile)
}

// Helpers

func buildArgs(cmd string, extra ...string) []string {
	ldflags := fmt.Sprintf("-X %s.commitHash=$COMMIT_HASH -X %s.buildDate=$BUILD_DATE", versionPkgVar, versionPkgVar)
	args := append([]string{cmd}, extra...)
	args = append(args, "-ldflags", ldflags)
	if runtime.GOOS == "windows" {
		args = append(args, "-buildmode", "exe")
	}
	return append(args, packageName)
}

func flagEnv() map[string]string {
	hash, _ := sh.Output("git", "rev-parse", "--short", "HEAD")
	return map[string]string{
		"COMMIT_HASH": hash,
		"BUILD_DATE":  time.Now().Format("2006-01-02T15:04:05Z0700"),
	}
}

// runQuiet only prints the command output when it fails or mage runs verbose
func runQuiet(cmd string, args ...string) error {
	if mg.Verbose() {
		return sh.Run(cmd, args...)
	}
	output, err := sh.Output(cmd, args...)
	if err != nil {
		fmt.Fprint(os.Stderr, output)
	}
	return err
}
