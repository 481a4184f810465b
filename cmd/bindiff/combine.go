// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/go-bindiff/bindiff"
)

type combine struct {
	diffPaths []string
	outPath   string
}

func (cm *combine) Run() error {
	if len(cm.diffPaths) < 2 {
		return fmt.Errorf("%w: %w", ErrCLI, bindiff.ErrTooFewDiffs)
	}

	readers := make([]io.Reader, 0, len(cm.diffPaths))
	for _, p := range cm.diffPaths {
		f, err := os.Open(p)
		if err != nil {
			return fmt.Errorf("%w: opening %q: %w", ErrCLI, p, err)
		}
		defer f.Close()
		readers = append(readers, f)
	}

	out, err := os.Create(cm.outPath)
	if err != nil {
		return fmt.Errorf("%w: creating output: %w", ErrCLI, err)
	}
	defer out.Close()

	if err := bindiff.CombineDiffsVec(readers, out); err != nil {
		return fmt.Errorf("%w: %w", ErrCLI, err)
	}
	return nil
}

func combineCommand() *cli.Command {
	return &cli.Command{
		Name:      "combine",
		Usage:     "fold a chain of sequential diffs into one",
		ArgsUsage: "DIFF... OUTPUT",
		Action: func(c *cli.Context) error {
			if c.Args().Len() < 3 {
				return fmt.Errorf("%w: expected at least two DIFFs and an OUTPUT", ErrFlagParse)
			}
			args := c.Args().Slice()
			cm := combine{
				diffPaths: args[:len(args)-1],
				outPath:   args[len(args)-1],
			}
			return cm.Run()
		},
	}
}
