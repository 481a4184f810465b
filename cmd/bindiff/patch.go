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
	"os"

	"github.com/urfave/cli/v2"

	"github.com/go-bindiff/bindiff"
)

type patch struct {
	sourcePath string
	diffPath   string
	outPath    string
}

func (p *patch) Run() error {
	source, err := os.Open(p.sourcePath)
	if err != nil {
		return fmt.Errorf("%w: opening source: %w", ErrCLI, err)
	}
	defer source.Close()

	diffFile, err := os.Open(p.diffPath)
	if err != nil {
		return fmt.Errorf("%w: opening diff: %w", ErrCLI, err)
	}
	defer diffFile.Close()

	out, err := os.Create(p.outPath)
	if err != nil {
		return fmt.Errorf("%w: creating output: %w", ErrCLI, err)
	}
	defer out.Close()

	if err := bindiff.ApplyDiff(source, diffFile, out); err != nil {
		return fmt.Errorf("%w: %w", ErrCLI, err)
	}
	return nil
}

func patchCommand() *cli.Command {
	return &cli.Command{
		Name:      "patch",
		Usage:     "apply a diff to a file",
		ArgsUsage: "SOURCE DIFF OUTPUT",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 3 {
				return fmt.Errorf("%w: expected SOURCE DIFF OUTPUT", ErrFlagParse)
			}
			p := patch{
				sourcePath: c.Args().Get(0),
				diffPath:   c.Args().Get(1),
				outPath:    c.Args().Get(2),
			}
			return p.Run()
		},
	}
}
