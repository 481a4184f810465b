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
	"github.com/go-bindiff/bindiff/textfile"
)

type diff struct {
	originalPath string
	editedPath   string
	outPath      string
}

func (d *diff) Run() error {
	original, err := textfile.FromPath(d.originalPath)
	if err != nil {
		return fmt.Errorf("%w: reading original: %w", ErrCLI, err)
	}
	edited, err := textfile.FromPath(d.editedPath)
	if err != nil {
		return fmt.Errorf("%w: reading edited: %w", ErrCLI, err)
	}

	out, err := os.Create(d.outPath)
	if err != nil {
		return fmt.Errorf("%w: creating output: %w", ErrCLI, err)
	}
	defer out.Close()

	if err := bindiff.CreateDiff(original, edited, out); err != nil {
		return fmt.Errorf("%w: %w", ErrCLI, err)
	}
	return nil
}

func diffCommand() *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "compute a diff between two files",
		ArgsUsage: "ORIGINAL EDITED OUTPUT",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 3 {
				return fmt.Errorf("%w: expected ORIGINAL EDITED OUTPUT", ErrFlagParse)
			}
			d := diff{
				originalPath: c.Args().Get(0),
				editedPath:   c.Args().Get(1),
				outPath:      c.Args().Get(2),
			}
			return d.Run()
		},
	}
}
