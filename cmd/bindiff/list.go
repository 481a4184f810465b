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

	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"

	"github.com/go-bindiff/bindiff"
	"github.com/go-bindiff/bindiff/textfile"
)

type list struct {
	path string
}

func (l *list) Run() error {
	f, err := textfile.FromPath(l.path)
	if err != nil {
		return fmt.Errorf("%w: reading file: %w", ErrCLI, err)
	}

	lines, err := bindiff.HashLines(f)
	if err != nil {
		return fmt.Errorf("%w: hashing lines: %w", ErrCLI, err)
	}

	tbl := table.New("label", "start", "size", "digest")
	for _, l := range lines {
		tbl.AddRow(l.Label, l.Start, l.Size, l.Digest)
	}
	tbl.Print()

	return nil
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "list a file's leaf index and content digests",
		ArgsUsage: "PATH",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("%w: expected PATH", ErrFlagParse)
			}
			l := list{path: c.Args().Get(0)}
			return l.Run()
		},
	}
}
