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

// Package textfile is a sample bindiff.Adapter over newline-delimited text,
// indexing each line (including its trailing newline, if any) as a flat
// leaf named line_<n>.
package textfile

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/go-bindiff/bindiff"
)

// TextFile adapts an in-memory byte slice for line-granular diffing.
type TextFile struct {
	r *bytes.Reader
}

// New wraps contents for diffing.
func New(contents []byte) *TextFile {
	return &TextFile{r: bytes.NewReader(contents)}
}

// FromPath reads the file at path in full and wraps its contents.
func FromPath(path string) (*TextFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("textfile: %w", err)
	}
	return New(data), nil
}

func (t *TextFile) Read(p []byte) (int, error) { return t.r.Read(p) }

func (t *TextFile) Seek(offset int64, whence int) (int64, error) {
	return t.r.Seek(offset, whence)
}

// Indexes splits the file on '\n' boundaries (each line's size includes its
// trailing newline, except possibly the final line) and returns one flat
// leaf per line, named line_<n>.
func (t *TextFile) Indexes() (*bindiff.Index, error) {
	if _, err := t.r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("textfile: %w", err)
	}
	data, err := io.ReadAll(t.r)
	if err != nil {
		return nil, fmt.Errorf("textfile: %w", err)
	}

	idx := bindiff.NewIndex()
	var start uint64
	lineNum := 0
	for start < uint64(len(data)) {
		rest := data[start:]
		nl := bytes.IndexByte(rest, '\n')
		var size uint64
		if nl == -1 {
			size = uint64(len(rest))
		} else {
			size = uint64(nl + 1)
		}
		label := fmt.Sprintf("line_%d", lineNum)
		if err := idx.Insert(label, start, size); err != nil {
			return nil, fmt.Errorf("textfile: %w", err)
		}
		start += size
		lineNum++
	}

	return idx, nil
}
