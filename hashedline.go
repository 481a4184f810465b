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

package bindiff

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// Adapter is the indexing adapter contract: a value supplying seekable byte
// reading plus an ordered index of named leaves. The engine invokes
// Indexes().Leaves() once per input and never mutates the adapter outside
// of Seek/Read.
type Adapter interface {
	io.ReadSeeker
	Indexes() (*Index, error)
}

// HashedLine is a leaf index entry augmented with a content digest: a hex
// encoding of a fixed-width hash over Size bytes starting at Start in the
// underlying reader.
type HashedLine struct {
	Label  string
	Start  uint64
	Size   uint64
	Digest string
}

// HashLines derives the leaves index of a and hashes each leaf's bytes in
// index order. Failure to read a leaf's declared size is fatal.
func HashLines(a Adapter) ([]HashedLine, error) {
	ix, err := a.Indexes()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateDiff, err)
	}
	leaves := ix.Leaves().Entries()

	lines := make([]HashedLine, 0, len(leaves))
	for _, e := range leaves {
		if _, err := a.Seek(int64(e.Start), io.SeekStart); err != nil {
			return nil, fmt.Errorf("%w: seeking to leaf %q: %w", ErrCreateDiff, e.Label, err)
		}
		h := sha256.New()
		if _, err := io.CopyN(h, a, int64(e.Size)); err != nil {
			return nil, fmt.Errorf("%w: hashing leaf %q: %w", ErrCreateDiff, e.Label, err)
		}
		lines = append(lines, HashedLine{
			Label:  e.Label,
			Start:  e.Start,
			Size:   e.Size,
			Digest: hex.EncodeToString(h.Sum(nil)),
		})
	}
	return lines, nil
}
