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
	"bytes"
	"fmt"
	"io"
)

// blockSource yields the next Block of a diff, or (nil, nil) once exhausted.
type blockSource interface {
	next() (*Block, error)
}

// readerSource decodes blocks from the wire format as they're needed. Each
// block's payload is read into memory as the block is decoded, so the next
// header can be decoded while earlier payloads are still unconsumed.
type readerSource struct {
	r *cappedReader
}

func newReaderSource(r io.Reader) *readerSource {
	return &readerSource{r: &cappedReader{r: r}}
}

func (s *readerSource) next() (*Block, error) {
	b, err := DecodeBlock(s.r)
	if err != nil || b == nil || b.Data == nil {
		return b, err
	}
	buf, err := io.ReadAll(b.Data)
	if err != nil {
		return nil, err
	}
	b.Data = bytes.NewReader(buf)
	return b, nil
}

// vectorSource walks an in-memory slice of already-decoded blocks.
type vectorSource struct {
	blocks []Block
	pos    int
}

func newVectorSource(blocks []Block) *vectorSource {
	return &vectorSource{blocks: blocks}
}

func (s *vectorSource) next() (*Block, error) {
	if s.pos >= len(s.blocks) {
		return nil, nil
	}
	b := s.blocks[s.pos]
	s.pos++
	return &b, nil
}

// composeStreams runs phase 1 (transitive compose) of the combine engine:
// it pulls aligned blocks from a and b, composing them pairwise until both
// sources are exhausted, returning the composed block list for phase 2.
func composeStreams(a, b blockSource) ([]Block, error) {
	var out []Block
	var curA, curB *Block
	var err error

	refillA := func() error {
		if curA == nil {
			curA, err = a.next()
			return err
		}
		return nil
	}
	refillB := func() error {
		if curB == nil {
			curB, err = b.next()
			return err
		}
		return nil
	}

	for {
		if err := refillA(); err != nil {
			return nil, err
		}
		if err := refillB(); err != nil {
			return nil, err
		}

		if curA == nil && curB == nil {
			break
		}
		if curA == nil {
			out = append(out, *curB)
			curB = nil
			continue
		}
		if curB == nil {
			out = append(out, *curA)
			curA = nil
			continue
		}

		emitted, xRest, yRest, err := Compose(*curA, *curB)
		if err != nil {
			return nil, err
		}
		if emitted != nil {
			out = append(out, *emitted)
		}
		curA = xRest
		curB = yRest
	}

	return out, nil
}

// sumCompress runs phase 2 of the combine engine: repeated left-to-right
// passes over blocks, folding adjacent pairs with Sum, until a full pass
// performs no merges.
func sumCompress(blocks []Block) []Block {
	for {
		merged := false
		var out []Block
		i := 0
		for i < len(blocks) {
			if i+1 < len(blocks) {
				sum, rest := Sum(blocks[i], blocks[i+1])
				if rest == nil {
					out = append(out, sum)
					i += 2
					merged = true
					continue
				}
			}
			out = append(out, blocks[i])
			i++
		}
		blocks = out
		if !merged {
			return blocks
		}
	}
}

// combine runs both phases of the combine engine over two block sources and
// writes the resulting A->C diff to output in the wire format.
func combine(a, b blockSource, output io.Writer) error {
	composed, err := composeStreams(a, b)
	if err != nil {
		return err
	}
	for _, blk := range sumCompress(composed) {
		if err := EncodeBlock(output, blk); err != nil {
			return err
		}
	}
	return nil
}

// CombineDiffs composes two sequential diffs A->B and B->C into a single
// A->C diff, written to output in the wire format.
func CombineDiffs(diffAB, diffBC io.Reader, output io.Writer) error {
	return combine(newReaderSource(diffAB), newReaderSource(diffBC), output)
}

// CombineDiffsVec composes a chain of two or more sequential diffs into a
// single diff spanning the first input's source to the last input's target,
// folding left to right.
func CombineDiffsVec(diffs []io.Reader, output io.Writer) error {
	if len(diffs) < 2 {
		return ErrTooFewDiffs
	}

	acc, err := DecodeAllBlocks(diffs[0])
	if err != nil {
		return err
	}
	for _, d := range diffs[1:] {
		next, err := DecodeAllBlocks(d)
		if err != nil {
			return err
		}
		composed, err := composeStreams(newVectorSource(acc), newVectorSource(next))
		if err != nil {
			return err
		}
		acc = sumCompress(composed)
	}

	return EncodeAllBlocks(output, acc)
}

// DecodeAllBlocks reads every block from diff's wire-format stream into a
// slice, materializing Add/Replace/ReplaceEq payloads into memory.
func DecodeAllBlocks(diff io.Reader) ([]Block, error) {
	src := newReaderSource(diff)
	var out []Block
	for {
		b, err := src.next()
		if err != nil {
			return nil, err
		}
		if b == nil {
			return out, nil
		}
		if b.Data != nil {
			buf, err := io.ReadAll(b.Data)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrCorruptDiff, err)
			}
			b.Data = bytes.NewReader(buf)
		}
		out = append(out, *b)
	}
}

// EncodeAllBlocks writes a slice of blocks to output in the wire format.
func EncodeAllBlocks(output io.Writer, blocks []Block) error {
	for _, b := range blocks {
		if err := EncodeBlock(output, b); err != nil {
			return err
		}
	}
	return nil
}

// ComposeBlocks runs phase 1 of the combine engine directly over two
// decoded block vectors.
func ComposeBlocks(a, b []Block) ([]Block, error) {
	return composeStreams(newVectorSource(a), newVectorSource(b))
}

// SumBlocks runs phase 2 of the combine engine directly over a decoded
// block vector.
func SumBlocks(blocks []Block) []Block {
	return sumCompress(blocks)
}
