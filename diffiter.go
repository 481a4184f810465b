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
	"bufio"
	"fmt"
	"io"

	"github.com/go-bindiff/bindiff/internal/lcs"
)

// lineOp is a line-level (not yet byte-sized) change, after Remove-then-Add
// coalescing.
type lineOp struct {
	kind    Kind // KindSkip, KindAdd, KindRemove, or KindReplace
	n       int  // line count for Skip/Add/Remove
	removeN int  // line count removed, for Replace
	addN    int  // line count added, for Replace
}

// computeLineScript diffs the digest sequences of linesA and linesB and
// coalesces a Remove run immediately followed by an Add run into a single
// Replace, at the line level.
func computeLineScript(linesA, linesB []HashedLine) []lineOp {
	digestsA := make([]string, len(linesA))
	for i, l := range linesA {
		digestsA[i] = l.Digest
	}
	digestsB := make([]string, len(linesB))
	for i, l := range linesB {
		digestsB[i] = l.Digest
	}

	edits := lcs.Diff(digestsA, digestsB)

	var ops []lineOp
	for _, e := range edits {
		switch e.Op {
		case lcs.Same:
			ops = append(ops, lineOp{kind: KindSkip, n: e.Len})
		case lcs.Delete:
			ops = append(ops, lineOp{kind: KindRemove, n: e.Len})
		case lcs.Insert:
			if len(ops) > 0 && ops[len(ops)-1].kind == KindRemove {
				last := ops[len(ops)-1]
				ops[len(ops)-1] = lineOp{kind: KindReplace, removeN: last.n, addN: e.Len}
				continue
			}
			ops = append(ops, lineOp{kind: KindAdd, n: e.Len})
		}
	}
	return ops
}

// blockSpec is a byte-sized block description awaiting materialization
// into a Block (its Data stream, for kinds that carry one, is attached
// lazily by diffIterator.next).
type blockSpec struct {
	kind       Kind
	size       uint32
	removeSize uint32
}

// sizeCursor walks a leaf list, summing the byte sizes of the next n
// leaves.
type sizeCursor struct {
	lines []HashedLine
	pos   int
}

func (c *sizeCursor) take(n int) uint64 {
	var total uint64
	end := c.pos + n
	if end > len(c.lines) {
		end = len(c.lines)
	}
	for ; c.pos < end; c.pos++ {
		total += c.lines[c.pos].Size
	}
	return total
}

// translateToBytes converts a line-level change script into a byte-level
// block spec list, consuming leaf sizes from linesA/linesB in order.
func translateToBytes(ops []lineOp, linesA, linesB []HashedLine) []blockSpec {
	ia := &sizeCursor{lines: linesA}
	ib := &sizeCursor{lines: linesB}

	var out []blockSpec
	for _, op := range ops {
		switch op.kind {
		case KindSkip:
			size := ia.take(op.n)
			ib.take(op.n)
			if size != 0 {
				out = append(out, blockSpec{kind: KindSkip, size: uint32(size)})
			}
		case KindAdd:
			size := ib.take(op.n)
			if size != 0 {
				out = append(out, blockSpec{kind: KindAdd, size: uint32(size)})
			}
		case KindRemove:
			size := ia.take(op.n)
			if size != 0 {
				out = append(out, blockSpec{kind: KindRemove, size: uint32(size)})
			}
		case KindReplace:
			removeSize := ia.take(op.removeN)
			addSize := ib.take(op.addN)
			switch {
			case removeSize != 0 && addSize != 0:
				if removeSize == addSize {
					out = append(out, blockSpec{kind: KindReplaceEq, size: uint32(addSize)})
				} else {
					out = append(out, blockSpec{kind: KindReplace, removeSize: uint32(removeSize), size: uint32(addSize)})
				}
			case removeSize != 0:
				out = append(out, blockSpec{kind: KindRemove, size: uint32(removeSize)})
			case addSize != 0:
				out = append(out, blockSpec{kind: KindAdd, size: uint32(addSize)})
			}
		}
	}
	return out
}

// diffIterator lazily materializes a byte-level block spec list into
// Blocks, reading Add/Replace/ReplaceEq payloads from edited on demand.
type diffIterator struct {
	slice   *ReadSlice
	script  []blockSpec
	pos     int
	filePos uint64
}

func newDiffIterator(original, edited Adapter) (*diffIterator, error) {
	linesA, err := HashLines(original)
	if err != nil {
		return nil, err
	}
	linesB, err := HashLines(edited)
	if err != nil {
		return nil, err
	}

	ops := computeLineScript(linesA, linesB)
	script := translateToBytes(ops, linesA, linesB)

	// HashLines left edited's cursor parked at the end of its last leaf;
	// rewind to the start before anchoring the read-slice, since
	// NewReadSlice sizes its view as end-minus-current-position.
	if _, err := edited.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: rewinding edited: %w", ErrCreateDiff, err)
	}

	slice, err := NewReadSlice(edited)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateDiff, err)
	}

	return &diffIterator{slice: slice, script: script}, nil
}

// next returns the next Block, or (nil, nil) once the script is exhausted.
func (it *diffIterator) next() (*Block, error) {
	if it.pos >= len(it.script) {
		return nil, nil
	}
	spec := it.script[it.pos]
	it.pos++

	switch spec.kind {
	case KindSkip:
		it.filePos += uint64(spec.size)
		b := skipBlock(spec.size)
		return &b, nil
	case KindRemove:
		b := removeBlock(spec.size)
		return &b, nil
	case KindAdd:
		data := it.slice.Offset(int64(it.filePos)).Take(int64(spec.size))
		it.filePos += uint64(spec.size)
		b := addBlock(spec.size, data)
		return &b, nil
	case KindReplace:
		data := it.slice.Offset(int64(it.filePos)).Take(int64(spec.size))
		it.filePos += uint64(spec.size)
		b := replaceBlock(spec.removeSize, spec.size, data)
		return &b, nil
	case KindReplaceEq:
		data := it.slice.Offset(int64(it.filePos)).Take(int64(spec.size))
		it.filePos += uint64(spec.size)
		b := replaceEqBlock(spec.size, data)
		return &b, nil
	}
	return nil, fmt.Errorf("%w: unreachable block kind %d", ErrCreateDiff, spec.kind)
}

// CreateDiff computes a diff transforming original into edited and writes
// it to output in the wire format. original and edited must implement the
// Adapter contract (seekable byte reading plus an index of named leaves).
func CreateDiff(original, edited Adapter, output io.Writer) error {
	it, err := newDiffIterator(original, edited)
	if err != nil {
		return err
	}

	w := bufio.NewWriterSize(output, 64*1024)
	for {
		b, err := it.next()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCreateDiff, err)
		}
		if b == nil {
			break
		}
		if err := EncodeBlock(w, *b); err != nil {
			return fmt.Errorf("%w: %w", ErrCreateDiff, err)
		}
	}
	return w.Flush()
}
