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
	"io"
)

// Kind identifies the variant of a Block. Values double as the dispatch
// key used by Sum and Compose: kind(x)*10 + kind(y) selects a case.
type Kind int

const (
	KindSkip Kind = iota + 1
	KindAdd
	KindRemove
	KindReplace
	KindReplaceEq
)

// Block is an edit-block: one unit of the wire format. Size holds the
// Skip/Remove byte count, the Add/ReplaceEq data length, or the Replace
// block's added-data length; RemoveSize holds the Replace block's removed
// byte count. Data is the payload stream for Add, Replace and ReplaceEq;
// it is nil for Skip and Remove. Data is a one-shot view: it must be
// consumed exactly once.
type Block struct {
	Kind       Kind
	Size       uint32
	RemoveSize uint32
	Data       io.Reader
}

func skipBlock(size uint32) Block { return Block{Kind: KindSkip, Size: size} }
func removeBlock(size uint32) Block { return Block{Kind: KindRemove, Size: size} }
func addBlock(size uint32, data io.Reader) Block {
	return Block{Kind: KindAdd, Size: size, Data: data}
}
func replaceBlock(removeSize, size uint32, data io.Reader) Block {
	return Block{Kind: KindReplace, RemoveSize: removeSize, Size: size, Data: data}
}
func replaceEqBlock(size uint32, data io.Reader) Block {
	return Block{Kind: KindReplaceEq, Size: size, Data: data}
}

func action(x, y Kind) int {
	return int(x)*10 + int(y)
}

func cmpU32(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Sum attempts to merge two adjacent blocks of the same diff. If the
// blocks merge, it returns the merged block and a nil remainder. If they
// do not, it returns x unchanged and y as the remainder to retry against
// the next block.
func Sum(x, y Block) (out Block, rest *Block) {
	switch action(x.Kind, y.Kind) {
	case action(KindSkip, KindSkip):
		return skipBlock(x.Size + y.Size), nil

	case action(KindAdd, KindAdd):
		return addBlock(x.Size+y.Size, io.MultiReader(x.Data, y.Data)), nil

	case action(KindRemove, KindRemove):
		return removeBlock(x.Size + y.Size), nil

	case action(KindRemove, KindAdd):
		if x.Size == y.Size {
			return replaceEqBlock(y.Size, y.Data), nil
		}
		return replaceBlock(x.Size, y.Size, y.Data), nil

	case action(KindRemove, KindReplace):
		return replaceBlock(x.Size+y.RemoveSize, y.Size, y.Data), nil

	case action(KindRemove, KindReplaceEq):
		return replaceBlock(x.Size+y.Size, y.Size, y.Data), nil

	case action(KindReplace, KindAdd):
		data := io.MultiReader(x.Data, y.Data)
		total := x.Size + y.Size
		if x.RemoveSize == total {
			return replaceEqBlock(total, data), nil
		}
		return replaceBlock(x.RemoveSize, total, data), nil

	case action(KindReplaceEq, KindAdd):
		data := io.MultiReader(x.Data, y.Data)
		return replaceBlock(x.Size, x.Size+y.Size, data), nil

	default:
		return x, &y
	}
}

// splitReader materializes the first n bytes of r into memory (so they
// remain valid to read even if consumed out of order relative to the
// continuation) and returns (head, tail), where tail continues reading r
// from byte n onward.
func splitReader(r io.Reader, n uint32) (head, tail io.Reader, err error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(&cappedReader{r: r}, buf); err != nil {
		return nil, nil, err
	}
	return bytes.NewReader(buf), r, nil
}

func drainReader(r io.Reader, n uint32) error {
	_, err := io.CopyN(io.Discard, &cappedReader{r: r}, int64(n))
	return err
}

// Compose projects a pair of aligned blocks from two sequential diffs
// (A->B, B->C) into the first block of the composed diff A->C, plus
// remainders of x and y to retry on the next iteration.
func Compose(x, y Block) (out, xRest, yRest *Block, err error) {
	switch action(x.Kind, y.Kind) {

	case action(KindSkip, KindSkip):
		switch cmpU32(x.Size, y.Size) {
		case 0:
			b := skipBlock(x.Size)
			return &b, nil, nil, nil
		case 1:
			b := skipBlock(y.Size)
			rest := skipBlock(x.Size - y.Size)
			return &b, &rest, nil, nil
		default:
			b := skipBlock(x.Size)
			rest := skipBlock(y.Size - x.Size)
			return &b, nil, &rest, nil
		}

	case action(KindSkip, KindAdd):
		b := addBlock(y.Size, y.Data)
		xr := skipBlock(x.Size)
		return &b, &xr, nil, nil

	case action(KindSkip, KindRemove):
		switch cmpU32(x.Size, y.Size) {
		case 0:
			b := removeBlock(x.Size)
			return &b, nil, nil, nil
		case 1:
			b := removeBlock(y.Size)
			rest := skipBlock(x.Size - y.Size)
			return &b, &rest, nil, nil
		default:
			b := removeBlock(x.Size)
			rest := removeBlock(y.Size - x.Size)
			return &b, nil, &rest, nil
		}

	case action(KindSkip, KindReplace):
		return composeSkipVsReplace(x.Size, y.RemoveSize, y.Size, y.Data)

	case action(KindSkip, KindReplaceEq):
		return composeSkipVsReplace(x.Size, y.Size, y.Size, y.Data)

	case action(KindAdd, KindSkip):
		switch cmpU32(x.Size, y.Size) {
		case 0:
			b := addBlock(x.Size, x.Data)
			return &b, nil, nil, nil
		case 1:
			head, tail, err := splitReader(x.Data, y.Size)
			if err != nil {
				return nil, nil, nil, err
			}
			b := addBlock(y.Size, head)
			rest := addBlock(x.Size-y.Size, tail)
			return &b, &rest, nil, nil
		default:
			b := addBlock(x.Size, x.Data)
			rest := skipBlock(y.Size - x.Size)
			return &b, nil, &rest, nil
		}

	case action(KindAdd, KindAdd):
		b := addBlock(y.Size, y.Data)
		xr := addBlock(x.Size, x.Data)
		return &b, &xr, nil, nil

	case action(KindAdd, KindRemove):
		return composeAddVsRemoval(x.Size, x.Data, y.Size, nil, 0)

	case action(KindAdd, KindReplace):
		return composeAddVsRemoval(x.Size, x.Data, y.RemoveSize, y.Data, y.Size)

	case action(KindAdd, KindReplaceEq):
		return composeAddVsRemoval(x.Size, x.Data, y.Size, y.Data, y.Size)

	case action(KindRemove, KindSkip), action(KindRemove, KindAdd), action(KindRemove, KindRemove),
		action(KindRemove, KindReplace), action(KindRemove, KindReplaceEq):
		b := removeBlock(x.Size)
		return &b, nil, &y, nil

	case action(KindReplace, KindSkip), action(KindReplace, KindAdd), action(KindReplace, KindRemove),
		action(KindReplace, KindReplace), action(KindReplace, KindReplaceEq):
		b := removeBlock(x.RemoveSize)
		xr := addBlock(x.Size, x.Data)
		return &b, &xr, &y, nil

	case action(KindReplaceEq, KindSkip), action(KindReplaceEq, KindAdd), action(KindReplaceEq, KindRemove),
		action(KindReplaceEq, KindReplace), action(KindReplaceEq, KindReplaceEq):
		b := removeBlock(x.Size)
		xr := addBlock(x.Size, x.Data)
		return &b, &xr, &y, nil
	}

	return nil, nil, nil, nil
}

// composeSkipVsReplace handles Skip(a) | Replace(b,c) (and, with
// removeSize==c, Skip(a) | ReplaceEq(c)).
func composeSkipVsReplace(a, removeSize, size uint32, data io.Reader) (out, xRest, yRest *Block, err error) {
	switch cmpU32(a, removeSize) {
	case 0:
		b := removeBlock(a)
		yr := addBlock(size, data)
		return &b, nil, &yr, nil
	case 1:
		b := removeBlock(removeSize)
		xr := skipBlock(a - removeSize)
		yr := addBlock(size, data)
		return &b, &xr, &yr, nil
	default:
		b := removeBlock(a)
		yr := replaceBlock(removeSize-a, size, data)
		return &b, nil, &yr, nil
	}
}

// composeAddVsRemoval handles Add(a) | Remove(b) (removalData == nil) and
// Add(a) | Replace(b,c) / Add(a) | ReplaceEq(c) (removalData carries the
// replacement's added bytes, removalSize is its length).
func composeAddVsRemoval(a uint32, aData io.Reader, b uint32, removalData io.Reader, removalSize uint32) (out, xRest, yRest *Block, err error) {
	switch cmpU32(a, b) {
	case 0:
		if err := drainReader(aData, a); err != nil {
			return nil, nil, nil, err
		}
		if removalData == nil {
			return nil, nil, nil, nil
		}
		yr := addBlock(removalSize, removalData)
		return nil, nil, &yr, nil
	case 1:
		if err := drainReader(aData, b); err != nil {
			return nil, nil, nil, err
		}
		var outBlock *Block
		if removalData != nil {
			blk := addBlock(removalSize, removalData)
			outBlock = &blk
		}
		xr := addBlock(a-b, aData)
		return outBlock, &xr, nil, nil
	default:
		if err := drainReader(aData, a); err != nil {
			return nil, nil, nil, err
		}
		if removalData == nil {
			yr := removeBlock(b - a)
			return nil, nil, &yr, nil
		}
		yr := replaceBlock(b-a, removalSize, removalData)
		return nil, nil, &yr, nil
	}
}
