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
	"encoding/binary"
	"errors"
	"io"
)

// Wire opcodes. All integers are big-endian; there is no file header,
// footer, magic number, or version.
const (
	opSkip      uint16 = 0
	opAdd       uint16 = 1
	opRemove    uint16 = 2
	opReplace   uint16 = 3
	opReplaceEq uint16 = 4
)

// EncodeBlock writes b's wire representation to w: a header, then (for
// Add, Replace, and ReplaceEq) exactly b.Size bytes of payload copied from
// b.Data.
func EncodeBlock(w io.Writer, b Block) error {
	switch b.Kind {
	case KindSkip:
		return writeHeader(w, opSkip, b.Size)
	case KindRemove:
		return writeHeader(w, opRemove, b.Size)
	case KindAdd:
		if err := writeHeader(w, opAdd, b.Size); err != nil {
			return err
		}
		_, err := io.CopyN(w, b.Data, int64(b.Size))
		return err
	case KindReplaceEq:
		if err := writeHeader(w, opReplaceEq, b.Size); err != nil {
			return err
		}
		_, err := io.CopyN(w, b.Data, int64(b.Size))
		return err
	case KindReplace:
		if err := writeHeader(w, opReplace, b.RemoveSize); err != nil {
			return err
		}
		if err := writeUint32(w, b.Size); err != nil {
			return err
		}
		_, err := io.CopyN(w, b.Data, int64(b.Size))
		return err
	}
	return errors.New("bindiff: encode: unknown block kind")
}

func writeHeader(w io.Writer, op uint16, size uint32) error {
	var buf [6]byte
	binary.BigEndian.PutUint16(buf[0:2], op)
	binary.BigEndian.PutUint32(buf[2:6], size)
	_, err := w.Write(buf[:])
	return err
}

func writeUint32(w io.Writer, n uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], n)
	_, err := w.Write(buf[:])
	return err
}

// DecodeBlock reads one block's header from r and returns a Block whose
// Data (for Add, Replace, ReplaceEq) is bounded to exactly its declared
// size. The caller must fully consume Data before decoding the next block
// from the same stream. A clean end of stream (no bytes read at a block
// boundary) returns (nil, nil). A truncated header returns
// io.ErrUnexpectedEOF. The payload is not read here, so a payload cut short
// shows up only as Data ending before its declared size. An opcode outside
// {0..4} returns ErrCorruptDiff.
func DecodeBlock(r io.Reader) (*Block, error) {
	cr, ok := r.(*cappedReader)
	if !ok {
		cr = &cappedReader{r: r}
	}

	var hdr [2]byte
	n, err := io.ReadFull(cr, hdr[:])
	if n == 0 && errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, coerceUnexpectedEOF(err)
	}
	op := binary.BigEndian.Uint16(hdr[:])

	switch op {
	case opSkip:
		size, err := readUint32(cr)
		if err != nil {
			return nil, err
		}
		b := skipBlock(size)
		return &b, nil
	case opRemove:
		size, err := readUint32(cr)
		if err != nil {
			return nil, err
		}
		b := removeBlock(size)
		return &b, nil
	case opAdd:
		size, err := readUint32(cr)
		if err != nil {
			return nil, err
		}
		b := addBlock(size, io.LimitReader(cr, int64(size)))
		return &b, nil
	case opReplaceEq:
		size, err := readUint32(cr)
		if err != nil {
			return nil, err
		}
		b := replaceEqBlock(size, io.LimitReader(cr, int64(size)))
		return &b, nil
	case opReplace:
		removeSize, err := readUint32(cr)
		if err != nil {
			return nil, err
		}
		size, err := readUint32(cr)
		if err != nil {
			return nil, err
		}
		b := replaceBlock(removeSize, size, io.LimitReader(cr, int64(size)))
		return &b, nil
	default:
		return nil, ErrCorruptDiff
	}
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, coerceUnexpectedEOF(err)
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func coerceUnexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
