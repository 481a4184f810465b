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
	"encoding/binary"
	"errors"
	"io"
)

// ApplyDiff interprets diff (in the wire format produced by CreateDiff)
// against source, writing the reconstructed bytes to output. It fails with
// io.ErrUnexpectedEOF on truncated input, or ErrCorruptDiff if a block
// header's opcode is outside {0..4}.
func ApplyDiff(source, diff io.Reader, output io.Writer) error {
	s := &cappedReader{r: source}
	d := &cappedReader{r: diff}
	w := bufio.NewWriterSize(output, 64*1024)

	for {
		var hdr [2]byte
		n, err := io.ReadFull(d, hdr[:])
		if n == 0 && errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return coerceUnexpectedEOF(err)
		}
		op := binary.BigEndian.Uint16(hdr[:])

		switch op {
		case opSkip:
			size, err := readUint32(d)
			if err != nil {
				return err
			}
			if _, err := io.CopyN(w, s, int64(size)); err != nil {
				return coerceUnexpectedEOF(err)
			}
		case opAdd:
			size, err := readUint32(d)
			if err != nil {
				return err
			}
			if _, err := io.CopyN(w, d, int64(size)); err != nil {
				return coerceUnexpectedEOF(err)
			}
		case opRemove:
			size, err := readUint32(d)
			if err != nil {
				return err
			}
			if _, err := io.CopyN(io.Discard, s, int64(size)); err != nil {
				return coerceUnexpectedEOF(err)
			}
		case opReplace:
			removeSize, err := readUint32(d)
			if err != nil {
				return err
			}
			addSize, err := readUint32(d)
			if err != nil {
				return err
			}
			if _, err := io.CopyN(io.Discard, s, int64(removeSize)); err != nil {
				return coerceUnexpectedEOF(err)
			}
			if _, err := io.CopyN(w, d, int64(addSize)); err != nil {
				return coerceUnexpectedEOF(err)
			}
		case opReplaceEq:
			size, err := readUint32(d)
			if err != nil {
				return err
			}
			if _, err := io.CopyN(io.Discard, s, int64(size)); err != nil {
				return coerceUnexpectedEOF(err)
			}
			if _, err := io.CopyN(w, d, int64(size)); err != nil {
				return coerceUnexpectedEOF(err)
			}
		default:
			return ErrCorruptDiff
		}
	}

	return w.Flush()
}
