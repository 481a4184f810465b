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
	"errors"
	"io"
	"testing"
)

func TestEncodeBlockAdd(t *testing.T) {
	b := addBlock(6, bytes.NewReader([]byte{1, 2, 3, 4, 5, 6}))
	var buf bytes.Buffer
	if err := EncodeBlock(&buf, b); err != nil {
		t.Fatalf("EncodeBlock() error = %v", err)
	}
	want := []byte{
		0x00, 0x01, // opcode: Add
		0x00, 0x00, 0x00, 0x06, // size
		1, 2, 3, 4, 5, 6, // data
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("EncodeBlock() = %x, want %x", buf.Bytes(), want)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	cases := map[string]Block{
		"skip":       skipBlock(16),
		"remove":     removeBlock(8),
		"add":        addBlock(3, bytes.NewReader([]byte{9, 8, 7})),
		"replace":    replaceBlock(5, 2, bytes.NewReader([]byte{1, 2})),
		"replace_eq": replaceEqBlock(4, bytes.NewReader([]byte{1, 2, 3, 4})),
	}

	for name, b := range cases {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := EncodeBlock(&buf, b); err != nil {
				t.Fatalf("EncodeBlock() error = %v", err)
			}
			got, err := DecodeBlock(&buf)
			if err != nil {
				t.Fatalf("DecodeBlock() error = %v", err)
			}
			if got.Kind != b.Kind || got.Size != b.Size || got.RemoveSize != b.RemoveSize {
				t.Fatalf("DecodeBlock() = %+v, want fields matching %+v", got, b)
			}
			if got.Data != nil {
				data, err := io.ReadAll(got.Data)
				if err != nil {
					t.Fatalf("reading decoded data: %v", err)
				}
				want, _ := io.ReadAll(bytesOf(b))
				if !bytes.Equal(data, want) {
					t.Errorf("decoded data = %x, want %x", data, want)
				}
			}
		})
	}
}

// bytesOf returns a fresh copy of the payload used to build a test Block;
// b.Data itself has already been consumed by EncodeBlock.
func bytesOf(b Block) io.Reader {
	switch b.Kind {
	case KindAdd:
		return bytes.NewReader([]byte{9, 8, 7})
	case KindReplace:
		return bytes.NewReader([]byte{1, 2})
	case KindReplaceEq:
		return bytes.NewReader([]byte{1, 2, 3, 4})
	default:
		return bytes.NewReader(nil)
	}
}

func TestDecodeBlockCleanEOF(t *testing.T) {
	b, err := DecodeBlock(bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("DecodeBlock() error = %v, want nil", err)
	}
	if b != nil {
		t.Fatalf("DecodeBlock() = %+v, want nil", b)
	}
}

func TestDecodeBlockUnknownOpcode(t *testing.T) {
	_, err := DecodeBlock(bytes.NewReader([]byte{0x50, 0x53, 0, 0, 0, 0}))
	if !errors.Is(err, ErrCorruptDiff) {
		t.Fatalf("DecodeBlock() error = %v, want ErrCorruptDiff", err)
	}
}

func TestDecodeBlockTruncatedHeader(t *testing.T) {
	_, err := DecodeBlock(bytes.NewReader([]byte{0x00}))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("DecodeBlock() error = %v, want io.ErrUnexpectedEOF", err)
	}
}
