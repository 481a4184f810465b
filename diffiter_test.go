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
	"testing"
)

func mustCreateDiff(t *testing.T, original, edited Adapter) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := CreateDiff(original, edited, &buf); err != nil {
		t.Fatalf("CreateDiff() error = %v", err)
	}
	return buf.Bytes()
}

func mustApply(t *testing.T, source, diff []byte) []byte {
	t.Helper()
	var out bytes.Buffer
	if err := ApplyDiff(bytes.NewReader(source), bytes.NewReader(diff), &out); err != nil {
		t.Fatalf("ApplyDiff() error = %v", err)
	}
	return out.Bytes()
}

func TestCreateDiffThenApplyRoundTrip(t *testing.T) {
	cases := map[string]struct {
		original, edited string
	}{
		"append line": {
			original: "one\ntwo\n",
			edited:   "one\ntwo\nthree\n",
		},
		"remove line": {
			original: "one\ntwo\nthree\n",
			edited:   "one\nthree\n",
		},
		"replace line": {
			original: "one\ntwo\nthree\n",
			edited:   "one\nTWO\nthree\n",
		},
		"identical": {
			original: "same\ncontent\n",
			edited:   "same\ncontent\n",
		},
		"both empty": {
			original: "",
			edited:   "",
		},
		"empty to populated": {
			original: "",
			edited:   "new\nlines\n",
		},
		"populated to empty": {
			original: "old\nlines\n",
			edited:   "",
		},
		"reorder": {
			original: "a\nb\nc\n",
			edited:   "b\na\nc\n",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			original := lineAdapterOf(t, tc.original)
			edited := lineAdapterOf(t, tc.edited)

			diffBytes := mustCreateDiff(t, original, edited)
			got := mustApply(t, []byte(tc.original), diffBytes)
			if string(got) != tc.edited {
				t.Errorf("round trip = %q, want %q", got, tc.edited)
			}
		})
	}
}

// lineAdapter is an in-package stand-in for textfile.TextFile (which
// depends on this package, so can't be imported here), indexing each
// '\n'-terminated line as a flat leaf.
type lineAdapter struct {
	*bytes.Reader
	ix *Index
}

func lineAdapterOf(t *testing.T, content string) *lineAdapter {
	t.Helper()
	data := []byte(content)
	ix := NewIndex()
	var start uint64
	n := 0
	for start < uint64(len(data)) {
		rest := data[start:]
		nl := bytes.IndexByte(rest, '\n')
		var size uint64
		if nl == -1 {
			size = uint64(len(rest))
		} else {
			size = uint64(nl + 1)
		}
		if err := ix.Insert(lineLabel(n), start, size); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		start += size
		n++
	}
	return &lineAdapter{Reader: bytes.NewReader(data), ix: ix}
}

func (l *lineAdapter) Indexes() (*Index, error) { return l.ix, nil }

func lineLabel(n int) string {
	const prefix = "line_"
	digits := []byte{}
	if n == 0 {
		digits = []byte{'0'}
	}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return prefix + string(digits)
}
