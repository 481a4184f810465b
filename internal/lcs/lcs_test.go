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

package lcs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// reconstruct replays an EditScript against a and b, checking that Same
// runs match a's and b's elements identically and rebuilding b from a's
// Same elements and b's Insert elements.
func reconstruct(t *testing.T, a, b []string, edits EditScript) []string {
	t.Helper()
	var ia, ib int
	var out []string
	for _, e := range edits {
		switch e.Op {
		case Same:
			for i := 0; i < e.Len; i++ {
				if a[ia] != b[ib] {
					t.Fatalf("Same run element mismatch: a[%d]=%q b[%d]=%q", ia, a[ia], ib, b[ib])
				}
				out = append(out, a[ia])
				ia++
				ib++
			}
		case Delete:
			ia += e.Len
		case Insert:
			for i := 0; i < e.Len; i++ {
				out = append(out, b[ib])
				ib++
			}
		}
	}
	if ia != len(a) || ib != len(b) {
		t.Fatalf("edit script did not consume both sequences: ia=%d len(a)=%d ib=%d len(b)=%d", ia, len(a), ib, len(b))
	}
	return out
}

func TestDiffReconstructs(t *testing.T) {
	cases := map[string]struct {
		a, b []string
	}{
		"empty":        {a: nil, b: nil},
		"identical":    {a: []string{"a", "b", "c"}, b: []string{"a", "b", "c"}},
		"all deleted":  {a: []string{"a", "b"}, b: nil},
		"all inserted": {a: nil, b: []string{"a", "b"}},
		"middle replaced": {
			a: []string{"a", "b", "c", "d"},
			b: []string{"a", "x", "y", "d"},
		},
		"interleaved": {
			a: []string{"a", "b", "c", "d", "e"},
			b: []string{"z", "b", "d", "e", "w"},
		},
		"fully disjoint": {
			a: []string{"a", "b"},
			b: []string{"c", "d"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			edits := Diff(tc.a, tc.b)
			got := reconstruct(t, tc.a, tc.b, edits)
			if diff := cmp.Diff(tc.b, got); diff != "" {
				t.Errorf("reconstruction mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiffNoAdjacentSameRunOp(t *testing.T) {
	edits := Diff([]string{"a", "b", "c"}, []string{"a", "x", "c"})
	for i := 1; i < len(edits); i++ {
		if edits[i].Op == edits[i-1].Op {
			t.Fatalf("adjacent runs share Op %v at index %d: %v", edits[i].Op, i, edits)
		}
	}
}

func TestDiffIdenticalIsSingleSameRun(t *testing.T) {
	got := Diff([]string{"a", "b", "c"}, []string{"a", "b", "c"})
	want := EditScript{{Op: Same, Len: 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Diff mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffEmptyIsEmpty(t *testing.T) {
	got := Diff[string](nil, nil)
	if len(got) != 0 {
		t.Errorf("Diff(nil, nil) = %v, want empty", got)
	}
}
