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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestIndexInsertDuplicate(t *testing.T) {
	ix := NewIndex()
	if err := ix.Insert("a", 0, 4); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := ix.Insert("a", 4, 4); !errors.Is(err, ErrDuplicateLabel) {
		t.Fatalf("Insert() error = %v, want ErrDuplicateLabel", err)
	}
}

func TestIndexLeavesFlat(t *testing.T) {
	ix := NewIndex()
	mustInsert(t, ix, "line_0", 0, 4)
	mustInsert(t, ix, "line_1", 4, 4)
	mustInsert(t, ix, "line_2", 8, 4)

	got := ix.Leaves().Entries()
	want := []Entry{
		{Label: "line_0", Start: 0, Size: 4},
		{Label: "line_1", Start: 4, Size: 4},
		{Label: "line_2", Start: 8, Size: 4},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateComparable()); diff != "" {
		t.Errorf("Leaves() mismatch (-want +got):\n%s", diff)
	}
}

func TestIndexLeavesHierarchical(t *testing.T) {
	ix := NewIndex()
	mustInsert(t, ix, "doc", 0, 20)
	mustInsert(t, ix, "doc/para_0", 0, 10)
	mustInsert(t, ix, "doc/para_0/line_0", 0, 5)
	mustInsert(t, ix, "doc/para_0/line_1", 5, 5)
	mustInsert(t, ix, "doc/para_1", 10, 10)

	got := ix.Leaves().Entries()
	want := []Entry{
		{Label: "doc/para_0/line_0", Start: 0, Size: 5},
		{Label: "doc/para_0/line_1", Start: 5, Size: 5},
		{Label: "doc/para_1", Start: 10, Size: 10},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateComparable()); diff != "" {
		t.Errorf("Leaves() mismatch (-want +got):\n%s", diff)
	}
}

func TestIndexLeavesUnrelatedEntriesPassThrough(t *testing.T) {
	ix := NewIndex()
	mustInsert(t, ix, "a", 0, 4)
	mustInsert(t, ix, "b", 4, 4)
	mustInsert(t, ix, "b/child", 4, 4)

	got := ix.Leaves().Entries()
	want := []Entry{
		{Label: "a", Start: 0, Size: 4},
		{Label: "b/child", Start: 4, Size: 4},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateComparable()); diff != "" {
		t.Errorf("Leaves() mismatch (-want +got):\n%s", diff)
	}
}

func mustInsert(t *testing.T, ix *Index, label string, start, size uint64) {
	t.Helper()
	if err := ix.Insert(label, start, size); err != nil {
		t.Fatalf("Insert(%q) error = %v", label, err)
	}
}
