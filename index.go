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
	"fmt"
	"strings"
)

// Entry is a single index tuple: a label, and the byte range it covers in
// an underlying reader. Labels may be hierarchical using "/" separators.
type Entry struct {
	Label string
	Start uint64
	Size  uint64
}

// Index is an ordered collection of Entry values with duplicate-label
// detection, as produced by an Adapter.
type Index struct {
	entries []Entry
	seen    map[string]bool
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{seen: map[string]bool{}}
}

// Insert appends a new entry. It returns ErrDuplicateLabel if label has
// already been inserted.
func (ix *Index) Insert(label string, start, size uint64) error {
	if ix.seen[label] {
		return fmt.Errorf("%w: %q", ErrDuplicateLabel, label)
	}
	ix.seen[label] = true
	ix.entries = append(ix.entries, Entry{Label: label, Start: start, Size: size})
	return nil
}

// insertUnchecked appends a new entry, assuming the caller has already
// guaranteed label uniqueness (used internally by Leaves, which derives
// entries from an index already known to hold unique labels).
func (ix *Index) insertUnchecked(label string, start, size uint64) {
	ix.seen[label] = true
	ix.entries = append(ix.entries, Entry{Label: label, Start: start, Size: size})
}

// Has reports whether label is present.
func (ix *Index) Has(label string) bool {
	return ix.seen[label]
}

// Get returns the entry for label, if present.
func (ix *Index) Get(label string) (Entry, bool) {
	for _, e := range ix.entries {
		if e.Label == label {
			return e, true
		}
	}
	return Entry{}, false
}

// Entries returns the index's entries in insertion order. The returned
// slice must not be mutated.
func (ix *Index) Entries() []Entry {
	return ix.entries
}

// Len returns the number of entries.
func (ix *Index) Len() int {
	return len(ix.entries)
}

func parentLabel(label string) string {
	i := strings.LastIndex(label, "/")
	if i < 0 {
		return ""
	}
	return label[:i]
}

// Leaves derives the leaves-only view: for each maximal chain of
// ancestor/descendant labels (parent path prefixes, separated by "/"),
// only the deepest label survives. Entries with no ancestor/descendant
// relationship to any other entry pass through unchanged. A label is
// dropped when a later entry lies beneath it; an ancestor inserted after its
// descendants is kept. The result preserves the order in which each
// surviving label was last encountered.
func (ix *Index) Leaves() *Index {
	var order []string
	pos := map[string]int{}
	for _, e := range ix.entries {
		for parent := parentLabel(e.Label); parent != ""; parent = parentLabel(parent) {
			if i, ok := pos[parent]; ok {
				order = append(order[:i], order[i+1:]...)
				delete(pos, parent)
				for label, p := range pos {
					if p > i {
						pos[label] = p - 1
					}
				}
			}
		}
		pos[e.Label] = len(order)
		order = append(order, e.Label)
	}

	out := NewIndex()
	for _, label := range order {
		e, _ := ix.Get(label)
		out.insertUnchecked(e.Label, e.Start, e.Size)
	}
	return out
}
