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

import "errors"

var errBindiff = errors.New("bindiff")

// ErrDuplicateLabel is returned by Index.Insert when a label is already
// present in the index.
var ErrDuplicateLabel = errors.New("duplicate index label")

// ErrCreateDiff wraps failures encountered while computing a diff, such as
// an adapter's Indexes method failing or a leaf failing to hash.
var ErrCreateDiff = errors.New("Error while creating DiffIterator")

// ErrCorruptDiff is returned by ApplyDiff and the wire decoder when a block
// header's opcode is outside the known range.
var ErrCorruptDiff = errors.New("Unknown Action: possibly corrupted file or diff")

// ErrTooFewDiffs is returned by CombineDiffsVec when fewer than two diffs
// are supplied.
var ErrTooFewDiffs = errors.New("Number of diff must be greater than one")
