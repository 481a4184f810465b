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

// Package bindiff computes, applies, and composes line-granular binary
// diffs between arbitrary byte streams.
//
// The package is a metaformat: it is agnostic to the enclosing file format.
// Callers supply an Adapter that breaks their byte stream into named,
// ordered leaves; bindiff hashes those leaves, computes a line-level change
// script with an off-the-shelf LCS algorithm, translates it into a
// byte-level stream of edit blocks, and serializes those blocks to a
// compact, self-delimiting wire format.
//
// Three operations make up the public surface: CreateDiff computes a diff
// between two adapters, ApplyDiff interprets a diff against a source
// reader, and CombineDiffs (or CombineDiffsVec, for more than two) composes
// sequential diffs into a single diff without materializing the
// intermediate byte stream.
//
// Unless otherwise informed clients should not assume implementations in
// this package are safe for parallel execution.
package bindiff
