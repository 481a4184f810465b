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

import "io"

// maxZeroReads is the number of consecutive zero-byte, non-error reads
// cappedReader tolerates before giving up with io.ErrUnexpectedEOF. This
// bounds the retry loop against a pathological reader that returns (0, nil)
// forever, which io.ReadFull/io.CopyN alone would spin on indefinitely.
const maxZeroReads = 10

// cappedReader wraps a reader with the read-retry policy shared by the
// apply and combine engines: zero-byte reads are retried transparently,
// short reads are returned as they come for io.ReadFull/io.CopyN to
// continue, and after ten consecutive zero-byte reads the wrapper fails with
// io.ErrUnexpectedEOF instead of looping forever.
type cappedReader struct {
	r    io.Reader
	zero int
}

func (c *cappedReader) Read(p []byte) (int, error) {
	for {
		n, err := c.r.Read(p)
		if n > 0 {
			c.zero = 0
			return n, err
		}
		if err != nil {
			return n, err
		}
		c.zero++
		if c.zero >= maxZeroReads {
			return 0, io.ErrUnexpectedEOF
		}
	}
}
