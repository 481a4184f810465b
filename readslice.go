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
	"io"
	"sync"
)

// sharedHandle guards a single underlying reader so that multiple
// ReadSlice clones may read from it without racing. The locking discipline
// is "lock across a seek+read pair": every read first seeks to its
// absolute position while holding the lock.
type sharedHandle struct {
	mu sync.Mutex
	r  io.ReadSeeker
}

// segment is a (shared reader, absolute start, length, cursor) view over
// part of an underlying reader's byte range.
type segment struct {
	shared *sharedHandle
	start  int64
	length int64
	cursor int64
}

func newSegment(r io.ReadSeeker) (segment, error) {
	cur, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return segment{}, fmt.Errorf("%w: sizing read-slice: %w", errBindiff, err)
	}
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return segment{}, fmt.Errorf("%w: sizing read-slice: %w", errBindiff, err)
	}
	if _, err := r.Seek(cur, io.SeekStart); err != nil {
		return segment{}, fmt.Errorf("%w: sizing read-slice: %w", errBindiff, err)
	}
	return segment{shared: &sharedHandle{r: r}, start: cur, length: end - cur}, nil
}

func (s *segment) remaining() int64 {
	return s.length - s.cursor
}

func (s *segment) read(p []byte) (int, error) {
	remaining := s.remaining()
	if remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	s.shared.mu.Lock()
	defer s.shared.mu.Unlock()

	if _, err := s.shared.r.Seek(s.start+s.cursor, io.SeekStart); err != nil {
		return 0, err
	}
	n, err := s.shared.r.Read(p)
	s.cursor += int64(n)
	return n, err
}

// ReadSlice is a composable, cheaply-cloneable, seekable view over a
// concatenation of segments. Clones share ownership of each underlying
// reader and may coexist without data races, but a ReadSlice value itself
// is not safe for concurrent use.
type ReadSlice struct {
	segments []segment
	size     int64
}

// NewReadSlice anchors a view at r's current position and sizes it via
// seek-to-end.
func NewReadSlice(r io.ReadSeeker) (*ReadSlice, error) {
	seg, err := newSegment(r)
	if err != nil {
		return nil, err
	}
	return &ReadSlice{segments: []segment{seg}, size: seg.length}, nil
}

// Size returns the declared byte length of the view.
func (s *ReadSlice) Size() int64 {
	return s.size
}

// Position returns the number of bytes consumed so far.
func (s *ReadSlice) Position() int64 {
	var pos int64
	for _, seg := range s.segments {
		if seg.cursor < seg.length {
			pos += seg.cursor
			break
		}
		pos += seg.length
	}
	return pos
}

// Offset returns a view that discards the first n bytes of the
// concatenation. The returned view's cursor starts at 0.
func (s *ReadSlice) Offset(n int64) *ReadSlice {
	if n <= 0 {
		out := s.clone()
		for i := range out.segments {
			out.segments[i].cursor = 0
		}
		return out
	}
	var out []segment
	remaining := n
	for _, seg := range s.segments {
		if remaining >= seg.length {
			remaining -= seg.length
			continue
		}
		trimmed := seg
		trimmed.start += remaining
		trimmed.length -= remaining
		trimmed.cursor = 0
		out = append(out, trimmed)
		remaining = 0
	}
	return &ReadSlice{segments: out, size: s.size - n}
}

// Take returns a view of the first n bytes of the concatenation.
func (s *ReadSlice) Take(n int64) *ReadSlice {
	var out []segment
	remaining := n
	for _, seg := range s.segments {
		if remaining <= 0 {
			break
		}
		trimmed := seg
		if trimmed.length > remaining {
			trimmed.length = remaining
		}
		if trimmed.cursor > trimmed.length {
			trimmed.cursor = trimmed.length
		}
		out = append(out, trimmed)
		remaining -= trimmed.length
	}
	size := n
	if size > s.size {
		size = s.size
	}
	return &ReadSlice{segments: out, size: size}
}

// TakeFromCurrent returns Take(n) applied after discarding bytes already
// read.
func (s *ReadSlice) TakeFromCurrent(n int64) *ReadSlice {
	return s.Offset(s.Position()).Take(n)
}

// Chain appends another readable segment; the resulting view's size is the
// sum of both.
func (s *ReadSlice) Chain(r io.ReadSeeker) (*ReadSlice, error) {
	seg, err := newSegment(r)
	if err != nil {
		return nil, err
	}
	out := s.clone()
	out.segments = append(out.segments, seg)
	out.size += seg.length
	return out, nil
}

func (s *ReadSlice) clone() *ReadSlice {
	segments := make([]segment, len(s.segments))
	copy(segments, s.segments)
	return &ReadSlice{segments: segments, size: s.size}
}

// Read implements io.Reader. It reads from successive segments until p is
// filled, the view is exhausted, or a segment returns fewer bytes than it
// still holds.
func (s *ReadSlice) Read(p []byte) (int, error) {
	var read int
	for i := range s.segments {
		if read >= len(p) {
			break
		}
		seg := &s.segments[i]
		if seg.remaining() <= 0 {
			continue
		}
		n, err := seg.read(p[read:])
		read += n
		if err != nil && err != io.EOF {
			return read, err
		}
		if seg.remaining() > 0 {
			// Partial read on a non-exhausted segment; stop here rather
			// than spin, the caller may retry.
			break
		}
	}
	if read == 0 {
		return 0, io.EOF
	}
	return read, nil
}

// Seek implements io.Seeker. Offsets translate to the containing segment's
// coordinate frame.
func (s *ReadSlice) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = s.Position() + offset
	case io.SeekEnd:
		target = s.size + offset
	default:
		return 0, fmt.Errorf("%w: invalid whence %d", errBindiff, whence)
	}
	if target < 0 {
		return 0, fmt.Errorf("%w: negative seek position", errBindiff)
	}

	remaining := target
	for i := range s.segments {
		seg := &s.segments[i]
		switch {
		case remaining <= 0:
			seg.cursor = 0
		case remaining >= seg.length:
			seg.cursor = seg.length
			remaining -= seg.length
		default:
			seg.cursor = remaining
			remaining = 0
		}
	}
	return target, nil
}
