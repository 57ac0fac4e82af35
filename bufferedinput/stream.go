// Copyright 2025 The columnio Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bufferedinput

import (
	"errors"
	"fmt"
	"io"

	"github.com/columnio/columnio/rangeio"
)

// ErrNotLoaded is returned when a deferred stream is read before the owning
// engine's Load call has materialized its range.
var ErrNotLoaded = errors.New("range not loaded")

// Stream is a sequential, restartable reader over one resolved byte range.
// Seek to the start to re-read. The backing bytes stay valid only until the
// owning engine's next Load call; a stream handed out in one batch is
// undefined to resolve after the next batch has loaded.
type Stream interface {
	io.ReadSeeker

	// Size returns the total length of the range in bytes.
	Size() int64
}

// arrayStream serves a range that is already resolved to a byte slice,
// either because the request was empty or because the range was covered by
// the published buffer index at enqueue time.
type arrayStream struct {
	data []byte
	pos  int64
}

func newArrayStream(data []byte) *arrayStream {
	return &arrayStream{data: data}
}

func (s *arrayStream) Read(p []byte) (int, error) {
	if s.pos >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.pos:])
	s.pos += int64(n)
	return n, nil
}

func (s *arrayStream) Seek(offset int64, whence int) (int64, error) {
	pos, err := seekPos(s.pos, int64(len(s.data)), offset, whence)
	if err != nil {
		return 0, err
	}
	s.pos = pos
	return pos, nil
}

func (s *arrayStream) Size() int64 {
	return int64(len(s.data))
}

// deferredStream carries the requested region and a back-reference to the
// engine. Resolution is a pure lookup against the engine's published buffer
// index, done lazily on first use, so the stream holds no bytes of its own
// until then.
type deferredStream struct {
	input    *BufferedInput
	region   rangeio.Region
	data     []byte
	resolved bool
	pos      int64
}

func (s *deferredStream) resolve() error {
	if s.resolved {
		return nil
	}
	data, ok, err := s.input.readInternal(s.region.Offset, s.region.Length)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: region (offset %d, length %d); call Load before reading", ErrNotLoaded, s.region.Offset, s.region.Length)
	}
	s.data = data
	s.resolved = true
	return nil
}

func (s *deferredStream) Read(p []byte) (int, error) {
	if err := s.resolve(); err != nil {
		return 0, err
	}
	if s.pos >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.pos:])
	s.pos += int64(n)
	return n, nil
}

func (s *deferredStream) Seek(offset int64, whence int) (int64, error) {
	pos, err := seekPos(s.pos, int64(s.region.Length), offset, whence)
	if err != nil {
		return 0, err
	}
	s.pos = pos
	return pos, nil
}

func (s *deferredStream) Size() int64 {
	return int64(s.region.Length)
}

func seekPos(cur, size, offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = cur + offset
	case io.SeekEnd:
		pos = size + offset
	default:
		return 0, fmt.Errorf("invalid seek whence: %d", whence)
	}
	if pos < 0 {
		return 0, fmt.Errorf("negative seek position: %d", pos)
	}
	return pos, nil
}
