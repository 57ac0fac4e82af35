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

package rangeio

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
	"golang.org/x/net/context"
)

// MmapReadFile serves ranged reads by copying out of a read-only memory
// mapping of the file. Callers always own the buffers they pass in; the
// mapping itself is never handed out.
type MmapReadFile struct {
	f    *os.File
	m    mmap.MMap
	size int64
}

// NewMmapReadFile opens and maps path read-only. An empty file is valid and
// simply has no readable ranges.
func NewMmapReadFile(path string) (*MmapReadFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %q: %w", path, err)
	}
	var m mmap.MMap
	if fi.Size() > 0 {
		m, err = mmap.Map(f, mmap.RDONLY, 0)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("mmap %q: %w", path, err)
		}
	}
	return &MmapReadFile{f: f, m: m, size: fi.Size()}, nil
}

func (rf *MmapReadFile) ReadAt(ctx context.Context, p []byte, off int64, kind ReadKind) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	end := off + int64(len(p))
	if off < 0 || end > rf.size {
		return fmt.Errorf("read [%d, %d) out of bounds for %q of size %d", off, end, rf.f.Name(), rf.size)
	}
	copy(p, rf.m[off:end])
	return nil
}

func (rf *MmapReadFile) ReadV(ctx context.Context, regions []Region, bufs [][]byte, kind ReadKind) error {
	if len(regions) != len(bufs) {
		return fmt.Errorf("vectorized read: %d regions but %d buffers", len(regions), len(bufs))
	}
	for i, r := range regions {
		if err := rf.ReadAt(ctx, bufs[i], int64(r.Offset), kind); err != nil {
			return err
		}
	}
	return nil
}

func (rf *MmapReadFile) Size() int64 {
	return rf.size
}

func (rf *MmapReadFile) Close() error {
	if rf.m != nil {
		if err := rf.m.Unmap(); err != nil {
			rf.f.Close()
			return fmt.Errorf("unmap %q: %w", rf.f.Name(), err)
		}
		rf.m = nil
	}
	return rf.f.Close()
}
