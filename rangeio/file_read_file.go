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

	"github.com/columnio/columnio/internal/logger"
	"golang.org/x/net/context"
	"golang.org/x/sync/errgroup"
)

// FileReadFile serves ranged reads from an *os.File using pread. ReadV fans
// the per-region reads out over a bounded errgroup when readVParallelism is
// greater than one, otherwise it reads the regions one by one.
type FileReadFile struct {
	f                *os.File
	size             int64
	readVParallelism int
}

// NewFileReadFile wraps f. The caller keeps ownership of f until Close is
// called on the returned FileReadFile. readVParallelism <= 1 makes ReadV
// fully sequential.
func NewFileReadFile(f *os.File, readVParallelism int) (*FileReadFile, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %q: %w", f.Name(), err)
	}
	return &FileReadFile{
		f:                f,
		size:             fi.Size(),
		readVParallelism: readVParallelism,
	}, nil
}

func (rf *FileReadFile) ReadAt(ctx context.Context, p []byte, off int64, kind ReadKind) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if off < 0 || off+int64(len(p)) > rf.size {
		return fmt.Errorf("read [%d, %d) out of bounds for %q of size %d", off, off+int64(len(p)), rf.f.Name(), rf.size)
	}
	n, err := rf.f.ReadAt(p, off)
	if err != nil {
		return fmt.Errorf("read %d bytes at offset %d (%s): %w", len(p), off, kind, err)
	}
	if n != len(p) {
		return fmt.Errorf("short read at offset %d (%s): got %d bytes, want %d", off, kind, n, len(p))
	}
	return nil
}

func (rf *FileReadFile) ReadV(ctx context.Context, regions []Region, bufs [][]byte, kind ReadKind) error {
	if len(regions) != len(bufs) {
		return fmt.Errorf("vectorized read: %d regions but %d buffers", len(regions), len(bufs))
	}
	if rf.readVParallelism <= 1 || len(regions) == 1 {
		for i, r := range regions {
			if err := rf.ReadAt(ctx, bufs[i], int64(r.Offset), kind); err != nil {
				return err
			}
		}
		return nil
	}

	logger.Tracef("vectorized read of %d regions with parallelism %d", len(regions), rf.readVParallelism)
	var eg errgroup.Group
	eg.SetLimit(rf.readVParallelism)
	for i, r := range regions {
		buf, off := bufs[i], int64(r.Offset)
		eg.Go(func() error {
			return rf.ReadAt(ctx, buf, off, kind)
		})
	}
	return eg.Wait()
}

func (rf *FileReadFile) Size() int64 {
	return rf.size
}

func (rf *FileReadFile) Close() error {
	return rf.f.Close()
}
