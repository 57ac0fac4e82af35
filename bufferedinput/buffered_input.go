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

// Package bufferedinput batches many small byte-range requests into a
// minimal set of physical reads. Callers enqueue regions, call Load once to
// materialize the batch, and resolve the returned streams against the merged
// buffers.
package bufferedinput

import (
	"fmt"
	"sort"
	"time"

	"github.com/columnio/columnio/internal/block"
	"github.com/columnio/columnio/internal/logger"
	"github.com/columnio/columnio/metrics"
	"github.com/columnio/columnio/parallel"
	"github.com/columnio/columnio/rangeio"
	"github.com/columnio/columnio/workerpool"
	"github.com/google/uuid"
	"golang.org/x/net/context"
	"golang.org/x/sync/semaphore"
)

// BufferedInput coalesces enqueued regions and serves point lookups against
// the buffers of the most recent Load.
//
// Not safe for concurrent Enqueue/Load; it is built for single-writer batch
// usage. The physical reads inside one Load may still be parallelized when
// an executor is configured.
type BufferedInput struct {
	input        rangeio.ReadFile
	config       *Config
	executor     workerpool.WorkerPool
	metricHandle metrics.MetricHandle
	arena        *block.Arena

	// Pending regions, drained by the next Load.
	regions []rangeio.Region

	// Buffer index published by the most recent Load: offsets is strictly
	// ascending, buffers[i] holds the merged region starting at offsets[i].
	offsets []uint64
	buffers [][]byte
}

// New creates an engine over input. budget optionally bounds the total
// buffer bytes across engines sharing it; executor is only needed for
// parallel scalar loads; a nil metricHandle discards stats.
func New(input rangeio.ReadFile, config *Config, budget *semaphore.Weighted, executor workerpool.WorkerPool, metricHandle metrics.MetricHandle) *BufferedInput {
	if config == nil {
		config = DefaultConfig()
	}
	if metricHandle == nil {
		metricHandle = metrics.NewNoopMetrics()
	}
	return &BufferedInput{
		input:        input,
		config:       config,
		executor:     executor,
		metricHandle: metricHandle,
		arena:        block.NewArena(budget),
	}
}

// Enqueue registers interest in region and returns a stream over it. A
// zero-length region yields an immediate empty stream. A region fully
// covered by the buffers of the previous Load is served from memory with no
// new I/O. Anything else joins the pending queue and comes back as a
// deferred stream that must only be read after the next Load.
func (bi *BufferedInput) Enqueue(region rangeio.Region) Stream {
	if region.Length == 0 {
		return newArrayStream(nil)
	}

	// Already in buffer, such as metadata re-reads.
	if data, ok, err := bi.readInternal(region.Offset, region.Length); err == nil && ok {
		bi.metricHandle.BufferedLookupCount(1, true)
		return newArrayStream(data)
	}
	bi.metricHandle.BufferedLookupCount(1, false)

	bi.regions = append(bi.regions, region)
	bi.metricHandle.BufferedReadRegionCount(1)
	return &deferredStream{input: bi, region: region}
}

// Load materializes every pending region: it merges the queue, performs the
// physical reads, and publishes the resulting buffer index. A no-op when
// nothing is pending. Any I/O failure propagates unmodified and leaves the
// current batch undefined; the previous index is already gone by then.
func (bi *BufferedInput) Load(ctx context.Context, kind rangeio.ReadKind) error {
	if len(bi.regions) == 0 {
		return nil
	}
	start := time.Now()
	batchID := uuid.New()

	// Invalidate the previous batch before anything can fail.
	bi.offsets = bi.offsets[:0]
	bi.buffers = bi.buffers[:0]
	bi.arena.Clear()

	merged, err := mergeRegions(bi.regions, bi.config.MaxMergeDistance, bi.metricHandle)
	if err != nil {
		return err
	}

	if cap(bi.offsets) < len(merged) {
		bi.offsets = make([]uint64, 0, len(merged))
		bi.buffers = make([][]byte, 0, len(merged))
	}

	// Allocate and publish every merged region's buffer up front so that
	// parallel reads only touch disjoint, already-placed slots.
	bufs := make([][]byte, len(merged))
	var totalBytes uint64
	for i, r := range merged {
		buf, err := bi.arena.Allocate(r.Length)
		if err != nil {
			return fmt.Errorf("allocating %d bytes for merged region at offset %d: %w", r.Length, r.Offset, err)
		}
		bufs[i] = buf
		bi.offsets = append(bi.offsets, r.Offset)
		bi.buffers = append(bi.buffers, buf)
		totalBytes += r.Length
	}

	readType, err := bi.readRegions(ctx, merged, bufs, kind)
	if err != nil {
		return err
	}
	bi.metricHandle.ReadCount(int64(len(merged)), readType)
	bi.metricHandle.ReadBytesCount(int64(totalBytes))

	enqueued := len(bi.regions)
	bi.regions = bi.regions[:0]

	bi.metricHandle.LoadLatency(ctx, time.Since(start))
	logger.Debugf("load %s (%s): %d regions merged into %d %s reads, %d bytes", batchID, kind, enqueued, len(merged), readType, totalBytes)
	return nil
}

// readRegions performs the physical reads for the merged regions and
// reports which read mode was used.
func (bi *BufferedInput) readRegions(ctx context.Context, merged []rangeio.Region, bufs [][]byte, kind rangeio.ReadKind) (string, error) {
	if bi.config.VectorizedRead {
		if err := bi.input.ReadV(ctx, merged, bufs, kind); err != nil {
			return metrics.ReadTypeVectorized, fmt.Errorf("vectorized read of %d regions: %w", len(merged), err)
		}
		return metrics.ReadTypeVectorized, nil
	}

	if bi.executor != nil && bi.config.LoadParallelism > 1 && len(merged) > 1 {
		pf, err := parallel.New(bi.executor, 0, uint64(len(merged)), uint64(bi.config.LoadParallelism))
		if err != nil {
			return metrics.ReadTypeParallel, err
		}
		err = pf.Execute(func(i uint64) error {
			return bi.input.ReadAt(ctx, bufs[i], int64(merged[i].Offset), kind)
		}, true)
		if err != nil {
			return metrics.ReadTypeParallel, fmt.Errorf("parallel read of %d regions: %w", len(merged), err)
		}
		return metrics.ReadTypeParallel, nil
	}

	for i, r := range merged {
		if err := bi.input.ReadAt(ctx, bufs[i], int64(r.Offset), kind); err != nil {
			return metrics.ReadTypeScalar, fmt.Errorf("read of region (offset %d, length %d): %w", r.Offset, r.Length, err)
		}
	}
	return metrics.ReadTypeScalar, nil
}

// readInternal answers a point query against the published buffer index: a
// binary search for the candidate buffer, then an exact containment check.
// The range is served only when one buffer fully covers it; partial
// coverage is a miss, never a partial result. A zero length request is a
// defined empty hit. The error return fires only on index corruption.
func (bi *BufferedInput) readInternal(offset, length uint64) ([]byte, bool, error) {
	if length == 0 {
		return []byte{}, true, nil
	}

	// First index whose offset exceeds the target.
	i := sort.Search(len(bi.offsets), func(i int) bool {
		return bi.offsets[i] > offset
	})
	if i == 0 {
		return nil, false, nil
	}

	idx := i - 1
	bufferOffset := bi.offsets[idx]
	buffer := bi.buffers[idx]
	if bufferOffset+uint64(len(buffer)) < offset+length {
		return nil, false, nil
	}

	if bufferOffset > offset {
		return nil, false, fmt.Errorf("buffer index corrupted: buffer offset %d exceeds requested offset %d", bufferOffset, offset)
	}
	readOffset := offset - bufferOffset
	if readOffset+length > uint64(len(buffer)) {
		return nil, false, fmt.Errorf("buffer index corrupted: read [%d, %d) escapes buffer of size %d at offset %d", readOffset, readOffset+length, len(buffer), bufferOffset)
	}
	return buffer[readOffset : readOffset+length], true, nil
}

// PendingRegions reports how many regions wait for the next Load.
func (bi *BufferedInput) PendingRegions() int {
	return len(bi.regions)
}

// IndexedRegions reports how many merged regions the current index holds.
func (bi *BufferedInput) IndexedRegions() int {
	return len(bi.offsets)
}
