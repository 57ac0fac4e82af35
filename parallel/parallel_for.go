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

// Package parallel provides a dispatch primitive that partitions an index
// range into contiguous chunks and runs a caller-supplied task per chunk or
// per index, either inline or on a worker pool, blocking or not.
package parallel

import (
	"fmt"

	"github.com/columnio/columnio/workerpool"
)

// IndexFunc is invoked once per index.
type IndexFunc func(i uint64) error

// RangeFunc is invoked once per contiguous chunk [begin, end).
type RangeFunc func(begin, end uint64) error

// ParallelFor partitions [from, to) into at most parallelismFactor chunks
// and distributes them over an executor. Each index is visited exactly once;
// within a chunk indices ascend, between chunks there is no ordering.
type ParallelFor struct {
	executor          workerpool.WorkerPool
	ownsExecutor      bool
	from              uint64
	to                uint64
	parallelismFactor uint64
}

// New creates a ParallelFor borrowing the executor: the caller must keep it
// alive and started until every submitted chunk has completed. A nil
// executor is allowed and forces inline execution. from > to is a range
// error.
func New(executor workerpool.WorkerPool, from, to, parallelismFactor uint64) (*ParallelFor, error) {
	if from > to {
		return nil, fmt.Errorf("invalid index range: from %d exceeds to %d", from, to)
	}
	return &ParallelFor{
		executor:          executor,
		from:              from,
		to:                to,
		parallelismFactor: parallelismFactor,
	}, nil
}

// NewOwned is like New but takes ownership of the executor: Close stops it.
// Use this when the executor would otherwise be stopped before asynchronous
// work completes.
func NewOwned(executor workerpool.WorkerPool, from, to, parallelismFactor uint64) (*ParallelFor, error) {
	p, err := New(executor, from, to, parallelismFactor)
	if err != nil {
		return nil, err
	}
	p.ownsExecutor = true
	return p, nil
}

// Close stops an owned executor, waiting for its in-flight tasks. It is a
// no-op for a borrowed one.
func (p *ParallelFor) Close() {
	if p.ownsExecutor && p.executor != nil {
		p.executor.Stop()
	}
}

// Execute runs fn once for every index in [from, to). With wait true it
// blocks until all chunks finish and returns the first task failure; with
// wait false it returns right after submission and completion tracking is
// the caller's problem.
func (p *ParallelFor) Execute(fn IndexFunc, wait bool) error {
	return p.ExecuteRange(func(begin, end uint64) error {
		for i := begin; i < end; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}, wait)
}

// ExecuteRange runs fn once per chunk. Chunk sizes differ by at most one
// element. When the effective split count is one the task runs inline on the
// calling goroutine and nothing is submitted to the executor; otherwise
// every chunk, including the first, goes through the executor.
func (p *ParallelFor) ExecuteRange(fn RangeFunc, wait bool) error {
	n := p.to - p.from
	if n == 0 {
		return nil
	}

	splits := p.parallelismFactor
	if splits < 1 {
		splits = 1
	}
	if splits > n {
		splits = n
	}
	if p.executor == nil {
		splits = 1
	}
	if splits <= 1 {
		return fn(p.from, p.to)
	}

	barrier := NewBarrier(p.executor)
	chunk := n / splits
	rem := n % splits
	begin := p.from
	for s := uint64(0); s < splits; s++ {
		size := chunk
		if s < rem {
			size++
		}
		b, e := begin, begin+size
		barrier.Schedule(false, func() error {
			return fn(b, e)
		})
		begin = e
	}

	if !wait {
		return nil
	}
	return barrier.Await()
}
