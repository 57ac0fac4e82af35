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

package parallel

import (
	"sync"

	"github.com/columnio/columnio/workerpool"
)

// Barrier schedules units of work on a worker pool and lets the scheduling
// goroutine wait for all of them to finish. The first failure is kept and
// returned from Await; later failures are dropped.
//
// A Barrier is reusable: after Await returns, a new round of Schedule/Await
// starts clean.
type Barrier struct {
	pool workerpool.WorkerPool

	mu      sync.Mutex
	cond    *sync.Cond
	pending int
	err     error
}

// NewBarrier wraps pool. The pool stays owned by the caller.
func NewBarrier(pool workerpool.WorkerPool) *Barrier {
	b := &Barrier{pool: pool}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// barrierUnit adapts one scheduled function to the pool's Task contract.
type barrierUnit struct {
	b  *Barrier
	fn func() error
}

func (u *barrierUnit) Execute() {
	err := u.fn()
	u.b.done(err)
}

// Schedule submits fn as one unit of work. It must not be called
// concurrently with Await on the same round.
func (b *Barrier) Schedule(urgent bool, fn func() error) {
	b.mu.Lock()
	b.pending++
	b.mu.Unlock()
	b.pool.Schedule(urgent, &barrierUnit{b: b, fn: fn})
}

// Await blocks until every scheduled unit has finished and returns the first
// captured failure, clearing it for the next round.
func (b *Barrier) Await() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for b.pending > 0 {
		b.cond.Wait()
	}
	err := b.err
	b.err = nil
	return err
}

func (b *Barrier) done(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil && b.err == nil {
		b.err = err
	}
	b.pending--
	if b.pending == 0 {
		b.cond.Broadcast()
	}
}
