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

package block

import (
	"errors"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// ErrArenaExhausted is returned when an allocation would exceed the shared
// buffer budget.
var ErrArenaExhausted = errors.New("buffer budget exhausted")

// Arena owns the physical byte storage backing one engine's loaded regions.
// All blocks live until Clear, which releases them at once; there is no
// per-block free. An optional semaphore bounds the total outstanding bytes
// across every arena sharing it.
//
// Not safe for concurrent Allocate/Clear. Handing out blocks that are then
// filled concurrently is fine.
type Arena struct {
	budget    *semaphore.Weighted
	blocks    [][]byte
	allocated int64
}

// NewArena creates an arena drawing from the given budget. A nil budget
// means unbounded.
func NewArena(budget *semaphore.Weighted) *Arena {
	return &Arena{budget: budget}
}

// Allocate returns a zeroed block of n bytes owned by the arena.
func (a *Arena) Allocate(n uint64) ([]byte, error) {
	if a.budget != nil && !a.budget.TryAcquire(int64(n)) {
		return nil, fmt.Errorf("%w: %d bytes requested, %d already held by this arena", ErrArenaExhausted, n, a.allocated)
	}
	b := make([]byte, n)
	a.blocks = append(a.blocks, b)
	a.allocated += int64(n)
	return b, nil
}

// Clear drops every block and returns the arena's share of the budget.
// Slices previously returned by Allocate must not be used afterwards.
func (a *Arena) Clear() {
	if a.budget != nil && a.allocated > 0 {
		a.budget.Release(a.allocated)
	}
	a.blocks = nil
	a.allocated = 0
}

// Allocated reports the total bytes currently held.
func (a *Arena) Allocated() int64 {
	return a.allocated
}
