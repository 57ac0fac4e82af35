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

import "golang.org/x/net/context"

// ReadKind tags a physical read with the part of the file it serves. It only
// affects logging and metric attribution, never read semantics.
type ReadKind string

const (
	KindFile   ReadKind = "File"
	KindFooter ReadKind = "Footer"
	KindStripe ReadKind = "Stripe"
	KindStream ReadKind = "Stream"
	KindTest   ReadKind = "Test"
)

// ReadFile is the contract the buffered-input engine needs from a raw input
// source. Implementations must be safe for concurrent reads of disjoint
// buffers.
type ReadFile interface {
	// ReadAt fills p entirely with the bytes at offset off, or returns an
	// error. Short reads are errors; there is no partial success.
	ReadAt(ctx context.Context, p []byte, off int64, kind ReadKind) error

	// ReadV is the vectorized equivalent: it fills bufs[i] entirely from
	// regions[i] for every i, or returns an error. len(bufs) must equal
	// len(regions) and len(bufs[i]) must equal regions[i].Length.
	ReadV(ctx context.Context, regions []Region, bufs [][]byte, kind ReadKind) error

	// Size returns the total size of the input in bytes.
	Size() int64

	Close() error
}
