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

package metrics

import (
	"context"
	"time"
)

// Constants for attribute ReadType
const (
	ReadTypeScalar     = "Scalar"
	ReadTypeParallel   = "Parallel"
	ReadTypeVectorized = "Vectorized"
)

// MetricHandle is the stats sink the engine reports into. Implementations
// must be safe for concurrent use.
type MetricHandle interface {
	// BufferedLookupCount counts point lookups against the published buffer
	// index, split by whether the range was already covered.
	BufferedLookupCount(inc int64, cacheHit bool)

	// BufferedReadRegionCount counts regions accepted into the pending queue.
	BufferedReadRegionCount(inc int64)

	// RawOverreadBytesCount accumulates bytes read beyond what was strictly
	// requested, the cost of gap-driven region merging.
	RawOverreadBytesCount(inc int64)

	// ReadCount counts physical read operations issued to the input source.
	ReadCount(inc int64, readType string)

	// ReadBytesCount accumulates bytes requested from the input source.
	ReadBytesCount(inc int64)

	// LoadLatency records the wall time of one batch materialization.
	LoadLatency(ctx context.Context, latency time.Duration)
}
