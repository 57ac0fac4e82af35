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

type noopMetrics struct{}

func (*noopMetrics) BufferedLookupCount(inc int64, cacheHit bool) {}

func (*noopMetrics) BufferedReadRegionCount(inc int64) {}

func (*noopMetrics) RawOverreadBytesCount(inc int64) {}

func (*noopMetrics) ReadCount(inc int64, readType string) {}

func (*noopMetrics) ReadBytesCount(inc int64) {}

func (*noopMetrics) LoadLatency(ctx context.Context, latency time.Duration) {}

// NewNoopMetrics returns a MetricHandle that discards everything.
func NewNoopMetrics() MetricHandle {
	return &noopMetrics{}
}
