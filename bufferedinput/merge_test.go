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
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/columnio/columnio/rangeio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingMetrics counts what the engine reports, for assertions.
type recordingMetrics struct {
	lookupHits      atomic.Int64
	lookupMisses    atomic.Int64
	enqueuedRegions atomic.Int64
	overreadBytes   atomic.Int64
	readOps         atomic.Int64
	readBytes       atomic.Int64
	loads           atomic.Int64
	lastReadType    atomic.Value
}

func (m *recordingMetrics) BufferedLookupCount(inc int64, cacheHit bool) {
	if cacheHit {
		m.lookupHits.Add(inc)
	} else {
		m.lookupMisses.Add(inc)
	}
}

func (m *recordingMetrics) BufferedReadRegionCount(inc int64) { m.enqueuedRegions.Add(inc) }

func (m *recordingMetrics) RawOverreadBytesCount(inc int64) { m.overreadBytes.Add(inc) }

func (m *recordingMetrics) ReadCount(inc int64, readType string) {
	m.readOps.Add(inc)
	m.lastReadType.Store(readType)
}

func (m *recordingMetrics) ReadBytesCount(inc int64) { m.readBytes.Add(inc) }

func (m *recordingMetrics) LoadLatency(ctx context.Context, latency time.Duration) { m.loads.Add(1) }

func TestMergeRegions(t *testing.T) {
	tests := []struct {
		name             string
		regions          []rangeio.Region
		maxMergeDistance int64
		want             []rangeio.Region
		wantOverread     int64
	}{
		{
			name:             "gaps beyond distance stay separate",
			regions:          []rangeio.Region{{Offset: 0, Length: 10}, {Offset: 100, Length: 10}, {Offset: 200, Length: 10}},
			maxMergeDistance: 50,
			want:             []rangeio.Region{{Offset: 0, Length: 10}, {Offset: 100, Length: 10}, {Offset: 200, Length: 10}},
			wantOverread:     0,
		},
		{
			name:             "gaps within distance collapse to one span",
			regions:          []rangeio.Region{{Offset: 0, Length: 10}, {Offset: 15, Length: 10}, {Offset: 30, Length: 10}},
			maxMergeDistance: 5,
			want:             []rangeio.Region{{Offset: 0, Length: 40}},
			wantOverread:     10,
		},
		{
			name:             "overlapping regions merge without overread",
			regions:          []rangeio.Region{{Offset: 0, Length: 20}, {Offset: 10, Length: 20}},
			maxMergeDistance: 0,
			want:             []rangeio.Region{{Offset: 0, Length: 30}},
			wantOverread:     0,
		},
		{
			name:             "contained region leaves extent unchanged",
			regions:          []rangeio.Region{{Offset: 0, Length: 100}, {Offset: 20, Length: 10}},
			maxMergeDistance: 0,
			want:             []rangeio.Region{{Offset: 0, Length: 100}},
			wantOverread:     0,
		},
		{
			name:             "duplicate regions merge to one",
			regions:          []rangeio.Region{{Offset: 5, Length: 10}, {Offset: 5, Length: 10}},
			maxMergeDistance: 0,
			want:             []rangeio.Region{{Offset: 5, Length: 10}},
			wantOverread:     0,
		},
		{
			name:             "exact adjacency merges at distance zero",
			regions:          []rangeio.Region{{Offset: 0, Length: 100}, {Offset: 150, Length: 50}, {Offset: 100, Length: 50}},
			maxMergeDistance: 0,
			want:             []rangeio.Region{{Offset: 0, Length: 200}},
			wantOverread:     0,
		},
		{
			name:             "negative distance disallows adjacency",
			regions:          []rangeio.Region{{Offset: 0, Length: 100}, {Offset: 150, Length: 50}, {Offset: 100, Length: 50}},
			maxMergeDistance: -1,
			want:             []rangeio.Region{{Offset: 0, Length: 100}, {Offset: 100, Length: 50}, {Offset: 150, Length: 50}},
			wantOverread:     0,
		},
		{
			name:             "unsorted input is sorted before merging",
			regions:          []rangeio.Region{{Offset: 200, Length: 10}, {Offset: 0, Length: 10}, {Offset: 12, Length: 10}},
			maxMergeDistance: 2,
			want:             []rangeio.Region{{Offset: 0, Length: 22}, {Offset: 200, Length: 10}},
			wantOverread:     2,
		},
		{
			name:             "overread sums all positive gaps absorbed",
			regions:          []rangeio.Region{{Offset: 0, Length: 10}, {Offset: 13, Length: 10}, {Offset: 28, Length: 10}},
			maxMergeDistance: 10,
			want:             []rangeio.Region{{Offset: 0, Length: 38}},
			wantOverread:     8,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := &recordingMetrics{}
			regions := append([]rangeio.Region(nil), tc.regions...)

			got, err := mergeRegions(regions, tc.maxMergeDistance, m)

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantOverread, m.overreadBytes.Load())
		})
	}
}

func TestMergeRegions_Empty(t *testing.T) {
	m := &recordingMetrics{}

	_, err := mergeRegions(nil, 0, m)

	assert.Error(t, err)
}

func TestMergeRegions_ZeroLengthRegion(t *testing.T) {
	m := &recordingMetrics{}

	_, err := mergeRegions([]rangeio.Region{{Offset: 0, Length: 10}, {Offset: 20, Length: 0}}, 0, m)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "length 0")
}

func TestMergeRegions_ResultIsAscendingAndDisjoint(t *testing.T) {
	m := &recordingMetrics{}
	regions := []rangeio.Region{
		{Offset: 40, Length: 5}, {Offset: 0, Length: 10}, {Offset: 8, Length: 4},
		{Offset: 100, Length: 1}, {Offset: 30, Length: 20}, {Offset: 60, Length: 10},
	}

	got, err := mergeRegions(regions, 3, m)

	require.NoError(t, err)
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i].Offset, got[i-1].End(), "merged regions must be disjoint and ascending")
	}
	for _, r := range got {
		assert.Positive(t, r.Length)
	}
}
