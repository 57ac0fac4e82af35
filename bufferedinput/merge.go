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
	"errors"
	"fmt"
	"sort"

	"github.com/columnio/columnio/metrics"
	"github.com/columnio/columnio/rangeio"
)

// mergeRegions sorts regions ascending by (offset, length) and greedily
// coalesces neighbors whose gap is negative (overlap) or within
// maxMergeDistance. The merge is in place; the returned slice aliases the
// input, truncated to the merged count. Positive gaps absorbed by a merge
// are charged to the stats sink as overread bytes.
//
// A zero-length region here is a caller bug, reported as an error carrying
// the offending region.
func mergeRegions(regions []rangeio.Region, maxMergeDistance int64, m metrics.MetricHandle) ([]rangeio.Region, error) {
	if len(regions) == 0 {
		return nil, errors.New("merge requires at least one region")
	}

	sort.Slice(regions, func(i, j int) bool {
		return regions[i].Less(regions[j])
	})

	if regions[0].Length == 0 {
		return nil, fmt.Errorf("invalid region (offset %d, length 0) in merge", regions[0].Offset)
	}

	ia := 0
	for ib := 1; ib < len(regions); ib++ {
		if regions[ib].Length == 0 {
			return nil, fmt.Errorf("invalid region (offset %d, length 0) in merge", regions[ib].Offset)
		}
		if !tryMerge(&regions[ia], regions[ib], maxMergeDistance, m) {
			ia++
			regions[ia] = regions[ib]
		}
	}
	return regions[:ia+1], nil
}

// tryMerge grows first to cover second when the gap test passes. The gap is
// signed: negative means overlap. extension <= 0 means second is fully
// contained in first and no growth happens.
func tryMerge(first *rangeio.Region, second rangeio.Region, maxMergeDistance int64, m metrics.MetricHandle) bool {
	gap := int64(second.Offset) - int64(first.Offset) - int64(first.Length)
	if gap >= 0 && gap > maxMergeDistance {
		return false
	}

	extension := gap + int64(second.Length)
	if extension > 0 {
		first.Length += uint64(extension)
		if gap > 0 {
			m.RawOverreadBytesCount(gap)
		}
	}
	return true
}
