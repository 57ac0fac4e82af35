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

// Region describes the half-open byte range [Offset, Offset+Length) within
// a logical input. A zero Length is valid only as a degenerate empty request
// at the API boundary; ranges that reach the physical read path always have
// Length > 0.
type Region struct {
	Offset uint64
	Length uint64
}

// End returns the exclusive upper bound of the region.
func (r Region) End() uint64 {
	return r.Offset + r.Length
}

// Less orders regions by (offset, length). This is the order the coalescing
// merge walk relies on.
func (r Region) Less(other Region) bool {
	if r.Offset != other.Offset {
		return r.Offset < other.Offset
	}
	return r.Length < other.Length
}
