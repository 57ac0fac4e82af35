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

type Config struct {
	MaxMergeDistance int64 // Maximum byte gap between two regions that is still bridged into one physical read. Negative disallows even exact adjacency.
	VectorizedRead   bool  // Issue one vectorized read for the whole batch instead of one read per merged region.
	LoadParallelism  int64 // Fan-out for scalar-mode physical reads; requires an executor. <= 1 reads sequentially.
}

// DefaultConfig bridges gaps up to 1 MiB and reads sequentially.
func DefaultConfig() *Config {
	return &Config{
		MaxMergeDistance: 1 << 20,
		VectorizedRead:   false,
		LoadParallelism:  1,
	}
}
