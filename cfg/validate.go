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

package cfg

import "fmt"

// Validate rejects configurations the engine cannot run with.
func Validate(c *Config) error {
	if c.Logging.Severity != "" && c.Logging.Severity.Rank() < 0 {
		return fmt.Errorf("invalid logging.severity: %q", c.Logging.Severity)
	}
	if c.Logging.Format != "" && c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid logging.format: %q, must be text or json", c.Logging.Format)
	}
	if c.Read.LoadParallelism < 0 {
		return fmt.Errorf("invalid read.load-parallelism: %d, must be >= 0", c.Read.LoadParallelism)
	}
	if c.Read.MaxBufferBytes <= 0 {
		return fmt.Errorf("invalid read.max-buffer-bytes: %d, must be positive", c.Read.MaxBufferBytes)
	}
	return nil
}
