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

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Logging LoggingConfig `yaml:"logging"`

	Read ReadConfig `yaml:"read"`
}

type LoggingConfig struct {
	Severity LogSeverity `yaml:"severity"`

	Format string `yaml:"format"`
}

type ReadConfig struct {
	MaxMergeDistance ByteSize `yaml:"max-merge-distance"`

	Vectorized bool `yaml:"vectorized"`

	LoadParallelism int64 `yaml:"load-parallelism"`

	MaxBufferBytes ByteSize `yaml:"max-buffer-bytes"`
}

// BindFlags declares every config flag on flagSet and binds it to its viper
// key so that flags, config files and env vars resolve through one path.
func BindFlags(v *viper.Viper, flagSet *pflag.FlagSet) error {
	flagSet.StringP("log-severity", "", "INFO", "Minimum severity that gets logged. One of TRACE, DEBUG, INFO, WARNING, ERROR, OFF.")
	if err := v.BindPFlag("logging.severity", flagSet.Lookup("log-severity")); err != nil {
		return err
	}

	flagSet.StringP("log-format", "", "text", "Log output format: text or json.")
	if err := v.BindPFlag("logging.format", flagSet.Lookup("log-format")); err != nil {
		return err
	}

	flagSet.StringP("max-merge-distance", "", "1MiB", "Maximum byte gap between two requested ranges that is still bridged into one physical read. Negative disables even adjacency merging.")
	if err := v.BindPFlag("read.max-merge-distance", flagSet.Lookup("max-merge-distance")); err != nil {
		return err
	}

	flagSet.BoolP("vectorized", "", false, "Issue one vectorized read for the whole batch instead of one read per merged region.")
	if err := v.BindPFlag("read.vectorized", flagSet.Lookup("vectorized")); err != nil {
		return err
	}

	flagSet.Int64P("load-parallelism", "", 1, "Fan-out for scalar-mode physical reads. 1 reads sequentially.")
	if err := v.BindPFlag("read.load-parallelism", flagSet.Lookup("load-parallelism")); err != nil {
		return err
	}

	flagSet.StringP("max-buffer-bytes", "", "1GiB", "Global budget for loaded buffer bytes.")
	return v.BindPFlag("read.max-buffer-bytes", flagSet.Lookup("max-buffer-bytes"))
}
