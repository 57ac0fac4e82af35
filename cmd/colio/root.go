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

package main

import (
	"fmt"

	"github.com/columnio/columnio/cfg"
	"github.com/columnio/columnio/internal/logger"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string
	var config cfg.Config

	rootCmd := &cobra.Command{
		Use:   "colio",
		Short: "Coalesced byte-range reads over columnar files",
		Long: `colio batches many small byte-range requests into a minimal set of
physical reads, merging adjacent and near-adjacent ranges, and serves
already-buffered ranges from memory.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				v.SetConfigFile(cfgFile)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("reading config file %q: %w", cfgFile, err)
				}
			}
			if err := v.Unmarshal(&config, viper.DecodeHook(cfg.DecodeHook()), func(decoderConfig *mapstructure.DecoderConfig) {
				decoderConfig.TagName = "yaml"
			}); err != nil {
				return fmt.Errorf("decoding config: %w", err)
			}
			if err := cfg.Validate(&config); err != nil {
				return err
			}
			logger.Setup(string(config.Logging.Severity), config.Logging.Format)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "Path to a YAML config file.")
	cobra.CheckErr(cfg.BindFlags(v, rootCmd.PersistentFlags()))

	rootCmd.AddCommand(newReadCmd(&config))
	return rootCmd
}
