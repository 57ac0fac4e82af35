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
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/columnio/columnio/bufferedinput"
	"github.com/columnio/columnio/cfg"
	"github.com/columnio/columnio/rangeio"
	"github.com/columnio/columnio/workerpool"
	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"
)

func newReadCmd(config *cfg.Config) *cobra.Command {
	var rangeSpecs []string
	var useMmap bool

	readCmd := &cobra.Command{
		Use:   "read --range OFFSET:LENGTH [--range ...] FILE",
		Short: "Read the given byte ranges with coalesced physical I/O",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			regions, err := parseRanges(rangeSpecs)
			if err != nil {
				return err
			}
			return runRead(cmd.Context(), config, args[0], regions, useMmap, cmd.OutOrStdout())
		},
	}

	readCmd.Flags().StringArrayVar(&rangeSpecs, "range", nil, "Byte range to read, as OFFSET:LENGTH. Repeatable.")
	readCmd.Flags().BoolVar(&useMmap, "mmap", false, "Serve reads from a memory mapping instead of pread.")
	cobra.CheckErr(readCmd.MarkFlagRequired("range"))
	return readCmd
}

func parseRanges(specs []string) ([]rangeio.Region, error) {
	regions := make([]rangeio.Region, 0, len(specs))
	for _, spec := range specs {
		offsetStr, lengthStr, found := strings.Cut(spec, ":")
		if !found {
			return nil, fmt.Errorf("invalid range %q, want OFFSET:LENGTH", spec)
		}
		offset, err := strconv.ParseUint(offsetStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid range offset %q: %w", offsetStr, err)
		}
		length, err := strconv.ParseUint(lengthStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid range length %q: %w", lengthStr, err)
		}
		regions = append(regions, rangeio.Region{Offset: offset, Length: length})
	}
	return regions, nil
}

func runRead(ctx context.Context, config *cfg.Config, path string, regions []rangeio.Region, useMmap bool, out io.Writer) error {
	var input rangeio.ReadFile
	if useMmap {
		mf, err := rangeio.NewMmapReadFile(path)
		if err != nil {
			return err
		}
		input = mf
	} else {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		ff, err := rangeio.NewFileReadFile(f, int(config.Read.LoadParallelism))
		if err != nil {
			f.Close()
			return err
		}
		input = ff
	}
	defer input.Close()

	var pool workerpool.WorkerPool
	if config.Read.LoadParallelism > 1 {
		var err error
		if pool, err = workerpool.NewStaticWorkerPoolForCurrentCPU(); err != nil {
			return err
		}
		defer pool.Stop()
	}

	engineConfig := &bufferedinput.Config{
		MaxMergeDistance: int64(config.Read.MaxMergeDistance),
		VectorizedRead:   config.Read.Vectorized,
		LoadParallelism:  config.Read.LoadParallelism,
	}
	budget := semaphore.NewWeighted(int64(config.Read.MaxBufferBytes))
	engine := bufferedinput.New(input, engineConfig, budget, pool, nil)

	streams := make([]bufferedinput.Stream, len(regions))
	for i, r := range regions {
		streams[i] = engine.Enqueue(r)
	}
	if err := engine.Load(ctx, rangeio.KindFile); err != nil {
		return err
	}

	for i, s := range streams {
		data, err := io.ReadAll(s)
		if err != nil {
			return fmt.Errorf("resolving range (offset %d, length %d): %w", regions[i].Offset, regions[i].Length, err)
		}
		fmt.Fprintf(out, "%d:%d\t%d bytes\txxh64=%016x\n", regions[i].Offset, regions[i].Length, len(data), xxhash.Sum64(data))
	}
	fmt.Fprintf(out, "merged %d requested ranges into %d physical reads\n", len(regions), engine.IndexedRegions())
	return nil
}
