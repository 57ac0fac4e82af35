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

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "columnio"

// Attribute sets are precomputed so the hot path does one counter add and
// no allocation.
var (
	bufferedLookupCountCacheHitTrueAttrSet  = metric.WithAttributeSet(attribute.NewSet(attribute.Bool("cache_hit", true)))
	bufferedLookupCountCacheHitFalseAttrSet = metric.WithAttributeSet(attribute.NewSet(attribute.Bool("cache_hit", false)))
	readCountReadTypeScalarAttrSet          = metric.WithAttributeSet(attribute.NewSet(attribute.String("read_type", ReadTypeScalar)))
	readCountReadTypeParallelAttrSet        = metric.WithAttributeSet(attribute.NewSet(attribute.String("read_type", ReadTypeParallel)))
	readCountReadTypeVectorizedAttrSet      = metric.WithAttributeSet(attribute.NewSet(attribute.String("read_type", ReadTypeVectorized)))
)

type otelMetrics struct {
	bufferedLookupCount     metric.Int64Counter
	bufferedReadRegionCount metric.Int64Counter
	rawOverreadBytesCount   metric.Int64Counter
	readCount               metric.Int64Counter
	readBytesCount          metric.Int64Counter
	loadLatency             metric.Int64Histogram
}

func (o *otelMetrics) BufferedLookupCount(inc int64, cacheHit bool) {
	if cacheHit {
		o.bufferedLookupCount.Add(context.Background(), inc, bufferedLookupCountCacheHitTrueAttrSet)
	} else {
		o.bufferedLookupCount.Add(context.Background(), inc, bufferedLookupCountCacheHitFalseAttrSet)
	}
}

func (o *otelMetrics) BufferedReadRegionCount(inc int64) {
	o.bufferedReadRegionCount.Add(context.Background(), inc)
}

func (o *otelMetrics) RawOverreadBytesCount(inc int64) {
	o.rawOverreadBytesCount.Add(context.Background(), inc)
}

func (o *otelMetrics) ReadCount(inc int64, readType string) {
	switch readType {
	case ReadTypeScalar:
		o.readCount.Add(context.Background(), inc, readCountReadTypeScalarAttrSet)
	case ReadTypeParallel:
		o.readCount.Add(context.Background(), inc, readCountReadTypeParallelAttrSet)
	case ReadTypeVectorized:
		o.readCount.Add(context.Background(), inc, readCountReadTypeVectorizedAttrSet)
	default:
		o.readCount.Add(context.Background(), inc, metric.WithAttributeSet(attribute.NewSet(attribute.String("read_type", readType))))
	}
}

func (o *otelMetrics) ReadBytesCount(inc int64) {
	o.readBytesCount.Add(context.Background(), inc)
}

func (o *otelMetrics) LoadLatency(ctx context.Context, latency time.Duration) {
	o.loadLatency.Record(ctx, latency.Microseconds())
}

// NewOTelMetrics builds a MetricHandle backed by the global OTel meter
// provider.
func NewOTelMetrics() (MetricHandle, error) {
	meter := otel.Meter(meterName)

	bufferedLookupCount, err := meter.Int64Counter("buffered_lookup_count",
		metric.WithDescription("Point lookups against the buffer index, split by cache hit."),
		metric.WithUnit(""))
	if err != nil {
		return nil, err
	}
	bufferedReadRegionCount, err := meter.Int64Counter("buffered_read_region_count",
		metric.WithDescription("Regions accepted into the pending queue."),
		metric.WithUnit(""))
	if err != nil {
		return nil, err
	}
	rawOverreadBytesCount, err := meter.Int64Counter("raw_overread_bytes_count",
		metric.WithDescription("Bytes read beyond what was requested, due to region merging."),
		metric.WithUnit("By"))
	if err != nil {
		return nil, err
	}
	readCount, err := meter.Int64Counter("read_count",
		metric.WithDescription("Physical read operations issued to the input source."),
		metric.WithUnit(""))
	if err != nil {
		return nil, err
	}
	readBytesCount, err := meter.Int64Counter("read_bytes_count",
		metric.WithDescription("Bytes requested from the input source."),
		metric.WithUnit("By"))
	if err != nil {
		return nil, err
	}
	loadLatency, err := meter.Int64Histogram("load_latency",
		metric.WithDescription("Wall time of one batch materialization."),
		metric.WithUnit("us"))
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		bufferedLookupCount:     bufferedLookupCount,
		bufferedReadRegionCount: bufferedReadRegionCount,
		rawOverreadBytesCount:   rawOverreadBytesCount,
		readCount:               readCount,
		readBytesCount:          readBytesCount,
		loadLatency:             loadLatency,
	}, nil
}
