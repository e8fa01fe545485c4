/*
 * MIT License
 *
 * Copyright (c) 2022-2025  Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package sharding

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// metrics groups the OpenTelemetry instruments of the sharding layer.
//
// Instruments:
//   - sharding.allocations      (Int64Counter, attribute status)
//   - sharding.recovered_shards (Int64Counter)
//   - sharding.entities         (Int64UpDownCounter)
type metrics struct {
	allocations     metric.Int64Counter
	recoveredShards metric.Int64Counter
	entities        metric.Int64UpDownCounter
}

func newMetrics(meter metric.Meter) (*metrics, error) {
	var instruments metrics
	var err error

	if instruments.allocations, err = meter.Int64Counter(
		"sharding.allocations",
		metric.WithDescription("Total number of shard allocation requests handled by the coordinator"),
	); err != nil {
		return nil, err
	}

	if instruments.recoveredShards, err = meter.Int64Counter(
		"sharding.recovered_shards",
		metric.WithDescription("Total number of shard assignments recovered after a coordinator start"),
	); err != nil {
		return nil, err
	}

	if instruments.entities, err = meter.Int64UpDownCounter(
		"sharding.entities",
		metric.WithDescription("Number of entities alive on the shard hosts"),
	); err != nil {
		return nil, err
	}

	return &instruments, nil
}

func (m *metrics) recordAllocation(ctx context.Context, kind string, status AllocationStatus) {
	m.allocations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("status", status.String()),
	))
}

func (m *metrics) recordRecovered(ctx context.Context, kind string, count int) {
	if count == 0 {
		return
	}
	m.recoveredShards.Add(ctx, int64(count), metric.WithAttributes(attribute.String("kind", kind)))
}

func (m *metrics) recordEntities(ctx context.Context, kind string, delta int) {
	m.entities.Add(ctx, int64(delta), metric.WithAttributes(attribute.String("kind", kind)))
}
