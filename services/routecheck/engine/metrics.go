// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for reconciliation operations.
var (
	tracer = otel.Tracer("routechecker.engine")
	meter  = otel.Meter("routechecker.engine")
)

// Metrics for reconciliation operations.
var (
	checkLatency    metric.Float64Histogram
	checksTotal     metric.Int64Counter
	itemsChecked    metric.Int64Counter
	violationsFound metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		checkLatency, err = meter.Float64Histogram(
			"route_check_duration_seconds",
			metric.WithDescription("Duration of reconciliation passes"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		checksTotal, err = meter.Int64Counter(
			"route_checks_total",
			metric.WithDescription("Total number of reconciliation passes"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		itemsChecked, err = meter.Int64Counter(
			"route_check_items_total",
			metric.WithDescription("Routes or files examined per pass"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		violationsFound, err = meter.Int64Counter(
			"route_check_violations_total",
			metric.WithDescription("Total number of violations found"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startCheckSpan starts a tracing span for one reconciliation pass.
func startCheckSpan(ctx context.Context, analysis string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "engine."+analysis,
		trace.WithAttributes(
			attribute.String("analysis", analysis),
		),
	)
}

// setCheckSpanResult records the outcome on the span.
func setCheckSpanResult(span trace.Span, violations int) {
	span.SetAttributes(
		attribute.Int("violations", violations),
	)
}

// recordCheckMetrics records latency and counters for one pass.
func recordCheckMetrics(ctx context.Context, analysis string, duration time.Duration, items, violations int) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("analysis", analysis),
	)

	checkLatency.Record(ctx, duration.Seconds(), attrs)
	checksTotal.Add(ctx, 1, attrs)
	itemsChecked.Add(ctx, int64(items), attrs)
	violationsFound.Add(ctx, int64(violations), attrs)
}
