// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package search

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for search runs.
var (
	tracer = otel.Tracer("aleutian.solver.search")
	meter  = otel.Meter("aleutian.solver.search")
)

var (
	runLatency    metric.Float64Histogram
	runTotal      metric.Int64Counter
	statesVisited metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		runLatency, err = meter.Float64Histogram(
			"search_run_duration_seconds",
			metric.WithDescription("Duration of search runs"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		runTotal, err = meter.Int64Counter(
			"search_run_total",
			metric.WithDescription("Total number of search runs"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		statesVisited, err = meter.Int64Histogram(
			"search_states_visited",
			metric.WithDescription("Number of states dequeued per search run"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordRunMetrics records metrics for one finished run.
func recordRunMetrics(ctx context.Context, strategy Strategy, stats Stats, found bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("strategy", strategy.String()),
		attribute.Bool("found", found),
	)
	runLatency.Record(ctx, stats.Duration.Seconds(), attrs)
	runTotal.Add(ctx, 1, attrs)
	statesVisited.Record(ctx, int64(stats.Visited), attrs)
}

// startRunSpan creates a span for a search run.
func startRunSpan(ctx context.Context, strategy Strategy) (context.Context, trace.Span) {
	return tracer.Start(ctx, "search.Run",
		trace.WithAttributes(
			attribute.String("search.strategy", strategy.String()),
		),
	)
}

// setRunSpanResult sets the result attributes on a run span.
func setRunSpanResult(span trace.Span, stats Stats, found bool, steps int) {
	span.SetAttributes(
		attribute.Bool("search.found", found),
		attribute.Int("search.visited", stats.Visited),
		attribute.Int("search.generated", stats.Generated),
		attribute.Int("search.max_frontier", stats.MaxFrontier),
		attribute.Int("search.steps", steps),
		attribute.Int64("search.duration_us", stats.Duration.Microseconds()),
	)
}

// elapsedSince returns the time since t, never less than one nanosecond.
func elapsedSince(t time.Time) time.Duration {
	d := time.Since(t)
	if d <= 0 {
		return time.Nanosecond
	}
	return d
}
