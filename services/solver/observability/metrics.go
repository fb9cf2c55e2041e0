// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the solver service.
//
// # Description
//
// Metrics cover the HTTP-facing solve path:
//   - Solve counters by puzzle kind and outcome
//   - Solve latency and states-visited histograms
//   - In-flight solve gauge
//   - Rejected request counter (rate limit, busy, validation)
//   - Websocket replay frame counter
//
// Engine-level OpenTelemetry metrics live in the search package and are
// exported through the telemetry package.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Metric Definitions
// =============================================================================

const metricsNamespace = "aleutian"

const solverSubsystem = "solver"

// Puzzle labels the kind of search behind a request.
type Puzzle string

const (
	// PuzzleGrid is the vacuum-world breadth-first search.
	PuzzleGrid Puzzle = "grid"

	// PuzzleTiles is the 8-puzzle greedy search.
	PuzzleTiles Puzzle = "tiles"
)

// Outcome labels how a solve ended.
type Outcome string

const (
	OutcomeFound     Outcome = "found"
	OutcomeNotFound  Outcome = "not_found"
	OutcomeError     Outcome = "error"
	OutcomeCancelled Outcome = "cancelled"
)

// RejectReason labels why a request was refused before searching.
type RejectReason string

const (
	RejectRateLimited RejectReason = "rate_limited"
	RejectBusy        RejectReason = "busy"
	RejectValidation  RejectReason = "validation"
)

// SolverMetrics holds all Prometheus metrics for the solver service.
type SolverMetrics struct {
	// SolvesTotal counts finished solves.
	// Labels: puzzle (grid, tiles), outcome (found, not_found, error, cancelled)
	SolvesTotal *prometheus.CounterVec

	// SolveDurationSeconds measures wall time of a solve.
	// Labels: puzzle
	SolveDurationSeconds *prometheus.HistogramVec

	// StatesVisited measures how many states each solve dequeued.
	// Labels: puzzle
	StatesVisited *prometheus.HistogramVec

	// InFlightSolves tracks solves currently holding a concurrency slot.
	// Labels: puzzle
	InFlightSolves *prometheus.GaugeVec

	// RejectedTotal counts requests refused before a search started.
	// Labels: endpoint, reason
	RejectedTotal *prometheus.CounterVec

	// ReplayFramesTotal counts websocket frames sent during replays.
	ReplayFramesTotal prometheus.Counter
}

// DefaultMetrics is the process-wide instance registered by InitMetrics.
var DefaultMetrics *SolverMetrics

// InitMetrics registers the metrics with the default Prometheus registry
// and stores them in DefaultMetrics.
//
// # Limitations
//
//   - Panics if called twice (duplicate registration).
func InitMetrics() *SolverMetrics {
	DefaultMetrics = NewSolverMetrics(prometheus.DefaultRegisterer)
	return DefaultMetrics
}

// NewSolverMetrics creates the metrics and registers them with reg.
// Tests pass a fresh prometheus.NewRegistry().
func NewSolverMetrics(reg prometheus.Registerer) *SolverMetrics {
	factory := promauto.With(reg)

	return &SolverMetrics{
		SolvesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: solverSubsystem,
				Name:      "solves_total",
				Help:      "Total number of solves by puzzle kind and outcome",
			},
			[]string{"puzzle", "outcome"},
		),

		SolveDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: solverSubsystem,
				Name:      "solve_duration_seconds",
				Help:      "Solve wall time in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"puzzle"},
		),

		StatesVisited: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: solverSubsystem,
				Name:      "states_visited",
				Help:      "States dequeued per solve",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
			},
			[]string{"puzzle"},
		),

		InFlightSolves: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: solverSubsystem,
				Name:      "in_flight_solves",
				Help:      "Number of solves currently running",
			},
			[]string{"puzzle"},
		),

		RejectedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: solverSubsystem,
				Name:      "rejected_total",
				Help:      "Requests refused before searching, by endpoint and reason",
			},
			[]string{"endpoint", "reason"},
		),

		ReplayFramesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: solverSubsystem,
				Name:      "replay_frames_total",
				Help:      "Websocket frames sent during solution replays",
			},
		),
	}
}

// =============================================================================
// Helper Methods
// =============================================================================
//
// All helpers accept a nil receiver so handlers can run without metrics.

// RecordSolve records one finished solve.
func (m *SolverMetrics) RecordSolve(puzzle Puzzle, outcome Outcome, seconds float64, visited int) {
	if m == nil {
		return
	}
	m.SolvesTotal.WithLabelValues(string(puzzle), string(outcome)).Inc()
	m.SolveDurationSeconds.WithLabelValues(string(puzzle)).Observe(seconds)
	if outcome == OutcomeFound || outcome == OutcomeNotFound {
		m.StatesVisited.WithLabelValues(string(puzzle)).Observe(float64(visited))
	}
}

// SolveStarted increments the in-flight gauge.
func (m *SolverMetrics) SolveStarted(puzzle Puzzle) {
	if m == nil {
		return
	}
	m.InFlightSolves.WithLabelValues(string(puzzle)).Inc()
}

// SolveEnded decrements the in-flight gauge.
func (m *SolverMetrics) SolveEnded(puzzle Puzzle) {
	if m == nil {
		return
	}
	m.InFlightSolves.WithLabelValues(string(puzzle)).Dec()
}

// RecordRejected records a refused request.
func (m *SolverMetrics) RecordRejected(endpoint string, reason RejectReason) {
	if m == nil {
		return
	}
	m.RejectedTotal.WithLabelValues(endpoint, string(reason)).Inc()
}

// RecordReplayFrame counts one websocket replay frame.
func (m *SolverMetrics) RecordReplayFrame() {
	if m == nil {
		return
	}
	m.ReplayFramesTotal.Inc()
}
