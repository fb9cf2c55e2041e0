// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) (*SolverMetrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewSolverMetrics(reg), reg
}

func TestRecordSolve(t *testing.T) {
	m, _ := newTestMetrics(t)

	m.RecordSolve(PuzzleTiles, OutcomeFound, 0.01, 12)
	m.RecordSolve(PuzzleTiles, OutcomeFound, 0.02, 30)
	m.RecordSolve(PuzzleGrid, OutcomeNotFound, 0.001, 6)
	m.RecordSolve(PuzzleGrid, OutcomeCancelled, 0.5, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SolvesTotal.WithLabelValues("tiles", "found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SolvesTotal.WithLabelValues("grid", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SolvesTotal.WithLabelValues("grid", "cancelled")))

	// Cancelled solves do not contribute a states-visited sample.
	assert.Equal(t, 2, testutil.CollectAndCount(m.StatesVisited))
}

func TestInFlightGauge(t *testing.T) {
	m, _ := newTestMetrics(t)

	m.SolveStarted(PuzzleGrid)
	m.SolveStarted(PuzzleGrid)
	m.SolveEnded(PuzzleGrid)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.InFlightSolves.WithLabelValues("grid")))
}

func TestRecordRejectedAndReplay(t *testing.T) {
	m, _ := newTestMetrics(t)

	m.RecordRejected("puzzle_solve", RejectRateLimited)
	m.RecordRejected("puzzle_solve", RejectRateLimited)
	m.RecordRejected("grid_solve", RejectValidation)
	m.RecordReplayFrame()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RejectedTotal.WithLabelValues("puzzle_solve", "rate_limited")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RejectedTotal.WithLabelValues("grid_solve", "validation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReplayFramesTotal))
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *SolverMetrics
	assert.NotPanics(t, func() {
		m.RecordSolve(PuzzleGrid, OutcomeFound, 1, 1)
		m.SolveStarted(PuzzleGrid)
		m.SolveEnded(PuzzleGrid)
		m.RecordRejected("x", RejectBusy)
		m.RecordReplayFrame()
	})
}

func TestMetricNames(t *testing.T) {
	m, reg := newTestMetrics(t)
	m.RecordSolve(PuzzleTiles, OutcomeFound, 0.1, 3)
	m.RecordReplayFrame()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["aleutian_solver_solves_total"])
	assert.True(t, names["aleutian_solver_solve_duration_seconds"])
	assert.True(t, names["aleutian_solver_replay_frames_total"])
}
