// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tiles

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRows(t *testing.T) {
	b, err := FromRows([][]int{{1, 2, 3}, {4, 5, 6}, {7, 8, 0}})
	require.NoError(t, err)
	assert.Equal(t, Goal(), b)

	tests := []struct {
		name string
		rows [][]int
	}{
		{"nil", nil},
		{"two rows", [][]int{{1, 2, 3}, {4, 5, 6}}},
		{"short row", [][]int{{1, 2, 3}, {4, 5}, {7, 8, 0}}},
		{"duplicate tile", [][]int{{1, 1, 3}, {4, 5, 6}, {7, 8, 0}}},
		{"out of range", [][]int{{1, 2, 3}, {4, 5, 6}, {7, 9, 0}}},
		{"negative", [][]int{{1, 2, 3}, {4, 5, 6}, {7, -8, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromRows(tt.rows)
			assert.ErrorIs(t, err, ErrInvalidBoard)
		})
	}
}

func TestBoard_RowsRoundTrip(t *testing.T) {
	rows := Goal().Rows()
	rows[0][0] = 99

	assert.Equal(t, 1, Goal()[0][0])
	back, err := FromRows(Goal().Rows())
	require.NoError(t, err)
	assert.Equal(t, Goal(), back)
}

func TestBoard_String(t *testing.T) {
	assert.Equal(t, "1 2 3\n4 5 6\n7 8 _", Goal().String())
}

func TestBoard_Solvable(t *testing.T) {
	assert.True(t, Goal().Solvable())
	assert.False(t, Board{{2, 1, 3}, {4, 5, 6}, {7, 8, 0}}.Solvable())
}

func TestManhattan(t *testing.T) {
	assert.Equal(t, 0, Manhattan(Goal()))
	assert.Equal(t, 1, Manhattan(Board{{1, 2, 3}, {4, 5, 6}, {7, 0, 8}}))
	// 7 and 8 swapped: each is one column from home.
	assert.Equal(t, 2, Manhattan(Board{{1, 2, 3}, {4, 5, 6}, {8, 7, 0}}))
}

func TestSpace_Successors(t *testing.T) {
	s := DefaultSpace()

	// Blank in the corner: only UP and LEFT.
	succ := s.Successors(Goal())
	require.Len(t, succ, 2)
	assert.Equal(t, "UP", succ[0].Label)
	assert.Equal(t, Board{{1, 2, 3}, {4, 5, 0}, {7, 8, 6}}, succ[0].State)
	assert.Equal(t, "LEFT", succ[1].Label)
	assert.Equal(t, Board{{1, 2, 3}, {4, 5, 6}, {7, 0, 8}}, succ[1].State)

	// Blank in the centre: all four, unit cost.
	centre := Board{{1, 2, 3}, {4, 0, 6}, {7, 5, 8}}
	succ = s.Successors(centre)
	require.Len(t, succ, 4)
	for _, tr := range succ {
		assert.Equal(t, MoveCost, tr.Cost)
	}
}

func TestSolve_OneMoveScenario(t *testing.T) {
	start := Board{{1, 2, 3}, {4, 5, 6}, {7, 0, 8}}

	res, err := Solve(context.Background(), start, nil)
	require.NoError(t, err)
	require.True(t, res.Found)

	require.Len(t, res.Steps, 1)
	assert.Equal(t, "RIGHT", res.Steps[0].Label)
	assert.Equal(t, Goal(), res.Steps[0].State)

	cost, ok := res.TotalCost()
	assert.True(t, ok)
	assert.Equal(t, 1, cost)
}

func TestSolve_AlreadySolved(t *testing.T) {
	res, err := Solve(context.Background(), Goal(), nil)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Empty(t, res.Steps)
	assert.Equal(t, 0, res.Cost)
}

func TestSolve_GeneratedBoardsReachGoal(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 10; i++ {
		start, err := Generate(rng, 0)
		require.NoError(t, err)
		require.True(t, start.Solvable())

		res, err := Solve(context.Background(), start, nil)
		require.NoError(t, err)
		require.True(t, res.Found)

		states := res.States()
		assert.Equal(t, start, states[0])
		assert.Equal(t, Goal(), states[len(states)-1])
		assert.Equal(t, len(res.Steps)*MoveCost, res.Cost)
	}
}

func TestSolve_UnsolvableExhaustsSpace(t *testing.T) {
	if testing.Short() {
		t.Skip("explores 181440 configurations")
	}
	res, err := Solve(context.Background(), Board{{2, 1, 3}, {4, 5, 6}, {7, 8, 0}}, nil)
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, 181440, res.Stats.Visited)
}

func TestSolve_RejectsInvalidBoard(t *testing.T) {
	_, err := Solve(context.Background(), Board{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}}, nil)
	assert.ErrorIs(t, err, ErrInvalidBoard)
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate(rand.New(rand.NewSource(11)), 50)
	require.NoError(t, err)
	b, err := Generate(rand.New(rand.NewSource(11)), 50)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NoError(t, a.Validate())
}

func TestShuffle_Errors(t *testing.T) {
	_, err := Shuffle(nil, Goal(), 10)
	assert.ErrorIs(t, err, ErrNilRand)

	_, err = Shuffle(rand.New(rand.NewSource(1)), Board{}, 10)
	assert.ErrorIs(t, err, ErrInvalidBoard)
}

func TestNewSpace_CustomGoal(t *testing.T) {
	goal := Board{{0, 1, 2}, {3, 4, 5}, {6, 7, 8}}
	s, err := NewSpace(goal)
	require.NoError(t, err)

	assert.True(t, s.IsGoal(goal))
	assert.Equal(t, 0, s.Manhattan(goal))
	assert.Equal(t, goal, s.Goal())

	_, err = NewSpace(Board{})
	assert.ErrorIs(t, err, ErrInvalidBoard)
}
