// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package report

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/AleutianAI/AleutianSolver/services/solver/grid"
	"github.com/AleutianAI/AleutianSolver/services/solver/search"
	"github.com/AleutianAI/AleutianSolver/services/solver/tiles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteGrid_Solved(t *testing.T) {
	world, err := grid.NewWorld(3, 3, nil, grid.Coord{Row: 0, Col: 0}, grid.Coord{Row: 0, Col: 2}, grid.DefaultCosts())
	require.NoError(t, err)
	res, err := grid.Solve(context.Background(), world, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteGrid(&buf, world, res))

	want := strings.Join([]string{
		"VACUUM WORLD — BFS",
		"Grid:3x3  Vacuum:(0, 0)  Dirt:(0, 2)",
		"Costs: UP=2 DOWN=0 LEFT=1 RIGHT=1",
		"Legend: V=Vacuum D=Dirt #=Obstacle .=Empty",
		"",
		"INITIAL BOARD:",
		"V . D",
		". . .",
		". . .",
		"",
		"Step 1: RIGHT -> (0, 1)  (+1, total=1)",
		". V D",
		". . .",
		". . .",
		"",
		"Step 2: RIGHT -> (0, 2)  (+1, total=2)",
		". . V",
		". . .",
		". . .",
		"",
		"GOAL REACHED!  Steps:2  Total Cost:2",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteGrid_NoSolution(t *testing.T) {
	world, err := grid.NewWorld(3, 3,
		[]grid.Coord{{Row: 0, Col: 1}, {Row: 1, Col: 0}},
		grid.Coord{Row: 2, Col: 2}, grid.Coord{Row: 0, Col: 0}, grid.DefaultCosts())
	require.NoError(t, err)
	res, err := grid.Solve(context.Background(), world, nil)
	require.NoError(t, err)
	require.False(t, res.Found)

	var buf bytes.Buffer
	require.NoError(t, WriteGrid(&buf, world, res))

	out := buf.String()
	assert.Contains(t, out, "NO SOLUTION — there is no solution because of obstacles.")
	assert.Contains(t, out, "Board at time of failure:")
	assert.NotContains(t, out, "GOAL REACHED!")
	assert.NotContains(t, out, "Step 1:")
}

func TestWriteGrid_NilInputs(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WriteGrid(&buf, nil, &search.Result[grid.Coord]{}), grid.ErrInvalidWorld)

	world, err := grid.NewWorld(2, 2, nil, grid.Coord{}, grid.Coord{Row: 1, Col: 1}, grid.DefaultCosts())
	require.NoError(t, err)
	assert.ErrorIs(t, WriteGrid(&buf, world, nil), ErrNilResult)
	assert.Zero(t, buf.Len())
}

func TestWritePuzzle_Solved(t *testing.T) {
	start := tiles.Board{{1, 2, 3}, {4, 5, 6}, {7, 0, 8}}
	res, err := tiles.Solve(context.Background(), start, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePuzzle(&buf, start, res))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, PuzzleTitle+"\n"))
	assert.Contains(t, out, "INITIAL BOARD:\n+---+---+---+\n| 1 | 2 | 3 |")
	assert.Contains(t, out, "| 7 |   | 8 |")
	assert.Contains(t, out, "Step 1: RIGHT (+1, total=1)\n")
	assert.Contains(t, out, "| 7 | 8 |   |")
	assert.True(t, strings.HasSuffix(out, "GOAL REACHED!  Steps:1  Total Cost:1\n"))
}

func TestWritePuzzle_NoSolution(t *testing.T) {
	start := tiles.Board{{2, 1, 3}, {4, 5, 6}, {7, 8, 0}}
	res := &search.Result[tiles.Board]{Found: false, Start: start}

	var buf bytes.Buffer
	require.NoError(t, WritePuzzle(&buf, start, res))
	assert.Contains(t, buf.String(), "NO SOLUTION")
	assert.NotContains(t, buf.String(), "GOAL REACHED!")
}

func TestBox(t *testing.T) {
	want := strings.Join([]string{
		"+---+---+---+",
		"| 1 | 2 | 3 |",
		"+---+---+---+",
		"| 4 | 5 | 6 |",
		"+---+---+---+",
		"| 7 | 8 |   |",
		"+---+---+---+",
	}, "\n")
	assert.Equal(t, want, Box(tiles.Goal()))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWritePuzzle_PropagatesWriteError(t *testing.T) {
	res := &search.Result[tiles.Board]{Found: true, Start: tiles.Goal(), Steps: []search.Step[tiles.Board]{}}
	err := WritePuzzle(failingWriter{}, tiles.Goal(), res)
	assert.EqualError(t, err, "disk full")
}
