// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package grid

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWorld(t *testing.T, rows, cols int, obstacles []Coord, start, target Coord) *World {
	t.Helper()
	w, err := NewWorld(rows, cols, obstacles, start, target, DefaultCosts())
	require.NoError(t, err)
	return w
}

func TestNewWorld_Validation(t *testing.T) {
	tests := []struct {
		name      string
		rows      int
		cols      int
		obstacles []Coord
		start     Coord
		target    Coord
		costs     Costs
		wantErr   error
	}{
		{"zero rows", 0, 3, nil, Coord{0, 0}, Coord{0, 1}, DefaultCosts(), ErrInvalidWorld},
		{"start out of bounds", 3, 3, nil, Coord{3, 0}, Coord{0, 1}, DefaultCosts(), ErrInvalidWorld},
		{"target out of bounds", 3, 3, nil, Coord{0, 0}, Coord{0, -1}, DefaultCosts(), ErrInvalidWorld},
		{"obstacle out of bounds", 3, 3, []Coord{{5, 5}}, Coord{0, 0}, Coord{0, 1}, DefaultCosts(), ErrInvalidWorld},
		{"start on obstacle", 3, 3, []Coord{{0, 0}}, Coord{0, 0}, Coord{0, 1}, DefaultCosts(), ErrInvalidWorld},
		{"target on obstacle", 3, 3, []Coord{{0, 1}}, Coord{0, 0}, Coord{0, 1}, DefaultCosts(), ErrInvalidWorld},
		{"negative cost", 3, 3, nil, Coord{0, 0}, Coord{0, 1}, Costs{Up: -1}, ErrInvalidCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWorld(tt.rows, tt.cols, tt.obstacles, tt.start, tt.target, tt.costs)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestWorld_Successors_OrderAndCosts(t *testing.T) {
	w := mustWorld(t, 3, 3, nil, Coord{1, 1}, Coord{0, 0})

	succ := w.Successors(Coord{1, 1})
	require.Len(t, succ, 4)

	var labels []string
	var costs []int
	for _, s := range succ {
		labels = append(labels, s.Label)
		costs = append(costs, s.Cost)
	}
	assert.Equal(t, []string{"UP", "DOWN", "LEFT", "RIGHT"}, labels)
	assert.Equal(t, []int{2, 0, 1, 1}, costs)
	assert.Equal(t, Coord{0, 1}, succ[0].State)
	assert.Equal(t, Coord{1, 2}, succ[3].State)
}

func TestWorld_Successors_ExcludesWallsAndObstacles(t *testing.T) {
	w := mustWorld(t, 3, 3, []Coord{{0, 1}}, Coord{0, 0}, Coord{2, 2})

	succ := w.Successors(Coord{0, 0})
	require.Len(t, succ, 1)
	assert.Equal(t, "DOWN", succ[0].Label)
	assert.Equal(t, Coord{1, 0}, succ[0].State)
}

func TestWorld_Draw(t *testing.T) {
	w := mustWorld(t, 3, 3, []Coord{{1, 1}}, Coord{0, 0}, Coord{0, 2})

	assert.Equal(t, "V . D\n. # .\n. . .", w.Draw(w.Start()))
	assert.Equal(t, "V", Vacuum.Symbol())
	assert.Equal(t, Obstacle, w.CellAt(Coord{1, 1}))
	assert.Equal(t, Dirt, w.CellAt(Coord{0, 2}))
	assert.Equal(t, []Coord{{1, 1}}, w.Obstacles())
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection(" left ")
	require.NoError(t, err)
	assert.Equal(t, Left, d)

	_, err = ParseDirection("diagonal")
	assert.ErrorIs(t, err, ErrUnknownDirection)
}

func TestCostsFromNames(t *testing.T) {
	costs, err := CostsFromNames(map[string]int{"up": 7, "Right": 3})
	require.NoError(t, err)
	assert.Equal(t, "UP=7 DOWN=0 LEFT=1 RIGHT=3", costs.String())

	_, err = CostsFromNames(map[string]int{"UP": 2, "up": 9})
	assert.ErrorIs(t, err, ErrInvalidWorld)

	_, err = CostsFromNames(map[string]int{"north": 1})
	assert.ErrorIs(t, err, ErrUnknownDirection)

	_, err = CostsFromNames(map[string]int{"DOWN": -1})
	assert.ErrorIs(t, err, ErrInvalidCost)
}

func TestCosts_String(t *testing.T) {
	assert.Equal(t, "UP=2 DOWN=0 LEFT=1 RIGHT=1", DefaultCosts().String())
}

// -----------------------------------------------------------------------------
// Solve
// -----------------------------------------------------------------------------

func TestSolve_ThreeByThreeScenario(t *testing.T) {
	w := mustWorld(t, 3, 3, nil, Coord{0, 0}, Coord{0, 2})

	res, err := Solve(context.Background(), w, nil)
	require.NoError(t, err)
	require.True(t, res.Found)

	require.Len(t, res.Steps, 2)
	assert.Equal(t, "RIGHT", res.Steps[0].Label)
	assert.Equal(t, Coord{0, 1}, res.Steps[0].State)
	assert.Equal(t, "RIGHT", res.Steps[1].Label)
	assert.Equal(t, Coord{0, 2}, res.Steps[1].State)

	cost, ok := res.TotalCost()
	assert.True(t, ok)
	assert.Equal(t, 2, cost)
}

func TestSolve_StartIsTarget(t *testing.T) {
	w := mustWorld(t, 4, 4, nil, Coord{2, 2}, Coord{2, 2})

	res, err := Solve(context.Background(), w, nil)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Empty(t, res.Steps)
	assert.Equal(t, 0, res.Cost)
}

func TestSolve_ObstacleFreeMatchesManhattan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 50; i++ {
		start := Coord{rng.Intn(6), rng.Intn(6)}
		target := Coord{rng.Intn(6), rng.Intn(6)}
		w := mustWorld(t, 6, 6, nil, start, target)

		res, err := Solve(context.Background(), w, nil)
		require.NoError(t, err)
		require.True(t, res.Found)
		assert.Equal(t, Manhattan(start, target), res.Len(), "start %s target %s", start, target)
	}
}

func TestSolve_EnclosedTargetNotFound(t *testing.T) {
	w := mustWorld(t, 3, 3, []Coord{{0, 1}, {1, 0}}, Coord{2, 2}, Coord{0, 0})

	res, err := Solve(context.Background(), w, nil)
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Nil(t, res.Steps)

	_, ok := res.TotalCost()
	assert.False(t, ok)
	assert.Equal(t, 6, res.Stats.Visited)
}

func TestSolve_NilWorld(t *testing.T) {
	_, err := Solve(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestSolve_Deterministic(t *testing.T) {
	w := mustWorld(t, 6, 6, []Coord{{2, 2}, {2, 3}, {3, 2}}, Coord{0, 0}, Coord{5, 5})

	first, err := Solve(context.Background(), w, nil)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := Solve(context.Background(), w, nil)
		require.NoError(t, err)
		assert.Equal(t, first.Steps, again.Steps)
	}
}

// -----------------------------------------------------------------------------
// Generate
// -----------------------------------------------------------------------------

func TestGenerate_Defaults(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		w, err := Generate(rand.New(rand.NewSource(seed)), GenerateConfig{})
		require.NoError(t, err)

		assert.Equal(t, 6, w.Rows())
		assert.Equal(t, 6, w.Cols())
		assert.NotEqual(t, w.Start(), w.Target())

		n := len(w.Obstacles())
		assert.GreaterOrEqual(t, n, 5)
		assert.LessOrEqual(t, n, 10)
		assert.NotEqual(t, Obstacle, w.CellAt(w.Start()))
		assert.Equal(t, Dirt, w.CellAt(w.Target()))
	}
}

func TestGenerate_SameSeedSameWorld(t *testing.T) {
	a, err := Generate(rand.New(rand.NewSource(42)), GenerateConfig{})
	require.NoError(t, err)
	b, err := Generate(rand.New(rand.NewSource(42)), GenerateConfig{})
	require.NoError(t, err)

	assert.Equal(t, a.Draw(a.Start()), b.Draw(b.Start()))
}

func TestGenerate_CapsObstaclesOnSmallBoards(t *testing.T) {
	w, err := Generate(rand.New(rand.NewSource(1)), GenerateConfig{Rows: 2, Cols: 2})
	require.NoError(t, err)
	assert.Len(t, w.Obstacles(), 2)
}

func TestGenerate_Errors(t *testing.T) {
	_, err := Generate(nil, GenerateConfig{})
	assert.ErrorIs(t, err, ErrNilRand)

	_, err = Generate(rand.New(rand.NewSource(1)), GenerateConfig{Rows: 1, Cols: 1})
	assert.ErrorIs(t, err, ErrInvalidWorld)

	_, err = Generate(rand.New(rand.NewSource(1)), GenerateConfig{MinObstacles: 4, MaxObstacles: 2})
	assert.ErrorIs(t, err, ErrInvalidWorld)
}
