// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package grid implements the vacuum-world state space.
//
// A World is a rectangular board of empty cells and obstacles with one
// vacuum (the agent) and one patch of dirt (the target). The agent moves
// one cell at a time in four directions; each direction carries its own
// fixed cost, and the costs are deliberately not uniform.
//
// # State
//
// The occupancy of a World never changes during a search, so the search
// state is just the agent's Coord. Two states are identical iff their
// coordinates are equal within the same World.
//
// # Thread Safety
//
// World is immutable after NewWorld returns and is safe for concurrent
// reads.
package grid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AleutianAI/AleutianSolver/services/solver/search"
)

// Sentinel errors for world construction.
var (
	// ErrInvalidWorld is returned when dimensions or coordinates are invalid.
	ErrInvalidWorld = errors.New("invalid world")

	// ErrInvalidCost is returned when a direction cost is negative.
	ErrInvalidCost = errors.New("invalid move cost")

	// ErrUnknownDirection is returned when parsing an unknown direction name.
	ErrUnknownDirection = errors.New("unknown direction")
)

// =============================================================================
// Cells and coordinates
// =============================================================================

// Cell is the content of one board square.
type Cell int

const (
	Empty Cell = iota
	Obstacle
	Dirt
	Vacuum
)

// Symbol returns the one-character rendering used in reports.
func (c Cell) Symbol() string {
	switch c {
	case Obstacle:
		return "#"
	case Dirt:
		return "D"
	case Vacuum:
		return "V"
	default:
		return "."
	}
}

// Coord is a (row, column) position. Row 0 is the top of the board.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// String formats the coordinate as "(r, c)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d)", c.Row, c.Col)
}

// =============================================================================
// Directions and costs
// =============================================================================

// Direction is one of the four agent moves.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists the moves in expansion order.
var Directions = [...]Direction{Up, Down, Left, Right}

// String returns the move name ("UP", "DOWN", "LEFT", "RIGHT").
func (d Direction) String() string {
	switch d {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	default:
		return "UNKNOWN"
	}
}

// Delta returns the row and column offsets of the move.
func (d Direction) Delta() (dr, dc int) {
	switch d {
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	case Right:
		return 0, 1
	default:
		return 0, 0
	}
}

// ParseDirection converts a move name into a Direction (case insensitive).
func ParseDirection(name string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "UP":
		return Up, nil
	case "DOWN":
		return Down, nil
	case "LEFT":
		return Left, nil
	case "RIGHT":
		return Right, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, name)
	}
}

// Costs holds the fixed cost of each direction, indexed by Direction.
type Costs [4]int

// DefaultCosts returns UP=2 DOWN=0 LEFT=1 RIGHT=1.
func DefaultCosts() Costs {
	return Costs{Up: 2, Down: 0, Left: 1, Right: 1}
}

// Of returns the cost of moving in direction d.
func (c Costs) Of(d Direction) int {
	return c[d]
}

// Validate rejects negative costs.
func (c Costs) Validate() error {
	for _, d := range Directions {
		if c[d] < 0 {
			return fmt.Errorf("%w: %s=%d", ErrInvalidCost, d, c[d])
		}
	}
	return nil
}

// CostsFromNames overrides DefaultCosts with named entries. Names are
// case insensitive; two names for the same direction are an error.
func CostsFromNames(named map[string]int) (Costs, error) {
	costs := DefaultCosts()
	var seen [len(Directions)]bool
	for name, cost := range named {
		d, err := ParseDirection(name)
		if err != nil {
			return costs, err
		}
		if seen[d] {
			return costs, fmt.Errorf("%w: duplicate cost for %s", ErrInvalidWorld, d)
		}
		seen[d] = true
		costs[d] = cost
	}
	if err := costs.Validate(); err != nil {
		return costs, err
	}
	return costs, nil
}

// String formats the costs as "UP=2 DOWN=0 LEFT=1 RIGHT=1".
func (c Costs) String() string {
	parts := make([]string, 0, len(Directions))
	for _, d := range Directions {
		parts = append(parts, fmt.Sprintf("%s=%d", d, c[d]))
	}
	return strings.Join(parts, " ")
}

// =============================================================================
// World
// =============================================================================

// World is an immutable vacuum-world board and the search space over it.
type World struct {
	rows      int
	cols      int
	obstacles []bool
	start     Coord
	target    Coord
	costs     Costs
}

// NewWorld validates its inputs and builds a World.
//
// Inputs:
//   - rows, cols: Board dimensions. Both must be positive.
//   - obstacles: Blocked cells. Duplicates are ignored.
//   - start: Initial vacuum position. Must be in bounds and not blocked.
//   - target: Dirt position. Must be in bounds and not blocked.
//   - costs: Per-direction move costs. Must be non-negative.
//
// Outputs:
//   - *World: The board.
//   - error: ErrInvalidWorld or ErrInvalidCost (wrapped) on bad input.
func NewWorld(rows, cols int, obstacles []Coord, start, target Coord, costs Costs) (*World, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidWorld, rows, cols)
	}
	if err := costs.Validate(); err != nil {
		return nil, err
	}

	w := &World{
		rows:      rows,
		cols:      cols,
		obstacles: make([]bool, rows*cols),
		start:     start,
		target:    target,
		costs:     costs,
	}
	for _, o := range obstacles {
		if !w.InBounds(o) {
			return nil, fmt.Errorf("%w: obstacle %s out of bounds", ErrInvalidWorld, o)
		}
		w.obstacles[w.index(o)] = true
	}
	if !w.InBounds(start) {
		return nil, fmt.Errorf("%w: start %s out of bounds", ErrInvalidWorld, start)
	}
	if !w.InBounds(target) {
		return nil, fmt.Errorf("%w: target %s out of bounds", ErrInvalidWorld, target)
	}
	if w.blocked(start) {
		return nil, fmt.Errorf("%w: start %s is an obstacle", ErrInvalidWorld, start)
	}
	if w.blocked(target) {
		return nil, fmt.Errorf("%w: target %s is an obstacle", ErrInvalidWorld, target)
	}
	return w, nil
}

// Rows returns the number of rows.
func (w *World) Rows() int { return w.rows }

// Cols returns the number of columns.
func (w *World) Cols() int { return w.cols }

// Start returns the initial vacuum position.
func (w *World) Start() Coord { return w.start }

// Target returns the dirt position.
func (w *World) Target() Coord { return w.target }

// Costs returns the per-direction move costs.
func (w *World) Costs() Costs { return w.costs }

// InBounds reports whether c lies on the board.
func (w *World) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < w.rows && c.Col >= 0 && c.Col < w.cols
}

// CellAt returns the static content of c: Obstacle, Dirt or Empty.
// The vacuum is not part of the static board.
func (w *World) CellAt(c Coord) Cell {
	switch {
	case w.blocked(c):
		return Obstacle
	case c == w.target:
		return Dirt
	default:
		return Empty
	}
}

// Obstacles returns the blocked cells in row-major order.
func (w *World) Obstacles() []Coord {
	var out []Coord
	for i, b := range w.obstacles {
		if b {
			out = append(out, Coord{Row: i / w.cols, Col: i % w.cols})
		}
	}
	return out
}

// Draw renders the board with the vacuum at agent, one row per line,
// symbols separated by single spaces.
func (w *World) Draw(agent Coord) string {
	var b strings.Builder
	for r := 0; r < w.rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c := 0; c < w.cols; c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			pos := Coord{Row: r, Col: c}
			if pos == agent {
				b.WriteString(Vacuum.Symbol())
				continue
			}
			b.WriteString(w.CellAt(pos).Symbol())
		}
	}
	return b.String()
}

func (w *World) index(c Coord) int { return c.Row*w.cols + c.Col }

func (w *World) blocked(c Coord) bool { return w.InBounds(c) && w.obstacles[w.index(c)] }

// =============================================================================
// search.Space implementation
// =============================================================================

// Successors returns the legal moves out of pos in UP, DOWN, LEFT, RIGHT
// order. Moves off the board or into an obstacle are excluded.
func (w *World) Successors(pos Coord) []search.Transition[Coord] {
	out := make([]search.Transition[Coord], 0, len(Directions))
	for _, d := range Directions {
		dr, dc := d.Delta()
		next := Coord{Row: pos.Row + dr, Col: pos.Col + dc}
		if !w.InBounds(next) || w.blocked(next) {
			continue
		}
		out = append(out, search.Transition[Coord]{
			Label: d.String(),
			Cost:  w.costs.Of(d),
			State: next,
		})
	}
	return out
}

// IsGoal reports whether the vacuum has reached the dirt.
func (w *World) IsGoal(pos Coord) bool {
	return pos == w.target
}

// Key returns pos; the coordinate is the canonical state key.
func (w *World) Key(pos Coord) Coord {
	return pos
}

var _ search.Space[Coord, Coord] = (*World)(nil)
