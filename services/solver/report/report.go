// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package report renders search results as human-readable text.
//
// The writers are pure formatters: they take an io.Writer and a finished
// search.Result and never touch the filesystem themselves. Callers decide
// where the text goes (a report file, stdout, an HTTP response).
package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/AleutianAI/AleutianSolver/services/solver/grid"
	"github.com/AleutianAI/AleutianSolver/services/solver/search"
	"github.com/AleutianAI/AleutianSolver/services/solver/tiles"
)

// ErrNilResult is returned when a writer is given a nil result.
var ErrNilResult = errors.New("nil search result")

// Titles printed on the first line of each report.
const (
	GridTitle   = "VACUUM WORLD — BFS"
	PuzzleTitle = "8-PUZZLE — GREEDY BEST-FIRST"
)

// printer accumulates the first write error so formatting code can stay
// linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) println(s string) {
	p.printf("%s\n", s)
}

// WriteGrid writes the vacuum-world report for result, which must come
// from a search over world.
//
// The layout is:
//
//	VACUUM WORLD — BFS
//	Grid:6x6  Vacuum:(r, c)  Dirt:(r, c)
//	Costs: UP=2 DOWN=0 LEFT=1 RIGHT=1
//	Legend: V=Vacuum D=Dirt #=Obstacle .=Empty
//
//	INITIAL BOARD:
//	...
//
//	Step 1: RIGHT -> (0, 1)  (+1, total=1)
//	...
//	GOAL REACHED!  Steps:n  Total Cost:c
//
// When no path exists the step blocks are replaced by a NO SOLUTION block
// followed by the board at the time of failure.
func WriteGrid(w io.Writer, world *grid.World, result *search.Result[grid.Coord]) error {
	if world == nil {
		return grid.ErrInvalidWorld
	}
	if result == nil {
		return ErrNilResult
	}

	p := &printer{w: w}
	p.println(GridTitle)
	p.printf("Grid:%dx%d  Vacuum:%s  Dirt:%s\n", world.Rows(), world.Cols(), world.Start(), world.Target())
	p.printf("Costs: %s\n", world.Costs())
	p.println("Legend: V=Vacuum D=Dirt #=Obstacle .=Empty")
	p.println("")
	p.println("INITIAL BOARD:")
	p.println(world.Draw(world.Start()))
	p.println("")

	if !result.Found {
		p.println("NO SOLUTION — there is no solution because of obstacles.")
		p.println("The dirt cannot be reached. Board at time of failure:")
		p.println("")
		p.println(world.Draw(world.Start()))
		return p.err
	}

	total := 0
	for i, step := range result.Steps {
		total += step.Cost
		p.printf("Step %d: %s -> %s  (+%d, total=%d)\n", i+1, step.Label, step.State, step.Cost, total)
		p.println(world.Draw(step.State))
		p.println("")
	}
	p.printf("GOAL REACHED!  Steps:%d  Total Cost:%d\n", len(result.Steps), result.Cost)
	return p.err
}

// WritePuzzle writes the 8-puzzle report for a greedy run from start.
//
// Each configuration is drawn as a boxed 3x3 grid with the blank left
// empty. Steps are numbered from 1 and show the blank's move, the move
// cost and the running total.
func WritePuzzle(w io.Writer, start tiles.Board, result *search.Result[tiles.Board]) error {
	if result == nil {
		return ErrNilResult
	}

	p := &printer{w: w}
	p.println(PuzzleTitle)
	p.println("Heuristic: Manhattan distance")
	p.printf("Moves: blank UP DOWN LEFT RIGHT, cost %d each\n", tiles.MoveCost)
	p.println("")
	p.println("INITIAL BOARD:")
	p.println(Box(start))
	p.println("")

	if !result.Found {
		p.println("NO SOLUTION — the goal configuration cannot be reached.")
		p.println("Board at time of failure:")
		p.println("")
		p.println(Box(start))
		return p.err
	}

	total := 0
	for i, step := range result.Steps {
		total += step.Cost
		p.printf("Step %d: %s (+%d, total=%d)\n", i+1, step.Label, step.Cost, total)
		p.println(Box(step.State))
		p.println("")
	}
	p.printf("GOAL REACHED!  Steps:%d  Total Cost:%d\n", len(result.Steps), result.Cost)
	return p.err
}

// Box draws b as a bordered grid:
//
//	+---+---+---+
//	| 1 | 2 | 3 |
//	+---+---+---+
func Box(b tiles.Board) string {
	sep := "+" + strings.Repeat("---+", tiles.Size)
	var sb strings.Builder
	sb.WriteString(sep)
	for r := 0; r < tiles.Size; r++ {
		sb.WriteString("\n|")
		for c := 0; c < tiles.Size; c++ {
			cell := " "
			if b[r][c] != tiles.Blank {
				cell = strconv.Itoa(b[r][c])
			}
			sb.WriteString(" " + cell + " |")
		}
		sb.WriteString("\n" + sep)
	}
	return sb.String()
}
