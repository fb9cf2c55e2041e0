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
	"errors"
	"math/rand"

	"github.com/AleutianAI/AleutianSolver/services/solver/search"
)

// ErrNilRand is returned when a generator is called without a random source.
var ErrNilRand = errors.New("random source must not be nil")

// MoveCost is the cost of every tile move.
const MoveCost = 1

// DefaultShuffleMoves is the number of random moves applied by Generate.
const DefaultShuffleMoves = 100

// blankMoves lists the blank's moves in expansion order.
var blankMoves = [...]struct {
	label  string
	dr, dc int
}{
	{"UP", -1, 0},
	{"DOWN", 1, 0},
	{"LEFT", 0, -1},
	{"RIGHT", 0, 1},
}

// Space is the 8-puzzle state space with a fixed goal configuration.
type Space struct {
	goal       Board
	goalPlaces [Size * Size][2]int
}

// NewSpace returns a space whose goal test compares against goal.
func NewSpace(goal Board) (*Space, error) {
	if err := goal.Validate(); err != nil {
		return nil, err
	}
	s := &Space{goal: goal}
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			s.goalPlaces[goal[r][c]] = [2]int{r, c}
		}
	}
	return s, nil
}

// DefaultSpace returns the space targeting Goal().
func DefaultSpace() *Space {
	s, _ := NewSpace(Goal())
	return s
}

// Goal returns the configuration IsGoal compares against.
func (s *Space) Goal() Board { return s.goal }

// Successors slides the blank UP, DOWN, LEFT and RIGHT where the board
// allows it. Every move costs MoveCost.
func (s *Space) Successors(b Board) []search.Transition[Board] {
	br, bc := b.BlankAt()
	out := make([]search.Transition[Board], 0, len(blankMoves))
	for _, m := range blankMoves {
		nr, nc := br+m.dr, bc+m.dc
		if nr < 0 || nr >= Size || nc < 0 || nc >= Size {
			continue
		}
		next := b
		next[br][bc], next[nr][nc] = next[nr][nc], next[br][bc]
		out = append(out, search.Transition[Board]{Label: m.label, Cost: MoveCost, State: next})
	}
	return out
}

// IsGoal reports whether b equals the goal configuration.
func (s *Space) IsGoal(b Board) bool { return b == s.goal }

// Key returns b; boards are comparable by value.
func (s *Space) Key(b Board) Board { return b }

// Manhattan sums, over the non-blank tiles, the distance of each tile from
// its place in the goal configuration.
func (s *Space) Manhattan(b Board) int {
	total := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			v := b[r][c]
			if v == Blank {
				continue
			}
			place := s.goalPlaces[v]
			total += abs(r-place[0]) + abs(c-place[1])
		}
	}
	return total
}

var _ search.Space[Board, Board] = (*Space)(nil)

// Manhattan is the heuristic of the default space.
func Manhattan(b Board) int {
	return defaultSpace.Manhattan(b)
}

var defaultSpace = DefaultSpace()

// Solve validates b and runs a greedy best-first search towards Goal()
// guided by Manhattan. The returned path is not guaranteed to be the
// cheapest.
func Solve(ctx context.Context, b Board, onVisit func(Board) error) (*search.Result[Board], error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return search.Run[Board, Board](ctx, defaultSpace, b, search.Options[Board]{
		Strategy:  search.GreedyBestFirst,
		Heuristic: defaultSpace.Manhattan,
		OnVisit:   onVisit,
	})
}

// Shuffle applies moves random legal blank moves to start. The result is
// always reachable from start and therefore solvable when start is.
func Shuffle(rng *rand.Rand, start Board, moves int) (Board, error) {
	if rng == nil {
		return Board{}, ErrNilRand
	}
	if err := start.Validate(); err != nil {
		return Board{}, err
	}
	b := start
	for i := 0; i < moves; i++ {
		succ := defaultSpace.Successors(b)
		b = succ[rng.Intn(len(succ))].State
	}
	return b, nil
}

// Generate returns Goal() perturbed by moves random legal moves.
// A non-positive moves value uses DefaultShuffleMoves.
func Generate(rng *rand.Rand, moves int) (Board, error) {
	if moves <= 0 {
		moves = DefaultShuffleMoves
	}
	return Shuffle(rng, Goal(), moves)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
